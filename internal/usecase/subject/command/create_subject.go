package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/repository"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/valueobject"
	"github.com/nnsi/cpa-study-note-sub000/pkg/apperror"
)

// CreateSubjectInput は科目作成の入力を定義します
type CreateSubjectInput struct {
	UserID       uuid.UUID
	Name         string
	Description  *string
	DisplayOrder int
}

// CreateSubjectOutput は科目作成の出力を定義します
type CreateSubjectOutput struct {
	Subject *entity.Subject
}

// CreateSubjectCommand は科目を作成するコマンドです
type CreateSubjectCommand struct {
	subjectRepo repository.SubjectRepository
}

// NewCreateSubjectCommand は新しいCreateSubjectCommandを作成します
func NewCreateSubjectCommand(subjectRepo repository.SubjectRepository) *CreateSubjectCommand {
	return &CreateSubjectCommand{subjectRepo: subjectRepo}
}

// Execute は科目を作成します
func (c *CreateSubjectCommand) Execute(ctx context.Context, input CreateSubjectInput) (*CreateSubjectOutput, error) {
	name, err := valueobject.NewNodeName(input.Name)
	if err != nil {
		return nil, apperror.NewValidationError(err.Error(), []apperror.FieldError{
			{Field: "name", Message: err.Error()},
		})
	}

	subject := entity.NewSubject(input.UserID, name, input.Description, input.DisplayOrder)
	if err := c.subjectRepo.Create(ctx, subject); err != nil {
		return nil, err
	}

	return &CreateSubjectOutput{Subject: subject}, nil
}
