package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/repository"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/valueobject"
	"github.com/nnsi/cpa-study-note-sub000/pkg/apperror"
	"github.com/nnsi/cpa-study-note-sub000/pkg/logger"
)

// UpdateSubjectInput は科目更新の入力を定義します
type UpdateSubjectInput struct {
	SubjectID   uuid.UUID
	UserID      uuid.UUID
	Name        string
	Description *string
}

// UpdateSubjectOutput は科目更新の出力を定義します
type UpdateSubjectOutput struct {
	Subject *entity.Subject
}

// UpdateSubjectCommand は科目を更新するコマンドです
// ツリーのキャッシュは科目名を含むため、更新後に破棄します。
type UpdateSubjectCommand struct {
	subjectRepo repository.SubjectRepository
	treeCache   repository.TreeSnapshotCache
}

// NewUpdateSubjectCommand は新しいUpdateSubjectCommandを作成します
func NewUpdateSubjectCommand(
	subjectRepo repository.SubjectRepository,
	treeCache repository.TreeSnapshotCache,
) *UpdateSubjectCommand {
	return &UpdateSubjectCommand{
		subjectRepo: subjectRepo,
		treeCache:   treeCache,
	}
}

// Execute は科目を更新します
func (c *UpdateSubjectCommand) Execute(ctx context.Context, input UpdateSubjectInput) (*UpdateSubjectOutput, error) {
	subject, err := c.subjectRepo.FindByID(ctx, input.SubjectID)
	if err != nil {
		return nil, err
	}
	if !subject.IsOwnedBy(input.UserID) {
		return nil, apperror.NewNotFoundError("subject")
	}

	name, err := valueobject.NewNodeName(input.Name)
	if err != nil {
		return nil, apperror.NewValidationError(err.Error(), []apperror.FieldError{
			{Field: "name", Message: err.Error()},
		})
	}

	subject.Rename(name)
	subject.UpdateDescription(input.Description)

	if err := c.subjectRepo.Update(ctx, subject); err != nil {
		return nil, err
	}

	if err := c.treeCache.Invalidate(ctx, subject.ID); err != nil {
		logger.Warn(ctx, "failed to invalidate tree cache", "subject_id", subject.ID, "error", err)
	}

	return &UpdateSubjectOutput{Subject: subject}, nil
}
