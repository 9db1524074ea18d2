package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/repository"
	"github.com/nnsi/cpa-study-note-sub000/pkg/apperror"
)

// GetSubjectInput は科目取得の入力を定義します
type GetSubjectInput struct {
	SubjectID uuid.UUID
	UserID    uuid.UUID
}

// GetSubjectOutput は科目取得の出力を定義します
type GetSubjectOutput struct {
	Subject *entity.Subject
}

// GetSubjectQuery は科目を1件取得するクエリです
// 他人の科目は存在自体を秘匿するためNOT_FOUNDを返します。
type GetSubjectQuery struct {
	subjectRepo repository.SubjectRepository
}

// NewGetSubjectQuery は新しいGetSubjectQueryを作成します
func NewGetSubjectQuery(subjectRepo repository.SubjectRepository) *GetSubjectQuery {
	return &GetSubjectQuery{subjectRepo: subjectRepo}
}

// Execute は科目を取得します
func (q *GetSubjectQuery) Execute(ctx context.Context, input GetSubjectInput) (*GetSubjectOutput, error) {
	subject, err := q.subjectRepo.FindByID(ctx, input.SubjectID)
	if err != nil {
		return nil, err
	}
	if !subject.IsOwnedBy(input.UserID) {
		return nil, apperror.NewNotFoundError("subject")
	}

	return &GetSubjectOutput{Subject: subject}, nil
}
