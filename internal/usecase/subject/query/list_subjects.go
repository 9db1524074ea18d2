package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/repository"
)

// ListSubjectsInput は科目一覧取得の入力を定義します
type ListSubjectsInput struct {
	UserID uuid.UUID
}

// ListSubjectsOutput は科目一覧取得の出力を定義します
type ListSubjectsOutput struct {
	Subjects []*entity.Subject
}

// ListSubjectsQuery は所有者の科目一覧を取得するクエリです
type ListSubjectsQuery struct {
	subjectRepo repository.SubjectRepository
}

// NewListSubjectsQuery は新しいListSubjectsQueryを作成します
func NewListSubjectsQuery(subjectRepo repository.SubjectRepository) *ListSubjectsQuery {
	return &ListSubjectsQuery{subjectRepo: subjectRepo}
}

// Execute は科目一覧を取得します
func (q *ListSubjectsQuery) Execute(ctx context.Context, input ListSubjectsInput) (*ListSubjectsOutput, error) {
	subjects, err := q.subjectRepo.FindByOwner(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	return &ListSubjectsOutput{Subjects: subjects}, nil
}
