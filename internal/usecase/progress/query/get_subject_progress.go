package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/repository"
	"github.com/nnsi/cpa-study-note-sub000/pkg/apperror"
)

// GetSubjectProgressInput は科目進捗取得の入力を定義します
type GetSubjectProgressInput struct {
	SubjectID uuid.UUID
	UserID    uuid.UUID
}

// GetSubjectProgressOutput は科目進捗取得の出力を定義します
type GetSubjectProgressOutput struct {
	Progresses   []*entity.TopicProgress
	TotalTopics  int
	MasteredRate float64
}

// GetSubjectProgressQuery は科目配下の論点進捗をまとめて取得するクエリです
// 集計対象はアクティブな論点のみです。
type GetSubjectProgressQuery struct {
	subjectRepo  repository.SubjectRepository
	topicRepo    repository.TopicRepository
	progressRepo repository.TopicProgressRepository
}

// NewGetSubjectProgressQuery は新しいGetSubjectProgressQueryを作成します
func NewGetSubjectProgressQuery(
	subjectRepo repository.SubjectRepository,
	topicRepo repository.TopicRepository,
	progressRepo repository.TopicProgressRepository,
) *GetSubjectProgressQuery {
	return &GetSubjectProgressQuery{
		subjectRepo:  subjectRepo,
		topicRepo:    topicRepo,
		progressRepo: progressRepo,
	}
}

// Execute は科目の進捗を取得します
func (q *GetSubjectProgressQuery) Execute(ctx context.Context, input GetSubjectProgressInput) (*GetSubjectProgressOutput, error) {
	subject, err := q.subjectRepo.FindByID(ctx, input.SubjectID)
	if err != nil {
		return nil, err
	}
	if !subject.IsOwnedBy(input.UserID) {
		return nil, apperror.NewNotFoundError("subject")
	}

	topics, err := q.topicRepo.FindBySubject(ctx, subject.ID)
	if err != nil {
		return nil, err
	}
	progresses, err := q.progressRepo.FindBySubject(ctx, input.UserID, subject.ID)
	if err != nil {
		return nil, err
	}

	mastered := 0
	for _, p := range progresses {
		if p.Level.IsMastered() {
			mastered++
		}
	}

	rate := 0.0
	if len(topics) > 0 {
		rate = float64(mastered) / float64(len(topics))
	}

	return &GetSubjectProgressOutput{
		Progresses:   progresses,
		TotalTopics:  len(topics),
		MasteredRate: rate,
	}, nil
}
