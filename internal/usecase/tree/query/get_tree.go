package query

import (
	"context"

	"github.com/google/uuid"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/repository"
	"github.com/nnsi/cpa-study-note-sub000/pkg/apperror"
	"github.com/nnsi/cpa-study-note-sub000/pkg/logger"
)

// GetTreeInput はツリー取得の入力を定義します
type GetTreeInput struct {
	SubjectID uuid.UUID
	UserID    uuid.UUID
}

// GetTreeOutput はツリー取得の出力を定義します
type GetTreeOutput struct {
	Tree *entity.SubjectTree
}

// GetTreeQuery は科目のツリーを取得するクエリです
// ツリーが空でも成功です。NOT_FOUNDは科目が存在しないか
// 他人の科目の場合のみ返します。
type GetTreeQuery struct {
	subjectRepo  repository.SubjectRepository
	categoryRepo repository.CategoryRepository
	topicRepo    repository.TopicRepository
	treeCache    repository.TreeSnapshotCache
}

// NewGetTreeQuery は新しいGetTreeQueryを作成します
func NewGetTreeQuery(
	subjectRepo repository.SubjectRepository,
	categoryRepo repository.CategoryRepository,
	topicRepo repository.TopicRepository,
	treeCache repository.TreeSnapshotCache,
) *GetTreeQuery {
	return &GetTreeQuery{
		subjectRepo:  subjectRepo,
		categoryRepo: categoryRepo,
		topicRepo:    topicRepo,
		treeCache:    treeCache,
	}
}

// Execute はツリーを取得します
func (q *GetTreeQuery) Execute(ctx context.Context, input GetTreeInput) (*GetTreeOutput, error) {
	// 1. 科目取得・所有者チェック
	subject, err := q.subjectRepo.FindByID(ctx, input.SubjectID)
	if err != nil {
		return nil, err
	}
	if !subject.IsOwnedBy(input.UserID) {
		return nil, apperror.NewNotFoundError("subject")
	}

	// 2. キャッシュヒットならそのまま返す（キャッシュ異常は読み直しで回復）
	cached, err := q.treeCache.Get(ctx, subject.ID)
	if err != nil {
		logger.Warn(ctx, "failed to read tree cache", "subject_id", subject.ID, "error", err)
	}
	if cached != nil {
		return &GetTreeOutput{Tree: cached}, nil
	}

	// 3. アクティブな行からツリーを組み立てる
	categories, err := q.categoryRepo.FindBySubject(ctx, subject.ID)
	if err != nil {
		return nil, err
	}
	topics, err := q.topicRepo.FindBySubject(ctx, subject.ID)
	if err != nil {
		return nil, err
	}
	tree := entity.AssembleSubjectTree(subject, categories, topics)

	// 4. 次回のためにキャッシュする
	if err := q.treeCache.Set(ctx, tree); err != nil {
		logger.Warn(ctx, "failed to write tree cache", "subject_id", subject.ID, "error", err)
	}

	return &GetTreeOutput{Tree: tree}, nil
}
