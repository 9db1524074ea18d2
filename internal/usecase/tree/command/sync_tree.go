package command

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/repository"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/service"
	"github.com/nnsi/cpa-study-note-sub000/pkg/apperror"
	"github.com/nnsi/cpa-study-note-sub000/pkg/logger"
)

// SyncTreeInput はツリー同期の入力を定義します
type SyncTreeInput struct {
	SubjectID uuid.UUID
	UserID    uuid.UUID
	Tree      *service.SubmittedTree
}

// SyncTreeOutput はツリー同期の出力を定義します
type SyncTreeOutput struct {
	Tree *entity.SubjectTree
}

// SyncTreeCommand は科目のツリー全体を送信内容と一致させるコマンドです
// 送信に含まれないアクティブな行は論理削除され、削除済みIDの再送信は
// 復活として扱われます。書き込みは全て1トランザクションで行います。
type SyncTreeCommand struct {
	subjectRepo  repository.SubjectRepository
	categoryRepo repository.CategoryRepository
	topicRepo    repository.TopicRepository
	planner      service.TreePlanner
	treeCache    repository.TreeSnapshotCache
	txManager    repository.TransactionManager
}

// NewSyncTreeCommand は新しいSyncTreeCommandを作成します
func NewSyncTreeCommand(
	subjectRepo repository.SubjectRepository,
	categoryRepo repository.CategoryRepository,
	topicRepo repository.TopicRepository,
	planner service.TreePlanner,
	treeCache repository.TreeSnapshotCache,
	txManager repository.TransactionManager,
) *SyncTreeCommand {
	return &SyncTreeCommand{
		subjectRepo:  subjectRepo,
		categoryRepo: categoryRepo,
		topicRepo:    topicRepo,
		planner:      planner,
		treeCache:    treeCache,
		txManager:    txManager,
	}
}

// Execute はツリーを同期します
func (c *SyncTreeCommand) Execute(ctx context.Context, input SyncTreeInput) (*SyncTreeOutput, error) {
	// 1. 科目取得・所有者チェック
	subject, err := findOwnedSubject(ctx, c.subjectRepo, input.SubjectID, input.UserID)
	if err != nil {
		return nil, err
	}

	// 2. 書き込み計画を作成
	plan, err := buildTreePlan(ctx, c.categoryRepo, c.topicRepo, c.planner, subject, input.Tree)
	if err != nil {
		return nil, err
	}

	// 3. トランザクションで計画を適用
	if err := applyTreePlan(ctx, c.txManager, c.categoryRepo, c.topicRepo, plan); err != nil {
		return nil, err
	}

	// 4. キャッシュ破棄（失敗してもTTLで回収されるため同期自体は成功扱い）
	if err := c.treeCache.Invalidate(ctx, subject.ID); err != nil {
		logger.Warn(ctx, "failed to invalidate tree cache", "subject_id", subject.ID, "error", err)
	}

	// 5. 確定後の状態を読み直して返す
	tree, err := loadSubjectTree(ctx, c.categoryRepo, c.topicRepo, subject)
	if err != nil {
		return nil, err
	}

	return &SyncTreeOutput{Tree: tree}, nil
}

// findOwnedSubject は科目を取得し、所有者を検証します
// 他人の科目は存在自体を秘匿するためNOT_FOUNDを返します。
func findOwnedSubject(
	ctx context.Context,
	subjectRepo repository.SubjectRepository,
	subjectID uuid.UUID,
	userID uuid.UUID,
) (*entity.Subject, error) {
	subject, err := subjectRepo.FindByID(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if !subject.IsOwnedBy(userID) {
		return nil, apperror.NewNotFoundError("subject")
	}
	return subject, nil
}

// buildTreePlan は削除済みを含む既存行を読み込み、書き込み計画を作成します
func buildTreePlan(
	ctx context.Context,
	categoryRepo repository.CategoryRepository,
	topicRepo repository.TopicRepository,
	planner service.TreePlanner,
	subject *entity.Subject,
	tree *service.SubmittedTree,
) (*service.TreePlan, error) {
	existingCategories, err := categoryRepo.FindBySubjectIncludingDeleted(ctx, subject.ID)
	if err != nil {
		return nil, err
	}
	existingTopics, err := topicRepo.FindBySubjectIncludingDeleted(ctx, subject.ID)
	if err != nil {
		return nil, err
	}

	plan, err := planner.Plan(subject.ID, subject.OwnerID, service.Flatten(tree), existingCategories, existingTopics, time.Now())
	if err != nil {
		var invalidErr *service.InvalidNodeIDError
		if errors.As(err, &invalidErr) {
			return nil, apperror.NewInvalidIDError(invalidErr.Refs)
		}
		return nil, apperror.NewValidationError(err.Error(), nil)
	}

	return plan, nil
}

// applyTreePlan は書き込み計画を1トランザクションで適用します
// 分類は親が先に並んでいるため、先頭から順に書き込みます。
func applyTreePlan(
	ctx context.Context,
	txManager repository.TransactionManager,
	categoryRepo repository.CategoryRepository,
	topicRepo repository.TopicRepository,
	plan *service.TreePlan,
) error {
	err := txManager.WithTransaction(ctx, func(ctx context.Context) error {
		for _, upsert := range plan.CategoryUpserts {
			if upsert.IsNew {
				if err := categoryRepo.Create(ctx, upsert.Category); err != nil {
					return err
				}
				continue
			}
			if err := categoryRepo.Update(ctx, upsert.Category); err != nil {
				return err
			}
		}

		for _, upsert := range plan.TopicUpserts {
			if upsert.IsNew {
				if err := topicRepo.Create(ctx, upsert.Topic); err != nil {
					return err
				}
				continue
			}
			if err := topicRepo.Update(ctx, upsert.Topic); err != nil {
				return err
			}
		}

		if err := topicRepo.BulkSoftDelete(ctx, plan.TopicDeleteIDs); err != nil {
			return err
		}
		if err := categoryRepo.BulkSoftDelete(ctx, plan.CategoryDeleteIDs); err != nil {
			return err
		}

		return nil
	})
	if err != nil {
		return apperror.NewTransactionFailedError(err)
	}

	return nil
}

// loadSubjectTree はアクティブな行からツリーを組み立てます
func loadSubjectTree(
	ctx context.Context,
	categoryRepo repository.CategoryRepository,
	topicRepo repository.TopicRepository,
	subject *entity.Subject,
) (*entity.SubjectTree, error) {
	categories, err := categoryRepo.FindBySubject(ctx, subject.ID)
	if err != nil {
		return nil, err
	}
	topics, err := topicRepo.FindBySubject(ctx, subject.ID)
	if err != nil {
		return nil, err
	}
	return entity.AssembleSubjectTree(subject, categories, topics), nil
}
