package worker

import (
	"context"
	"time"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/repository"
	"github.com/nnsi/cpa-study-note-sub000/pkg/logger"
)

// DefaultPurgeRetention は論理削除済み行の保持期間のデフォルト値
const DefaultPurgeRetention = 30 * 24 * time.Hour

// NewPurgeDeletedJob は保持期限を過ぎた論理削除済み行を物理削除するジョブを作成します
// 論点を先に消すことで、子を失った分類が次回以降の実行で消えます。
func NewPurgeDeletedJob(
	categoryRepo repository.CategoryRepository,
	topicRepo repository.TopicRepository,
	retention time.Duration,
) Job {
	return Job{
		Name:     "purge_deleted_nodes",
		Interval: 24 * time.Hour,
		Fn: func(ctx context.Context) error {
			cutoff := time.Now().Add(-retention)

			topics, err := topicRepo.PurgeDeletedBefore(ctx, cutoff)
			if err != nil {
				return err
			}
			categories, err := categoryRepo.PurgeDeletedBefore(ctx, cutoff)
			if err != nil {
				return err
			}

			if topics > 0 || categories > 0 {
				logger.Info(ctx, "purged soft-deleted rows",
					"topics", topics,
					"categories", categories,
					"cutoff", cutoff,
				)
			}
			return nil
		},
	}
}
