package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
)

// TopicRepository は論点リポジトリのインターフェース
// 論点はsubject_idカラムを持たないため、科目単位の検索は
// 分類テーブルとの結合で行います。
type TopicRepository interface {
	// 基本CRUD
	Create(ctx context.Context, topic *entity.Topic) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Topic, error)
	Update(ctx context.Context, topic *entity.Topic) error

	// 検索
	FindBySubject(ctx context.Context, subjectID uuid.UUID) ([]*entity.Topic, error)
	FindBySubjectIncludingDeleted(ctx context.Context, subjectID uuid.UUID) ([]*entity.Topic, error)

	// 一括論理削除
	BulkSoftDelete(ctx context.Context, ids []uuid.UUID) error

	// PurgeDeletedBefore は保持期限を過ぎた論理削除済み行を物理削除します
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
