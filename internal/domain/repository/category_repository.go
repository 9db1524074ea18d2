package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
)

// CategoryRepository は分類リポジトリのインターフェース
// 同期処理は論理削除済みの行も識別子解決の対象とするため、
// 削除済みを含む検索を分けて提供します。
type CategoryRepository interface {
	// 基本CRUD
	Create(ctx context.Context, category *entity.Category) error
	Update(ctx context.Context, category *entity.Category) error

	// 検索
	FindBySubject(ctx context.Context, subjectID uuid.UUID) ([]*entity.Category, error)
	FindBySubjectIncludingDeleted(ctx context.Context, subjectID uuid.UUID) ([]*entity.Category, error)

	// 一括論理削除
	BulkSoftDelete(ctx context.Context, ids []uuid.UUID) error

	// PurgeDeletedBefore は保持期限を過ぎた論理削除済み行を物理削除します
	// 子分類・論点が残っている行は参照整合性のため削除しません。
	PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
