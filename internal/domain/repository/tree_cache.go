package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
)

// TreeSnapshotCache はツリー読み取りモデルのキャッシュインターフェース
// 同期・インポートで書き込みが発生したらInvalidateで破棄します。
type TreeSnapshotCache interface {
	// Get はキャッシュ済みツリーを返します（未キャッシュならnil, nil）
	Get(ctx context.Context, subjectID uuid.UUID) (*entity.SubjectTree, error)

	// Set はツリーをキャッシュします
	Set(ctx context.Context, tree *entity.SubjectTree) error

	// Invalidate は科目のキャッシュを破棄します
	Invalidate(ctx context.Context, subjectID uuid.UUID) error
}
