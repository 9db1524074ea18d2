package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
)

// SubjectRepository は科目リポジトリのインターフェース
type SubjectRepository interface {
	// 基本CRUD
	Create(ctx context.Context, subject *entity.Subject) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Subject, error)
	Update(ctx context.Context, subject *entity.Subject) error

	// 検索
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Subject, error)

	// 論理削除
	SoftDelete(ctx context.Context, id uuid.UUID) error
}
