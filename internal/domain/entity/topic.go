package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/valueobject"
)

// Topic は論点エンティティ
// 必ず1つの分類に所属します。論理削除された論点の進捗レコードは
// 参照整合性のため物理削除しません。
type Topic struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	CategoryID   uuid.UUID
	Name         valueobject.NodeName
	Description  *string
	Difficulty   valueobject.Difficulty
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// NewTopic は新しい論点を作成します
func NewTopic(
	ownerID uuid.UUID,
	categoryID uuid.UUID,
	name valueobject.NodeName,
	description *string,
	difficulty valueobject.Difficulty,
	displayOrder int,
) *Topic {
	now := time.Now()
	return &Topic{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		CategoryID:   categoryID,
		Name:         name,
		Description:  description,
		Difficulty:   difficulty,
		DisplayOrder: displayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ReconstructTopic はDBから論点を復元します
func ReconstructTopic(
	id uuid.UUID,
	ownerID uuid.UUID,
	categoryID uuid.UUID,
	name valueobject.NodeName,
	description *string,
	difficulty valueobject.Difficulty,
	displayOrder int,
	createdAt time.Time,
	updatedAt time.Time,
	deletedAt *time.Time,
) *Topic {
	return &Topic{
		ID:           id,
		OwnerID:      ownerID,
		CategoryID:   categoryID,
		Name:         name,
		Description:  description,
		Difficulty:   difficulty,
		DisplayOrder: displayOrder,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
	}
}

// Overwrite は送信された内容で可変フィールドを全て上書きします
// 復活は新旧のマージではなく送信値による完全上書きです。
func (t *Topic) Overwrite(
	categoryID uuid.UUID,
	name valueobject.NodeName,
	description *string,
	difficulty valueobject.Difficulty,
	displayOrder int,
	now time.Time,
) {
	t.CategoryID = categoryID
	t.Name = name
	t.Description = description
	t.Difficulty = difficulty
	t.DisplayOrder = displayOrder
	t.DeletedAt = nil
	t.UpdatedAt = now
}

// SoftDelete は論点を論理削除します
func (t *Topic) SoftDelete(now time.Time) {
	t.DeletedAt = &now
	t.UpdatedAt = now
}

// IsDeleted は論理削除済みかどうかを判定します
func (t *Topic) IsDeleted() bool {
	return t.DeletedAt != nil
}

// IsOwnedBy は指定ユーザーが所有者かどうかを判定します
func (t *Topic) IsOwnedBy(ownerID uuid.UUID) bool {
	return t.OwnerID == ownerID
}
