package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/valueobject"
)

// 分類関連の定数
const (
	// MaxCategoryDepth は分類の最大深さ（0 = 大分類, 1 = 小分類）
	MaxCategoryDepth = 1
)

// 分類関連エラー
var (
	ErrCategoryMaxDepthExceeded = errors.New("category max depth exceeded")
	ErrCategoryParentRequired   = errors.New("non-root category requires a parent")
)

// Category は分類エンティティ
// depth 0 が大分類、depth 1 が小分類。親子関係はポインタグラフではなく
// 深さとparent_id外部キーを持つフラットな行として表現します。
type Category struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	SubjectID    uuid.UUID
	Name         valueobject.NodeName
	Depth        int
	ParentID     *uuid.UUID
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// NewCategory は新しい分類を作成します
func NewCategory(
	ownerID uuid.UUID,
	subjectID uuid.UUID,
	name valueobject.NodeName,
	depth int,
	parentID *uuid.UUID,
	displayOrder int,
) (*Category, error) {
	if depth > MaxCategoryDepth {
		return nil, ErrCategoryMaxDepthExceeded
	}
	if depth > 0 && parentID == nil {
		return nil, ErrCategoryParentRequired
	}

	now := time.Now()
	return &Category{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		SubjectID:    subjectID,
		Name:         name,
		Depth:        depth,
		ParentID:     parentID,
		DisplayOrder: displayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ReconstructCategory はDBから分類を復元します
func ReconstructCategory(
	id uuid.UUID,
	ownerID uuid.UUID,
	subjectID uuid.UUID,
	name valueobject.NodeName,
	depth int,
	parentID *uuid.UUID,
	displayOrder int,
	createdAt time.Time,
	updatedAt time.Time,
	deletedAt *time.Time,
) *Category {
	return &Category{
		ID:           id,
		OwnerID:      ownerID,
		SubjectID:    subjectID,
		Name:         name,
		Depth:        depth,
		ParentID:     parentID,
		DisplayOrder: displayOrder,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
	}
}

// Overwrite は送信された内容で可変フィールドを全て上書きします
// 論理削除済みの行が再送信された場合の復活もここで行います。
// 復活は新旧のマージではなく送信値による完全上書きです。
func (c *Category) Overwrite(
	name valueobject.NodeName,
	depth int,
	parentID *uuid.UUID,
	displayOrder int,
	now time.Time,
) {
	c.Name = name
	c.Depth = depth
	c.ParentID = parentID
	c.DisplayOrder = displayOrder
	c.DeletedAt = nil
	c.UpdatedAt = now
}

// SoftDelete は分類を論理削除します
func (c *Category) SoftDelete(now time.Time) {
	c.DeletedAt = &now
	c.UpdatedAt = now
}

// IsDeleted は論理削除済みかどうかを判定します
func (c *Category) IsDeleted() bool {
	return c.DeletedAt != nil
}

// IsRoot は大分類かどうかを判定します
func (c *Category) IsRoot() bool {
	return c.Depth == 0
}

// IsOwnedBy は指定ユーザーが所有者かどうかを判定します
func (c *Category) IsOwnedBy(ownerID uuid.UUID) bool {
	return c.OwnerID == ownerID
}
