package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/valueobject"
)

// Subject は学習科目エンティティ（集約ルート）
// 1つの科目が1つの分類・論点ツリーのルートになります。
type Subject struct {
	ID           uuid.UUID
	OwnerID      uuid.UUID
	Name         valueobject.NodeName
	Description  *string
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

// NewSubject は新しい科目を作成します
func NewSubject(ownerID uuid.UUID, name valueobject.NodeName, description *string, displayOrder int) *Subject {
	now := time.Now()
	return &Subject{
		ID:           uuid.New(),
		OwnerID:      ownerID,
		Name:         name,
		Description:  description,
		DisplayOrder: displayOrder,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// ReconstructSubject はDBから科目を復元します
func ReconstructSubject(
	id uuid.UUID,
	ownerID uuid.UUID,
	name valueobject.NodeName,
	description *string,
	displayOrder int,
	createdAt time.Time,
	updatedAt time.Time,
	deletedAt *time.Time,
) *Subject {
	return &Subject{
		ID:           id,
		OwnerID:      ownerID,
		Name:         name,
		Description:  description,
		DisplayOrder: displayOrder,
		CreatedAt:    createdAt,
		UpdatedAt:    updatedAt,
		DeletedAt:    deletedAt,
	}
}

// Rename は科目名を変更します
func (s *Subject) Rename(name valueobject.NodeName) {
	s.Name = name
	s.UpdatedAt = time.Now()
}

// UpdateDescription は説明を更新します
func (s *Subject) UpdateDescription(description *string) {
	s.Description = description
	s.UpdatedAt = time.Now()
}

// SoftDelete は科目を論理削除します
func (s *Subject) SoftDelete(now time.Time) {
	s.DeletedAt = &now
	s.UpdatedAt = now
}

// IsDeleted は論理削除済みかどうかを判定します
func (s *Subject) IsDeleted() bool {
	return s.DeletedAt != nil
}

// IsOwnedBy は指定ユーザーが所有者かどうかを判定します
func (s *Subject) IsOwnedBy(ownerID uuid.UUID) bool {
	return s.OwnerID == ownerID
}
