package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/valueobject"
)

// TopicProgress は論点ごとの学習進捗エンティティ
// 論点が論理削除されても進捗は保持されます（復活時に履歴が残るため）。
type TopicProgress struct {
	ID        uuid.UUID
	OwnerID   uuid.UUID
	TopicID   uuid.UUID
	Level     valueobject.UnderstandingLevel
	Note      *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewTopicProgress は新しい進捗を作成します
func NewTopicProgress(ownerID, topicID uuid.UUID, level valueobject.UnderstandingLevel, note *string) *TopicProgress {
	now := time.Now()
	return &TopicProgress{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		TopicID:   topicID,
		Level:     level,
		Note:      note,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ReconstructTopicProgress はDBから進捗を復元します
func ReconstructTopicProgress(
	id uuid.UUID,
	ownerID uuid.UUID,
	topicID uuid.UUID,
	level valueobject.UnderstandingLevel,
	note *string,
	createdAt time.Time,
	updatedAt time.Time,
) *TopicProgress {
	return &TopicProgress{
		ID:        id,
		OwnerID:   ownerID,
		TopicID:   topicID,
		Level:     level,
		Note:      note,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// Update は理解度とメモを更新します
func (p *TopicProgress) Update(level valueobject.UnderstandingLevel, note *string) {
	p.Level = level
	p.Note = note
	p.UpdatedAt = time.Now()
}
