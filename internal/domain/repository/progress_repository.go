package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
)

// TopicProgressRepository は論点進捗リポジトリのインターフェース
type TopicProgressRepository interface {
	// Upsert は進捗を作成または更新します（owner_id + topic_idで一意）
	Upsert(ctx context.Context, progress *entity.TopicProgress) error

	// 検索
	FindByTopic(ctx context.Context, ownerID, topicID uuid.UUID) (*entity.TopicProgress, error)
	FindBySubject(ctx context.Context, ownerID, subjectID uuid.UUID) ([]*entity.TopicProgress, error)
}
