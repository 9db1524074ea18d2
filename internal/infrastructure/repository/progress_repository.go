package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/repository"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/valueobject"
	"github.com/nnsi/cpa-study-note-sub000/internal/infrastructure/database"
	"github.com/nnsi/cpa-study-note-sub000/pkg/apperror"
)

// TopicProgressRepository は論点進捗リポジトリの実装です
type TopicProgressRepository struct {
	*database.BaseRepository
}

var _ repository.TopicProgressRepository = (*TopicProgressRepository)(nil)

// NewTopicProgressRepository は新しいTopicProgressRepositoryを作成します
func NewTopicProgressRepository(txManager *database.TxManager) *TopicProgressRepository {
	return &TopicProgressRepository{
		BaseRepository: database.NewBaseRepository(txManager),
	}
}

const progressColumns = "p.id, p.owner_id, p.topic_id, p.level, p.note, p.created_at, p.updated_at"

// Upsert は進捗を作成または更新します（owner_id + topic_idで一意）
func (r *TopicProgressRepository) Upsert(ctx context.Context, progress *entity.TopicProgress) error {
	querier := r.Querier(ctx)

	_, err := querier.Exec(ctx, `
		INSERT INTO topic_progress (id, owner_id, topic_id, level, note, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (owner_id, topic_id)
		DO UPDATE SET level = EXCLUDED.level, note = EXCLUDED.note, updated_at = EXCLUDED.updated_at`,
		progress.ID,
		progress.OwnerID,
		progress.TopicID,
		progress.Level.Int(),
		progress.Note,
		progress.CreatedAt,
		progress.UpdatedAt,
	)

	return r.HandleError(err)
}

// FindByTopic は論点の進捗を検索します
func (r *TopicProgressRepository) FindByTopic(ctx context.Context, ownerID, topicID uuid.UUID) (*entity.TopicProgress, error) {
	querier := r.Querier(ctx)

	row := querier.QueryRow(ctx, `
		SELECT `+progressColumns+`
		FROM topic_progress p
		WHERE p.owner_id = $1 AND p.topic_id = $2`,
		ownerID,
		topicID,
	)

	progress, err := scanProgress(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("topic progress")
		}
		return nil, r.HandleError(err)
	}

	return progress, nil
}

// FindBySubject は科目配下のアクティブな論点の進捗一覧を返します
func (r *TopicProgressRepository) FindBySubject(ctx context.Context, ownerID, subjectID uuid.UUID) ([]*entity.TopicProgress, error) {
	querier := r.Querier(ctx)

	rows, err := querier.Query(ctx, `
		SELECT `+progressColumns+`
		FROM topic_progress p
		JOIN topics t ON t.id = p.topic_id
		JOIN categories c ON c.id = t.category_id
		WHERE p.owner_id = $1 AND c.subject_id = $2 AND t.deleted_at IS NULL`,
		ownerID,
		subjectID,
	)
	if err != nil {
		return nil, r.HandleError(err)
	}
	defer rows.Close()

	var progresses []*entity.TopicProgress
	for rows.Next() {
		progress, err := scanProgress(rows)
		if err != nil {
			return nil, r.HandleError(err)
		}
		progresses = append(progresses, progress)
	}
	if err := rows.Err(); err != nil {
		return nil, r.HandleError(err)
	}

	return progresses, nil
}

// scanProgress は1行をエンティティに変換します
func scanProgress(row pgx.Row) (*entity.TopicProgress, error) {
	var (
		id        uuid.UUID
		ownerID   uuid.UUID
		topicID   uuid.UUID
		level     int
		note      *string
		createdAt time.Time
		updatedAt time.Time
	)

	if err := row.Scan(&id, &ownerID, &topicID, &level, &note, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	levelValue, err := valueobject.NewUnderstandingLevel(level)
	if err != nil {
		return nil, err
	}

	return entity.ReconstructTopicProgress(id, ownerID, topicID, levelValue, note, createdAt, updatedAt), nil
}
