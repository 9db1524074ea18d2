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

// TopicRepository は論点リポジトリの実装です
// 論点はsubject_idカラムを持たないため、科目単位の検索は
// 分類テーブルとの結合で行います。
type TopicRepository struct {
	*database.BaseRepository
}

var _ repository.TopicRepository = (*TopicRepository)(nil)

// NewTopicRepository は新しいTopicRepositoryを作成します
func NewTopicRepository(txManager *database.TxManager) *TopicRepository {
	return &TopicRepository{
		BaseRepository: database.NewBaseRepository(txManager),
	}
}

const topicColumns = "t.id, t.owner_id, t.category_id, t.name, t.description, t.difficulty, t.display_order, t.created_at, t.updated_at, t.deleted_at"

// Create は論点を作成します
func (r *TopicRepository) Create(ctx context.Context, topic *entity.Topic) error {
	querier := r.Querier(ctx)

	_, err := querier.Exec(ctx, `
		INSERT INTO topics (id, owner_id, category_id, name, description, difficulty, display_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		topic.ID,
		topic.OwnerID,
		topic.CategoryID,
		topic.Name.String(),
		topic.Description,
		topic.Difficulty.String(),
		topic.DisplayOrder,
		topic.CreatedAt,
		topic.UpdatedAt,
	)

	return r.HandleError(err)
}

// FindByID はIDで論点を検索します（論理削除済みは対象外）
func (r *TopicRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Topic, error) {
	querier := r.Querier(ctx)

	row := querier.QueryRow(ctx, `
		SELECT `+topicColumns+`
		FROM topics t
		WHERE t.id = $1 AND t.deleted_at IS NULL`,
		id,
	)

	topic, err := scanTopic(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("topic")
		}
		return nil, r.HandleError(err)
	}

	return topic, nil
}

// Update は論点を更新します（復活時のdeleted_atクリアもここで反映）
func (r *TopicRepository) Update(ctx context.Context, topic *entity.Topic) error {
	querier := r.Querier(ctx)

	_, err := querier.Exec(ctx, `
		UPDATE topics
		SET category_id = $2, name = $3, description = $4, difficulty = $5, display_order = $6, updated_at = $7, deleted_at = $8
		WHERE id = $1`,
		topic.ID,
		topic.CategoryID,
		topic.Name.String(),
		topic.Description,
		topic.Difficulty.String(),
		topic.DisplayOrder,
		topic.UpdatedAt,
		topic.DeletedAt,
	)

	return r.HandleError(err)
}

// FindBySubject は科目のアクティブな論点を返します
func (r *TopicRepository) FindBySubject(ctx context.Context, subjectID uuid.UUID) ([]*entity.Topic, error) {
	return r.findBySubject(ctx, subjectID, false)
}

// FindBySubjectIncludingDeleted は論理削除済みを含む科目の論点を返します
func (r *TopicRepository) FindBySubjectIncludingDeleted(ctx context.Context, subjectID uuid.UUID) ([]*entity.Topic, error) {
	return r.findBySubject(ctx, subjectID, true)
}

func (r *TopicRepository) findBySubject(ctx context.Context, subjectID uuid.UUID, includeDeleted bool) ([]*entity.Topic, error) {
	querier := r.Querier(ctx)

	query := `
		SELECT ` + topicColumns + `
		FROM topics t
		JOIN categories c ON c.id = t.category_id
		WHERE c.subject_id = $1`
	if !includeDeleted {
		query += " AND t.deleted_at IS NULL"
	}
	query += " ORDER BY t.display_order, t.created_at"

	rows, err := querier.Query(ctx, query, subjectID)
	if err != nil {
		return nil, r.HandleError(err)
	}
	defer rows.Close()

	var topics []*entity.Topic
	for rows.Next() {
		topic, err := scanTopic(rows)
		if err != nil {
			return nil, r.HandleError(err)
		}
		topics = append(topics, topic)
	}
	if err := rows.Err(); err != nil {
		return nil, r.HandleError(err)
	}

	return topics, nil
}

// BulkSoftDelete は論点を一括論理削除します
func (r *TopicRepository) BulkSoftDelete(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	querier := r.Querier(ctx)

	now := time.Now()
	_, err := querier.Exec(ctx, `
		UPDATE topics
		SET deleted_at = $2, updated_at = $2
		WHERE id = ANY($1) AND deleted_at IS NULL`,
		ids,
		now,
	)

	return r.HandleError(err)
}

// PurgeDeletedBefore は保持期限を過ぎた論理削除済み行を物理削除します
// 進捗レコードはON DELETE CASCADEで一緒に消えます。
func (r *TopicRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := r.Querier(ctx)

	tag, err := querier.Exec(ctx, `
		DELETE FROM topics
		WHERE deleted_at < $1`,
		cutoff,
	)
	if err != nil {
		return 0, r.HandleError(err)
	}

	return tag.RowsAffected(), nil
}

// scanTopic は1行をエンティティに変換します
func scanTopic(row pgx.Row) (*entity.Topic, error) {
	var (
		id           uuid.UUID
		ownerID      uuid.UUID
		categoryID   uuid.UUID
		name         string
		description  *string
		difficulty   string
		displayOrder int
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    *time.Time
	)

	if err := row.Scan(&id, &ownerID, &categoryID, &name, &description, &difficulty, &displayOrder, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	nodeName, err := valueobject.NewNodeName(name)
	if err != nil {
		return nil, err
	}
	difficultyValue, err := valueobject.NewDifficulty(difficulty)
	if err != nil {
		return nil, err
	}

	return entity.ReconstructTopic(
		id, ownerID, categoryID, nodeName, description,
		difficultyValue, displayOrder, createdAt, updatedAt, deletedAt,
	), nil
}
