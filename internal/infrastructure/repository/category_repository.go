package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/repository"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/valueobject"
	"github.com/nnsi/cpa-study-note-sub000/internal/infrastructure/database"
)

// CategoryRepository は分類リポジトリの実装です
type CategoryRepository struct {
	*database.BaseRepository
}

var _ repository.CategoryRepository = (*CategoryRepository)(nil)

// NewCategoryRepository は新しいCategoryRepositoryを作成します
func NewCategoryRepository(txManager *database.TxManager) *CategoryRepository {
	return &CategoryRepository{
		BaseRepository: database.NewBaseRepository(txManager),
	}
}

const categoryColumns = "id, owner_id, subject_id, name, depth, parent_id, display_order, created_at, updated_at, deleted_at"

// Create は分類を作成します
func (r *CategoryRepository) Create(ctx context.Context, category *entity.Category) error {
	querier := r.Querier(ctx)

	_, err := querier.Exec(ctx, `
		INSERT INTO categories (id, owner_id, subject_id, name, depth, parent_id, display_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		category.ID,
		category.OwnerID,
		category.SubjectID,
		category.Name.String(),
		category.Depth,
		uuidToPgtype(category.ParentID),
		category.DisplayOrder,
		category.CreatedAt,
		category.UpdatedAt,
	)

	return r.HandleError(err)
}

// Update は分類を更新します（復活時のdeleted_atクリアもここで反映）
func (r *CategoryRepository) Update(ctx context.Context, category *entity.Category) error {
	querier := r.Querier(ctx)

	_, err := querier.Exec(ctx, `
		UPDATE categories
		SET name = $2, depth = $3, parent_id = $4, display_order = $5, updated_at = $6, deleted_at = $7
		WHERE id = $1`,
		category.ID,
		category.Name.String(),
		category.Depth,
		uuidToPgtype(category.ParentID),
		category.DisplayOrder,
		category.UpdatedAt,
		category.DeletedAt,
	)

	return r.HandleError(err)
}

// FindBySubject は科目のアクティブな分類を返します
func (r *CategoryRepository) FindBySubject(ctx context.Context, subjectID uuid.UUID) ([]*entity.Category, error) {
	return r.findBySubject(ctx, subjectID, false)
}

// FindBySubjectIncludingDeleted は論理削除済みを含む科目の分類を返します
func (r *CategoryRepository) FindBySubjectIncludingDeleted(ctx context.Context, subjectID uuid.UUID) ([]*entity.Category, error) {
	return r.findBySubject(ctx, subjectID, true)
}

func (r *CategoryRepository) findBySubject(ctx context.Context, subjectID uuid.UUID, includeDeleted bool) ([]*entity.Category, error) {
	querier := r.Querier(ctx)

	query := `
		SELECT ` + categoryColumns + `
		FROM categories
		WHERE subject_id = $1`
	if !includeDeleted {
		query += " AND deleted_at IS NULL"
	}
	query += " ORDER BY depth, display_order, created_at"

	rows, err := querier.Query(ctx, query, subjectID)
	if err != nil {
		return nil, r.HandleError(err)
	}
	defer rows.Close()

	var categories []*entity.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, r.HandleError(err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, r.HandleError(err)
	}

	return categories, nil
}

// BulkSoftDelete は分類を一括論理削除します
func (r *CategoryRepository) BulkSoftDelete(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}

	querier := r.Querier(ctx)

	now := time.Now()
	_, err := querier.Exec(ctx, `
		UPDATE categories
		SET deleted_at = $2, updated_at = $2
		WHERE id = ANY($1) AND deleted_at IS NULL`,
		ids,
		now,
	)

	return r.HandleError(err)
}

// PurgeDeletedBefore は保持期限を過ぎた論理削除済み行を物理削除します
// 子分類・論点が残っている行は次回以降の実行に持ち越されます。
func (r *CategoryRepository) PurgeDeletedBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	querier := r.Querier(ctx)

	tag, err := querier.Exec(ctx, `
		DELETE FROM categories c
		WHERE c.deleted_at < $1
		  AND NOT EXISTS (SELECT 1 FROM categories ch WHERE ch.parent_id = c.id)
		  AND NOT EXISTS (SELECT 1 FROM topics t WHERE t.category_id = c.id)`,
		cutoff,
	)
	if err != nil {
		return 0, r.HandleError(err)
	}

	return tag.RowsAffected(), nil
}

// scanCategory は1行をエンティティに変換します
func scanCategory(row pgx.Row) (*entity.Category, error) {
	var (
		id           uuid.UUID
		ownerID      uuid.UUID
		subjectID    uuid.UUID
		name         string
		depth        int
		parentID     pgtype.UUID
		displayOrder int
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    *time.Time
	)

	if err := row.Scan(&id, &ownerID, &subjectID, &name, &depth, &parentID, &displayOrder, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	nodeName, err := valueobject.NewNodeName(name)
	if err != nil {
		return nil, err
	}

	return entity.ReconstructCategory(
		id, ownerID, subjectID, nodeName, depth,
		pgtypeToUUID(parentID), displayOrder, createdAt, updatedAt, deletedAt,
	), nil
}
