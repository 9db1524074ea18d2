package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/entity"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/repository"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/valueobject"
	"github.com/nnsi/cpa-study-note-sub000/internal/infrastructure/database"
	"github.com/nnsi/cpa-study-note-sub000/pkg/apperror"
)

// SubjectRepository は科目リポジトリの実装です
type SubjectRepository struct {
	*database.BaseRepository
}

var _ repository.SubjectRepository = (*SubjectRepository)(nil)

// NewSubjectRepository は新しいSubjectRepositoryを作成します
func NewSubjectRepository(txManager *database.TxManager) *SubjectRepository {
	return &SubjectRepository{
		BaseRepository: database.NewBaseRepository(txManager),
	}
}

const subjectColumns = "id, owner_id, name, description, display_order, created_at, updated_at, deleted_at"

// Create は科目を作成します
func (r *SubjectRepository) Create(ctx context.Context, subject *entity.Subject) error {
	querier := r.Querier(ctx)

	_, err := querier.Exec(ctx, `
		INSERT INTO subjects (id, owner_id, name, description, display_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		subject.ID,
		subject.OwnerID,
		subject.Name.String(),
		subject.Description,
		subject.DisplayOrder,
		subject.CreatedAt,
		subject.UpdatedAt,
	)

	return r.HandleError(err)
}

// FindByID はIDで科目を検索します（論理削除済みは対象外）
func (r *SubjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Subject, error) {
	querier := r.Querier(ctx)

	row := querier.QueryRow(ctx, `
		SELECT `+subjectColumns+`
		FROM subjects
		WHERE id = $1 AND deleted_at IS NULL`,
		id,
	)

	subject, err := scanSubject(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("subject")
		}
		return nil, r.HandleError(err)
	}

	return subject, nil
}

// Update は科目を更新します
func (r *SubjectRepository) Update(ctx context.Context, subject *entity.Subject) error {
	querier := r.Querier(ctx)

	_, err := querier.Exec(ctx, `
		UPDATE subjects
		SET name = $2, description = $3, display_order = $4, updated_at = $5
		WHERE id = $1`,
		subject.ID,
		subject.Name.String(),
		subject.Description,
		subject.DisplayOrder,
		subject.UpdatedAt,
	)

	return r.HandleError(err)
}

// FindByOwner は所有者の科目一覧を表示順で返します
func (r *SubjectRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.Subject, error) {
	querier := r.Querier(ctx)

	rows, err := querier.Query(ctx, `
		SELECT `+subjectColumns+`
		FROM subjects
		WHERE owner_id = $1 AND deleted_at IS NULL
		ORDER BY display_order, created_at`,
		ownerID,
	)
	if err != nil {
		return nil, r.HandleError(err)
	}
	defer rows.Close()

	var subjects []*entity.Subject
	for rows.Next() {
		subject, err := scanSubject(rows)
		if err != nil {
			return nil, r.HandleError(err)
		}
		subjects = append(subjects, subject)
	}
	if err := rows.Err(); err != nil {
		return nil, r.HandleError(err)
	}

	return subjects, nil
}

// SoftDelete は科目を論理削除します
func (r *SubjectRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	querier := r.Querier(ctx)

	now := time.Now()
	tag, err := querier.Exec(ctx, `
		UPDATE subjects
		SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL`,
		id,
		now,
	)
	if err != nil {
		return r.HandleError(err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError("subject")
	}

	return nil
}

// scanSubject は1行をエンティティに変換します
func scanSubject(row pgx.Row) (*entity.Subject, error) {
	var (
		id           uuid.UUID
		ownerID      uuid.UUID
		name         string
		description  *string
		displayOrder int
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    *time.Time
	)

	if err := row.Scan(&id, &ownerID, &name, &description, &displayOrder, &createdAt, &updatedAt, &deletedAt); err != nil {
		return nil, err
	}

	nodeName, err := valueobject.NewNodeName(name)
	if err != nil {
		return nil, err
	}

	return entity.ReconstructSubject(id, ownerID, nodeName, description, displayOrder, createdAt, updatedAt, deletedAt), nil
}

// uuidToPgtype は*uuid.UUIDをpgtype.UUIDに変換します
func uuidToPgtype(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

// pgtypeToUUID はpgtype.UUIDを*uuid.UUIDに変換します
func pgtypeToUUID(pg pgtype.UUID) *uuid.UUID {
	if !pg.Valid {
		return nil
	}
	id := uuid.UUID(pg.Bytes)
	return &id
}
