package command

import (
	"context"

	"github.com/google/uuid"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/repository"
	"github.com/nnsi/cpa-study-note-sub000/pkg/apperror"
	"github.com/nnsi/cpa-study-note-sub000/pkg/logger"
)

// DeleteSubjectInput は科目削除の入力を定義します
type DeleteSubjectInput struct {
	SubjectID uuid.UUID
	UserID    uuid.UUID
}

// DeleteSubjectCommand は科目を論理削除するコマンドです
// 配下の分類・論点は行としては残りますが、科目ごと見えなくなります。
type DeleteSubjectCommand struct {
	subjectRepo repository.SubjectRepository
	treeCache   repository.TreeSnapshotCache
}

// NewDeleteSubjectCommand は新しいDeleteSubjectCommandを作成します
func NewDeleteSubjectCommand(
	subjectRepo repository.SubjectRepository,
	treeCache repository.TreeSnapshotCache,
) *DeleteSubjectCommand {
	return &DeleteSubjectCommand{
		subjectRepo: subjectRepo,
		treeCache:   treeCache,
	}
}

// Execute は科目を論理削除します
func (c *DeleteSubjectCommand) Execute(ctx context.Context, input DeleteSubjectInput) error {
	subject, err := c.subjectRepo.FindByID(ctx, input.SubjectID)
	if err != nil {
		return err
	}
	if !subject.IsOwnedBy(input.UserID) {
		return apperror.NewNotFoundError("subject")
	}

	if err := c.subjectRepo.SoftDelete(ctx, subject.ID); err != nil {
		return err
	}

	if err := c.treeCache.Invalidate(ctx, subject.ID); err != nil {
		logger.Warn(ctx, "failed to invalidate tree cache", "subject_id", subject.ID, "error", err)
	}

	return nil
}
