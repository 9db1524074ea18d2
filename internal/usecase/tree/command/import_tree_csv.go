package command

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/repository"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/service"
	"github.com/nnsi/cpa-study-note-sub000/pkg/apperror"
	"github.com/nnsi/cpa-study-note-sub000/pkg/logger"
)

// ImportTreeCSVInput はCSVインポートの入力を定義します
type ImportTreeCSVInput struct {
	SubjectID uuid.UUID
	UserID    uuid.UUID
	Reader    io.Reader
}

// ImportTreeCSVOutput はCSVインポートの出力を定義します
// ImportedCategories / ImportedTopics は書き込み計画に載った件数
// （新規作成と既存行の更新の合計）です。Errorsには取り込めなかった
// 行の情報が入ります。行エラーがあっても有効な行が1つでもあれば
// インポート自体は成功します。
type ImportTreeCSVOutput struct {
	Success            bool
	ImportedCategories int
	ImportedTopics     int
	Errors             []service.RowError
}

// ImportTreeCSVCommand はCSVから分類・論点を取り込むコマンドです
// 解析結果を既存ツリーに重ねて同期と同じ経路で書き込むため、
// 既存ノードが削除されることはありません。
type ImportTreeCSVCommand struct {
	subjectRepo  repository.SubjectRepository
	categoryRepo repository.CategoryRepository
	topicRepo    repository.TopicRepository
	importer     service.CSVTreeImporter
	planner      service.TreePlanner
	treeCache    repository.TreeSnapshotCache
	txManager    repository.TransactionManager
}

// NewImportTreeCSVCommand は新しいImportTreeCSVCommandを作成します
func NewImportTreeCSVCommand(
	subjectRepo repository.SubjectRepository,
	categoryRepo repository.CategoryRepository,
	topicRepo repository.TopicRepository,
	importer service.CSVTreeImporter,
	planner service.TreePlanner,
	treeCache repository.TreeSnapshotCache,
	txManager repository.TransactionManager,
) *ImportTreeCSVCommand {
	return &ImportTreeCSVCommand{
		subjectRepo:  subjectRepo,
		categoryRepo: categoryRepo,
		topicRepo:    topicRepo,
		importer:     importer,
		planner:      planner,
		treeCache:    treeCache,
		txManager:    txManager,
	}
}

// Execute はCSVを取り込みます
func (c *ImportTreeCSVCommand) Execute(ctx context.Context, input ImportTreeCSVInput) (*ImportTreeCSVOutput, error) {
	// 1. 科目取得・所有者チェック
	subject, err := findOwnedSubject(ctx, c.subjectRepo, input.SubjectID, input.UserID)
	if err != nil {
		return nil, err
	}

	// 2. CSV解析（行エラーは集約し、解析自体は続行される）
	result, err := c.importer.ParseTopicCSV(input.Reader)
	if err != nil {
		if errors.Is(err, service.ErrCSVInvalidHeader) {
			return nil, apperror.NewInvalidRequestError(err.Error())
		}
		return nil, apperror.NewInvalidRequestError("failed to parse csv: " + err.Error())
	}

	// 3. 有効な行が1つもなければ書き込みせずに失敗を報告する
	if len(result.Groups) == 0 {
		rowErrors := result.Errors
		if len(rowErrors) == 0 {
			rowErrors = []service.RowError{{Message: "no importable data"}}
		}
		return &ImportTreeCSVOutput{
			Success: false,
			Errors:  rowErrors,
		}, nil
	}

	// 4. 既存のアクティブツリーに解析結果を重ねる
	tree, err := loadSubjectTree(ctx, c.categoryRepo, c.topicRepo, subject)
	if err != nil {
		return nil, err
	}
	submitted := c.importer.Merge(result.Groups, tree)

	// 5. 同期と同じ計画・適用経路で書き込む
	plan, err := buildTreePlan(ctx, c.categoryRepo, c.topicRepo, c.planner, subject, submitted)
	if err != nil {
		return nil, err
	}
	if err := applyTreePlan(ctx, c.txManager, c.categoryRepo, c.topicRepo, plan); err != nil {
		return nil, err
	}

	// 6. キャッシュ破棄
	if err := c.treeCache.Invalidate(ctx, subject.ID); err != nil {
		logger.Warn(ctx, "failed to invalidate tree cache", "subject_id", subject.ID, "error", err)
	}

	return &ImportTreeCSVOutput{
		Success:            true,
		ImportedCategories: plan.CategoryUpsertCount(),
		ImportedTopics:     plan.TopicUpsertCount(),
		Errors:             result.Errors,
	}, nil
}
