package handler

import (
	"io"
	"mime/multipart"

	"github.com/labstack/echo/v4"

	"github.com/nnsi/cpa-study-note-sub000/internal/interface/dto/request"
	"github.com/nnsi/cpa-study-note-sub000/internal/interface/dto/response"
	"github.com/nnsi/cpa-study-note-sub000/internal/interface/presenter"
	treecmd "github.com/nnsi/cpa-study-note-sub000/internal/usecase/tree/command"
	treeqry "github.com/nnsi/cpa-study-note-sub000/internal/usecase/tree/query"
	"github.com/nnsi/cpa-study-note-sub000/pkg/apperror"
)

// TreeHandler はツリー関連のHTTPハンドラーです
type TreeHandler struct {
	// Commands
	syncTreeCommand      *treecmd.SyncTreeCommand
	importTreeCSVCommand *treecmd.ImportTreeCSVCommand

	// Queries
	getTreeQuery *treeqry.GetTreeQuery
}

// NewTreeHandler は新しいTreeHandlerを作成します
func NewTreeHandler(
	syncTreeCommand *treecmd.SyncTreeCommand,
	importTreeCSVCommand *treecmd.ImportTreeCSVCommand,
	getTreeQuery *treeqry.GetTreeQuery,
) *TreeHandler {
	return &TreeHandler{
		syncTreeCommand:      syncTreeCommand,
		importTreeCSVCommand: importTreeCSVCommand,
		getTreeQuery:         getTreeQuery,
	}
}

// GetTree は科目のツリーを取得します
// GET /api/v1/subjects/:id/tree
func (h *TreeHandler) GetTree(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	subjectID, err := parsePathUUID(c, "id")
	if err != nil {
		return err
	}

	output, err := h.getTreeQuery.Execute(c.Request().Context(), treeqry.GetTreeInput{
		SubjectID: subjectID,
		UserID:    userID,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToTreeResponse(output.Tree))
}

// SyncTree は科目のツリーを送信内容と一致させます
// PUT /api/v1/subjects/:id/tree
func (h *TreeHandler) SyncTree(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	subjectID, err := parsePathUUID(c, "id")
	if err != nil {
		return err
	}

	var req request.SyncTreeRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidationError("invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	tree, err := req.ToSubmittedTree()
	if err != nil {
		return apperror.NewValidationError("invalid node id format", nil)
	}

	output, err := h.syncTreeCommand.Execute(c.Request().Context(), treecmd.SyncTreeInput{
		SubjectID: subjectID,
		UserID:    userID,
		Tree:      tree,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToTreeResponse(output.Tree))
}

// ImportTreeCSV はCSVから分類・論点を取り込みます
// POST /api/v1/subjects/:id/tree/import
// multipart/form-dataのfileフィールド、またはリクエストボディのCSVを受け付けます。
func (h *TreeHandler) ImportTreeCSV(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	subjectID, err := parsePathUUID(c, "id")
	if err != nil {
		return err
	}

	reader, closer, err := csvReader(c)
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	output, err := h.importTreeCSVCommand.Execute(c.Request().Context(), treecmd.ImportTreeCSVInput{
		SubjectID: subjectID,
		UserID:    userID,
		Reader:    reader,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToImportResultResponse(output))
}

// csvReader はインポート対象のCSVリーダーを返します
func csvReader(c echo.Context) (io.Reader, multipart.File, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		// multipartでなければボディをそのままCSVとして扱う
		return c.Request().Body, nil, nil
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, nil, apperror.NewInvalidRequestError("failed to open uploaded file")
	}
	return file, file, nil
}
