package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/nnsi/cpa-study-note-sub000/internal/interface/dto/request"
	"github.com/nnsi/cpa-study-note-sub000/internal/interface/dto/response"
	"github.com/nnsi/cpa-study-note-sub000/internal/interface/presenter"
	progresscmd "github.com/nnsi/cpa-study-note-sub000/internal/usecase/progress/command"
	progressqry "github.com/nnsi/cpa-study-note-sub000/internal/usecase/progress/query"
	"github.com/nnsi/cpa-study-note-sub000/pkg/apperror"
)

// ProgressHandler は進捗関連のHTTPハンドラーです
type ProgressHandler struct {
	// Commands
	recordProgressCommand *progresscmd.RecordProgressCommand

	// Queries
	getSubjectProgressQuery *progressqry.GetSubjectProgressQuery
}

// NewProgressHandler は新しいProgressHandlerを作成します
func NewProgressHandler(
	recordProgressCommand *progresscmd.RecordProgressCommand,
	getSubjectProgressQuery *progressqry.GetSubjectProgressQuery,
) *ProgressHandler {
	return &ProgressHandler{
		recordProgressCommand:   recordProgressCommand,
		getSubjectProgressQuery: getSubjectProgressQuery,
	}
}

// RecordProgress は論点の理解度を記録します
// PUT /api/v1/topics/:id/progress
func (h *ProgressHandler) RecordProgress(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	topicID, err := parsePathUUID(c, "id")
	if err != nil {
		return err
	}

	var req request.RecordProgressRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidationError("invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.recordProgressCommand.Execute(c.Request().Context(), progresscmd.RecordProgressInput{
		TopicID: topicID,
		UserID:  userID,
		Level:   req.Level,
		Note:    req.Note,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToProgressResponse(output.Progress))
}

// GetSubjectProgress は科目配下の進捗一覧を取得します
// GET /api/v1/subjects/:id/progress
func (h *ProgressHandler) GetSubjectProgress(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	subjectID, err := parsePathUUID(c, "id")
	if err != nil {
		return err
	}

	output, err := h.getSubjectProgressQuery.Execute(c.Request().Context(), progressqry.GetSubjectProgressInput{
		SubjectID: subjectID,
		UserID:    userID,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToSubjectProgressResponse(output.Progresses, output.TotalTopics, output.MasteredRate))
}
