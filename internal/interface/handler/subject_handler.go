package handler

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/nnsi/cpa-study-note-sub000/internal/interface/dto/request"
	"github.com/nnsi/cpa-study-note-sub000/internal/interface/dto/response"
	"github.com/nnsi/cpa-study-note-sub000/internal/interface/middleware"
	"github.com/nnsi/cpa-study-note-sub000/internal/interface/presenter"
	subjectcmd "github.com/nnsi/cpa-study-note-sub000/internal/usecase/subject/command"
	subjectqry "github.com/nnsi/cpa-study-note-sub000/internal/usecase/subject/query"
	"github.com/nnsi/cpa-study-note-sub000/pkg/apperror"
)

// SubjectHandler は科目関連のHTTPハンドラーです
type SubjectHandler struct {
	// Commands
	createSubjectCommand *subjectcmd.CreateSubjectCommand
	updateSubjectCommand *subjectcmd.UpdateSubjectCommand
	deleteSubjectCommand *subjectcmd.DeleteSubjectCommand

	// Queries
	getSubjectQuery   *subjectqry.GetSubjectQuery
	listSubjectsQuery *subjectqry.ListSubjectsQuery
}

// NewSubjectHandler は新しいSubjectHandlerを作成します
func NewSubjectHandler(
	createSubjectCommand *subjectcmd.CreateSubjectCommand,
	updateSubjectCommand *subjectcmd.UpdateSubjectCommand,
	deleteSubjectCommand *subjectcmd.DeleteSubjectCommand,
	getSubjectQuery *subjectqry.GetSubjectQuery,
	listSubjectsQuery *subjectqry.ListSubjectsQuery,
) *SubjectHandler {
	return &SubjectHandler{
		createSubjectCommand: createSubjectCommand,
		updateSubjectCommand: updateSubjectCommand,
		deleteSubjectCommand: deleteSubjectCommand,
		getSubjectQuery:      getSubjectQuery,
		listSubjectsQuery:    listSubjectsQuery,
	}
}

// CreateSubject は科目を作成します
// POST /api/v1/subjects
func (h *SubjectHandler) CreateSubject(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	var req request.CreateSubjectRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidationError("invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.createSubjectCommand.Execute(c.Request().Context(), subjectcmd.CreateSubjectInput{
		UserID:       userID,
		Name:         req.Name,
		Description:  req.Description,
		DisplayOrder: req.DisplayOrder,
	})
	if err != nil {
		return err
	}

	return presenter.Created(c, response.ToSubjectResponse(output.Subject))
}

// ListSubjects は科目一覧を取得します
// GET /api/v1/subjects
func (h *SubjectHandler) ListSubjects(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	output, err := h.listSubjectsQuery.Execute(c.Request().Context(), subjectqry.ListSubjectsInput{
		UserID: userID,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToSubjectListResponse(output.Subjects))
}

// GetSubject は科目を1件取得します
// GET /api/v1/subjects/:id
func (h *SubjectHandler) GetSubject(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	subjectID, err := parsePathUUID(c, "id")
	if err != nil {
		return err
	}

	output, err := h.getSubjectQuery.Execute(c.Request().Context(), subjectqry.GetSubjectInput{
		SubjectID: subjectID,
		UserID:    userID,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToSubjectResponse(output.Subject))
}

// UpdateSubject は科目を更新します
// PATCH /api/v1/subjects/:id
func (h *SubjectHandler) UpdateSubject(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	subjectID, err := parsePathUUID(c, "id")
	if err != nil {
		return err
	}

	var req request.UpdateSubjectRequest
	if err := c.Bind(&req); err != nil {
		return apperror.NewValidationError("invalid request body", nil)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	output, err := h.updateSubjectCommand.Execute(c.Request().Context(), subjectcmd.UpdateSubjectInput{
		SubjectID:   subjectID,
		UserID:      userID,
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}

	return presenter.OK(c, response.ToSubjectResponse(output.Subject))
}

// DeleteSubject は科目を論理削除します
// DELETE /api/v1/subjects/:id
func (h *SubjectHandler) DeleteSubject(c echo.Context) error {
	userID, err := requireUserID(c)
	if err != nil {
		return err
	}

	subjectID, err := parsePathUUID(c, "id")
	if err != nil {
		return err
	}

	err = h.deleteSubjectCommand.Execute(c.Request().Context(), subjectcmd.DeleteSubjectInput{
		SubjectID: subjectID,
		UserID:    userID,
	})
	if err != nil {
		return err
	}

	return presenter.Deleted(c, "subject deleted")
}

// requireUserID は認証済みユーザーのIDを取得します
func requireUserID(c echo.Context) (uuid.UUID, error) {
	claims := middleware.GetAccessClaims(c)
	if claims == nil {
		return uuid.Nil, apperror.NewUnauthorizedError("invalid token")
	}
	return claims.UserID, nil
}

// parsePathUUID はパスパラメータをUUIDとして取得します
func parsePathUUID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.NewValidationError("invalid "+name, nil)
	}
	return id, nil
}
