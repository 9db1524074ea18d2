package router

import (
	"github.com/labstack/echo/v4"

	"github.com/nnsi/cpa-study-note-sub000/internal/infrastructure/di"
	"github.com/nnsi/cpa-study-note-sub000/internal/interface/presenter"
)

// Router はルート定義を管理します
type Router struct {
	echo        *echo.Echo
	handlers    *di.Handlers
	middlewares *di.Middlewares
}

// NewRouter は新しいRouterを作成します
func NewRouter(e *echo.Echo, handlers *di.Handlers, middlewares *di.Middlewares) *Router {
	return &Router{
		echo:        e,
		handlers:    handlers,
		middlewares: middlewares,
	}
}

// Setup は全てのルートを設定します
func (r *Router) Setup() {
	r.setupHealthRoutes()
	r.setupAPIRoutes()
}

// setupHealthRoutes はヘルスチェックルートを設定します
func (r *Router) setupHealthRoutes() {
	if r.handlers.Health == nil {
		return
	}
	r.echo.GET("/health", r.handlers.Health.Check)
	r.echo.GET("/ready", r.handlers.Health.Ready)
}

// setupAPIRoutes はAPIルートを設定します
func (r *Router) setupAPIRoutes() {
	api := r.echo.Group("/api/v1")

	// Debug route
	api.GET("/", func(c echo.Context) error {
		return presenter.OK(c, map[string]string{
			"message": "CPA Study Note API v1",
		})
	})

	r.setupSubjectRoutes(api)
	r.setupProgressRoutes(api)
}

// setupSubjectRoutes は科目・ツリー関連ルートを設定します
func (r *Router) setupSubjectRoutes(api *echo.Group) {
	subjects := api.Group("/subjects", r.middlewares.JWTAuth.Authenticate())
	subjects.POST("", r.handlers.Subject.CreateSubject)
	subjects.GET("", r.handlers.Subject.ListSubjects)
	subjects.GET("/:id", r.handlers.Subject.GetSubject)
	subjects.PATCH("/:id", r.handlers.Subject.UpdateSubject)
	subjects.DELETE("/:id", r.handlers.Subject.DeleteSubject)

	// Tree routes
	subjects.GET("/:id/tree", r.handlers.Tree.GetTree)
	subjects.PUT("/:id/tree", r.handlers.Tree.SyncTree)
	subjects.POST("/:id/tree/import", r.handlers.Tree.ImportTreeCSV)

	// Subject progress
	subjects.GET("/:id/progress", r.handlers.Progress.GetSubjectProgress)
}

// setupProgressRoutes は進捗関連ルートを設定します
func (r *Router) setupProgressRoutes(api *echo.Group) {
	topics := api.Group("/topics", r.middlewares.JWTAuth.Authenticate())
	topics.PUT("/:id/progress", r.handlers.Progress.RecordProgress)
}
