package di

import (
	"github.com/nnsi/cpa-study-note-sub000/internal/interface/handler"
	"github.com/nnsi/cpa-study-note-sub000/internal/interface/middleware"
)

// Handlers はHTTPハンドラーをまとめます
type Handlers struct {
	Health   *handler.HealthHandler
	Subject  *handler.SubjectHandler
	Tree     *handler.TreeHandler
	Progress *handler.ProgressHandler
}

// NewHandlers はコンテナからハンドラーを組み立てます
func NewHandlers(c *Container) *Handlers {
	health := handler.NewHealthHandler()
	health.RegisterChecker("postgres", c.PgClient)
	health.RegisterChecker("redis", c.RedisClient)

	return &Handlers{
		Health: health,
		Subject: handler.NewSubjectHandler(
			c.Subject.Create,
			c.Subject.Update,
			c.Subject.Delete,
			c.Subject.Get,
			c.Subject.List,
		),
		Tree: handler.NewTreeHandler(
			c.Tree.Sync,
			c.Tree.ImportCSV,
			c.Tree.Get,
		),
		Progress: handler.NewProgressHandler(
			c.Progress.Record,
			c.Progress.GetSubject,
		),
	}
}

// Middlewares は認証などのミドルウェアをまとめます
type Middlewares struct {
	JWTAuth *middleware.JWTAuthMiddleware
}

// NewMiddlewares はコンテナからミドルウェアを組み立てます
func NewMiddlewares(c *Container) *Middlewares {
	return &Middlewares{
		JWTAuth: middleware.NewJWTAuthMiddleware(c.JWTService),
	}
}
