package di

import (
	"context"
	"fmt"

	"github.com/nnsi/cpa-study-note-sub000/internal/domain/repository"
	"github.com/nnsi/cpa-study-note-sub000/internal/domain/service"
	"github.com/nnsi/cpa-study-note-sub000/internal/infrastructure/cache"
	"github.com/nnsi/cpa-study-note-sub000/internal/infrastructure/database"
	infraRepo "github.com/nnsi/cpa-study-note-sub000/internal/infrastructure/repository"
	progresscmd "github.com/nnsi/cpa-study-note-sub000/internal/usecase/progress/command"
	progressqry "github.com/nnsi/cpa-study-note-sub000/internal/usecase/progress/query"
	subjectcmd "github.com/nnsi/cpa-study-note-sub000/internal/usecase/subject/command"
	subjectqry "github.com/nnsi/cpa-study-note-sub000/internal/usecase/subject/query"
	treecmd "github.com/nnsi/cpa-study-note-sub000/internal/usecase/tree/command"
	treeqry "github.com/nnsi/cpa-study-note-sub000/internal/usecase/tree/query"
	"github.com/nnsi/cpa-study-note-sub000/pkg/config"
	"github.com/nnsi/cpa-study-note-sub000/pkg/jwt"
)

// Container はアプリケーションの依存関係を保持するDIコンテナです
type Container struct {
	// Infrastructure
	PgClient    *database.PostgresClient
	RedisClient *cache.RedisClient
	TxManager   *database.TxManager

	// Services
	JWTService *jwt.JWTService

	// Repositories
	SubjectRepo  repository.SubjectRepository
	CategoryRepo repository.CategoryRepository
	TopicRepo    repository.TopicRepository
	ProgressRepo repository.TopicProgressRepository
	TreeCache    repository.TreeSnapshotCache

	// Domain services
	TreePlanner service.TreePlanner
	CSVImporter service.CSVTreeImporter

	// UseCases
	Subject  *SubjectUseCases
	Tree     *TreeUseCases
	Progress *ProgressUseCases
}

// SubjectUseCases は科目関連のユースケースをまとめます
type SubjectUseCases struct {
	Create *subjectcmd.CreateSubjectCommand
	Update *subjectcmd.UpdateSubjectCommand
	Delete *subjectcmd.DeleteSubjectCommand
	Get    *subjectqry.GetSubjectQuery
	List   *subjectqry.ListSubjectsQuery
}

// TreeUseCases はツリー関連のユースケースをまとめます
type TreeUseCases struct {
	Sync      *treecmd.SyncTreeCommand
	ImportCSV *treecmd.ImportTreeCSVCommand
	Get       *treeqry.GetTreeQuery
}

// ProgressUseCases は進捗関連のユースケースをまとめます
type ProgressUseCases struct {
	Record     *progresscmd.RecordProgressCommand
	GetSubject *progressqry.GetSubjectProgressQuery
}

// NewContainer は新しいContainerを作成します
func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	// PostgreSQL接続
	pgClient, err := database.NewPostgresClient(ctx, cfg.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	// Redis接続
	redisCfg := cache.DefaultConfig()
	redisCfg.URL = cfg.Redis.URL
	redisClient, err := cache.NewRedisClient(redisCfg)
	if err != nil {
		pgClient.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	txManager := database.NewTxManager(pgClient.Pool())

	c := &Container{
		PgClient:    pgClient,
		RedisClient: redisClient,
		TxManager:   txManager,

		JWTService: jwt.NewJWTService(jwt.Config{
			SecretKey:         cfg.JWT.SecretKey,
			Issuer:            cfg.JWT.Issuer,
			Audience:          cfg.JWT.Audience,
			AccessTokenExpiry: cfg.JWT.AccessTokenExpiry,
		}),

		SubjectRepo:  infraRepo.NewSubjectRepository(txManager),
		CategoryRepo: infraRepo.NewCategoryRepository(txManager),
		TopicRepo:    infraRepo.NewTopicRepository(txManager),
		ProgressRepo: infraRepo.NewTopicProgressRepository(txManager),
		TreeCache:    cache.NewTreeCache(redisClient.Client(), cfg.Redis.TreeCacheTTL),

		TreePlanner: service.NewTreePlanner(service.NewIdentityResolver()),
		CSVImporter: service.NewCSVTreeImporter(),
	}

	c.initUseCases()

	return c, nil
}

// initUseCases はユースケースを初期化します
func (c *Container) initUseCases() {
	c.Subject = &SubjectUseCases{
		Create: subjectcmd.NewCreateSubjectCommand(c.SubjectRepo),
		Update: subjectcmd.NewUpdateSubjectCommand(c.SubjectRepo, c.TreeCache),
		Delete: subjectcmd.NewDeleteSubjectCommand(c.SubjectRepo, c.TreeCache),
		Get:    subjectqry.NewGetSubjectQuery(c.SubjectRepo),
		List:   subjectqry.NewListSubjectsQuery(c.SubjectRepo),
	}

	c.Tree = &TreeUseCases{
		Sync: treecmd.NewSyncTreeCommand(
			c.SubjectRepo, c.CategoryRepo, c.TopicRepo, c.TreePlanner, c.TreeCache, c.TxManager,
		),
		ImportCSV: treecmd.NewImportTreeCSVCommand(
			c.SubjectRepo, c.CategoryRepo, c.TopicRepo, c.CSVImporter, c.TreePlanner, c.TreeCache, c.TxManager,
		),
		Get: treeqry.NewGetTreeQuery(c.SubjectRepo, c.CategoryRepo, c.TopicRepo, c.TreeCache),
	}

	c.Progress = &ProgressUseCases{
		Record:     progresscmd.NewRecordProgressCommand(c.TopicRepo, c.ProgressRepo),
		GetSubject: progressqry.NewGetSubjectProgressQuery(c.SubjectRepo, c.TopicRepo, c.ProgressRepo),
	}
}

// Close は保持しているリソースを解放します
func (c *Container) Close() {
	if c.RedisClient != nil {
		_ = c.RedisClient.Close()
	}
	if c.PgClient != nil {
		c.PgClient.Close()
	}
}
