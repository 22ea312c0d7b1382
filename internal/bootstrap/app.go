package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/gin-gonic/gin"

	"cv-standardizer/internal/llm"
	"cv-standardizer/internal/llm/anthropic"
	"cv-standardizer/internal/llm/openai"
	"cv-standardizer/internal/pipeline"
	"cv-standardizer/internal/render"
	"cv-standardizer/internal/runs"
	"cv-standardizer/internal/services/health"
	"cv-standardizer/internal/shared/config"
	"cv-standardizer/internal/shared/server"
	"cv-standardizer/internal/shared/storage/db"
	"cv-standardizer/internal/shared/storage/object"
	localstore "cv-standardizer/internal/shared/storage/object/local"
	s3store "cv-standardizer/internal/shared/storage/object/s3"
)

// App holds the wired dependencies of the service.
type App struct {
	Config      config.Config
	Router      *gin.Engine
	DB          *sql.DB
	Store       object.ObjectStore
	RunsRepo    runs.Repo
	RunsService *runs.Service
	RunsHandler *runs.Handler
	LLM         llm.Client
	Pipeline    *pipeline.Standardizer
	Renderer    *render.Renderer
}

// Build prepares dependencies and wires the router.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		return nil, err
	}

	llmClient, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}

	var runsRepo runs.Repo
	if sqlDB != nil {
		runsRepo = &runs.PGRepo{DB: sqlDB}
	} else {
		runsRepo = runs.NewMemoryRepo()
	}

	standardizer := pipeline.NewStandardizer(llmClient)
	renderer := render.NewRenderer(render.NewChromeEngine(cfg.ChromePath))

	runsSvc := &runs.Service{
		Store:    store,
		Repo:     runsRepo,
		Pipeline: standardizer,
		Renderer: renderer,
		LogoURL:  cfg.LogoURL,
	}
	runsHandler := runs.NewHandler(runsSvc)

	healthSvc := health.NewService(cfg.LLMProvider, cfg.LLMModel, cfg.ObjectStoreType)

	app := &App{
		Config:      cfg,
		DB:          sqlDB,
		Store:       store,
		RunsRepo:    runsRepo,
		RunsService: runsSvc,
		RunsHandler: runsHandler,
		LLM:         llmClient,
		Pipeline:    standardizer,
		Renderer:    renderer,
	}
	app.Router = server.NewRouter(server.RouterDeps{
		Config:      cfg,
		RunsHandler: runsHandler,
		HealthSvc:   healthSvc,
	})
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: DATABASE_URL empty; using in-memory repositories")
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	opts := db.OptionsFromEnv(db.DefaultServerOptions())
	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, opts)
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory repositories: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: migrations failed; using in-memory repositories: %v", err)
			_ = sqlDB.Close()
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildLLM(cfg config.Config) (llm.Client, error) {
	switch cfg.LLMProvider {
	case "openai":
		key := os.Getenv("OPENAI_API_KEY")
		if strings.TrimSpace(key) == "" && isDevLike(cfg.Env) {
			log.Printf("bootstrap: OPENAI_API_KEY empty; standardize calls will fail")
			return llm.PlaceholderClient{}, nil
		}
		return openai.NewClient(key, cfg.LLMModel)
	case "anthropic":
		key := os.Getenv("ANTHROPIC_API_KEY")
		if strings.TrimSpace(key) == "" && isDevLike(cfg.Env) {
			log.Printf("bootstrap: ANTHROPIC_API_KEY empty; standardize calls will fail")
			return llm.PlaceholderClient{}, nil
		}
		return anthropic.NewClient(key, cfg.LLMModel)
	default:
		return llm.PlaceholderClient{}, nil
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}
