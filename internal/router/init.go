package router

import (
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/blogx-api/config"
	"github.com/oksasatya/blogx-api/internal/application"
	"github.com/oksasatya/blogx-api/internal/container"
	repo "github.com/oksasatya/blogx-api/internal/domain/repository"
	gcsinfra "github.com/oksasatya/blogx-api/internal/infrastructure/gcs"
	googleinfra "github.com/oksasatya/blogx-api/internal/infrastructure/google"
	pginfra "github.com/oksasatya/blogx-api/internal/infrastructure/postgres"
	"github.com/oksasatya/blogx-api/internal/infrastructure/queue"
	"github.com/oksasatya/blogx-api/internal/infrastructure/search"
	"github.com/oksasatya/blogx-api/internal/infrastructure/session"
	handlers "github.com/oksasatya/blogx-api/internal/interface/http"
	"github.com/oksasatya/blogx-api/internal/interface/middleware"
	"github.com/oksasatya/blogx-api/internal/router/modules"
	"github.com/oksasatya/blogx-api/pkg/helpers"
	"github.com/oksasatya/blogx-api/pkg/validation"
)

// Deps is everything the modules need. Optional collaborators may be nil.
type Deps struct {
	Config   *config.Config
	Logger   *logrus.Logger
	JWT      *helpers.JWTManager
	Redis    *redis.Client
	Accounts repo.AccountRepository
	Posts    repo.PostRepository
	Comments repo.CommentRepository
	Sessions application.SessionStore
	Images   application.ImageStore
	Identity application.IdentityVerifier
	Notifier application.Notifier
	Index    application.PostIndexer
}

// buildDeps assembles Deps from the container singletons.
func buildDeps() Deps {
	cfg := container.GetConfig()
	d := Deps{
		Config: cfg,
		Logger: container.GetLogger(),
		JWT:    container.GetJWT(),
		Redis:  container.GetRedis(),
	}

	if store := container.GetMemoryStore(); store != nil {
		d.Accounts, d.Posts, d.Comments = store.Accounts(), store.Posts(), store.Comments()
	} else {
		pool := container.GetPGPool()
		d.Accounts = pginfra.NewAccountRepository(pool)
		d.Posts = pginfra.NewPostRepository(pool)
		d.Comments = pginfra.NewCommentRepository(pool)
	}

	// Interfaces are only assigned for configured clients so nil checks hold.
	if d.Redis != nil {
		d.Sessions = session.NewRedisStore(d.Redis)
	}
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		d.Images = gcsinfra.NewImageStore(gcs, cfg.GCSBucket)
	}
	if cfg.GoogleClientID != "" {
		d.Identity = googleinfra.NewVerifier(cfg.GoogleClientID)
	}
	if pub := container.GetRabbitPub(); pub != nil {
		d.Notifier = queue.NewNotifier(pub)
	}
	if es := container.GetES(); es != nil {
		d.Index = search.NewPostIndex(es, cfg.ESPostsIndex)
	}
	return d
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	InitModulesWith(r, buildDeps())
}

// InitModulesWith wires services, handlers and modules from d.
func InitModulesWith(r *Registry, d Deps) {
	validation.Init()

	logger := d.Logger
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	cfg := d.Config
	if cfg == nil {
		cfg = config.Load()
	}
	// Rate limits need Redis; a nil client turns them into pass-through.
	var limiter *redis.Client
	if cfg.RateLimitEnabled {
		limiter = d.Redis
	}

	accounts := application.NewAccountService(d.Accounts, d.JWT, logger)
	accounts.Sessions = d.Sessions
	accounts.Images = d.Images
	accounts.Identity = d.Identity
	accounts.Notifier = d.Notifier

	posts := application.NewPostService(d.Posts, d.Comments, d.Accounts, logger)
	posts.Images = d.Images
	posts.Index = d.Index

	comments := application.NewCommentService(d.Posts, d.Comments, d.Accounts, logger)
	comments.Notifier = d.Notifier

	uploads := handlers.UploadConfig{TmpDir: cfg.UploadTmpDir, MaxBytes: cfg.UploadMaxBytes}

	r.Use(middleware.RequestIDMiddleware(), middleware.RealIP())
	if cfg.HTTPLogEnabled {
		r.Use(middleware.AccessLog(logger))
	}

	var sessions middleware.SessionChecker
	if d.Sessions != nil {
		sessions = accounts
	}
	auth := middleware.Auth(d.JWT, sessions)
	active := middleware.ActiveAccount(accounts)

	r.Add(modules.NewAuthModule(handlers.NewAuthHandler(accounts, logger), auth, limiter))
	r.Add(modules.NewAccountModule(handlers.NewAccountHandler(accounts, posts, logger, uploads), auth, active, limiter))
	r.Add(modules.NewPostModule(handlers.NewPostHandler(posts, comments, logger, uploads), auth, active, limiter))
	r.Add(modules.NewAdminModule(handlers.NewAdminHandler(accounts, posts, logger), auth, active))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule(limiter))
	}
}
