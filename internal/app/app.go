package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/baker9001/GGK-LiveProduction-sub011/internal/config"
	"github.com/baker9001/GGK-LiveProduction-sub011/internal/controller"
	"github.com/baker9001/GGK-LiveProduction-sub011/internal/repository"
	"github.com/baker9001/GGK-LiveProduction-sub011/internal/service"
	"github.com/baker9001/GGK-LiveProduction-sub011/pkg/database"
	"github.com/baker9001/GGK-LiveProduction-sub011/pkg/logger"
	"github.com/baker9001/GGK-LiveProduction-sub011/pkg/monitoring"
	"github.com/baker9001/GGK-LiveProduction-sub011/pkg/security"
	"github.com/baker9001/GGK-LiveProduction-sub011/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user    *repository.UserRepository
	paper   *repository.PaperRepository
	imports *repository.ImportRepository
	grading *repository.GradingRepository
}

type services struct {
	auth    *service.AuthService
	storage *service.StorageService
	paper   *service.PaperService
	grading *service.GradingService
	report  *service.ReportService
}

type controllers struct {
	auth    *controller.AuthController
	paper   *controller.PaperController
	grading *controller.GradingController
	health  *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB, rdb *redis.Client) *repositories {
	cacheTTL := time.Duration(a.Config.Import.CacheTTLMinutes) * time.Minute
	return &repositories{
		user:    repository.NewUserRepository(db),
		paper:   repository.NewPaperRepository(db, rdb, cacheTTL),
		imports: repository.NewImportRepository(db),
		grading: repository.NewGradingRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.auth = service.NewAuthService(repos.user, cfg)
	s.paper = service.NewPaperService(repos.paper, repos.imports, s.storage, cfg)
	s.grading = service.NewGradingService(repos.paper, repos.grading, cfg)
	s.report = service.NewReportService(repos.paper, repos.grading)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:    controller.NewAuthController(s.auth),
		paper:   controller.NewPaperController(s.paper),
		grading: controller.NewGradingController(s.grading, s.report),
		health:  controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db, rdb)
	services := app.initServices(repos, cfg)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("exam-engine", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
