package app

import (
	"context"
	"learning_path_backend/internal/config"
	"learning_path_backend/internal/controller"
	"learning_path_backend/internal/repository"
	"learning_path_backend/internal/service"
	"learning_path_backend/internal/util"
	"learning_path_backend/pkg/configwatcher"
	"learning_path_backend/pkg/database"
	"learning_path_backend/pkg/logger"
	"learning_path_backend/pkg/monitoring"
	"learning_path_backend/pkg/security"
	"learning_path_backend/pkg/tracing"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	tracer          *sdktrace.TracerProvider
	bgCtx           context.Context
	bgCancel        context.CancelFunc
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user         *repository.UserRepository
	group        *repository.GroupRepository
	learningPath *repository.LearningPathRepository
	content      *repository.ContentRepository
	assignment   *repository.ContentAssignmentRepository
	progress     *repository.ProgressRepository
	notification *repository.NotificationRepository
}

type services struct {
	resolver     *service.OwnershipResolver
	hub          *service.NotificationHub
	notification *service.NotificationService
	group        *service.GroupService
	learningPath *service.LearningPathService
	content      *service.ContentService
	assignment   *service.ContentAssignmentService
	progress     *service.ProgressService
	scheduler    *service.ActivityStatusScheduler
}

type controllers struct {
	progress     *controller.ProgressController
	learningPath *controller.LearningPathController
	assignment   *controller.ContentAssignmentController
	content      *controller.ContentController
	group        *controller.GroupController
	notification *controller.NotificationController
	health       *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:         repository.NewUserRepository(db),
		group:        repository.NewGroupRepository(db),
		learningPath: repository.NewLearningPathRepository(db),
		content:      repository.NewContentRepository(db),
		assignment:   repository.NewContentAssignmentRepository(db),
		progress:     repository.NewProgressRepository(db),
		notification: repository.NewNotificationRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.resolver = service.NewOwnershipResolver(repos.learningPath, repos.group, repos.assignment)

	s.hub = service.NewNotificationHub(rdb, cfg.Notification.Channel)
	go s.hub.Run(a.bgCtx)

	s.notification = service.NewNotificationService(repos.notification, s.hub)
	s.group = service.NewGroupService(repos.group, s.resolver, s.notification)
	s.learningPath = service.NewLearningPathService(repos.learningPath, s.resolver)
	s.content = service.NewContentService(repos.content)
	s.assignment = service.NewContentAssignmentService(repos.assignment, s.content, s.resolver)
	s.progress = service.NewProgressService(
		s.resolver,
		repos.learningPath,
		repos.group,
		repos.progress,
		repos.user,
		s.hub,
	)
	s.scheduler = service.NewActivityStatusScheduler(repos.assignment, s.notification, cfg.Scheduler.Interval)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		progress:     controller.NewProgressController(s.progress),
		learningPath: controller.NewLearningPathController(s.learningPath),
		assignment:   controller.NewContentAssignmentController(s.assignment),
		content:      controller.NewContentController(s.content),
		group:        controller.NewGroupController(s.group),
		notification: controller.NewNotificationController(s.notification, s.hub),
		health:       controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	router.Use(security.RateLimiter(a.bgCtx, cfg.RateLimit.MaxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	if a.Config.Scheduler.Enabled {
		s.scheduler.Start(a.bgCtx)
	}

	// 配置热更新：日志级别和定时任务间隔
	a.RegisterConfigCallback(logger.ApplyConfig)
	a.RegisterConfigCallback(func(cfg *config.Config) {
		s.scheduler.SetInterval(cfg.Scheduler.Interval)
	})
	dir := a.Config.Dir
	if dir == "" {
		dir = "configs"
	}
	err := configwatcher.WatchConfig(a.bgCtx, dir, func(cfg *config.Config) {
		for _, cb := range a.configCallbacks {
			cb(cfg)
		}
	})
	if err != nil {
		logger.Log.Warn("Config watcher disabled", zap.Error(err))
	}
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	migrate := cfg.ForceMigrate || cfg.Server.Mode != gin.ReleaseMode
	db, err := database.InitDB(&cfg.Database, migrate)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled {
		rdb, err = database.InitRedis(&cfg.Redis)
		if err != nil {
			logger.Log.Fatal("Failed to initialize redis", zap.Error(err))
			log.Fatalf("Failed to initialize redis: %v", err)
		}
	} else {
		logger.Log.Info("Redis disabled, notifications are delivered to local connections only")
	}

	bgCtx, bgCancel := context.WithCancel(context.Background())
	app := &App{
		Config:   cfg,
		DB:       db,
		Redis:    rdb,
		bgCtx:    bgCtx,
		bgCancel: bgCancel,
	}
	if cfg.MigrateOnly {
		return app
	}

	gin.SetMode(cfg.Server.Mode)
	util.RegisterValidators()

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(&cfg.Tracing)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	router := gin.New()
	router.Use(gin.Recovery())
	app.Router = router

	app.setupMiddlewares(router, cfg)
	app.registerRoutes(router, controllers, cfg)
	app.startBackgroundTasks(services)

	return app
}

// Close 停止后台任务并释放连接
func (a *App) Close() {
	if a.services != nil {
		a.services.scheduler.Stop()
	}
	a.bgCancel()

	if a.tracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}
	if sqlDB, err := a.DB.DB(); err == nil {
		sqlDB.Close()
	}
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		logger.Log.Info("Server running", zap.String("port", a.Config.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error("Server forced to shutdown", zap.Error(err))
	}

	a.Close()
	logger.Log.Info("Server exiting")
}
