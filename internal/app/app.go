package app

import (
	"context"
	"log"
	"mathpath_backend/internal/config"
	"mathpath_backend/internal/controller"
	"mathpath_backend/internal/repository"
	"mathpath_backend/internal/service"
	"mathpath_backend/pkg/database"
	"mathpath_backend/pkg/logger"
	"mathpath_backend/pkg/monitoring"
	"mathpath_backend/pkg/security"
	"mathpath_backend/pkg/tracing"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config          *config.Config
	Router          *gin.Engine
	DB              *gorm.DB
	Redis           *redis.Client
	services        *services
	configCallbacks []func(*config.Config)
}

type repositories struct {
	user     *repository.UserRepository
	student  *repository.StudentRepository
	concept  *repository.ConceptRepository
	problem  *repository.ProblemRepository
	progress *repository.ProgressRepository
	attempt  *repository.AttemptRepository
	path     *repository.LearningPathRepository
	goal     *repository.GoalRepository
	admin    *repository.AdminRepository
}

type services struct {
	storage        *service.StorageService
	ai             *service.AIService
	auth           *service.AuthService
	user           *service.UserService
	student        *service.StudentService
	concept        *service.ConceptService
	path           *service.LearningPathService
	goal           *service.GoalService
	progress       *service.ProgressService
	recommendation *service.RecommendationService
	admin          *service.AdminService
}

type controllers struct {
	auth     *controller.AuthController
	user     *controller.UserController
	student  *controller.StudentController
	concept  *controller.ConceptController
	attempt  *controller.AttemptController
	progress *controller.ProgressController
	goal     *controller.GoalController
	admin    *controller.AdminController
	health   *controller.HealthController
}

func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

// ApplyConfig 配置文件热更新入口：只替换可以安全热替换的调参段
// （掌握度/目标/AI），端口、数据库等需要重启的项保持不变。
func (a *App) ApplyConfig(cfg *config.Config) {
	a.Config.Mastery = cfg.Mastery
	a.Config.Goal = cfg.Goal
	a.Config.AI = cfg.AI

	for _, callback := range a.configCallbacks {
		callback(a.Config)
	}
	logger.Log.Info("config reloaded")
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:     repository.NewUserRepository(db),
		student:  repository.NewStudentRepository(db),
		concept:  repository.NewConceptRepository(db),
		problem:  repository.NewProblemRepository(db),
		progress: repository.NewProgressRepository(db),
		attempt:  repository.NewAttemptRepository(db),
		path:     repository.NewLearningPathRepository(db),
		goal:     repository.NewGoalRepository(db),
		admin:    repository.NewAdminRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	storage, err := service.NewStorageService(cfg.Storage)
	if err != nil {
		logger.Log.Fatal("Failed to initialize storage", zap.Error(err))
	}
	s.storage = storage

	s.ai = service.NewAIService(cfg.AI)
	s.student = service.NewStudentService(repos.student, repos.user, repos.progress, rdb)
	s.auth = service.NewAuthService(repos.user, repos.student, s.student, cfg)
	s.user = service.NewUserService(repos.user, repos.admin, s.storage)
	s.concept = service.NewConceptService(repos.concept, repos.problem, rdb)
	s.path = service.NewLearningPathService(repos.path, repos.concept, repos.student)
	s.goal = service.NewGoalService(repos.goal, repos.attempt, repos.student, cfg)
	s.progress = service.NewProgressService(
		repos.progress,
		repos.attempt,
		repos.problem,
		s.student,
		s.goal,
		s.ai,
		cfg,
		db,
	)
	s.recommendation = service.NewRecommendationService(repos.concept, repos.progress, repos.problem, s.path, cfg, db)
	s.admin = service.NewAdminService(repos.admin, db)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:     controller.NewAuthController(s.auth, s.user),
		user:     controller.NewUserController(s.user),
		student:  controller.NewStudentController(s.student, s.path),
		concept:  controller.NewConceptController(s.concept),
		attempt:  controller.NewAttemptController(s.progress, s.concept, s.ai),
		progress: controller.NewProgressController(s.progress, s.recommendation),
		goal:     controller.NewGoalController(s.goal),
		admin:    controller.NewAdminController(s.admin),
		health:   controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	windowMinutes := cfg.RateLimit.WindowMinutes
	if windowMinutes <= 0 {
		windowMinutes = 1
	}
	router.Use(security.RateLimiter(maxRequests, time.Duration(windowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	// 每小时重算一次所有学生的周统计，补上接口路径漏掉的聚合
	go func() {
		ticker := time.NewTicker(time.Hour)
		for range ticker.C {
			s.goal.RecomputeAllWeekly()
		}
	}()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

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

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	app.services = services
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("mathpath", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == "local" || cfg.Storage.Type == "" {
		path := cfg.Storage.LocalPath
		if path == "" {
			path = "./uploads"
		}
		router.Static("/uploads", path)
	}

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
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
