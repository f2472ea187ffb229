package internal

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contest-arena/pkg/cache"
	"contest-arena/pkg/config"
	"contest-arena/pkg/database"
	"contest-arena/pkg/jwt"
	"contest-arena/pkg/ledger"
	"contest-arena/pkg/logger"
	"contest-arena/pkg/middleware"
	"contest-arena/pkg/queue"
	leaderboardHTTP "contest-arena/services/leaderboard/internal/controller/http"
	"contest-arena/services/leaderboard/internal/repo/persistent"
	"contest-arena/services/leaderboard/internal/usecase"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/gorm"

	_ "contest-arena/services/leaderboard/docs" // Swagger docs
)

type App struct {
	cfg         *config.Config
	log         *logger.Logger
	db          *gorm.DB
	redisClient *redis.Client
	jwtService  *jwt.Service
	queueClient *queue.Client
	httpServer  *http.Server
}

func NewApp(cfg *config.Config) (*App, error) {
	log := logger.New()

	db, err := database.NewPostgresDB(cfg)
	if err != nil {
		log.Error("Failed to connect to database: %v", err)
		return nil, err
	}

	redisClient, err := cache.NewRedisClient(cfg)
	if err != nil {
		log.Error("Failed to connect to redis: %v", err)
		return nil, err
	}

	queueClient, err := queue.NewRabbitMQClient(cfg, log)
	if err != nil {
		log.Error("Failed to connect to RabbitMQ: %v (continuing without queue)", err)
		queueClient = nil
	}

	jwtService := jwt.NewService(cfg.JWTSecret)

	return &App{
		cfg:         cfg,
		log:         log,
		db:          db,
		redisClient: redisClient,
		jwtService:  jwtService,
		queueClient: queueClient,
	}, nil
}

func (a *App) Run() error {
	liveRepo := persistent.NewLiveRepository(a.redisClient)
	archiveRepo := persistent.NewArchiveRepository(a.db)
	contestRepo := persistent.NewContestRepository(a.db)

	ledgerStore := ledger.NewStore(a.db, ledger.Limits{
		MaxDailyDeposit:    a.cfg.MaxDailyDeposit,
		MaxDailyWithdrawal: a.cfg.MaxDailyWithdrawal,
	})

	contestCache := cache.New(a.redisClient, 5*time.Minute)

	leaderboardUseCase := usecase.NewLeaderboardUseCase(
		liveRepo,
		archiveRepo,
		contestRepo,
		ledgerStore,
		contestCache,
		a.queueClient,
		a.log,
	)

	leaderboardHandler := leaderboardHTTP.NewLeaderboardHandler(leaderboardUseCase, a.log)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimitMiddleware(a.redisClient, 100, time.Minute))

	{
		api.GET("/leaderboards/:id", leaderboardHandler.GetLeaderboard)
		api.GET("/leaderboards/:id/history", leaderboardHandler.GetHistory)

		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(a.jwtService))
		{
			protected.POST("/leaderboards/:id/score", leaderboardHandler.UpdateScore)

			admin := protected.Group("")
			admin.Use(middleware.AdminMiddleware())
			{
				admin.POST("/leaderboards/:id/complete", leaderboardHandler.Complete)
			}
		}
	}

	a.httpServer = &http.Server{
		Addr:    ":" + a.cfg.ServerPort,
		Handler: r,
	}

	go func() {
		a.log.Info("Leaderboard service starting on port %s", a.cfg.ServerPort)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.log.Error("Failed to start server: %v", err)
			panic(err)
		}
	}()

	return nil
}

func (a *App) Wait() {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	a.log.Info("Shutting down leaderboard service...")
}

func (a *App) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sqlDB, err := a.db.DB()
	if err == nil {
		if err := sqlDB.Close(); err != nil {
			a.log.Error("Error closing database: %v", err)
		}
	}

	if err := a.redisClient.Close(); err != nil {
		a.log.Error("Error closing Redis: %v", err)
	}

	if a.queueClient != nil {
		a.queueClient.Close()
	}

	if err := a.httpServer.Shutdown(ctx); err != nil {
		a.log.Error("Server forced to shutdown: %v", err)
		return err
	}

	a.log.Info("Leaderboard service exited")
	return nil
}
