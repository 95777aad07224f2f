package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/MaxonPy/kanban/internal/config"
	"github.com/MaxonPy/kanban/internal/handler"
	"github.com/MaxonPy/kanban/internal/metrics"
	"github.com/MaxonPy/kanban/internal/model"
	"github.com/MaxonPy/kanban/internal/repository"
	"github.com/MaxonPy/kanban/internal/service"
	"github.com/MaxonPy/kanban/internal/ws"
)

type Server struct {
	Engine   *gin.Engine
	DB       *gorm.DB
	Registry *ws.Registry
	Config   *config.Config
	Log      *zap.Logger
}

func Init(cfg *config.Config, log *zap.Logger) (*Server, error) {
	// Setup GORM
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		cfg.DBHost, cfg.DBPort, cfg.DBUser, cfg.DBPassword, cfg.DBName,
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	log.Info("✅ Connected to database")

	if err := migrate(db); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	// Setup Gin
	r := gin.Default()

	// Connection registry and notifier are the only long-lived shared state
	registry := ws.NewRegistry()
	notifier := ws.NewNotifier(registry, log)

	// Initialize repositories
	taskRepo := repository.NewTaskRepository(db)
	userRepo := repository.NewUserRepository(db)
	groupRepo := repository.NewGroupRepository(db)
	boardRepo := repository.NewBoardRepository(db)

	// Initialize the task manager and handlers
	taskService := service.NewTaskService(taskRepo, userRepo, notifier, cfg.NotifyBulkUpdate)

	taskHandler := handler.NewTaskHandler(taskService, taskRepo)
	userHandler := handler.NewUserHandler(userRepo, taskRepo)
	groupHandler := handler.NewGroupHandler(groupRepo, userRepo, taskRepo)
	boardHandler := handler.NewBoardHandler(boardRepo, taskRepo)
	wsHandler := handler.NewWSHandler(registry, log)

	// Task routes
	r.POST("/tasks", taskHandler.Create)
	r.GET("/tasks", taskHandler.GetAll)
	r.GET("/tasks/search", taskHandler.Search)
	r.GET("/tasks/upcoming", taskHandler.Upcoming)
	r.GET("/tasks/stats", taskHandler.Stats)
	r.PUT("/tasks/bulk/status", taskHandler.BulkUpdateStatus)
	r.GET("/tasks/status/:status", taskHandler.GetByStatus)
	r.GET("/tasks/priority/:priority", taskHandler.GetByPriority)
	r.GET("/tasks/group/:id", taskHandler.GetByGroup)
	r.GET("/tasks/:id", taskHandler.GetByID)
	r.PUT("/tasks/:id", taskHandler.Update)
	r.DELETE("/tasks/:id", taskHandler.Delete)
	r.POST("/tasks/:id/assign", taskHandler.Assign)
	r.DELETE("/tasks/:id/assign/:user_id", taskHandler.Unassign)

	// User routes
	r.POST("/users", userHandler.Create)
	r.GET("/users", userHandler.GetAll)
	r.GET("/users/:id", userHandler.GetByID)
	r.PUT("/users/:id", userHandler.Update)
	r.GET("/users/:id/tasks", userHandler.GetTasks)
	r.GET("/users/:id/boards", userHandler.GetBoards)
	r.GET("/users/:id/stats", userHandler.Stats)

	// Group routes
	r.POST("/groups", groupHandler.Create)
	r.GET("/groups", groupHandler.GetAll)
	r.GET("/groups/:id", groupHandler.GetByID)
	r.PUT("/groups/:id", groupHandler.Update)
	r.DELETE("/groups/:id", groupHandler.Delete)
	r.GET("/groups/:id/users", groupHandler.GetUsers)
	r.POST("/groups/:id/users/:user_id", groupHandler.AddUser)
	r.DELETE("/groups/:id/users/:user_id", groupHandler.RemoveUser)
	r.GET("/groups/:id/stats", groupHandler.Stats)

	// Board routes
	r.POST("/boards", boardHandler.Create)
	r.GET("/boards", boardHandler.GetAll)
	r.GET("/boards/search/by-name", boardHandler.Search)
	r.GET("/boards/:id", boardHandler.GetByID)
	r.PUT("/boards/:id", boardHandler.Update)
	r.DELETE("/boards/:id", boardHandler.Delete)
	r.GET("/boards/:id/tasks", boardHandler.GetTasks)
	r.GET("/boards/:id/stats", boardHandler.Stats)

	// Live task events
	r.GET("/ws/tasks", wsHandler.Subscribe)

	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return &Server{
		Engine:   r,
		DB:       db,
		Registry: registry,
		Config:   cfg,
		Log:      log,
	}, nil
}

// migrate создает схему и сущности по умолчанию (системный пользователь,
// группа и доска с ID = 1)
func migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.Group{},
		&model.Board{},
		&model.Task{},
		&model.Assignment{},
		&model.TaskAssigner{},
		&model.UserGroup{},
	); err != nil {
		return err
	}

	system := model.User{
		ID:         model.SystemUserID,
		TelegramID: 1,
		Name:       "system",
		Role:       model.RoleAdmin,
		Email:      "system@kanban.local",
	}
	if err := db.FirstOrCreate(&system, "id = ?", model.SystemUserID).Error; err != nil {
		return err
	}

	group := model.Group{ID: model.DefaultGroupID, Name: "default"}
	if err := db.FirstOrCreate(&group, "id = ?", model.DefaultGroupID).Error; err != nil {
		return err
	}

	board := model.Board{ID: model.DefaultBoardID, Name: "default", UserID: model.SystemUserID}
	return db.FirstOrCreate(&board, "id = ?", model.DefaultBoardID).Error
}

func (s *Server) Run() {
	srv := &http.Server{
		Addr:    ":" + s.Config.ServerPort,
		Handler: s.Engine,
	}

	go func() {
		s.Log.Info("🚀 Server running", zap.String("port", s.Config.ServerPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.Log.Fatal("failed to listen", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	s.Log.Info("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.Log.Fatal("server forced to shutdown", zap.Error(err))
	}

	// Drain live subscriber connections
	s.Registry.Close()

	s.Log.Info("✅ Server exited properly")
}
