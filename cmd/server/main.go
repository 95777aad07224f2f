package main

import (
	"log"

	_ "github.com/MaxonPy/kanban/docs"
	"github.com/MaxonPy/kanban/internal/config"
	"github.com/MaxonPy/kanban/internal/logging"
	"github.com/MaxonPy/kanban/internal/server"
)

// @title           Classroom Kanban API
// @version         1.0
// @description     API for managing classroom tasks with live websocket notifications.

// @host      localhost:8080
// @BasePath  /

// @schemes http ws
func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.Env)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}
	defer logger.Sync()

	s, err := server.Init(cfg, logger)
	if err != nil {
		log.Fatalf("❌ Server initialization failed: %v", err)
	}

	s.Run()
}
