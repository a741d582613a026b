package main

import (
	"github.com/celianh/marketplace-backend/internal/config"
	"github.com/celianh/marketplace-backend/internal/db"
	"github.com/celianh/marketplace-backend/internal/logger"
	"github.com/celianh/marketplace-backend/internal/model"
	"github.com/celianh/marketplace-backend/internal/server"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.L().Fatal("config load error", zap.Error(err))
	}
	logger.Init(cfg.Env)
	defer logger.Sync()

	conn, err := db.Connect(cfg)
	if err != nil {
		logger.L().Fatal("db connect error", zap.Error(err))
	}
	if err := conn.AutoMigrate(
		&model.User{},
		&model.Category{},
		&model.Article{},
		&model.Conversation{},
		&model.Message{},
		&model.FraudLog{},
	); err != nil {
		logger.L().Fatal("auto migrate error", zap.Error(err))
	}

	srv := server.New(cfg, conn)
	addr := ":" + cfg.Port
	logger.L().Info("starting server", zap.String("addr", addr))
	if err := srv.Start(addr); err != nil {
		logger.L().Fatal("server stopped", zap.Error(err))
	}
}
