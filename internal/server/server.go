package server

import (
	"context"
	"net/http"
	"time"

	"github.com/celianh/marketplace-backend/internal/auth"
	"github.com/celianh/marketplace-backend/internal/config"
	"github.com/celianh/marketplace-backend/internal/handler"
	"github.com/celianh/marketplace-backend/internal/logger"
	appmw "github.com/celianh/marketplace-backend/internal/middleware"
	"github.com/celianh/marketplace-backend/internal/repository"
	"github.com/celianh/marketplace-backend/internal/service"
	"github.com/celianh/marketplace-backend/internal/storage"
	"github.com/celianh/marketplace-backend/internal/ws"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Server struct {
	e *echo.Echo
}

func New(cfg *config.Config, db *gorm.DB) *Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:8000"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	tokens := auth.NewManager(cfg.JWTSecret, time.Duration(cfg.AccessTokenLifeM)*time.Minute)
	hub := ws.NewHub()

	userRepo := repository.NewUserRepository(db)
	articleRepo := repository.NewArticleRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	convRepo := repository.NewConversationRepository(db)
	fraudRepo := repository.NewFraudLogRepository(db)

	userSvc := service.NewUserService(userRepo)
	fraudSvc := service.NewFraudService(fraudRepo)
	articleSvc := service.NewArticleService(articleRepo, fraudSvc)
	categorySvc := service.NewCategoryService(categoryRepo)
	convSvc := service.NewConversationService(convRepo, articleRepo, hub)
	checkoutSvc := service.NewCheckoutService(convRepo, articleRepo, hub)

	authHandler := handler.NewAuthHandler(userSvc, tokens)
	userHandler := handler.NewUserHandler(userSvc)
	articleHandler := handler.NewArticleHandler(articleSvc)
	categoryHandler := handler.NewCategoryHandler(categorySvc)
	convHandler := handler.NewConversationHandler(convSvc, checkoutSvc)
	fraudHandler := handler.NewFraudHandler(fraudSvc)
	wsHandler := ws.NewHandler(hub, tokens, convSvc)

	authMw := appmw.NewAuthMiddleware(tokens, userRepo)

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api/v1")

	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login/access-token", authHandler.Login)

	api.GET("/users/me", userHandler.Me, authMw.RequireAuth)
	api.PUT("/users/me", userHandler.UpdateMe, authMw.RequireAuth)

	api.GET("/articles", articleHandler.List)
	api.GET("/articles/admin/all", articleHandler.ListAll, authMw.RequireAuth, authMw.RequireAdmin)
	api.GET("/articles/mine", articleHandler.ListMine, authMw.RequireAuth)
	api.GET("/articles/:id", articleHandler.Get)
	api.POST("/articles", articleHandler.Create, authMw.RequireAuth, authMw.RequireSeller)
	api.PUT("/articles/:id", articleHandler.Update, authMw.RequireAuth)
	api.PUT("/articles/:id/price", articleHandler.UpdatePrice, authMw.RequireAuth)
	api.PUT("/articles/:id/approve", articleHandler.Approve, authMw.RequireAuth, authMw.RequireAdmin)
	api.DELETE("/articles/:id", articleHandler.Delete, authMw.RequireAuth)

	api.GET("/categories", categoryHandler.List)
	api.POST("/categories", categoryHandler.Create, authMw.RequireAuth, authMw.RequireAdmin)
	api.DELETE("/categories/:id", categoryHandler.Delete, authMw.RequireAuth, authMw.RequireAdmin)

	api.POST("/conversations", convHandler.CreateOrGet, authMw.RequireAuth)
	api.GET("/conversations", convHandler.List, authMw.RequireAuth)
	api.GET("/conversations/:id", convHandler.Get, authMw.RequireAuth)
	api.POST("/conversations/:id/messages", convHandler.PostMessage, authMw.RequireAuth)
	api.POST("/conversations/:id/checkout", convHandler.Checkout, authMw.RequireAuth)
	// Auth happens inside the handler: the credential arrives as a query
	// param and failures close with code 1008.
	api.GET("/conversations/:id/ws", wsHandler.Serve)

	api.GET("/fraud-logs", fraudHandler.List, authMw.RequireAuth, authMw.RequireAdmin)
	api.PUT("/fraud-logs/:id/resolve", fraudHandler.Resolve, authMw.RequireAuth, authMw.RequireAdmin)

	if cfg.StorageBucket != "" {
		uploader, err := storage.NewGCSUploader(context.Background(), cfg.StorageBucket)
		if err != nil {
			logger.L().Warn("uploads disabled", zap.Error(err))
		} else {
			uploadHandler := handler.NewUploadHandler(uploader)
			api.POST("/uploads", uploadHandler.Upload, authMw.RequireAuth)
		}
	}

	return &Server{e: e}
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
