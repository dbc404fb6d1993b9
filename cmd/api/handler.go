package api

import (
	authDelivery "uniwork-backend/internal/auth/delivery"
	authUsecase "uniwork-backend/internal/auth/usecase"
	chatDelivery "uniwork-backend/internal/chat/delivery"
	chatUsecasePkg "uniwork-backend/internal/chat/usecase"
	syncDelivery "uniwork-backend/internal/sync/delivery"
	taskDelivery "uniwork-backend/internal/task/delivery"
	taskUsecasePkg "uniwork-backend/internal/task/usecase"
	"uniwork-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	authUsecase authUsecase.AuthUsecase
	config      *config.Config
	authHandler *authDelivery.AuthHandler
	taskHandler *taskDelivery.TaskHandler
	chatHandler *chatDelivery.ChatHandler
	syncHandler *syncDelivery.SyncHandler
}

func NewHandler(
	authUc authUsecase.AuthUsecase,
	taskUc taskUsecasePkg.TaskUsecase,
	chatUc chatUsecasePkg.ChatUsecase,
	authHandler *authDelivery.AuthHandler,
	syncHandler *syncDelivery.SyncHandler,
	cfg *config.Config,
) *Handler {
	return &Handler{
		authUsecase: authUc,
		config:      cfg,
		authHandler: authHandler,
		taskHandler: taskDelivery.NewTaskHandler(taskUc),
		chatHandler: chatDelivery.NewChatHandler(chatUc),
		syncHandler: syncHandler,
	}
}

func (h *Handler) Start(addr string) error {
	r := gin.Default()
	gin.SetMode(gin.ReleaseMode)

	// CORS middleware
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		} else {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	SetupRoutes(r, h.authUsecase, h.config, h.authHandler, h.taskHandler, h.chatHandler, h.syncHandler)

	return r.Run(addr)
}
