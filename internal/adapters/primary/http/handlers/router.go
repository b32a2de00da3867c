package handlers

import (
	"diabetes-prediction-service/internal/adapters/primary/http/middleware"

	"github.com/gin-gonic/gin"
)

// NewRouter wires the middleware chain and routes used by the server.
func NewRouter(h *Handler, allowedOrigins []string) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Logging(), gin.Recovery(), middleware.CORS(allowedOrigins))
	h.RegisterRoutes(router)
	return router
}
