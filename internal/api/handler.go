package api

import (
	"net/http"
	"strconv"
	"time"

	"salesbot-service/internal/service"
	"salesbot-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	chatService *service.ChatService
}

// NewHandler creates a new HTTP handler
func NewHandler(chatService *service.ChatService) *Handler {
	return &Handler{
		chatService: chatService,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.CustomRecovery(func(c *gin.Context, _ interface{}) {
		c.JSON(http.StatusInternalServerError, chatResponse{
			Response: "Sorry, something went wrong on our end. Please try again in a moment.",
		})
	}))
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/ready", h.readinessCheck)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/chat", h.chat)
}

// healthCheck handles health check requests
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"time":   time.Now().Unix(),
	})
}

// readinessCheck handles readiness check requests
func (h *Handler) readinessCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ready",
		"time":   time.Now().Unix(),
	})
}

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

// chat handles one inbound chat message. Validation errors carry a
// user-facing prompt string, not a machine error code, because the
// widget shows these bodies to the customer directly.
func (h *Handler) chat(c *gin.Context) {
	var req chatRequest

	if err := c.ShouldBindJSON(&req); err != nil || req.Message == "" || req.SessionID == "" {
		c.JSON(http.StatusBadRequest, chatResponse{
			Response:  "Please type a message so I can help you.",
			SessionID: req.SessionID,
		})
		return
	}

	response := h.chatService.HandleMessage(c.Request.Context(), req.SessionID, req.Message)

	c.JSON(http.StatusOK, chatResponse{
		Response:  response,
		SessionID: req.SessionID,
	})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
