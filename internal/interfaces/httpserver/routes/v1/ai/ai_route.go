package ai

import (
	"github.com/gin-gonic/gin"

	"venturedesk/ai-api/internal/interfaces/httpserver/handlers/aihandler"
	"venturedesk/ai-api/internal/interfaces/httpserver/handlers/providerhandler"
	middleware "venturedesk/ai-api/internal/interfaces/httpserver/middlewares"
)

// AIRoute wires the gateway endpoints under /ai.
type AIRoute struct {
	aiHandler       *aihandler.AIHandler
	providerHandler *providerhandler.ProviderHandler
}

func NewAIRoute(aiHandler *aihandler.AIHandler, providerHandler *providerhandler.ProviderHandler) *AIRoute {
	return &AIRoute{
		aiHandler:       aiHandler,
		providerHandler: providerHandler,
	}
}

// RegisterRouter registers AI gateway routes on the given router
func (r *AIRoute) RegisterRouter(router gin.IRouter) {
	aiGroup := router.Group("/ai")
	aiGroup.Use(middleware.RequireTenant())
	{
		aiGroup.POST("/generate", r.aiHandler.Generate)
		aiGroup.POST("/embeddings", r.aiHandler.Embeddings)

		providers := aiGroup.Group("/providers")
		providers.GET("", r.providerHandler.List)
		providers.PUT("/:provider", r.providerHandler.Connect)
		providers.DELETE("/:provider", r.providerHandler.Disconnect)
	}
}
