package http

import (
	"time"

	"github.com/gin-gonic/gin"

	"docuchat/internal/ai"
	appsvc "docuchat/internal/app"
	"docuchat/internal/bootstrap"
	"docuchat/internal/cache"
	"docuchat/internal/pkg/pdfextract"
	"docuchat/internal/platform/rabbitmq"
	"docuchat/internal/repository"
	"docuchat/internal/transport/http/handler"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	cfg := app.Config
	chatCfg := ai.ChatConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.Model,
	}
	embCfg := ai.EmbeddingConfig{
		BaseURL: cfg.LLM.BaseURL,
		APIKey:  cfg.LLM.APIKey,
		Model:   cfg.LLM.EmbeddingModel,
	}

	chatRepo := repository.NewChatRepository(app.DB)
	chunkRepo := repository.NewChunkRepository(app.DB)
	docRepo := repository.NewDocumentRepository(app.DB)
	transcripts := cache.NewTranscriptCache(app.Redis, time.Duration(cfg.Redis.TranscriptTTLSeconds)*time.Second)
	publisher := rabbitmq.NewCatalogPublisher(app.MQConn, cfg.RabbitMQ.CatalogQueue)

	storeService := appsvc.NewChatStoreService(chatRepo, app.Objects, transcripts)
	ingestService := appsvc.NewIngestService(
		app.Objects,
		chunkRepo,
		publisher,
		app.LLM,
		embCfg,
		pdfextract.ExtractFile,
		cfg.App.WorkDir,
		cfg.RAG.ChunkSize,
		cfg.RAG.ChunkOverlap,
	)
	answerService := appsvc.NewAnswerService(app.LLM, chunkRepo, chatCfg, embCfg, cfg.RAG.TopK)

	healthHandler := handler.NewHealthHandler(app.StartedAt)
	chatHandler := handler.NewChatHandler(answerService)
	sessionHandler := handler.NewSessionHandler(storeService)
	pdfHandler := handler.NewPDFHandler(ingestService, docRepo)

	router.GET("/healthz", healthHandler.Check)
	router.POST("/chat/", chatHandler.Chat)
	router.POST("/rag_chat/", chatHandler.RAGChat)
	router.GET("/load_chat/", sessionHandler.Load)
	router.POST("/save_chat/", sessionHandler.Save)
	router.POST("/delete_chat/", sessionHandler.Delete)
	router.POST("/upload_pdf/", pdfHandler.Upload)
	router.GET("/documents/", pdfHandler.List)

	return router
}
