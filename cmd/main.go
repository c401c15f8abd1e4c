package main

import (
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"overlay-backend/internal/capture"
	"overlay-backend/internal/channel"
	"overlay-backend/internal/config"
	"overlay-backend/internal/handler"
	"overlay-backend/internal/llm"
	"overlay-backend/internal/service"
	"overlay-backend/internal/storage"
	"overlay-backend/internal/window"
	"overlay-backend/pkg/logger"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "./configs/config.yaml", "配置文件路径")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 初始化日志
	if err := logger.Init(cfg.Log.Level, cfg.Log.Format); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}

	// 初始化存储
	var prompts storage.PromptStore
	switch cfg.Storage.Type {
	case "memory":
		prompts = storage.NewMemoryPromptStore()
	default:
		prompts = storage.NewDiskPromptStore(cfg.Storage.DataDir)
	}
	if err := prompts.Init(); err != nil {
		logger.Fatalf("Failed to init prompt storage: %v", err)
	}
	defer prompts.Close()

	// 初始化窗口协调器
	broadcaster := channel.NewBroadcaster()
	gateway := capture.NewGateway()
	coordinator := window.NewCoordinator(window.NewHeadlessBackend(), gateway, broadcaster, cfg.Window)
	if err := coordinator.StartPrimary(); err != nil {
		logger.Fatalf("Failed to create primary window: %v", err)
	}

	// 初始化服务
	llmClient := llm.NewClient(cfg.Gemini)
	chatService := service.NewChatService(cfg.Chat, storage.NewMemoryTranscript(), prompts, llmClient, broadcaster)

	// 初始化控制面
	dispatcher := channel.NewDispatcher(handler.NewRouter(coordinator, llmClient))
	defer dispatcher.Close()

	controlHandler := handler.NewControlHandler(dispatcher, broadcaster, coordinator)
	chatHandler := handler.NewChatHandler(chatService, cfg.Chat)

	// 创建路由
	router := setupRouter(cfg, controlHandler, chatHandler)

	// 创建HTTP服务器
	server := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        router,
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// 主窗口销毁后按平台惯例决定是否退出进程
	coordinator.SetOnPrimaryClosed(func() {
		if runtime.GOOS == "darwin" {
			logger.Info("主窗口已关闭，进程保持驻留")
			return
		}
		quit <- syscall.SIGTERM
	})

	// 启动服务器
	go func() {
		logger.Infof("服务器启动在端口 %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("服务器启动失败: %v", err)
		}
	}()

	// 等待信号优雅关闭
	<-quit

	logger.Info("服务器正在关闭...")
	if err := server.Close(); err != nil {
		logger.Errorf("服务器关闭失败: %v", err)
	}
	logger.Info("服务器已关闭")
}

func setupRouter(cfg *config.Config, controlHandler *handler.ControlHandler, chatHandler *handler.ChatHandler) *gin.Engine {
	// 设置gin模式
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// 中间件
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	// CORS配置
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    cfg.CORS.ExposedHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           time.Duration(cfg.CORS.MaxAge) * time.Second,
	}
	router.Use(cors.New(corsConfig))

	// 健康检查
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "ok",
			"timestamp": time.Now().Unix(),
		})
	})

	// API路由
	api := router.Group("/api")
	{
		// 控制面：通知、调用、事件流、快捷键
		api.POST("/notify", controlHandler.Notify)
		api.POST("/call", controlHandler.Call)
		api.GET("/events", controlHandler.Events)
		api.POST("/shortcut", controlHandler.Shortcut)
		api.POST("/capture/toggle", controlHandler.ToggleCapture)

		chat := api.Group("/chat")
		{
			chat.GET("/messages", chatHandler.GetMessages)
			chat.POST("/message", chatHandler.SubmitMessage)
			chat.PUT("/message/:message_id", chatHandler.EditMessage)
			chat.POST("/reset", chatHandler.ResetContext)
		}

		prompts := api.Group("/prompts")
		{
			prompts.POST("", chatHandler.CreatePrompt)
			prompts.GET("", chatHandler.ListPrompts)
			prompts.GET("/active", chatHandler.GetActivePrompt)
			prompts.POST("/activate", chatHandler.ActivatePrompt)
			prompts.GET("/:prompt_id", chatHandler.GetPrompt)
			prompts.PUT("/:prompt_id", chatHandler.UpdatePrompt)
			prompts.DELETE("/:prompt_id", chatHandler.DeletePrompt)
		}
	}

	return router
}
