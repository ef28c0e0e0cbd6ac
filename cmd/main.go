package main

import (
	"pdf-editor-server/config"
	_ "pdf-editor-server/docs"
	"pdf-editor-server/internal/handler"
	"pdf-editor-server/internal/repository"
	"pdf-editor-server/internal/security"
	"pdf-editor-server/internal/service"
	"context"
	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	httpSwagger "github.com/swaggo/http-swagger"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// @title PDF-editor-server
// @version 1.0
// @description REST API для редактирования документов через внешний сервер документов

// @host localhost:8080
func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.LoadConfig("config.yaml")
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	db, err := config.SetupDatabase(cfg.DatabaseConfig.DSN)
	if err != nil {
		log.Fatalf("Не удалось подключиться к БД: %v", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Printf("Ошибка при закрытии БД: %v", err)
		}
	}()

	redisClient, err := config.SetupRedis(&cfg.RedisConfig)
	if err != nil {
		log.Fatalf("Ошибка подключения к Redis: %v", err)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Printf("Ошибка при закрытии Redis: %v", err)
		}
	}()

	srv, router := config.SetupServer(cfg.ServerAddr)

	ttl := time.Duration(cfg.TTL.S3AndRedis) * time.Second

	docRepo := repository.NewDocumentRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, ttl)

	s3Service, err := service.NewS3Service(ctx, &cfg.S3Config)
	if err != nil {
		log.Fatalf("Ошибка создания S3 сервиса: %v", err)
	}

	docServerJWT := security.NewDocServerJWT(&cfg.DocumentServer)

	conversionClient := service.NewHTTPConversionClient(&cfg.DocumentServer, docServerJWT)
	conversionService := service.NewConversionService(
		docRepo,
		cacheRepo,
		s3Service,
		conversionClient,
		time.Duration(cfg.Conversion.IntervalSeconds)*time.Second,
		cfg.Conversion.MaxAttempts,
		ttl,
	)

	sessionService := service.NewSessionService(docRepo, cacheRepo, s3Service, docServerJWT, &cfg.DocumentServer, ttl)
	callbackService := service.NewCallbackService(docRepo, cacheRepo, s3Service, ttl)
	docService := service.NewDocumentService(docRepo, cacheRepo, s3Service, conversionService, ttl)

	// супервизор фоновых сохранений после раннего подтверждения
	go callbackService.MonitorErrors(ctx)

	docHandler := handler.NewDocumentHandler(docService)
	editorHandler := handler.NewEditorHandler(sessionService, callbackService, docService, docServerJWT, &cfg.Webhook)

	router.Get("/swagger/*", httpSwagger.WrapHandler)

	setupDocumentRoutes(router, docHandler, editorHandler)

	runServer(ctx, srv)
}

func setupDocumentRoutes(r chi.Router, h *handler.DocumentHandler, eh *handler.EditorHandler) {
	r.Route("/api/docs", func(r chi.Router) {
		r.Get("/", h.ListDocuments)
		r.Post("/", h.CreateDocument)
		r.Post("/blank", h.CreateBlankDocument)

		r.Route("/{doc_id}", func(r chi.Router) {
			r.Get("/", h.GetDocument)
			r.Put("/", h.RenameDocument)
			r.Delete("/", h.DeleteDocument)
			r.Get("/config", eh.GetEditorConfig)
			r.Post("/convert", eh.ConvertDocument)
		})
	})

	// webhook внешнего сервера документов
	r.Post("/editor/callback", eh.Callback)
}

func runServer(ctx context.Context, server *http.Server) {
	serverErrors := make(chan error, 1)
	go func() {
		log.Println("сервер запущен на " + server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	signalChannel := make(chan os.Signal, 1)
	signal.Notify(signalChannel, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil {
			log.Fatalf("ошибка работы сервера: %v", err)
		}
	case sig := <-signalChannel:
		log.Printf("получен сигнал %v остановки работы сервера ", sig)
	}

	shutDownCtx, shutDownCancel := context.WithTimeout(ctx, 5*time.Second)
	defer shutDownCancel()

	if err := server.Shutdown(shutDownCtx); err != nil {
		log.Printf("ошибка при остановке сервера: %v", err)
	} else {
		log.Println("Сервер успешно остановлен")
	}
}
