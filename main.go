package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/usifszone1/bills/client"
	"github.com/usifszone1/bills/config"
	"github.com/usifszone1/bills/handler"
	"github.com/usifszone1/bills/logger"
	"github.com/usifszone1/bills/metrics"
	"github.com/usifszone1/bills/middleware"
	"github.com/usifszone1/bills/service"
	"github.com/usifszone1/bills/utils"
)

func main() {
	// Initialize configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zl.Sync() //nolint:errcheck

	m := metrics.New()

	// Tesseract reads TESSDATA_PREFIX when no prefix is passed explicitly
	os.Setenv("TESSDATA_PREFIX", cfg.TesseractDataPath)

	var ocr service.OCRClient
	if cfg.OCREnabled {
		tesseractClient := client.NewTesseractClient(cfg.TesseractDataPath, cfg.OCRLanguages)
		ocr = tesseractClient
		zl.Info("tesseract OCR enabled",
			zap.String("tessdata", cfg.TesseractDataPath),
			zap.Strings("languages", tesseractClient.Languages()),
		)
	} else {
		zl.Warn("OCR disabled, scanned documents will be rejected")
	}

	// Initialize PDF processor
	pdfProcessor := service.NewPDFProcessor()

	// Initialize service layer
	customers := utils.NewCustomerParser().WithDefaultMemberOf(cfg.DefaultMemberOf)
	receiptService := service.NewReceiptService(cfg.Pharmacy,
		service.WithLogger(zl.Named("receipts")),
		service.WithMetrics(m),
		service.WithCustomerParser(customers),
		service.WithSurchargeRate(cfg.SurchargeRate),
		service.WithBatchConcurrency(cfg.BatchConcurrency),
	)
	documentService := service.NewDocumentService(
		pdfProcessor,
		ocr,
		service.NewClaimBarcodeReader(),
		receiptService,
		zl.Named("documents"),
		m,
	)

	// Initialize handler layer
	receiptHandler := handler.NewReceiptHandler(receiptService, documentService, zl.Named("http"), cfg.MaxFileSize, cfg.MaxBatchSize)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(middleware.RequestID())
	router.Use(middleware.Recovery(zl))
	router.Use(middleware.RequestLogger(zl))

	// Multipart bodies above this size are spooled to disk
	router.MaxMultipartMemory = cfg.MaxFileSize

	// Health check endpoint
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "Pharmacy Claim Extraction",
		})
	})
	router.GET("/metrics", gin.WrapH(m.Handler()))

	// API routes
	api := router.Group("/api/v1")
	receiptHandler.RegisterRoutes(api)

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		zl.Info("starting Pharmacy Claim Extraction service", zap.String("port", cfg.ServerPort))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zl.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zl.Error("server forced to shutdown", zap.Error(err))
	}
}
