package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"infomate/internal/chunker"
	"infomate/internal/config"
	"infomate/internal/document"
	"infomate/internal/domain"
	"infomate/internal/embedding/gemini"
	"infomate/internal/embedding/tfidf"
	"infomate/internal/llm"
	"infomate/internal/server"
	"infomate/internal/service"
	"infomate/internal/session"
	"infomate/internal/summarizer"
	"infomate/internal/vectorstore/memory"
	qdrantstore "infomate/internal/vectorstore/qdrant"
)

func main() {
	_ = godotenv.Load()

	var cfgPath, docPath string
	flag.StringVar(&cfgPath, "config", "", "Path to YAML config file (optional; uses ~/.config/infomate/config.yaml if not provided)")
	flag.StringVar(&docPath, "doc", "", "Path to the source document (overrides config)")
	flag.Parse()

	var cfg *config.AppConfig
	var err error
	if cfgPath == "" {
		cfg, _, err = config.LoadDefault()
	} else {
		cfg, err = config.Load(cfgPath)
	}
	if err != nil {
		fatal("failed to load config", err)
	}
	if docPath == "" {
		docPath = cfg.Document.Path
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		fatal("failed to build logger", err)
	}
	defer func() { _ = logger.Sync() }()

	// Assemble components
	var emb domain.Embedder
	switch cfg.Embedder.Type {
	case "gemini", "":
		g := cfg.Embedder.Gemini
		embClient, err := gemini.NewClient(gemini.Config{
			BaseURL:   g.BaseURL,
			APIKeyEnv: g.APIKeyEnv,
			Model:     g.Model,
			Timeout:   time.Duration(g.TimeoutSecs) * time.Second,
		})
		if err != nil {
			logger.Warn("gemini embedder unavailable, falling back to local tf-idf", zap.Error(err))
			emb = tfidf.NewEmbedder()
		} else {
			emb = embClient
		}
	case "tfidf":
		emb = tfidf.NewEmbedder()
	default:
		fatal("unknown embedder: "+cfg.Embedder.Type, nil)
	}

	var gen domain.Generator
	g := cfg.Generator.Gemini
	genClient, err := llm.NewClient(llm.Config{
		BaseURL:   g.BaseURL,
		APIKeyEnv: g.APIKeyEnv,
		Model:     g.Model,
		Timeout:   time.Duration(g.TimeoutSecs) * time.Second,
	})
	if err != nil {
		logger.Warn("generative gateway unavailable; generative answers will fail", zap.Error(err))
		gen = llm.Disabled{Reason: err}
	} else {
		gen = genClient
	}

	var store domain.VectorStore
	switch cfg.VectorStore.Type {
	case "memory", "":
		store = memory.NewStore()
	case "qdrant":
		q := cfg.VectorStore.Qdrant
		qs, err := qdrantstore.Connect(qdrantstore.Config{Addr: q.Addr, Collection: q.Collection})
		if err != nil {
			fatal("failed to connect to qdrant", err)
		}
		store = qs
	default:
		fatal("unknown vector store: "+cfg.VectorStore.Type, nil)
	}

	sessions := session.NewStore(cfg.Sessions.MaxTurns, cfg.Sessions.MaxSessions)
	svc := service.New(
		chunker.NewWindowChunker(cfg.Chunker.ChunkSize, *cfg.Chunker.Overlap),
		emb,
		store,
		gen,
		summarizer.NewFrequencySummarizer(),
		sessions,
		logger,
		service.Config{TopK: cfg.Server.TopK, SummarySentences: cfg.Summarizer.MaxSentences},
	)

	// Build the index before accepting queries. A missing or empty document
	// degrades the service to "index not ready" instead of crashing.
	buildIndex(svc, docPath, logger)

	srv := server.New(svc, logger)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("listening", zap.String("addr", cfg.Server.Addr))
		if err := srv.Start(cfg.Server.Addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown failed", zap.Error(err))
	}
}

func buildIndex(svc *service.ChatService, docPath string, logger *zap.Logger) {
	text, err := document.Load(docPath)
	if err != nil {
		logger.Warn("document not indexed; queries will get 503 until it is available",
			zap.String("path", docPath),
			zap.Error(err),
		)
		return
	}
	if err := svc.BuildIndex(context.Background(), filepath.Base(docPath), text); err != nil {
		logger.Error("failed to build index", zap.Error(err))
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	var zcfg zap.Config
	if cfg.Format == "json" {
		zcfg = zap.NewProductionConfig()
	} else {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}

func fatal(msg string, err error) {
	if err != nil {
		msg += ": " + err.Error()
	}
	os.Stderr.WriteString(msg + "\n")
	os.Exit(1)
}
