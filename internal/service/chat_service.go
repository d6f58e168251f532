package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"infomate/internal/domain"
	"infomate/internal/extract"
	"infomate/internal/session"
)

// ChatService orchestrates the query pipeline: retrieval over the vector
// index, the deterministic numeric path, and generative fallback, updating
// per-session conversation history on every answered query.
type ChatService struct {
	chunker    domain.Chunker
	embedder   domain.Embedder
	store      domain.VectorStore
	generator  domain.Generator
	summarizer domain.Summarizer
	sessions   *session.Store
	logger     *zap.Logger

	topK             int
	summarySentences int

	mu         sync.RWMutex
	ready      bool
	chunkCount int
	source     string
	summary    string
}

// Config tunes the service; zero values fall back to sensible defaults.
type Config struct {
	TopK             int
	SummarySentences int
}

func New(
	chunker domain.Chunker,
	embedder domain.Embedder,
	store domain.VectorStore,
	generator domain.Generator,
	summarizer domain.Summarizer,
	sessions *session.Store,
	logger *zap.Logger,
	cfg Config,
) *ChatService {
	if cfg.TopK <= 0 {
		cfg.TopK = 5
	}
	if cfg.SummarySentences <= 0 {
		cfg.SummarySentences = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChatService{
		chunker:          chunker,
		embedder:         embedder,
		store:            store,
		generator:        generator,
		summarizer:       summarizer,
		sessions:         sessions,
		logger:           logger,
		topK:             cfg.TopK,
		summarySentences: cfg.SummarySentences,
	}
}

// Source identifies where an answer's evidence came from.
type Source struct {
	Source  string  `json:"source"`
	ChunkID int     `json:"chunk_id"`
	Score   float64 `json:"score"`
}

// Answer is the result of one completed chat query.
type Answer struct {
	Answer        string   `json:"answer"`
	Sources       []Source `json:"sources"`
	Deterministic bool     `json:"-"`
}

// Status describes the index for the status endpoint and the TUI banner.
type Status struct {
	Ready   bool   `json:"ready"`
	Chunks  int    `json:"chunks"`
	Source  string `json:"source,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// BuildIndex chunks the document, embeds every passage and loads the vector
// store. It runs once, before queries are accepted, and must not run
// concurrently with itself. The new index becomes visible only after the
// final store load succeeds.
func (s *ChatService) BuildIndex(ctx context.Context, source, text string) error {
	chunks := s.chunker.Chunk(text)
	if len(chunks) == 0 {
		return errors.New("no text chunks to index")
	}
	if err := s.embedder.Prepare(ctx, chunks); err != nil {
		return fmt.Errorf("prepare embedder: %w", err)
	}

	passages := make([]domain.Passage, len(chunks))
	vectors := make([][]float64, len(chunks))
	for i, chunk := range chunks {
		vec, err := s.embedder.Embed(ctx, chunk)
		if err != nil {
			return fmt.Errorf("embed chunk %d: %w", i, err)
		}
		passages[i] = domain.Passage{Text: chunk, Source: source, ChunkID: i}
		vectors[i] = vec
	}
	dimension := len(vectors[0])
	if err := s.store.Init(ctx, dimension); err != nil {
		return fmt.Errorf("init vector store: %w", err)
	}
	if err := s.store.Upsert(ctx, passages, vectors); err != nil {
		return fmt.Errorf("load vector store: %w", err)
	}

	summary := ""
	if s.summarizer != nil {
		if sum, err := s.summarizer.Summarize(text, s.summarySentences); err == nil {
			summary = sum
		}
	}

	s.mu.Lock()
	s.ready = true
	s.chunkCount = len(chunks)
	s.source = source
	s.summary = summary
	s.mu.Unlock()

	s.logger.Info("index built",
		zap.String("source", source),
		zap.Int("chunks", len(chunks)),
		zap.Int("dimension", dimension),
		zap.String("embedder", s.embedder.Name()),
	)
	return nil
}

// Retrieve embeds the query and returns the top-k passages by cosine
// similarity, fewer only when the index holds fewer passages.
func (s *ChatService) Retrieve(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	ready := s.ready
	s.mu.RUnlock()
	if !ready {
		return nil, domain.ErrIndexNotReady
	}
	if k <= 0 {
		k = s.topK
	}
	vec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, &domain.RetrievalError{Err: err}
	}
	results, err := s.store.Search(ctx, vec, k)
	if err != nil {
		return nil, &domain.RetrievalError{Err: err}
	}
	return results, nil
}

// Chat answers one query. The deterministic numeric path is preferred when a
// package statistic is asked for and figures can be extracted from the
// retrieved passages; the generator is never invoked on that path. Either
// way the session history gains the question and the answer.
func (s *ChatService) Chat(ctx context.Context, query, sessionID string) (*Answer, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	if sessionID == "" {
		sessionID = session.DefaultID
	}

	results, err := s.Retrieve(ctx, query, s.topK)
	if err != nil {
		return nil, err
	}
	contexts := make([]string, len(results))
	sources := make([]Source, len(results))
	for i, r := range results {
		contexts[i] = r.Passage.Text
		sources[i] = Source{Source: r.Passage.Source, ChunkID: r.Passage.ChunkID, Score: r.Score}
	}

	intent := extract.ClassifyIntent(query)
	if answer, ok := extract.Aggregate(intent, extract.Amounts(contexts)); ok {
		s.sessions.AppendExchange(sessionID, query, answer)
		s.logger.Info("answered deterministically",
			zap.String("session", sessionID),
			zap.Int("retrieved", len(results)),
		)
		return &Answer{Answer: answer, Sources: sources, Deterministic: true}, nil
	}

	history := s.sessions.History(sessionID)
	prompt := buildPrompt(query, contexts, history)
	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		return nil, &domain.GenerationError{Err: err}
	}
	if answer == "" {
		answer = fallbackAnswer
	}
	s.sessions.AppendExchange(sessionID, query, answer)
	s.logger.Info("answered generatively",
		zap.String("session", sessionID),
		zap.Int("retrieved", len(results)),
		zap.Int("history_turns", len(history)),
	)
	return &Answer{Answer: answer, Sources: sources}, nil
}

// Status reports whether the index is built and what it contains.
func (s *ChatService) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Status{Ready: s.ready, Chunks: s.chunkCount, Source: s.source, Summary: s.summary}
}
