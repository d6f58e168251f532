package domain

import "context"

// Passage is a bounded slice of the source document used as the unit of retrieval.
// Passages are immutable once created; ChunkID is the position of the passage
// in the corpus-wide ordered sequence.
type Passage struct {
	Text    string
	Source  string
	ChunkID int
}

// SearchResult represents a matching passage with a cosine similarity score.
type SearchResult struct {
	Passage Passage
	Score   float64
}

// Turn is a single message in a conversation, either from the user or the assistant.
type Turn struct {
	Role    string
	Content string
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus.
type Embedder interface {
	Name() string
	Prepare(ctx context.Context, corpus []string) error
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Generator produces a natural-language answer for a fully assembled prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Chunker splits raw document text into overlapping passages.
type Chunker interface {
	Chunk(text string) []string
}

// VectorStore persists passage vectors and supports similarity search.
// Init resets the store wholesale, so a rebuild replaces the previous
// index atomically from the caller's point of view.
type VectorStore interface {
	Init(ctx context.Context, dimension int) error
	Upsert(ctx context.Context, passages []Passage, vectors [][]float64) error
	Search(ctx context.Context, vector []float64, topK int) ([]SearchResult, error)
	Clear(ctx context.Context) error
}

// Summarizer produces a brief summary of the provided text.
type Summarizer interface {
	Summarize(text string, maxSentences int) (string, error)
}
