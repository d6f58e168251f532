package memory

import (
	"context"
	"errors"
	"math"
	"sort"
	"sync"

	"infomate/internal/domain"
)

// Store is an in-memory vector index using exhaustive inner-product search.
// Vectors are L2-normalized on the way in (stored and query alike), so the
// returned scores are cosine similarities; leaving normalization to callers
// would silently degrade the metric to a raw dot product.
type Store struct {
	mu        sync.RWMutex
	dimension int
	vectors   [][]float64
	passages  []domain.Passage
}

func NewStore() *Store { return &Store{} }

// Init resets the store for the given dimension. The previous contents are
// dropped wholesale, so a rebuild is never partially visible.
func (s *Store) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dimension = dimension
	s.vectors = nil
	s.passages = nil
	return nil
}

func (s *Store) Upsert(ctx context.Context, passages []domain.Passage, vectors [][]float64) error {
	if len(passages) != len(vectors) {
		return errors.New("passages and vectors length mismatch")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dimension == 0 {
		return errors.New("store not initialized")
	}
	normalized := make([][]float64, len(vectors))
	for i, v := range vectors {
		if len(v) != s.dimension {
			return errors.New("vector dimension mismatch")
		}
		normalized[i] = normalize(v)
	}
	s.passages = append(s.passages, passages...)
	s.vectors = append(s.vectors, normalized...)
	return nil
}

func (s *Store) Search(ctx context.Context, vector []float64, topK int) ([]domain.SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dimension == 0 {
		return nil, errors.New("store not initialized")
	}
	if len(vector) != s.dimension {
		return nil, errors.New("query vector dimension mismatch")
	}
	if topK <= 0 {
		topK = 5
	}
	q := normalize(vector)
	scores := make([]float64, len(s.vectors))
	for i := range s.vectors {
		scores[i] = dot(s.vectors[i], q)
	}
	idxs := make([]int, len(scores))
	for i := range idxs {
		idxs[i] = i
	}
	sort.SliceStable(idxs, func(a, b int) bool { return scores[idxs[a]] > scores[idxs[b]] })
	if topK > len(idxs) {
		topK = len(idxs)
	}
	results := make([]domain.SearchResult, 0, topK)
	for _, j := range idxs[:topK] {
		results = append(results, domain.SearchResult{Passage: s.passages[j], Score: scores[j]})
	}
	return results, nil
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = nil
	s.passages = nil
	return nil
}

// Len reports the number of indexed passages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors)
}

// Norms exposes the L2 norm of each stored vector.
func (s *Store) Norms() []float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]float64, len(s.vectors))
	for i, v := range s.vectors {
		out[i] = math.Sqrt(dot(v, v))
	}
	return out
}

func normalize(v []float64) []float64 {
	norm := math.Sqrt(dot(v, v))
	if norm == 0 {
		return append([]float64(nil), v...)
	}
	out := make([]float64, len(v))
	for i := range v {
		out[i] = v[i] / norm
	}
	return out
}

func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}
