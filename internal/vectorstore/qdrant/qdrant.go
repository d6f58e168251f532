package qdrant

import (
	"context"
	"errors"
	"fmt"

	"github.com/qdrant/go-client/qdrant"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"

	"infomate/internal/domain"
)

// Store keeps passage vectors in a Qdrant collection over gRPC. The
// collection is created with cosine distance, so scores match the in-memory
// store. Point ids are the corpus-wide chunk ids.
type Store struct {
	points      qdrant.PointsClient
	collections qdrant.CollectionsClient
	collection  string
	dimension   int
}

type Config struct {
	Addr       string
	Collection string
}

// Connect dials the Qdrant gRPC port and returns a store bound to the
// configured collection.
func Connect(cfg Config) (*Store, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6334"
	}
	if cfg.Collection == "" {
		cfg.Collection = "infomate"
	}
	conn, err := grpc.NewClient(cfg.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return nil, fmt.Errorf("dial qdrant: %w", err)
	}
	return &Store{
		points:      qdrant.NewPointsClient(conn),
		collections: qdrant.NewCollectionsClient(conn),
		collection:  cfg.Collection,
	}, nil
}

// Init drops any existing collection and recreates it, so a rebuild never
// leaves a partially replaced index visible.
func (s *Store) Init(ctx context.Context, dimension int) error {
	if dimension <= 0 {
		return errors.New("invalid dimension")
	}
	s.dimension = dimension

	_, err := s.collections.Get(ctx, &qdrant.GetCollectionInfoRequest{CollectionName: s.collection})
	if err == nil {
		if _, err := s.collections.Delete(ctx, &qdrant.DeleteCollection{CollectionName: s.collection}); err != nil {
			return fmt.Errorf("drop collection: %w", err)
		}
	} else if status.Code(err) != codes.NotFound {
		return fmt.Errorf("inspect collection: %w", err)
	}

	_, err = s.collections.Create(ctx, &qdrant.CreateCollection{
		CollectionName: s.collection,
		VectorsConfig: &qdrant.VectorsConfig{
			Config: &qdrant.VectorsConfig_Params{
				Params: &qdrant.VectorParams{
					Size:     uint64(dimension),
					Distance: qdrant.Distance_Cosine,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create collection: %w", err)
	}
	return nil
}

func (s *Store) Upsert(ctx context.Context, passages []domain.Passage, vectors [][]float64) error {
	if len(passages) != len(vectors) {
		return errors.New("passages and vectors length mismatch")
	}
	points := make([]*qdrant.PointStruct, len(passages))
	for i, p := range passages {
		points[i] = &qdrant.PointStruct{
			Id:      qdrant.NewIDNum(uint64(p.ChunkID)),
			Vectors: qdrant.NewVectors(toFloat32(vectors[i])...),
			Payload: map[string]*qdrant.Value{
				"source":   {Kind: &qdrant.Value_StringValue{StringValue: p.Source}},
				"chunk_id": {Kind: &qdrant.Value_IntegerValue{IntegerValue: int64(p.ChunkID)}},
				"text":     {Kind: &qdrant.Value_StringValue{StringValue: p.Text}},
			},
		}
	}
	resp, err := s.points.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: s.collection,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("upsert points: %w", err)
	}
	st := resp.GetResult().GetStatus()
	if st != qdrant.UpdateStatus_Acknowledged && st != qdrant.UpdateStatus_Completed {
		return fmt.Errorf("upsert not applied, status %s", st)
	}
	return nil
}

func (s *Store) Search(ctx context.Context, vector []float64, topK int) ([]domain.SearchResult, error) {
	if topK <= 0 {
		topK = 5
	}
	resp, err := s.points.Search(ctx, &qdrant.SearchPoints{
		CollectionName: s.collection,
		Vector:         toFloat32(vector),
		Limit:          uint64(topK),
		WithPayload:    &qdrant.WithPayloadSelector{SelectorOptions: &qdrant.WithPayloadSelector_Enable{Enable: true}},
	})
	if err != nil {
		return nil, fmt.Errorf("search points: %w", err)
	}
	results := make([]domain.SearchResult, 0, len(resp.GetResult()))
	for _, hit := range resp.GetResult() {
		payload := hit.GetPayload()
		if payload == nil {
			return nil, errors.New("search hit without payload")
		}
		p := domain.Passage{}
		if v, ok := payload["source"]; ok {
			p.Source = v.GetStringValue()
		}
		if v, ok := payload["chunk_id"]; ok {
			p.ChunkID = int(v.GetIntegerValue())
		}
		if v, ok := payload["text"]; ok {
			p.Text = v.GetStringValue()
		}
		results = append(results, domain.SearchResult{Passage: p, Score: float64(hit.GetScore())})
	}
	return results, nil
}

func (s *Store) Clear(ctx context.Context) error {
	_, err := s.collections.Delete(ctx, &qdrant.DeleteCollection{CollectionName: s.collection})
	if err != nil && status.Code(err) != codes.NotFound {
		return fmt.Errorf("drop collection: %w", err)
	}
	return nil
}

func toFloat32(v []float64) []float32 {
	out := make([]float32, len(v))
	for i := range v {
		out[i] = float32(v[i])
	}
	return out
}
