package services

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// VectorStore keeps embedded resume chunks, scoped by interview session.
type VectorStore interface {
	InitCollection(ctx context.Context) error
	UpsertChunks(ctx context.Context, sessionID string, chunks []string, embeddings [][]float32) error
	Search(ctx context.Context, sessionID string, queryEmbedding []float32, limit int) ([]SearchResult, error)
	DeleteSession(ctx context.Context, sessionID string) error
}

type SearchResult struct {
	SessionID  string
	ChunkIndex int
	Score      float32
	Text       string
}

type qdrantStore struct {
	client         *qdrant.Client
	collectionName string
	vectorSize     uint64
}

func NewQdrantStore(urlStr, apiKey, collectionName string) (VectorStore, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantStore{
		client:         client,
		collectionName: collectionName,
		vectorSize:     768, // text-embedding-004
	}, nil
}

func (q *qdrantStore) InitCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}

	if exists {
		log.Printf("✅ Qdrant collection '%s' already exists\n", q.collectionName)
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     q.vectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Printf("✅ Qdrant collection '%s' created successfully\n", q.collectionName)
	return nil
}

func (q *qdrantStore) UpsertChunks(ctx context.Context, sessionID string, chunks []string, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("chunk/embedding count mismatch: %d vs %d", len(chunks), len(embeddings))
	}
	if len(chunks) == 0 {
		return nil
	}

	points := make([]*qdrant.PointStruct, 0, len(chunks))
	for i, chunk := range chunks {
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(uuid.NewString()),
			Vectors: qdrant.NewVectors(embeddings[i]...),
			Payload: qdrant.NewValueMap(map[string]any{
				"session_id":  sessionID,
				"chunk_index": i,
				"text":        strings.ToValidUTF8(chunk, ""),
			}),
		})
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         points,
	})
	if err != nil {
		return fmt.Errorf("failed to upsert chunks: %w", err)
	}

	return nil
}

func (q *qdrantStore) Search(ctx context.Context, sessionID string, queryEmbedding []float32, limit int) ([]SearchResult, error) {
	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(queryEmbedding...),
		Filter:         sessionFilter(sessionID),
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search: %w", err)
	}

	results := make([]SearchResult, 0, len(points))
	for _, point := range points {
		payload := point.Payload
		results = append(results, SearchResult{
			SessionID:  payload["session_id"].GetStringValue(),
			ChunkIndex: int(payload["chunk_index"].GetIntegerValue()),
			Score:      point.Score,
			Text:       payload["text"].GetStringValue(),
		})
	}

	return results, nil
}

func (q *qdrantStore) DeleteSession(ctx context.Context, sessionID string) error {
	_, err := q.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: q.collectionName,
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Filter{
				Filter: sessionFilter(sessionID),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to delete session chunks: %w", err)
	}

	return nil
}

func sessionFilter(sessionID string) *qdrant.Filter {
	return &qdrant.Filter{
		Must: []*qdrant.Condition{
			qdrant.NewMatch("session_id", sessionID),
		},
	}
}
