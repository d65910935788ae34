package services

import (
	"context"
	"fmt"
	"log"
	"strings"
)

const (
	maxContextChunks     = 5
	chunksPerQuery       = 3
	rawResumeContextSize = 8000
)

// ResumeIndexer embeds a resume into the vector store and pulls back the
// parts most relevant to a role.
type ResumeIndexer interface {
	Index(ctx context.Context, sessionID, resumeText string) (int, error)
	RetrieveContext(ctx context.Context, sessionID string, queries []string) (string, error)
}

type resumeIndexer struct {
	gemini  GeminiService
	store   VectorStore
	chunker TextChunker
}

func NewResumeIndexer(gemini GeminiService, store VectorStore, chunker TextChunker) ResumeIndexer {
	return &resumeIndexer{
		gemini:  gemini,
		store:   store,
		chunker: chunker,
	}
}

// Index returns the number of chunks stored for the session.
func (r *resumeIndexer) Index(ctx context.Context, sessionID, resumeText string) (int, error) {
	chunks := r.chunker.ChunkText(resumeText, defaultChunkSize, defaultChunkOverlap)
	if len(chunks) == 0 {
		return 0, fmt.Errorf("resume produced no chunks")
	}

	embeddings := make([][]float32, 0, len(chunks))
	for i, chunk := range chunks {
		embedding, err := r.gemini.GenerateEmbedding(ctx, chunk)
		if err != nil {
			return 0, fmt.Errorf("failed to embed chunk %d: %w", i, err)
		}
		embeddings = append(embeddings, embedding)
	}

	if err := r.store.UpsertChunks(ctx, sessionID, chunks, embeddings); err != nil {
		return 0, err
	}

	log.Printf("📥 Indexed %d resume chunks for session %s\n", len(chunks), sessionID)
	return len(chunks), nil
}

// RetrieveContext runs every query against the session's chunks and joins the
// distinct hits, capped at five chunks.
func (r *resumeIndexer) RetrieveContext(ctx context.Context, sessionID string, queries []string) (string, error) {
	seen := make(map[string]struct{})
	var picked []string

	for _, query := range queries {
		embedding, err := r.gemini.GenerateEmbedding(ctx, query)
		if err != nil {
			return "", fmt.Errorf("failed to embed query %q: %w", query, err)
		}

		results, err := r.store.Search(ctx, sessionID, embedding, chunksPerQuery)
		if err != nil {
			return "", err
		}

		for _, res := range results {
			text := strings.TrimSpace(res.Text)
			if text == "" {
				continue
			}
			if _, dup := seen[text]; dup {
				continue
			}
			seen[text] = struct{}{}
			picked = append(picked, text)
		}
	}

	if len(picked) > maxContextChunks {
		picked = picked[:maxContextChunks]
	}

	return strings.Join(picked, "\n\n"), nil
}
