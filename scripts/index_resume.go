package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/google/uuid"

	"alfredoptarigan/ai-interviewer/internal/config"
	"alfredoptarigan/ai-interviewer/internal/models"
	"alfredoptarigan/ai-interviewer/internal/services"
)

func main() {
	path := flag.String("file", "", "resume file (pdf, docx or txt)")
	role := flag.String("role", models.RoleSDE, "role whose search queries are used for retrieval")
	keep := flag.Bool("keep", false, "keep the indexed chunks in Qdrant")
	flag.Parse()

	if *path == "" {
		flag.Usage()
		os.Exit(2)
	}

	log.Println("🚀 Starting resume indexing...")

	// Load configuration
	cfg := config.Load()
	if cfg.Qdrant.URL == "" {
		log.Fatal("❌ QDRANT_URL is required")
	}

	bank, err := config.LoadQuestionBank(cfg.Interview.QuestionBankPath)
	if err != nil {
		log.Fatalf("❌ Failed to load question bank: %v", err)
	}

	ctx := context.Background()

	// Initialize services
	genaiClient, err := services.NewGeminiClient(ctx, cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}
	geminiService := services.NewGeminiService(genaiClient, cfg.Gemini, cfg.Worker.RetryInitialDelay)

	store, err := services.NewQdrantStore(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}
	if err := store.InitCollection(ctx); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	// Extract text
	raw, err := os.ReadFile(*path)
	if err != nil {
		log.Fatalf("❌ Failed to read %s: %v", *path, err)
	}
	contentType, err := services.DetectResumeType(raw)
	if err != nil {
		log.Fatalf("❌ Unsupported resume: %v", err)
	}

	log.Printf("📖 Extracting text from %s (%s)...", *path, contentType)
	text, err := services.NewResumeParser().ExtractText(*path, contentType)
	if err != nil {
		log.Fatalf("❌ Failed to extract text: %v", err)
	}
	log.Printf("✅ Extracted %d characters", len(text))

	// Chunk, embed and store
	sessionID := uuid.NewString()
	indexer := services.NewResumeIndexer(geminiService, store, services.NewTextChunker())

	count, err := indexer.Index(ctx, sessionID, text)
	if err != nil {
		log.Fatalf("❌ Failed to index resume: %v", err)
	}
	log.Printf("✅ Stored %d chunks for session %s", count, sessionID)

	queries := bank.SearchQueries(*role)
	retrieved, err := indexer.RetrieveContext(ctx, sessionID, queries)
	if err != nil {
		log.Fatalf("❌ Failed to retrieve context: %v", err)
	}

	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Context retrieved for %s (%s):", *role, strings.Join(queries, "; "))
	log.Println(strings.Repeat("=", 60))
	log.Println(retrieved)

	if !*keep {
		if err := store.DeleteSession(ctx, sessionID); err != nil {
			log.Printf("⚠️  Failed to remove indexed chunks: %v", err)
		}
	}
}
