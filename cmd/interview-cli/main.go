package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"

	"alfredoptarigan/ai-interviewer/internal/client"
	"alfredoptarigan/ai-interviewer/internal/flow"
	"alfredoptarigan/ai-interviewer/internal/models"
)

const stopCommand = "/done"

var errInputClosed = errors.New("input closed")

func main() {
	_ = godotenv.Load()

	baseURL := flag.String("api", envOr("INTERVIEW_API_URL", "http://localhost:8080"), "interview API base URL")
	role := flag.String("role", models.RoleSDE, "interview role: SDE, Data Scientist or Product Manager")
	resumePath := flag.String("resume", "", "path to a plain text resume")
	userID := flag.String("user", os.Getenv("INTERVIEW_USER_ID"), "external auth id or user uuid")
	audioDir := flag.String("audio-dir", "", "save every spoken prompt as WAV into this directory")
	flag.Parse()

	if *resumePath == "" || *userID == "" {
		flag.Usage()
		os.Exit(2)
	}

	resume, err := os.ReadFile(*resumePath)
	if err != nil {
		log.Fatalf("❌ Failed to read resume: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	api := client.New(*baseURL)

	fmt.Println("🔄 Preparing your interview...")
	session, err := api.Initialize(ctx, models.InitializeRequest{Role: *role, ResumeContent: string(resume)})
	if err != nil {
		log.Fatalf("❌ Failed to initialize interview: %v", err)
	}

	term := newTerminal(ctx)
	recorder := flow.NewRecorder(term, flow.DefaultRestartDelay)
	player := &printPlayer{api: api, audioDir: *audioDir}
	submitter := &resultPrinter{api: api}

	runner := flow.NewRunner(player, recorder, term, submitter, *userID, *role)
	if _, err := runner.Run(ctx, *session); err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Println("\n👋 Interview cancelled")
			return
		}
		log.Fatalf("❌ Interview failed: %v", err)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// terminal reads stdin once and serves both the controls and the recognizer.
type terminal struct {
	lines chan string
	stop  chan struct{}
}

func newTerminal(ctx context.Context) *terminal {
	t := &terminal{lines: make(chan string), stop: make(chan struct{}, 1)}
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			select {
			case t.lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		close(t.lines)
	}()
	return t
}

func (t *terminal) WaitStart(ctx context.Context) error {
	fmt.Print("⏎  Press Enter to start answering ")
	select {
	case _, ok := <-t.lines:
		if !ok {
			return errInputClosed
		}
		fmt.Printf("🎙️  Type your answer, finish with %s on its own line\n", stopCommand)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *terminal) WaitStop(ctx context.Context) error {
	select {
	case <-t.stop:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *terminal) signalStop() {
	select {
	case t.stop <- struct{}{}:
	default:
	}
}

func (t *terminal) Retry(message string) {
	fmt.Println("⚠️ ", message)
}

// Listen implements flow.Recognizer over typed lines.
func (t *terminal) Listen(ctx context.Context, onText func(string)) error {
	for {
		select {
		case line, ok := <-t.lines:
			if !ok {
				t.signalStop()
				<-ctx.Done()
				return ctx.Err()
			}
			if strings.TrimSpace(line) == stopCommand {
				t.signalStop()
				continue
			}
			onText(line)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

type printPlayer struct {
	api      *client.Client
	audioDir string
	count    int
}

func (p *printPlayer) Play(ctx context.Context, text string) error {
	fmt.Printf("\n🤖 %s\n", text)
	if p.audioDir == "" {
		return nil
	}

	audio, err := p.api.Speak(ctx, text)
	if err != nil {
		return err
	}

	p.count++
	path := filepath.Join(p.audioDir, fmt.Sprintf("prompt_%02d.wav", p.count))
	if err := os.WriteFile(path, audio, 0o644); err != nil {
		return fmt.Errorf("failed to save audio: %w", err)
	}
	fmt.Printf("🔊 saved %s\n", path)
	return nil
}

type resultPrinter struct {
	api *client.Client
}

func (s *resultPrinter) Submit(ctx context.Context, req models.SubmitRequest) error {
	fmt.Println("\n📤 Submitting your interview...")
	queued, err := s.api.SubmitAsync(ctx, req)
	if err != nil {
		return err
	}

	fmt.Printf("⏳ Evaluation %s in progress\n", queued.EvaluationID)
	result, err := s.api.WaitForResult(ctx, queued.EvaluationID)
	if err != nil {
		return err
	}

	fmt.Printf("\n✅ Overall score: %.1f/10\n%s\n\n", result.OverallScore, result.OverallFeedback)
	for _, qa := range result.QuestionAnalysis {
		fmt.Printf("Q%d  %.1f  %s\n", qa.QuestionID, qa.Score, qa.Feedback)
	}
	fmt.Printf("\nDuration %s, pace %s, depth %s, clarity %s\n",
		result.Analytics.TotalDuration, result.Analytics.SpeakingPace,
		result.Analytics.TechnicalDepth, result.Analytics.CommunicationClarity)
	fmt.Println("\nRecommendations:")
	for _, rec := range result.Recommendations {
		fmt.Printf("- %s\n", rec)
	}
	return nil
}
