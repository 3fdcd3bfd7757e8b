//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deckgen-ai/deckgen/internal/api/handlers"
	"github.com/deckgen-ai/deckgen/internal/jobs"
	"github.com/deckgen-ai/deckgen/internal/openai"
	"github.com/deckgen-ai/deckgen/internal/repository"
	"github.com/deckgen-ai/deckgen/internal/server"
	"github.com/deckgen-ai/deckgen/internal/service"
	"github.com/deckgen-ai/deckgen/internal/storage"
	"github.com/deckgen-ai/deckgen/internal/testutil"
)

const e2eAPIToken = "e2e-test-token"

// E2ETestEnv holds all resources needed for E2E tests
type E2ETestEnv struct {
	T            *testing.T
	Ctx          context.Context
	PostgresC    *testutil.PostgresContainer
	MinIOC       *testutil.MinIOContainer
	Pool         *pgxpool.Pool
	ServerURL    string
	ServerCloser func()
	S3Client     *storage.S3Client
	BinaryDir    string
	APIToken     string
	HTTPClient   *http.Client
}

// SetupE2EEnv creates a full E2E test environment with containers, the HTTP
// server, and a generation worker backed by a deterministic completion stub.
func SetupE2EEnv(t *testing.T) *E2ETestEnv {
	ctx := context.Background()

	pgC := testutil.NewPostgresContainer(ctx, t)
	minioC := testutil.NewMinIOContainer(ctx, t)

	pool := testutil.NewTestPool(ctx, t, pgC, "../../migrations")

	s3Client, err := storage.NewS3Client(ctx, storage.S3ClientConfig{
		Endpoint:        minioC.Endpoint(),
		Region:          "us-east-1",
		AccessKeyID:     "minioadmin",
		SecretAccessKey: "minioadmin",
		Bucket:          "test-exports",
		UsePathStyle:    true,
	})
	if err != nil {
		t.Fatalf("failed to create S3 client: %v", err)
	}

	if err := s3Client.EnsureBucket(ctx); err != nil {
		t.Fatalf("failed to create bucket: %v", err)
	}

	port, err := getFreePort()
	if err != nil {
		t.Fatalf("failed to get free port: %v", err)
	}

	serverURL, serverCloser := startServer(t, pool, s3Client, port)

	return &E2ETestEnv{
		T:            t,
		Ctx:          ctx,
		PostgresC:    pgC,
		MinIOC:       minioC,
		Pool:         pool,
		ServerURL:    serverURL,
		ServerCloser: serverCloser,
		S3Client:     s3Client,
		APIToken:     e2eAPIToken,
		HTTPClient:   &http.Client{Timeout: 30 * time.Second},
	}
}

// Cleanup releases all resources
func (e *E2ETestEnv) Cleanup() {
	if e.ServerCloser != nil {
		e.ServerCloser()
	}
	if e.Pool != nil {
		e.Pool.Close()
	}
	if e.MinIOC != nil {
		e.MinIOC.Terminate(e.Ctx)
	}
	if e.PostgresC != nil {
		e.PostgresC.Terminate(e.Ctx)
	}
	if e.BinaryDir != "" {
		os.RemoveAll(e.BinaryDir)
	}
}

// BuildBinaries builds the deckgen and deckgend binaries
func (e *E2ETestEnv) BuildBinaries() {
	tmpDir, err := os.MkdirTemp("", "deckgen-e2e-*")
	if err != nil {
		e.T.Fatalf("failed to create temp dir: %v", err)
	}
	e.BinaryDir = tmpDir

	cmd := exec.Command("go", "build", "-o", filepath.Join(tmpDir, "deckgend"), "./cmd/deckgend")
	cmd.Dir = "../.."
	if out, err := cmd.CombinedOutput(); err != nil {
		e.T.Fatalf("failed to build deckgend: %v\n%s", err, out)
	}

	cmd = exec.Command("go", "build", "-o", filepath.Join(tmpDir, "deckgen"), "./cmd/deckgen")
	cmd.Dir = "../.."
	if out, err := cmd.CombinedOutput(); err != nil {
		e.T.Fatalf("failed to build deckgen: %v\n%s", err, out)
	}
}

// RunDeckgen runs the deckgen CLI command against the test server
func (e *E2ETestEnv) RunDeckgen(workDir string, args ...string) (string, error) {
	cmd := exec.Command(filepath.Join(e.BinaryDir, "deckgen"), args...)
	cmd.Dir = workDir
	cmd.Env = append(os.Environ(),
		fmt.Sprintf("DECKGEN_API_KEY=%s", e.APIToken),
		fmt.Sprintf("DECKGEN_API_URL=%s", e.ServerURL),
	)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

// APIResponse represents a standard API response
type APIResponse struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error,omitempty"`
}

// Get performs a GET request
func (e *E2ETestEnv) Get(path, authToken string) (*APIResponse, error) {
	return e.doRequest("GET", path, nil, authToken)
}

// Post performs a POST request
func (e *E2ETestEnv) Post(path string, body interface{}, authToken string) (*APIResponse, error) {
	return e.doRequest("POST", path, body, authToken)
}

// Delete performs a DELETE request
func (e *E2ETestEnv) Delete(path, authToken string) (*APIResponse, error) {
	return e.doRequest("DELETE", path, nil, authToken)
}

// GetBytes performs a GET request and returns the raw body. Used for export
// downloads, which stream file content instead of the JSON envelope.
func (e *E2ETestEnv) GetBytes(path, authToken string) ([]byte, string, error) {
	req, err := http.NewRequest("GET", e.ServerURL+path, nil)
	if err != nil {
		return nil, "", err
	}
	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode >= 400 {
		return nil, "", fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	return body, resp.Header.Get("Content-Type"), nil
}

func (e *E2ETestEnv) doRequest(method, path string, body interface{}, authToken string) (*APIResponse, error) {
	url := e.ServerURL + path

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal body: %w", err)
		}
		reqBody = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		return nil, err
	}

	if authToken != "" {
		req.Header.Set("Authorization", "Bearer "+authToken)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var apiResp APIResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		if resp.StatusCode >= 400 {
			return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(respBody))
		}
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, apiResp.Error)
	}

	return &apiResp, nil
}

// DeckData mirrors the deck response shape
type DeckData struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Status      string `json:"status"`
	TargetCards int    `json:"target_cards"`
	CardCount   int    `json:"card_count"`
	Error       string `json:"error,omitempty"`
}

// CreateDeck creates a deck and returns its parsed response
func (e *E2ETestEnv) CreateDeck(name, sourceText string, targetCards int) *DeckData {
	resp, err := e.Post("/v1/decks", map[string]interface{}{
		"name":         name,
		"source_text":  sourceText,
		"target_cards": targetCards,
	}, e.APIToken)
	if err != nil {
		e.T.Fatalf("failed to create deck: %v", err)
	}

	var deck DeckData
	if err := json.Unmarshal(resp.Data, &deck); err != nil {
		e.T.Fatalf("failed to parse deck response: %v", err)
	}
	return &deck
}

// WaitForDeckReady polls the deck until generation finishes
func (e *E2ETestEnv) WaitForDeckReady(deckID string, timeout time.Duration) *DeckData {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := e.Get("/v1/decks/"+deckID, e.APIToken)
		if err != nil {
			e.T.Fatalf("failed to get deck: %v", err)
		}

		var deck DeckData
		if err := json.Unmarshal(resp.Data, &deck); err != nil {
			e.T.Fatalf("failed to parse deck response: %v", err)
		}

		switch deck.Status {
		case "ready":
			return &deck
		case "failed":
			e.T.Fatalf("deck generation failed: %s", deck.Error)
		}

		time.Sleep(200 * time.Millisecond)
	}
	e.T.Fatalf("deck %s did not become ready within %v", deckID, timeout)
	return nil
}

// stubCompletionClient is a deterministic CompletionClient. It returns a
// fixed block of tab-separated cards; the generation service truncates the
// set to the requested count.
type stubCompletionClient struct{}

func (c *stubCompletionClient) Complete(ctx context.Context, req openai.CompletionRequest) (string, error) {
	var buf bytes.Buffer
	for i := 1; i <= 30; i++ {
		fmt.Fprintf(&buf, "What is concept %d?\tConcept %d is described in the notes.\n", i, i)
	}
	return buf.String(), nil
}

// startServer starts the HTTP server with all handlers plus the worker
func startServer(t *testing.T, pool *pgxpool.Pool, s3Client *storage.S3Client, port int) (string, func()) {
	ctx, cancel := context.WithCancel(context.Background())

	deckRepo := repository.NewDeckRepository(pool)
	cardRepo := repository.NewCardRepository(pool)
	jobRepo := repository.NewGenerationJobRepository(pool)
	txRunner := repository.NewTxRunner(pool)

	deckSvc := service.NewDeckService(deckRepo, cardRepo, jobRepo)
	studySvc := service.NewStudyService(deckRepo, cardRepo)
	exportSvc := service.NewExportService(deckRepo, cardRepo, s3Client)
	generationSvc := service.NewGenerationService(&stubCompletionClient{}, deckRepo, txRunner)

	processor := jobs.NewGenerationWorker(jobRepo, generationSvc)
	worker := jobs.NewWorker(processor, 200*time.Millisecond)
	go worker.Start(ctx)

	cfg := server.RouterConfig{
		APIToken:      e2eAPIToken,
		DeckHandler:   handlers.NewDeckHandler(deckSvc),
		StudyHandler:  handlers.NewStudyHandler(studySvc),
		ExportHandler: handlers.NewExportHandler(exportSvc),
	}

	router := server.NewRouter(cfg)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			t.Logf("server error: %v", err)
		}
	}()

	serverURL := fmt.Sprintf("http://localhost:%d", port)
	waitForServer(t, serverURL, 10*time.Second)

	return serverURL, func() {
		worker.Stop()
		cancel()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		srv.Shutdown(shutdownCtx)
	}
}

func waitForServer(t *testing.T, url string, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		resp, err := http.Get(url + "/health")
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return
			}
		}
		time.Sleep(100 * time.Millisecond)
	}
	t.Fatalf("server did not start within %v", timeout)
}

func getFreePort() (int, error) {
	addr, err := net.ResolveTCPAddr("tcp", "localhost:0")
	if err != nil {
		return 0, err
	}

	l, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return 0, err
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port, nil
}
