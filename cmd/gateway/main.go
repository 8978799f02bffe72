package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/gofiber/fiber/v3"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cyberguardian-ai/scamsim/pkg/audit"
	"github.com/cyberguardian-ai/scamsim/pkg/config"
	"github.com/cyberguardian-ai/scamsim/pkg/content"
	"github.com/cyberguardian-ai/scamsim/pkg/llm"
	"github.com/cyberguardian-ai/scamsim/pkg/patterns"
	"github.com/cyberguardian-ai/scamsim/pkg/risk"
	"github.com/cyberguardian-ai/scamsim/pkg/session"
)

const Version = "0.1.0"

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		runServer()
	case "classify":
		if len(os.Args) < 3 {
			fmt.Println("Usage: scamsim classify <text> [scenario]")
			os.Exit(1)
		}
		scenario := content.DefaultScenarioKey
		if len(os.Args) > 3 {
			scenario = os.Args[3]
		}
		runCLIClassify(os.Args[2], scenario)
	case "version":
		fmt.Printf("ScamSim Gateway v%s\n", Version)
	default:
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("ScamSim Gateway v%s - scam-awareness training simulator\n\n", Version)
	fmt.Println("Usage:")
	fmt.Println("  scamsim serve                      Start the HTTP gateway")
	fmt.Println("  scamsim classify <text> [scenario] Classify one message and print the verdict")
	fmt.Println("  scamsim version                    Show version")
	fmt.Println("")
	fmt.Println("Environment Variables:")
	fmt.Println("  SCAMSIM_LISTEN_ADDR   HTTP listen address (default: :8080)")
	fmt.Println("  SCAMSIM_LLM_PROVIDER  Provider: ollama, openrouter, openai, custom (default: ollama)")
	fmt.Println("  SCAMSIM_LLM_API_KEY   API key for cloud providers")
	fmt.Println("  SCAMSIM_LLM_MODEL     Model identifier (default: llama3.1:8b)")
	fmt.Println("  SCAMSIM_AUDIT_DB      SQLite audit database path (empty disables)")
	fmt.Println("  SCAMSIM_CONTENT_PATH  YAML catalog override (default: embedded catalog)")
}

// ============================================================================
// HTTP Server Mode
// ============================================================================

// server bundles the handlers' shared collaborators.
type server struct {
	manager *session.Manager
	catalog *content.Catalog
	logger  *zap.Logger
}

func runServer() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg := config.New()

	catalog := content.Load()
	if cfg.ContentPath != "" {
		catalog, err = content.LoadFile(cfg.ContentPath)
		if err != nil {
			logger.Fatal("load content catalog", zap.String("path", cfg.ContentPath), zap.Error(err))
		}
		logger.Info("content catalog loaded", zap.String("path", cfg.ContentPath))
	}

	classifier := risk.New(patterns.New(catalog.RiskKeywords()))

	var recorder audit.Recorder = audit.Nop{}
	if cfg.AuditDBPath != "" {
		sqlRec, err := audit.NewSQLiteRecorder(cfg.AuditDBPath, logger)
		if err != nil {
			logger.Fatal("open audit store", zap.String("path", cfg.AuditDBPath), zap.Error(err))
		}
		defer func() { _ = sqlRec.Close() }()
		recorder = sqlRec
		logger.Info("audit store enabled", zap.String("path", cfg.AuditDBPath))
	}

	store := session.NewStore(
		session.WithMaxIdle(cfg.SessionMaxIdle),
		session.WithSweepInterval(cfg.SweepInterval),
	)
	defer store.Close()

	client := llm.NewClient(cfg.ClientConfig())
	manager := session.NewManager(store, classifier, catalog, client,
		session.WithWindowTurns(cfg.WindowTurns),
		session.WithGenerateTimeout(cfg.GenerateTimeout),
		session.WithAuditRecorder(recorder),
		session.WithLogger(logger),
	)

	srv := &server{manager: manager, catalog: catalog, logger: logger}

	app := fiber.New(fiber.Config{
		AppName: "ScamSim Gateway",
	})

	app.Get("/health", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "version": Version})
	})

	v1 := app.Group("/v1/simulation")
	v1.Post("/start", srv.handleStart)
	v1.Post("/message", srv.handleMessage)
	v1.Post("/continue", srv.handleContinue)
	v1.Post("/retry", srv.handleRetry)
	v1.Get("/active-sessions", srv.handleActiveSessions)
	v1.Get("/:id", srv.handleInfo)

	logger.Info("gateway starting",
		zap.String("addr", cfg.ListenAddr),
		zap.String("llm_provider", string(cfg.LLMProvider)),
		zap.String("llm_model", cfg.LLMModel))

	if err := app.Listen(cfg.ListenAddr); err != nil {
		logger.Fatal("server exited", zap.Error(err))
	}
}

type startRequest struct {
	Persona  string `json:"persona"`
	Age      int    `json:"age"`
	Scenario string `json:"scenario"`
}

func (s *server) handleStart(c fiber.Ctx) error {
	var req startRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	if req.Age <= 0 {
		req.Age = 30
	}

	info := s.manager.Create(resolvePersona(req.Persona), req.Age, resolveScenario(req.Scenario))
	reply, err := s.manager.Start(c.Context(), info.ID)
	if err != nil {
		// The session survives a failed opening; return its id so the
		// client can retry the start.
		status := statusForError(err)
		return c.Status(status).JSON(fiber.Map{
			"session_id": info.ID,
			"error":      "could not generate opening message",
		})
	}
	return c.JSON(fiber.Map{
		"session_id": info.ID,
		"persona":    info.Persona,
		"scenario":   info.Scenario,
		"reply":      reply,
	})
}

type messageRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

func (s *server) handleMessage(c fiber.Ctx) error {
	var req messageRequest
	if err := c.Bind().Body(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request"})
	}
	if req.SessionID == "" || strings.TrimSpace(req.Message) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "session_id and message are required"})
	}

	reply, err := s.manager.SendMessage(c.Context(), req.SessionID, req.Message)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"session_id": req.SessionID, "reply": reply})
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

func (s *server) handleContinue(c fiber.Ctx) error {
	var req sessionRequest
	if err := c.Bind().Body(&req); err != nil || req.SessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "session_id is required"})
	}
	reply, err := s.manager.Continue(req.SessionID)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"session_id": req.SessionID, "reply": reply})
}

func (s *server) handleRetry(c fiber.Ctx) error {
	var req sessionRequest
	if err := c.Bind().Body(&req); err != nil || req.SessionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "session_id is required"})
	}
	reply, err := s.manager.Retry(req.SessionID)
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(fiber.Map{"session_id": req.SessionID, "reply": reply})
}

func (s *server) handleInfo(c fiber.Ctx) error {
	info, err := s.manager.Info(c.Params("id"))
	if err != nil {
		return s.errorResponse(c, err)
	}
	return c.JSON(info)
}

func (s *server) handleActiveSessions(c fiber.Ctx) error {
	return c.JSON(fiber.Map{"active_sessions": s.manager.ActiveCount()})
}

func (s *server) errorResponse(c fiber.Ctx, err error) error {
	status := statusForError(err)
	if status == fiber.StatusInternalServerError {
		s.logger.Error("request failed", zap.Error(err))
	}
	return c.Status(status).JSON(fiber.Map{"error": errorMessage(err)})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, session.ErrSimulationEnded):
		return fiber.StatusGone
	case errors.Is(err, session.ErrInvalidTransition):
		return fiber.StatusConflict
	case session.IsRetryable(err):
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return "session not found"
	case errors.Is(err, session.ErrSimulationEnded):
		return "simulation has ended, start a new session"
	case errors.Is(err, session.ErrInvalidTransition):
		return "operation not allowed in current session state"
	case session.IsRetryable(err):
		return "generation temporarily unavailable, retry the same request"
	default:
		return "internal error"
	}
}

// ============================================================================
// Request tag resolution
// ============================================================================

// Clients send persona/scenario tags in a few historical spellings; map
// them onto catalog keys. Unknown tags pass through and fall back to
// the catalog defaults.
var personaAliases = map[string]string{
	"student":        "student",
	"job_seeker":     "job_seeker",
	"jobseeker":      "job_seeker",
	"job":            "job_seeker",
	"senior":         "senior_citizen",
	"senior_citizen": "senior_citizen",
	"elderly":        "senior_citizen",
	"teen":           "teenager",
	"teenager":       "teenager",
	"general":        "general",
	"adult":          "general",
}

var scenarioAliases = map[string]string{
	"bank":               "bank",
	"bank_fraud":         "bank",
	"kyc":                "bank",
	"government":         "government",
	"govt":               "government",
	"tax":                "government",
	"job":                "job_offer",
	"job_offer":          "job_offer",
	"job_scam":           "job_offer",
	"emergency":          "relative_emergency",
	"relative":           "relative_emergency",
	"relative_emergency": "relative_emergency",
	"lottery":            "lottery_offer",
	"lottery_offer":      "lottery_offer",
	"prize":              "lottery_offer",
}

func resolvePersona(tag string) string {
	if key, ok := personaAliases[strings.ToLower(strings.TrimSpace(tag))]; ok {
		return key
	}
	return tag
}

func resolveScenario(tag string) string {
	if key, ok := scenarioAliases[strings.ToLower(strings.TrimSpace(tag))]; ok {
		return key
	}
	return tag
}

// ============================================================================
// CLI Mode
// ============================================================================

func runCLIClassify(text, scenario string) {
	verdict := risk.Default().Explain(text, resolveScenario(scenario))
	out, _ := json.MarshalIndent(fiber.Map{
		"tier":     verdict.Tier,
		"category": verdict.Category,
		"fragment": verdict.Fragment,
	}, "", "  ")
	fmt.Println(string(out))
}
