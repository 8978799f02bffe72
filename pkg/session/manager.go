package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cyberguardian-ai/scamsim/pkg/audit"
	"github.com/cyberguardian-ai/scamsim/pkg/content"
	"github.com/cyberguardian-ai/scamsim/pkg/llm"
	"github.com/cyberguardian-ai/scamsim/pkg/patterns"
	"github.com/cyberguardian-ai/scamsim/pkg/risk"
)

// Mode labels which voice produced a reply.
type Mode string

const (
	ModeSimulator Mode = "SIMULATOR"
	ModeMentor    Mode = "MENTOR"
	ModeEnded     Mode = "ENDED"
)

// Fixed reply texts for lifecycle responses. The simulated scammer
// never speaks these; they come from the host, not the persona.
const (
	endedMessage   = "This simulation has ended. Start a new one to practice again."
	pausedMessage  = "The simulation is paused while mentor guidance is active. Continue when you are ready, or reset to start over."
	resumedMessage = "Simulation resumed. The last scammer message is repeated below; answer it safely this time."
	resetMessage   = "Simulation reset. The conversation has been cleared; start a new session to try a different scenario."
)

// Reply is the outcome of a session operation.
type Reply struct {
	Mode               Mode           `json:"mode"`
	Risk               *patterns.Tier `json:"risk,omitempty"`
	Message            string         `json:"message"`
	Tip                string         `json:"tip,omitempty"`
	LastScammerMessage string         `json:"last_scammer_message,omitempty"`
}

// Info is a read-only snapshot of a session.
type Info struct {
	ID        string `json:"id"`
	Persona   string `json:"persona"`
	Age       int    `json:"age"`
	Scenario  string `json:"scenario"`
	State     string `json:"state"`
	TurnCount int    `json:"turn_count"`
}

const (
	defaultWindowTurns = 10 // 5 exchanges
	defaultGenTimeout  = 30 * time.Second
)

// Manager drives sessions through the simulation lifecycle. Every user
// message is classified before any generation is attempted; a HIGH
// verdict switches the session to mentor mode and the scammer
// generator is not called at all on that turn.
type Manager struct {
	store      *Store
	classifier *risk.Classifier
	catalog    *content.Catalog
	generator  llm.Generator

	windowTurns int
	genTimeout  time.Duration
	recorder    audit.Recorder
	logger      *zap.Logger
}

// Option configures a Manager.
type Option func(*Manager)

// WithWindowTurns bounds how many trailing turns reach the generator
// prompt.
func WithWindowTurns(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.windowTurns = n
		}
	}
}

// WithGenerateTimeout bounds each generator call.
func WithGenerateTimeout(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.genTimeout = d
		}
	}
}

// WithAuditRecorder attaches an audit sink.
func WithAuditRecorder(r audit.Recorder) Option {
	return func(m *Manager) {
		if r != nil {
			m.recorder = r
		}
	}
}

// WithLogger attaches a structured logger.
func WithLogger(l *zap.Logger) Option {
	return func(m *Manager) {
		if l != nil {
			m.logger = l
		}
	}
}

// NewManager wires a manager over its collaborators.
func NewManager(store *Store, classifier *risk.Classifier, catalog *content.Catalog, gen llm.Generator, opts ...Option) *Manager {
	m := &Manager{
		store:       store,
		classifier:  classifier,
		catalog:     catalog,
		generator:   gen,
		windowTurns: defaultWindowTurns,
		genTimeout:  defaultGenTimeout,
		recorder:    audit.Nop{},
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create registers a new session. Unknown persona or scenario tags fall
// back to the catalog defaults so a session always has usable content.
func (m *Manager) Create(persona string, age int, scenario string) Info {
	if !m.catalog.HasPersona(persona) {
		persona = content.DefaultPersonaKey
	}
	if !m.catalog.HasScenario(scenario) {
		scenario = content.DefaultScenarioKey
	}
	s := m.store.Create(persona, age, scenario)
	m.logger.Info("session created",
		zap.String("session_id", s.ID),
		zap.String("persona", persona),
		zap.String("scenario", scenario))
	return Info{ID: s.ID, Persona: persona, Age: age, Scenario: scenario, State: StateSetup.String()}
}

// Start generates the opening scammer message and moves the session to
// StateSimulating. If generation fails the session stays in StateSetup
// so the caller can retry the same call.
func (m *Manager) Start(ctx context.Context, id string) (Reply, error) {
	s, err := m.store.Get(id)
	if err != nil {
		return Reply{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	switch s.state {
	case StateEnded:
		return Reply{Mode: ModeEnded, Message: endedMessage}, nil
	case StateSetup:
	default:
		return Reply{}, fmt.Errorf("start from %s: %w", s.state, ErrInvalidTransition)
	}

	opening, err := m.generate(ctx, m.catalog.OpeningPrompt(s.Persona, s.Age, s.Scenario))
	if err != nil {
		return Reply{}, fmt.Errorf("generate opening: %w", err)
	}
	if err := s.transition(StateSimulating); err != nil {
		return Reply{}, err
	}
	s.history.Append(RoleScammer, opening)
	return Reply{Mode: ModeSimulator, Message: opening}, nil
}

// SendMessage processes one user turn. The verdict is computed before
// anything else happens: HIGH replies are never answered in character
// and never reach the scammer generator. A failed generation leaves the
// transcript and state untouched so the same message can be resent.
func (m *Manager) SendMessage(ctx context.Context, id, text string) (Reply, error) {
	s, err := m.store.Get(id)
	if err != nil {
		return Reply{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	switch s.state {
	case StateEnded:
		return Reply{Mode: ModeEnded, Message: endedMessage}, nil
	case StateMentor:
		s.history.Append(RoleUser, text)
		tip := m.catalog.Tip(s.Persona, s.Scenario)
		return Reply{Mode: ModeMentor, Message: pausedMessage, Tip: tip}, nil
	case StateSetup:
		// A message before Start is allowed: the user opened the
		// conversation themselves. The fold to StateSimulating is
		// deferred until the turn commits, so a failed generation
		// leaves the session in StateSetup and Start still valid.
	}

	verdict := m.classifier.Explain(text, s.Scenario)
	if verdict.Tier == patterns.TierHigh {
		if err := m.foldSetup(s); err != nil {
			return Reply{}, err
		}
		return m.triggerMentor(ctx, s, text, verdict), nil
	}

	prompt := m.buildSimulatorPrompt(s, text)
	out, err := m.generate(ctx, prompt)
	if err != nil {
		m.logger.Warn("scammer generation failed",
			zap.String("session_id", s.ID), zap.Error(err))
		return Reply{}, fmt.Errorf("generate reply: %w", err)
	}

	if err := m.foldSetup(s); err != nil {
		return Reply{}, err
	}
	s.history.Append(RoleUser, text)
	s.history.Append(RoleScammer, out)
	m.recorder.Record(audit.Event{
		SessionID: s.ID,
		Kind:      "message",
		Risk:      verdict.Tier.String(),
		Category:  string(verdict.Category),
		Mode:      string(ModeSimulator),
	})
	tier := verdict.Tier
	return Reply{Mode: ModeSimulator, Risk: &tier, Message: out}, nil
}

// foldSetup commits the implicit first-message start. Caller holds the
// session lock and has already reached a durable outcome for the turn.
func (m *Manager) foldSetup(s *Session) error {
	if s.state != StateSetup {
		return nil
	}
	return s.transition(StateSimulating)
}

// triggerMentor commits the risky user turn, flips the session to
// mentor mode, and produces coaching text. The generator here speaks as
// the mentor, never the scammer; if it fails the static fallback keeps
// the safety path from ever erroring out.
func (m *Manager) triggerMentor(ctx context.Context, s *Session, text string, verdict risk.Verdict) Reply {
	s.history.Append(RoleUser, text)
	last, _ := s.history.LastScammerTurn()
	if err := s.transition(StateMentor); err != nil {
		// Unreachable: StateSimulating always permits StateMentor.
		m.logger.Error("mentor transition rejected",
			zap.String("session_id", s.ID), zap.Error(err))
	}

	m.logger.Info("mentor triggered",
		zap.String("session_id", s.ID),
		zap.String("category", string(verdict.Category)),
		zap.String("fragment", verdict.Fragment))

	explanation, err := m.generate(ctx, m.catalog.MentorPrompt(s.Persona, s.Age, s.Scenario, last.Text, text))
	kind := "mentor_triggered"
	if err != nil {
		m.logger.Warn("mentor generation failed, using fallback",
			zap.String("session_id", s.ID), zap.Error(err))
		explanation = m.catalog.MentorFallback(s.Scenario, text)
		kind = "mentor_fallback"
	}
	s.history.Append(RoleMentor, explanation)

	m.recorder.Record(audit.Event{
		SessionID: s.ID,
		Kind:      kind,
		Risk:      verdict.Tier.String(),
		Category:  string(verdict.Category),
		Fragment:  verdict.Fragment,
		Mode:      string(ModeMentor),
	})

	tier := verdict.Tier
	return Reply{
		Mode:               ModeMentor,
		Risk:               &tier,
		Message:            explanation,
		Tip:                m.catalog.Tip(s.Persona, s.Scenario),
		LastScammerMessage: last.Text,
	}
}

// Continue resumes the simulation after mentor guidance.
func (m *Manager) Continue(id string) (Reply, error) {
	s, err := m.store.Get(id)
	if err != nil {
		return Reply{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.state == StateEnded {
		return Reply{}, ErrSimulationEnded
	}
	if s.state != StateMentor {
		return Reply{}, fmt.Errorf("continue from %s: %w", s.state, ErrInvalidTransition)
	}
	if err := s.transition(StateSimulating); err != nil {
		return Reply{}, err
	}
	last, _ := s.history.LastScammerTurn()
	m.recorder.Record(audit.Event{SessionID: s.ID, Kind: "resumed", Mode: string(ModeSimulator)})
	return Reply{Mode: ModeSimulator, Message: resumedMessage, LastScammerMessage: last.Text}, nil
}

// Retry abandons the run: the transcript is cleared and the session
// moves to StateEnded. Retrying an already-ended session is a no-op
// that reports the same outcome.
func (m *Manager) Retry(id string) (Reply, error) {
	s, err := m.store.Get(id)
	if err != nil {
		return Reply{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()

	if s.state != StateEnded {
		if err := s.transition(StateEnded); err != nil {
			return Reply{}, err
		}
		s.history.reset()
		m.recorder.Record(audit.Event{SessionID: s.ID, Kind: "reset", Mode: string(ModeEnded)})
		m.logger.Info("session reset", zap.String("session_id", s.ID))
	}
	return Reply{Mode: ModeEnded, Message: resetMessage}, nil
}

// Info returns a snapshot of a session.
func (m *Manager) Info(id string) (Info, error) {
	s, err := m.store.Get(id)
	if err != nil {
		return Info{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return Info{
		ID:        s.ID,
		Persona:   s.Persona,
		Age:       s.Age,
		Scenario:  s.Scenario,
		State:     s.state.String(),
		TurnCount: s.history.Len(),
	}, nil
}

// ActiveCount reports how many sessions are live.
func (m *Manager) ActiveCount() int { return m.store.ActiveCount() }

func (m *Manager) buildSimulatorPrompt(s *Session, pending string) string {
	var b strings.Builder
	b.WriteString(m.catalog.SimulatorPrompt(s.Persona, s.Age, s.Scenario))
	b.WriteString("\n\nConversation so far:\n")
	b.WriteString(RenderTranscript(s.history.RecentWindow(m.windowTurns)))
	b.WriteString("User: ")
	b.WriteString(pending)
	b.WriteString("\nScammer:")
	return b.String()
}

func (m *Manager) generate(ctx context.Context, prompt string) (string, error) {
	gctx, cancel := context.WithTimeout(ctx, m.genTimeout)
	defer cancel()
	out, err := m.generator.Generate(gctx, prompt)
	if err != nil {
		return "", err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return "", fmt.Errorf("%w: empty completion", llm.ErrUnavailable)
	}
	return out, nil
}

// IsRetryable reports whether an operation error leaves the session in
// a state where the same call can simply be repeated.
func IsRetryable(err error) bool {
	return errors.Is(err, llm.ErrUnavailable) || errors.Is(err, context.DeadlineExceeded)
}
