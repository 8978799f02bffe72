package content

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadEmbeddedCatalog(t *testing.T) {
	c := Load()

	if len(c.Personas) < 5 {
		t.Errorf("expected at least 5 personas, got %d", len(c.Personas))
	}
	if len(c.Scenarios) < 5 {
		t.Errorf("expected at least 5 scenarios, got %d", len(c.Scenarios))
	}
	for _, key := range []string{"student", "job_seeker", "senior_citizen", "teenager", "general"} {
		if !c.HasPersona(key) {
			t.Errorf("missing persona %q", key)
		}
	}
	for _, key := range []string{"bank", "government", "job_offer", "relative_emergency", "lottery_offer"} {
		if !c.HasScenario(key) {
			t.Errorf("missing scenario %q", key)
		}
	}
}

func TestUnknownTagsResolveToDefaults(t *testing.T) {
	c := Load()

	if got := c.Persona("astronaut"); got.Name != c.Persona(DefaultPersonaKey).Name {
		t.Errorf("unknown persona resolved to %q, want default", got.Name)
	}
	if got := c.Scenario("crypto_rug_pull"); got.Name != c.Scenario(DefaultScenarioKey).Name {
		t.Errorf("unknown scenario resolved to %q, want default", got.Name)
	}
}

func TestTipLookup(t *testing.T) {
	c := Load()

	exact := c.Tip("student", "bank")
	if exact == "" || exact == c.DefaultTip {
		t.Errorf("expected a specific tip for (student, bank), got %q", exact)
	}

	// Unknown pairs always get the universal tip; there is no error path.
	if got := c.Tip("nobody", "nothing"); got != c.DefaultTip {
		t.Errorf("Tip(nobody, nothing) = %q, want default tip", got)
	}
	if got := c.Tip("", ""); got != c.DefaultTip {
		t.Errorf("Tip(\"\", \"\") = %q, want default tip", got)
	}
}

func TestRiskKeywords(t *testing.T) {
	c := Load()

	kw := c.RiskKeywords()
	if len(kw["bank"]) == 0 {
		t.Fatal("bank scenario has no risk keywords")
	}
	found := false
	for _, k := range kw["bank"] {
		if k == "otp" {
			found = true
		}
	}
	if !found {
		t.Error(`bank risk keywords missing "otp"`)
	}
}

func TestSimulatorPromptContainsContext(t *testing.T) {
	c := Load()

	prompt := c.SimulatorPrompt("student", 20, "job_offer")
	for _, want := range []string{
		"STAY IN CHARACTER",
		"Student",
		"20 years old",
		"Fake Job/Recruitment Fraud",
		"escalation pattern",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("simulator prompt missing %q", want)
		}
	}
}

func TestMentorPromptNeverContinuesScam(t *testing.T) {
	c := Load()

	prompt := c.MentorPrompt("senior_citizen", 67, "bank", "Share the OTP now", "ok i am sending")
	if !strings.Contains(prompt, "Cybersecurity Mentor") {
		t.Error("mentor prompt missing mentor role")
	}
	if !strings.Contains(prompt, "ok i am sending") {
		t.Error("mentor prompt missing the risky reply")
	}
	if strings.Contains(prompt, "STAY IN CHARACTER") {
		t.Error("mentor prompt must not embed the scam-continuation rules")
	}
}

func TestMentorFallbackUsesRedFlags(t *testing.T) {
	c := Load()

	msg := c.MentorFallback("bank", "my otp is 445566")
	if !strings.Contains(msg, "OTP") {
		t.Errorf("fallback mentor text should cite a bank red flag, got %q", msg)
	}
}

func TestLoadFileRejectsIncompleteCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "content.yaml")
	if err := os.WriteFile(path, []byte("default_tip: x\npersonas: {}\nscenarios: {}\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for catalog without default persona/scenario")
	}
	if _, err := LoadFile(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
