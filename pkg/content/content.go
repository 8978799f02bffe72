// Package content holds the persona and scenario catalogs that shape the
// simulated scam conversations, plus the advisory safety tips shown in
// mentor mode. All of it is configuration data consumed as lookup tables:
// unknown tags resolve to documented defaults, never to an error.
package content

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Default keys used when a request carries an unknown tag.
const (
	DefaultPersonaKey  = "general"
	DefaultScenarioKey = "bank"
)

//go:embed content.yaml
var defaultContent []byte

// Persona describes a training-target profile the scammer adapts to.
type Persona struct {
	Name            string   `yaml:"name"`
	Description     string   `yaml:"description"`
	Vulnerabilities []string `yaml:"vulnerabilities"`
	CommonScams     []string `yaml:"common_scams"`
	LanguageStyle   string   `yaml:"language_style"`
	Triggers        []string `yaml:"psychological_triggers"`
	DataTargets     []string `yaml:"data_targets"`
	OpeningHooks    []string `yaml:"opening_hooks"`
}

// Scenario describes one scam archetype including its scripted content
// and the scenario-specific risk keywords fed into the pattern catalog.
type Scenario struct {
	Name              string   `yaml:"name"`
	Description       string   `yaml:"description"`
	Role              string   `yaml:"role"`
	OpeningContext    string   `yaml:"opening_context"`
	EscalationPattern []string `yaml:"escalation_pattern"`
	Manipulation      []string `yaml:"manipulation_techniques"`
	DataTargets       []string `yaml:"data_extraction_targets"`
	RedFlags          []string `yaml:"red_flags"`
	SampleMessages    []string `yaml:"sample_messages"`
	RiskKeywords      []string `yaml:"risk_keywords"`
}

// TipEntry is one (persona, scenario) advisory tip.
type TipEntry struct {
	Persona  string `yaml:"persona"`
	Scenario string `yaml:"scenario"`
	Text     string `yaml:"text"`
}

// Catalog is the loaded, immutable content table.
type Catalog struct {
	DefaultTip string              `yaml:"default_tip"`
	TipEntries []TipEntry          `yaml:"tips"`
	Personas   map[string]Persona  `yaml:"personas"`
	Scenarios  map[string]Scenario `yaml:"scenarios"`

	tips map[[2]string]string
}

// Load parses the embedded default catalog. It panics on failure, which
// can only mean the shipped content.yaml is broken.
func Load() *Catalog {
	c, err := parse(defaultContent)
	if err != nil {
		panic(fmt.Sprintf("content: embedded catalog invalid: %v", err))
	}
	return c
}

// LoadFile reads a catalog from an external YAML file, for deployments
// that customize the scripted content.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read content file: %w", err)
	}
	c, err := parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse content file %s: %w", path, err)
	}
	return c, nil
}

func parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	if _, ok := c.Personas[DefaultPersonaKey]; !ok {
		return nil, fmt.Errorf("catalog is missing the %q persona", DefaultPersonaKey)
	}
	if _, ok := c.Scenarios[DefaultScenarioKey]; !ok {
		return nil, fmt.Errorf("catalog is missing the %q scenario", DefaultScenarioKey)
	}
	if c.DefaultTip == "" {
		return nil, fmt.Errorf("catalog is missing default_tip")
	}

	c.tips = make(map[[2]string]string, len(c.TipEntries))
	for _, t := range c.TipEntries {
		c.tips[[2]string{t.Persona, t.Scenario}] = t.Text
	}
	return &c, nil
}

// Persona returns the persona for key, falling back to the default.
func (c *Catalog) Persona(key string) Persona {
	if p, ok := c.Personas[key]; ok {
		return p
	}
	return c.Personas[DefaultPersonaKey]
}

// Scenario returns the scenario for key, falling back to the default.
func (c *Catalog) Scenario(key string) Scenario {
	if s, ok := c.Scenarios[key]; ok {
		return s
	}
	return c.Scenarios[DefaultScenarioKey]
}

// HasPersona reports whether key names a configured persona.
func (c *Catalog) HasPersona(key string) bool {
	_, ok := c.Personas[key]
	return ok
}

// HasScenario reports whether key names a configured scenario.
func (c *Catalog) HasScenario(key string) bool {
	_, ok := c.Scenarios[key]
	return ok
}

// Tip returns the advisory tip for the exact (persona, scenario) pair, or
// the universal default. Always returns text.
func (c *Catalog) Tip(persona, scenario string) string {
	if tip, ok := c.tips[[2]string{persona, scenario}]; ok {
		return tip
	}
	return c.DefaultTip
}

// RiskKeywords collects the per-scenario keyword lists in the shape the
// pattern catalog expects.
func (c *Catalog) RiskKeywords() map[string][]string {
	out := make(map[string][]string, len(c.Scenarios))
	for tag, s := range c.Scenarios {
		if len(s.RiskKeywords) > 0 {
			out[tag] = s.RiskKeywords
		}
	}
	return out
}
