// Package patterns provides the ordered risk-rule catalog used by the
// simulation risk classifier. All regexes are compiled once at catalog
// construction and shared across all sessions.
//
// Design principles:
// - COMPILE ONCE: every matcher is compiled at catalog construction
// - ORDERED: rules are evaluated top to bottom, first match wins; the
//   order is part of the contract because categories overlap and the
//   winning rule is the reported reason
// - DATA-DRIVEN: rule content lives in one table and the evaluation loop
//   is generic, so explaining a verdict is the same code path as
//   producing it
package patterns

import (
	"regexp"
	"strings"
	"sync"
)

// Tier is the risk level assigned to a user utterance.
type Tier int

const (
	TierLow Tier = iota
	TierMedium
	TierHigh
)

func (t Tier) String() string {
	switch t {
	case TierHigh:
		return "HIGH"
	case TierMedium:
		return "MEDIUM"
	default:
		return "LOW"
	}
}

// MarshalText lets a Tier render as "LOW"/"MEDIUM"/"HIGH" in JSON replies.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// Category labels the rule family that produced a verdict.
type Category string

const (
	CategoryDataDisclosure  Category = "data_disclosure"
	CategorySensitiveNumber Category = "sensitive_number"
	CategoryMonetary        Category = "monetary"
	CategoryInstitution     Category = "institution"
	CategoryCompliance      Category = "compliance"
	CategoryDigitRun        Category = "digit_run"
	CategoryScenario        Category = "scenario_keyword"
	CategoryHesitation      Category = "hesitation"
	CategoryNone            Category = "none"
)

// kind selects how a rule matches.
type kind int

const (
	kindKeyword kind = iota // literal substring set against lowercased text
	kindRegexp              // compiled regexes
	kindShort               // short isolated affirmative reply
)

// Rule is a single immutable detection rule.
type Rule struct {
	Name     string
	Category Category
	Tier     Tier
	Scenario string // non-empty = only active when this scenario tag is supplied

	kind     kind
	keywords []string
	regexes  []*regexp.Regexp
	rawText  bool // match original casing (numeric shapes) instead of lowercased text
}

// Match holds the outcome of catalog evaluation: which rule fired and the
// text fragment that tripped it.
type Match struct {
	Rule     *Rule
	Fragment string
}

// Catalog is the ordered, immutable rule collection. Safe for concurrent
// use; never mutated after construction.
type Catalog struct {
	rules []*Rule
}

var (
	defaultCatalog *Catalog
	defaultOnce    sync.Once
)

// Default returns the catalog built from the built-in scenario keyword
// sets. Singleton, initialized on first use.
func Default() *Catalog {
	defaultOnce.Do(func() {
		defaultCatalog = New(builtinScenarioKeywords)
	})
	return defaultCatalog
}

// New builds a catalog with the given scenario-specific keyword sets
// spliced into the scenario-rule slot of the fixed evaluation order.
func New(scenarioKeywords map[string][]string) *Catalog {
	c := &Catalog{rules: make([]*Rule, 0, 16)}
	c.registerRules(scenarioKeywords)
	return c
}

// Evaluate runs the ordered rules against a message and returns the first
// match, or nil if no rule fires. norm is the trimmed, case-folded form
// used for keyword rules; raw keeps the original casing for numeric-shape
// rules. scenario may be empty.
func (c *Catalog) Evaluate(norm, raw, scenario string) *Match {
	for _, r := range c.rules {
		if r.Scenario != "" && r.Scenario != scenario {
			continue
		}
		if fragment, ok := r.match(norm, raw); ok {
			return &Match{Rule: r, Fragment: fragment}
		}
	}
	return nil
}

// Rules returns the evaluation order. Exposed for audits and tests; the
// returned slice must not be modified.
func (c *Catalog) Rules() []*Rule {
	return c.rules
}

func (r *Rule) match(norm, raw string) (string, bool) {
	text := norm
	if r.rawText {
		text = raw
	}

	switch r.kind {
	case kindKeyword:
		for _, kw := range r.keywords {
			if strings.Contains(text, kw) {
				return kw, true
			}
		}
	case kindRegexp:
		for _, re := range r.regexes {
			if frag := re.FindString(text); frag != "" {
				return frag, true
			}
		}
	case kindShort:
		if isShortAffirmative(norm) {
			return norm, true
		}
	}
	return "", false
}

// shortAffirmatives are agreement tokens that, as (near) the whole
// message, are themselves the compliance act: a bare "ok" typed right
// after a scam demand is the user agreeing to it.
var shortAffirmatives = map[string]bool{
	"ok": true, "okay": true, "yes": true, "yeah": true, "yep": true,
	"sure": true, "fine": true, "done": true, "sent": true, "alright": true,
	"haan": true, "ji": true,
}

const maxShortReplyWords = 3

func isShortAffirmative(norm string) bool {
	words := strings.Fields(norm)
	if len(words) == 0 || len(words) > maxShortReplyWords {
		return false
	}
	return shortAffirmatives[strings.Trim(words[0], ".!?,")]
}

// registration helpers

func (c *Catalog) addKeywords(name string, cat Category, tier Tier, scenario string, keywords []string) {
	c.rules = append(c.rules, &Rule{
		Name:     name,
		Category: cat,
		Tier:     tier,
		Scenario: scenario,
		kind:     kindKeyword,
		keywords: keywords,
	})
}

func (c *Catalog) addRegexes(name string, cat Category, tier Tier, rawText bool, exprs []string) {
	compiled := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		compiled = append(compiled, regexp.MustCompile(expr))
	}
	c.rules = append(c.rules, &Rule{
		Name:     name,
		Category: cat,
		Tier:     tier,
		kind:     kindRegexp,
		regexes:  compiled,
		rawText:  rawText,
	})
}

func (c *Catalog) addShortReply(name string, cat Category, tier Tier) {
	c.rules = append(c.rules, &Rule{
		Name:     name,
		Category: cat,
		Tier:     tier,
		kind:     kindShort,
	})
}
