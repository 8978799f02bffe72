// Package risk assigns a risk tier to each user utterance in a scam
// simulation. The classifier is deliberately rule-based: false negatives
// are safety-critical, so every verdict must be traceable to an explicit
// catalog rule rather than a model score.
package risk

import (
	"strings"

	"github.com/cyberguardian-ai/scamsim/pkg/patterns"
	"golang.org/x/text/unicode/norm"
)

// Verdict is a fully attributed classification result.
type Verdict struct {
	Tier     patterns.Tier
	Category patterns.Category
	Fragment string // the text fragment that tripped the rule, empty for LOW
	Rule     string // rule name, empty for LOW
}

// Classifier evaluates utterances against an ordered pattern catalog.
// Pure and stateless: safe for unbounded concurrent use.
type Classifier struct {
	catalog *patterns.Catalog
}

// New returns a classifier over the given catalog.
func New(catalog *patterns.Catalog) *Classifier {
	return &Classifier{catalog: catalog}
}

// Default returns a classifier over the built-in catalog.
func Default() *Classifier {
	return New(patterns.Default())
}

// Classify returns the risk tier for a user message. scenario may be
// empty. It never fails: empty, whitespace-only, or unicode-heavy input
// degrades to LOW.
func (c *Classifier) Classify(message, scenario string) patterns.Tier {
	return c.Explain(message, scenario).Tier
}

// Explain reruns the same ordered evaluation as Classify and reports
// which rule fired and on what fragment. Classify is defined in terms of
// Explain, so the two can never disagree.
func (c *Classifier) Explain(message, scenario string) Verdict {
	lowered, raw := normalize(message)
	if lowered == "" {
		return Verdict{Tier: patterns.TierLow, Category: patterns.CategoryNone}
	}

	m := c.catalog.Evaluate(lowered, raw, scenario)
	if m == nil {
		return Verdict{Tier: patterns.TierLow, Category: patterns.CategoryNone}
	}
	return Verdict{
		Tier:     m.Rule.Tier,
		Category: m.Rule.Category,
		Fragment: m.Fragment,
		Rule:     m.Rule.Name,
	}
}

// normalize prepares the two views of a message the catalog matches
// against: a trimmed lowercase form for keyword rules and a casing-
// preserving form for numeric-shape rules. Both are NFKC-folded first so
// fullwidth or otherwise decorated digits still trip the numeric rules.
func normalize(message string) (lowered, raw string) {
	raw = strings.TrimSpace(norm.NFKC.String(message))
	lowered = strings.ToLower(raw)
	return lowered, raw
}
