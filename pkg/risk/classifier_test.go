package risk

import (
	"testing"

	"github.com/cyberguardian-ai/scamsim/pkg/patterns"
)

func TestClassifyComplianceIsHigh(t *testing.T) {
	c := Default()

	for _, msg := range []string{
		"ok i am sending",
		"okay i am sending the documents",
		"i will send it now",
		"sending now",
		"yes i confirm",
		"let me send that to you",
		"i am giving you my details",
		"here you go",
		"just sent the files",
		"ok.",
		"done.",
		"yes ji",
	} {
		if got := c.Classify(msg, ""); got != patterns.TierHigh {
			t.Errorf("Classify(%q) = %s, want HIGH", msg, got)
		}
	}
}

func TestClassifyDataDisclosureIsHigh(t *testing.T) {
	c := Default()

	for _, msg := range []string{
		"my name is John Smith",
		"my ssn is 123-45-6789",
		"the otp is 456789",
		"my otp is 445566",
		"my bank account number is 12345",
		"my credit card number",
		"SBI",
		"84567389290",
		"45,000",
		"transfer Rs.5000 then",
	} {
		if got := c.Classify(msg, ""); got != patterns.TierHigh {
			t.Errorf("Classify(%q) = %s, want HIGH", msg, got)
		}
	}
}

func TestClassifyScenarioKeywords(t *testing.T) {
	c := Default()

	cases := []struct {
		msg      string
		scenario string
	}{
		{"here is my resume", "job_offer"},
		{"my otp is 123456", "bank"},
		{"transfer 50000", "relative_emergency"},
		{"processing fee", "lottery_offer"},
	}
	for _, tc := range cases {
		if got := c.Classify(tc.msg, tc.scenario); got != patterns.TierHigh {
			t.Errorf("Classify(%q, %q) = %s, want HIGH", tc.msg, tc.scenario, got)
		}
	}
}

func TestClassifyHesitationIsMedium(t *testing.T) {
	c := Default()

	for _, msg := range []string{
		"i'm not sure about this",
		"can you explain more?",
		"is this safe?",
		"is this real?",
		"sounds suspicious to me",
	} {
		if got := c.Classify(msg, ""); got != patterns.TierMedium {
			t.Errorf("Classify(%q) = %s, want MEDIUM", msg, got)
		}
	}
}

func TestClassifyOrdinaryIsLow(t *testing.T) {
	c := Default()

	for _, msg := range []string{
		"hello",
		"what is this about?",
		"tell me more",
		"i have no money currently",
		"",
		"   \t\n  ",
		"éüñ ☃ ！？", // accented text, a snowman, fullwidth punctuation
	} {
		if got := c.Classify(msg, ""); got != patterns.TierLow {
			t.Errorf("Classify(%q) = %s, want LOW", msg, got)
		}
	}
}

// Priority: a message matching both an explicit-data rule and a hesitation
// rule must classify HIGH, never MEDIUM.
func TestClassifyPriorityOrdering(t *testing.T) {
	c := Default()

	msg := "wait, is this safe? my otp is 4456"
	v := c.Explain(msg, "")
	if v.Tier != patterns.TierHigh {
		t.Fatalf("Explain(%q).Tier = %s, want HIGH", msg, v.Tier)
	}
	if v.Category != patterns.CategoryDataDisclosure {
		t.Errorf("Explain(%q).Category = %s, want %s", msg, v.Category, patterns.CategoryDataDisclosure)
	}
}

// Purity: repeated classification of the same input yields the same tier.
func TestClassifyIsDeterministic(t *testing.T) {
	c := Default()

	for _, msg := range []string{"ok i am sending", "is this safe?", "hello", "45,000"} {
		first := c.Classify(msg, "bank")
		for i := 0; i < 10; i++ {
			if got := c.Classify(msg, "bank"); got != first {
				t.Fatalf("Classify(%q) changed from %s to %s on call %d", msg, first, got, i+2)
			}
		}
	}
}

func TestExplainAgreesWithClassify(t *testing.T) {
	c := Default()

	msgs := []string{
		"ok i am sending", "my otp is 445566", "45,000", "is this safe?",
		"hello", "SBI", "here you go", "84567389290", "wait",
	}
	for _, msg := range msgs {
		for _, scenario := range []string{"", "bank", "job_offer"} {
			v := c.Explain(msg, scenario)
			if got := c.Classify(msg, scenario); got != v.Tier {
				t.Errorf("Classify(%q, %q) = %s but Explain = %s", msg, scenario, got, v.Tier)
			}
			if v.Tier != patterns.TierLow && v.Fragment == "" {
				t.Errorf("Explain(%q, %q) returned %s with empty fragment", msg, scenario, v.Tier)
			}
		}
	}
}

// Fullwidth digits must still trip numeric rules after NFKC folding.
func TestNormalizeFoldsFullwidthDigits(t *testing.T) {
	c := Default()

	msg := "４５６７８９０１" // folds to 45678901
	if got := c.Classify(msg, ""); got != patterns.TierHigh {
		t.Errorf("Classify(fullwidth digits) = %s, want HIGH", got)
	}
}
