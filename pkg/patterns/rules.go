package patterns

import (
	"fmt"
	"sort"
)

// =============================================================================
// RULE DEFINITIONS, IN EVALUATION ORDER
// The order below is the priority contract: overlapping categories resolve
// to whichever rule is registered first, and that rule's category is the
// reported reason. HIGH categories come before MEDIUM so any ambiguity
// between "complying" and "hesitating" resolves to the safer verdict.
// =============================================================================

// Digit-run thresholds. BareDigitRunLen is deliberately aggressive: a bare
// 4-digit number also matches years and phone extensions, but the catalog
// is tuned for zero false negatives and accepts that cost. Tune here, not
// in the rule body.
const (
	BareDigitRunLen    = 4 // monetary: plain number treated as an amount
	LastResortDigitLen = 6 // digit_run: final catch for sensitive numbers
	AccountDigitRunLen = 8 // sensitive_number: account-length run
)

func (c *Catalog) registerRules(scenarioKeywords map[string][]string) {
	// 1. Explicit personal/financial data disclosure.
	c.addKeywords("explicit_data", CategoryDataDisclosure, TierHigh, "", []string{
		// personal identifiers
		"my name is", "date of birth", "dob", "here are my details",
		"aadhaar", "aadhar", "pan card", "pan number", "passport",
		"voter id", "driving license",
		// financial data
		"last 4 digits", "social security", "ssn", "otp", "code is",
		"my password", "my pin", "bank account", "credit card",
		"mother's maiden", "security question", "account number",
		"ifsc", "routing number", "swift code", "cvv", "expiry date",
		"card number", "upi pin", "net banking",
		// contact / address
		"my address is", "i live at", "my phone number", "my email is",
	})

	// 2. Sensitive numeric shapes, matched against original casing.
	c.addRegexes("sensitive_numbers", CategorySensitiveNumber, TierHigh, true, []string{
		fmt.Sprintf(`\b\d{%d,}\b`, AccountDigitRunLen),        // account-length run
		`\b\d{4}[ -]\d{4}[ -]\d{4}(?:[ -]\d{1,4})?\b`,         // card-number grouping
		`\b[A-Z]{5}\d{4}[A-Z]\b`,                              // PAN format
		`(?i)\b(?:otp|code|pin|cvv)\b\W{0,12}(?:is\s+)?\d{3,8}\b`, // OTP-length digits near a code keyword
	})

	// 3. Monetary amounts.
	c.addRegexes("money_amount", CategoryMonetary, TierHigh, false, []string{
		`\b\d{1,3}(?:,\d{2,3})+\b`, // 45,000 or 5,00,000
		`\b(?:rs\.?|inr|usd|eur|gbp)\s*\d+`,
		`[₹$€£]\s*\d+`,
		`\b\d+\s*(?:rupees?|dollars?|lakhs?|crores?|thousand|hundred)\b`,
		fmt.Sprintf(`\b\d{%d,}\b`, BareDigitRunLen), // plain large number treated as an amount
	})

	// 4. Named financial institutions and payment apps. Word-bounded so
	// short bank abbreviations do not fire inside ordinary words
	// ("citizen" must not match "citi").
	c.addRegexes("institution_names", CategoryInstitution, TierHigh, false, []string{
		`\b(?:sbi|state bank|hdfc|icici|axis bank|kotak|pnb|punjab national|bank of baroda|canara|union bank|idbi|yes bank|indusind|federal bank|rbl|bandhan|indian bank|uco bank|central bank|bank of india)\b`,
		`\b(?:chase|wells fargo|bank of america|citibank|citi bank|hsbc|barclays|lloyds|natwest|santander)\b`,
		`\b(?:my|from|to)\s+(?:gpay|paytm|phonepe|venmo|cash app)\b`,
		`\bmy (?:bank|savings)\b`,
		`\b(?:from|to) my account\b`,
	})

	// 5. Compliance intent: the user agreeing to the scammer's demand.
	c.addKeywords("compliance_phrases", CategoryCompliance, TierHigh, "", []string{
		// sending intent
		"ok i am sending", "okay i am sending", "ok i will send",
		"ok i will give", "okay i will give", "i will give", "i will send",
		"i will transfer", "i am sending", "i am transferring",
		"sending now", "sending it", "transferring now",
		"let me send", "let me give", "let me transfer",
		// agreement / confirmation
		"yes i will", "yes i am", "i will do it", "okay i will", "ok i will",
		"sure i will", "i'll send", "i'll give", "i'll transfer", "i'll do it",
		"yes i confirm", "i confirm", "ok done", "okay done", "i agree",
		// completion claims
		"i have sent", "i have transferred", "just sent", "already sent",
		"shared it", "here you go", "giving you", "i am giving",
		"take my", "here is my",
		// payment intent
		"i will pay", "i am paying", "paying now", "let me pay",
	})
	c.addRegexes("compliance_intent", CategoryCompliance, TierHigh, false, []string{
		`\b(?:ok(?:ay)?|yes|sure|fine|alright)\b.{0,30}\b(?:send|sending|give|giving|transfer|pay|share|sharing)\b`,
		`\bi(?:'ll| will| am going to)\s+\w{0,12}\s*(?:send|give|transfer|pay|share|provide)\b`,
		`\b(?:sharing|providing)\s+(?:it|them|everything)?\s*now\b`,
	})
	c.addShortReply("short_affirmative", CategoryCompliance, TierHigh)

	// 6. Any remaining long digit run: last-resort catch for sensitive
	// numbers not shaped like the patterns above.
	c.addRegexes("digit_run", CategoryDigitRun, TierHigh, true, []string{
		fmt.Sprintf(`\d{%d,}`, LastResortDigitLen),
	})

	// 7. Scenario-specific keyword lists, active only for their tag.
	tags := make([]string, 0, len(scenarioKeywords))
	for tag := range scenarioKeywords {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		c.addKeywords("scenario_"+tag, CategoryScenario, TierHigh, tag, scenarioKeywords[tag])
	}

	// 8. Hesitation / doubt: the user questioning the scam. MEDIUM, and
	// deliberately last among the matchers so compliance always wins.
	c.addKeywords("hesitation", CategoryHesitation, TierMedium, "", []string{
		"not sure", "can you explain", "why do you need",
		"is this safe", "are you sure", "i don't understand",
		"can you tell me more", "how do i know", "is this real",
		"is this legit", "sounds suspicious", "is this genuine",
		"should i trust", "seems fishy", "bit worried", "not comfortable",
		"can i verify", "how to verify", "is this official",
		"wait", "hold on", "let me think", "i need time",
	})
}

// builtinScenarioKeywords mirrors the default scenario catalogs shipped in
// pkg/content. Kept here so the catalog is usable standalone; gateways
// built from configured content pass their own sets through New.
var builtinScenarioKeywords = map[string][]string{
	"bank": {
		"otp", "cvv", "pin", "atm pin", "card number", "account number",
		"net banking", "password", "upi pin", "transaction password",
		"debit card", "credit card", "ifsc", "branch code",
	},
	"job_offer": {
		"resume", "cv", "aadhaar", "pan card", "id proof", "address proof",
		"registration fee", "processing fee", "bank details", "salary account",
		"joining fee", "training fee", "security deposit",
	},
	"government": {
		"aadhaar", "pan", "fine", "penalty", "payment", "transfer",
		"settlement amount", "case number", "fir", "challan",
	},
	"relative_emergency": {
		"transfer", "send money", "upi", "bank account", "gpay", "paytm",
		"phonepe", "immediate", "urgent", "right now",
	},
	"lottery_offer": {
		"processing fee", "claim fee", "tax payment", "bank details",
		"account number", "transfer charges", "verification fee",
	},
}
