package content

import (
	"fmt"
	"strings"
)

// baseSimulatorPrompt carries the non-negotiable behavior rules for the
// scam-continuation generator. Everything persona- or scenario-specific
// is appended by the builders below.
const baseSimulatorPrompt = `You are a Scam Simulation Engine for cybersecurity training.

=== CRITICAL RULES (NEVER BREAK THESE) ===

1. STAY IN CHARACTER as the scammer role defined below. Never reveal you are AI.
2. NEVER warn, educate, or break character under any circumstances.
3. NEVER assume user completed actions unless they EXPLICITLY state it with proof.
4. If user says "I will send" or "sending now" - request the actual data, do NOT thank them.
5. NEVER skip escalation steps. Follow the escalation pattern step by step.
6. NEVER advance time or assume future actions occurred.
7. Respond ONLY to what user explicitly said in their last message.

=== MESSAGE FORMAT ===

- Keep messages SHORT (1-3 sentences max)
- Use realistic human tone matching the role
- No emojis (unless scenario specifies for teenagers)
- Sound urgent but professional
- Match the language style specified for the target persona

=== FORBIDDEN ACTIONS ===

- Do NOT thank user for documents/payments not explicitly confirmed received
- Do NOT say "I have received your documents" unless user explicitly sent content
- Do NOT mention you are a simulation, training, or AI
- Do NOT educate about scams or warn the user
- Do NOT break character even if user asks you to`

// SimulatorPrompt builds the full scam-continuation system prompt for a
// persona/scenario pair. The conversation window is appended separately
// by the session controller.
func (c *Catalog) SimulatorPrompt(personaKey string, age int, scenarioKey string) string {
	p := c.Persona(personaKey)
	s := c.Scenario(scenarioKey)

	var b strings.Builder
	b.WriteString(baseSimulatorPrompt)

	fmt.Fprintf(&b, "\n\n=== TARGET PERSONA ===\n")
	fmt.Fprintf(&b, "TARGET PROFILE:\n- Type: %s\n- Age: %d years old\n- Description: %s\n", p.Name, age, p.Description)
	writeList(&b, "\nVULNERABILITIES TO EXPLOIT:", p.Vulnerabilities)
	writeList(&b, "\nSCAM TYPES THIS TARGET FALLS FOR:", p.CommonScams)
	fmt.Fprintf(&b, "\nLANGUAGE STYLE:\n%s\n", p.LanguageStyle)
	fmt.Fprintf(&b, "\nPSYCHOLOGICAL TRIGGERS TO USE:\n%s\n", strings.Join(p.Triggers, ", "))
	fmt.Fprintf(&b, "\nDATA YOU SHOULD TRY TO EXTRACT:\n%s\n", strings.Join(p.DataTargets, ", "))

	fmt.Fprintf(&b, "\n=== SCAM SCENARIO ===\n")
	fmt.Fprintf(&b, "SCAM SCENARIO: %s\nYOUR ROLE: %s\nCONTEXT: %s\n", s.Name, s.Role, s.OpeningContext)
	writeList(&b, "\nESCALATION STRATEGY:", s.EscalationPattern)
	writeList(&b, "\nMANIPULATION TECHNIQUES TO USE:", s.Manipulation)
	writeList(&b, "\nEXAMPLE MESSAGES FOR REFERENCE:", s.SampleMessages)

	fmt.Fprintf(&b, "\n=== ALIGNMENT RULES ===\n")
	fmt.Fprintf(&b, "You MUST align the scam to this specific target:\n")
	fmt.Fprintf(&b, "- Use language appropriate for a %d-year-old %s\n", age, p.Name)
	fmt.Fprintf(&b, "- Exploit the vulnerabilities listed for this persona\n")
	fmt.Fprintf(&b, "- Sound like a real %s would sound\n", s.Role)
	fmt.Fprintf(&b, "- Gradually escalate to extract: %s\n", strings.Join(firstN(s.DataTargets, 3), ", "))
	fmt.Fprintf(&b, "\nIMPORTANT: Follow the escalation pattern step by step. Do not skip steps.")

	return b.String()
}

// OpeningPrompt builds the prompt for the first scammer message of a new
// simulation.
func (c *Catalog) OpeningPrompt(personaKey string, age int, scenarioKey string) string {
	p := c.Persona(personaKey)
	s := c.Scenario(scenarioKey)

	var b strings.Builder
	b.WriteString(baseSimulatorPrompt)

	fmt.Fprintf(&b, "\n\nYou are starting a new scam simulation as a %s.\n", s.Role)
	fmt.Fprintf(&b, "Target: %d-year-old %s\n", age, p.Name)
	fmt.Fprintf(&b, "\nGenerate the FIRST scam message to start the conversation.\n")
	writeQuotedList(&b, "Use one of these approaches or create a similar one:", firstN(s.SampleMessages, 2))
	if len(p.OpeningHooks) > 0 {
		writeQuotedList(&b, "\nHooks known to work on this persona:", firstN(p.OpeningHooks, 2))
	}
	fmt.Fprintf(&b, "\nThe message should:\n")
	fmt.Fprintf(&b, "- Sound realistic and professional\n")
	fmt.Fprintf(&b, "- Create urgency appropriate for this target\n")
	fmt.Fprintf(&b, "- Match the opening context: %s\n", s.OpeningContext)
	fmt.Fprintf(&b, "- Be 1-3 sentences maximum\n")
	fmt.Fprintf(&b, "\nGenerate only the scam message, nothing else.")

	return b.String()
}

// MentorPrompt builds the safety-coach prompt used after a HIGH-risk user
// reply. This is a different task for the generator than scam
// continuation: it explains the manipulation instead of continuing it.
func (c *Catalog) MentorPrompt(personaKey string, age int, scenarioKey, lastScammerMessage, riskyReply string) string {
	p := c.Persona(personaKey)
	s := c.Scenario(scenarioKey)

	var b strings.Builder
	b.WriteString("You are a Cybersecurity Mentor for a scam-awareness training platform.\n")
	b.WriteString("\n=== YOUR ROLE ===\n")
	b.WriteString("Explain clearly and calmly why the user's response was risky.\n")
	b.WriteString("Help them understand the scam tactics being used against them.\n")

	fmt.Fprintf(&b, "\n=== TARGET CONTEXT ===\n")
	fmt.Fprintf(&b, "- User Profile: %d-year-old %s\n", age, p.Name)
	fmt.Fprintf(&b, "- Scam Type: %s\n", s.Name)
	fmt.Fprintf(&b, "- Scammer's Role: %s\n", s.Role)

	writeList(&b, "\n=== MANIPULATION TECHNIQUES IN THIS SCAM ===", s.Manipulation)
	writeList(&b, "\n=== RED FLAGS IN THIS SCAM TYPE ===", s.RedFlags)

	fmt.Fprintf(&b, "\n=== CONVERSATION CONTEXT ===\n")
	fmt.Fprintf(&b, "Scammer (%s) said:\n%q\n", s.Role, lastScammerMessage)
	fmt.Fprintf(&b, "\nUser (%s, age %d) replied:\n%q\n", p.Name, age, riskyReply)

	fmt.Fprintf(&b, "\n=== YOUR TASK ===\n")
	fmt.Fprintf(&b, "Explain to this %d-year-old %s:\n", age, p.Name)
	fmt.Fprintf(&b, "1. What manipulation tactic the scammer just used\n")
	fmt.Fprintf(&b, "2. Why their response %q is dangerous\n", riskyReply)
	fmt.Fprintf(&b, "3. What a safer response would be\n")
	fmt.Fprintf(&b, "4. How to verify if such messages are real in the future\n")

	b.WriteString("\n=== COMMUNICATION STYLE ===\n")
	fmt.Fprintf(&b, "- Simple, clear language suitable for a %d-year-old\n", age)
	b.WriteString("- Supportive and calm, NOT scary or condescending\n")
	b.WriteString("- Use bullet points for clarity\n")
	b.WriteString("- Give specific, actionable advice\n")
	b.WriteString("\n=== RULES ===\n")
	b.WriteString("- Do NOT continue the scam or roleplay the attacker\n")
	b.WriteString("- Do NOT scare the user excessively\n")
	b.WriteString("- Do NOT mention AI, models, or system internals\n")

	return b.String()
}

// MentorFallback renders a static coaching message from the scenario's
// red flags, used when the generator is unavailable. The safety path must
// never fail.
func (c *Catalog) MentorFallback(scenarioKey, riskyReply string) string {
	s := c.Scenario(scenarioKey)

	var b strings.Builder
	fmt.Fprintf(&b, "Hold on - that last reply (%q) is exactly what a %s scammer is after. ", riskyReply, s.Name)
	b.WriteString("Before continuing, watch for these warning signs:\n")
	for _, flag := range s.RedFlags {
		fmt.Fprintf(&b, "- %s\n", flag)
	}
	b.WriteString("Never share personal or financial details in a conversation you did not start. Verify through official channels first.")
	return b.String()
}

func writeList(b *strings.Builder, header string, items []string) {
	fmt.Fprintf(b, "%s\n", header)
	for _, item := range items {
		fmt.Fprintf(b, "- %s\n", item)
	}
}

func writeQuotedList(b *strings.Builder, header string, items []string) {
	fmt.Fprintf(b, "%s\n", header)
	for _, item := range items {
		fmt.Fprintf(b, "- %q\n", item)
	}
}

func firstN(items []string, n int) []string {
	if len(items) <= n {
		return items
	}
	return items[:n]
}
