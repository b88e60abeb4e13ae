package promptstyle

import "strings"

const marker = "VERIFEYE_PROMPT_STYLE_V1"

// ApplySystem prepends a short guidance block to system prompts. Prompts that already
// carry the block are returned unchanged.
func ApplySystem(system string, mode string) string {
	base := strings.TrimSpace(system)
	if base == "" {
		return base
	}
	if strings.Contains(base, marker) {
		return base
	}
	mode = strings.ToLower(strings.TrimSpace(mode))

	var b strings.Builder
	b.WriteString(marker)
	b.WriteString("\nYou write realistic scam-awareness training material for Verifeye.")
	b.WriteString("\nFollow the system and user instructions precisely.")
	b.WriteString("\nNever include real brand login URLs, real phone numbers or working links.")
	if mode == "json" {
		b.WriteString("\nReturn a single JSON object that conforms to the schema and contains no extra keys.")
	} else {
		b.WriteString("\nBe concise.")
	}
	b.WriteString("\n---\n")
	b.WriteString(base)
	return strings.TrimSpace(b.String())
}
