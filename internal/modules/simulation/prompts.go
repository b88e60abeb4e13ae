package simulation

import (
	"strconv"
	"strings"

	types "github.com/yungbote/verifeye-backend/internal/domain"
)

const (
	SchemaNameEmail = "phishing_email_simulation"
	SchemaNameText  = "phishing_text_simulation"

	defaultAge       = "30"
	defaultGender    = "unspecified"
	defaultInterests = "technology, online safety"
)

// Profile is the subset of the user row folded into generation prompts.
type Profile struct {
	Age       string
	Gender    string
	Interests string
}

// ProfileOf fills gaps with fixed defaults so onboarding never fails on missing answers.
func ProfileOf(u *types.User) Profile {
	p := Profile{Age: defaultAge, Gender: defaultGender, Interests: defaultInterests}
	if u == nil {
		return p
	}
	if u.Age != nil && *u.Age > 0 {
		p.Age = strconv.Itoa(*u.Age)
	}
	if u.Gender != nil && strings.TrimSpace(*u.Gender) != "" {
		p.Gender = strings.TrimSpace(*u.Gender)
	}
	if u.Interests != nil && strings.TrimSpace(*u.Interests) != "" {
		p.Interests = strings.TrimSpace(*u.Interests)
	}
	return p
}

func (p Profile) describe() string {
	return "Learner profile:\n" +
		"- Age: " + p.Age + "\n" +
		"- Gender: " + p.Gender + "\n" +
		"- Interests: " + p.Interests + "\n"
}

func PromptEmail(p Profile) (system string, user string) {
	system = `You create phishing email simulations for a scam-awareness course.
The email must look like something this learner could plausibly receive, themed on their interests.
Use an invented sender whose address contains a subtle spoof (lookalike domain, swapped letters).
Write 3 to 5 red flags, each a short sentence a beginner can verify in the email itself.`
	user = p.describe() + "\n" +
		"Task: write one phishing email. Fill sender.name, sender.email, subjectLine and body. " +
		"Set isScam to true. List 3 to 5 red flags in redFlags."
	return system, user
}

func PromptText(p Profile) (system string, user string) {
	system = `You create SMS phishing (smishing) simulations for a scam-awareness course.
The message must be short, like a real text, and themed on the learner's interests.
Use an invented sender name and a fictional phone number.
Write 3 to 5 red flags, each a short sentence a beginner can verify in the message itself.`
	user = p.describe() + "\n" +
		"Task: write one phishing text message. Fill sender.name, sender.phoneNumber and body. " +
		"Set isScam to true. List 3 to 5 red flags in redFlags."
	return system, user
}

func SchemaEmail() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"sender": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":  map[string]any{"type": "string"},
					"email": map[string]any{"type": "string"},
				},
				"required":             []any{"name", "email"},
				"additionalProperties": false,
			},
			"subjectLine": map[string]any{"type": "string"},
			"body":        map[string]any{"type": "string"},
			"isScam":      map[string]any{"type": "boolean"},
			"redFlags": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": MinRedFlags,
				"maxItems": MaxRedFlags,
			},
		},
		"required":             []any{"sender", "subjectLine", "body", "isScam", "redFlags"},
		"additionalProperties": false,
	}
}

func SchemaText() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"sender": map[string]any{
				"type": "object",
				"properties": map[string]any{
					"name":        map[string]any{"type": "string"},
					"phoneNumber": map[string]any{"type": "string"},
				},
				"required":             []any{"name", "phoneNumber"},
				"additionalProperties": false,
			},
			"body":   map[string]any{"type": "string"},
			"isScam": map[string]any{"type": "boolean"},
			"redFlags": map[string]any{
				"type":     "array",
				"items":    map[string]any{"type": "string"},
				"minItems": MinRedFlags,
				"maxItems": MaxRedFlags,
			},
		},
		"required":             []any{"sender", "body", "isScam", "redFlags"},
		"additionalProperties": false,
	}
}
