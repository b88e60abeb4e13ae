package quiz

import (
	"fmt"
	"strings"

	types "github.com/yungbote/verifeye-backend/internal/domain"
)

// Guess is the learner's verdict on a simulation.
type Guess string

const (
	GuessPhishing   Guess = "phishing"
	GuessLegitimate Guess = "legitimate"
)

const (
	HeadlineCorrect   = "Correct!"
	HeadlineIncorrect = "Incorrect."
)

type Result struct {
	Correct     bool   `json:"correct"`
	Headline    string `json:"headline"`
	Explanation string `json:"explanation"`
}

// ParseAnswer maps a widget answer onto a guess. The email widget answers phishing or
// legitimate; the phone widget answers click (trusting the message) or ignore.
func ParseAnswer(kind types.ContentKind, answer string) (Guess, error) {
	a := strings.ToLower(strings.TrimSpace(answer))
	switch kind {
	case types.KindEmail:
		switch a {
		case "phishing":
			return GuessPhishing, nil
		case "legitimate":
			return GuessLegitimate, nil
		}
	case types.KindText:
		switch a {
		case "click":
			return GuessLegitimate, nil
		case "ignore":
			return GuessPhishing, nil
		}
	default:
		return "", fmt.Errorf("unknown content kind %q", kind)
	}
	return "", fmt.Errorf("unknown %s answer %q", kind, answer)
}

// Grade is a pure truth table over (guess, ground truth).
func Grade(kind types.ContentKind, guess Guess, isPhishing bool) Result {
	correct := (guess == GuessPhishing && isPhishing) || (guess == GuessLegitimate && !isPhishing)
	noun := "email"
	if kind == types.KindText {
		noun = "text"
	}
	r := Result{Correct: correct, Headline: HeadlineIncorrect}
	if correct {
		r.Headline = HeadlineCorrect
	}
	if isPhishing {
		r.Explanation = "This is a phishing " + noun + "."
	} else {
		r.Explanation = "This is a legitimate " + noun + "."
	}
	return r
}
