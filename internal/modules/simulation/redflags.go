package simulation

import (
	"encoding/json"
	"strings"

	types "github.com/yungbote/verifeye-backend/internal/domain"
)

// A simulation carries between MinRedFlags and MaxRedFlags explanations.
const (
	MinRedFlags = 3
	MaxRedFlags = 5
)

var emailFallbackRedFlags = []string{
	"Suspicious sender email (paypa1.com instead of paypal.com)",
	"Creates urgency with threats",
	"Suspicious link URL",
	"Requests personal information",
}

var textFallbackRedFlags = []string{
	"Suspicious shortened URL",
	"Creates urgency with 'URGENT' message",
	"Threatens account closure",
	"Sender is unknown",
	"Contains suspicious link",
}

// FallbackRedFlags returns a fresh copy of the fixed list for kind.
func FallbackRedFlags(kind types.ContentKind) []string {
	var src []string
	switch kind {
	case types.KindText:
		src = textFallbackRedFlags
	default:
		src = emailFallbackRedFlags
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}

// NormalizeRedFlags trims entries and drops blanks and repeats. An empty result becomes the
// kind's fallback list, a short one is topped up from it to MinRedFlags, and anything past
// MaxRedFlags is cut.
func NormalizeRedFlags(kind types.ContentKind, flags []string) []string {
	out := make([]string, 0, MaxRedFlags)
	seen := make(map[string]bool, MaxRedFlags)
	add := func(f string) {
		f = strings.TrimSpace(f)
		key := strings.ToLower(f)
		if f == "" || seen[key] {
			return
		}
		seen[key] = true
		out = append(out, f)
	}
	for _, f := range flags {
		add(f)
		if len(out) == MaxRedFlags {
			break
		}
	}
	if len(out) == 0 {
		return FallbackRedFlags(kind)
	}
	if len(out) < MinRedFlags {
		for _, f := range FallbackRedFlags(kind) {
			add(f)
			if len(out) == MinRedFlags {
				break
			}
		}
	}
	return out
}

// ParseRedFlags decodes the stored serialization. NULL, garbage, a non-array value and an
// empty array all resolve to the fallback list; it never fails.
func ParseRedFlags(kind types.ContentKind, raw *string) []string {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return FallbackRedFlags(kind)
	}
	var flags []string
	if err := json.Unmarshal([]byte(*raw), &flags); err != nil {
		return FallbackRedFlags(kind)
	}
	return NormalizeRedFlags(kind, flags)
}

// EncodeRedFlags serializes flags for the red_flags column.
func EncodeRedFlags(flags []string) *string {
	if flags == nil {
		flags = []string{}
	}
	b, err := json.Marshal(flags)
	if err != nil {
		return nil
	}
	s := string(b)
	return &s
}
