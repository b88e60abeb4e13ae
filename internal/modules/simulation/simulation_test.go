package simulation

import (
	"strings"
	"testing"

	types "github.com/yungbote/verifeye-backend/internal/domain"
)

func strPtr(s string) *string { return &s }

func TestParseRedFlagsFallsBack(t *testing.T) {
	cases := []struct {
		name string
		raw  *string
	}{
		{"nil", nil},
		{"blank", strPtr("  ")},
		{"garbage", strPtr("not json")},
		{"object", strPtr(`{"a":1}`)},
		{"empty array", strPtr(`[]`)},
		{"only blanks", strPtr(`["", "  "]`)},
	}
	for _, tc := range cases {
		got := ParseRedFlags(types.KindEmail, tc.raw)
		if len(got) != 4 || got[0] != "Suspicious sender email (paypa1.com instead of paypal.com)" {
			t.Fatalf("%s: expected email fallback, got %v", tc.name, got)
		}
		got = ParseRedFlags(types.KindText, tc.raw)
		if len(got) != 5 || got[0] != "Suspicious shortened URL" {
			t.Fatalf("%s: expected text fallback, got %v", tc.name, got)
		}
	}
}

func TestParseRedFlagsKeepsStored(t *testing.T) {
	got := ParseRedFlags(types.KindEmail, strPtr(`[" Odd domain ","Urgent tone","Asks for password"]`))
	want := []string{"Odd domain", "Urgent tone", "Asks for password"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}
}

func TestNormalizeRedFlagsTruncates(t *testing.T) {
	in := []string{"a", "b", "", "c", "d", "e", "f", "g"}
	got := NormalizeRedFlags(types.KindText, in)
	if len(got) != MaxRedFlags {
		t.Fatalf("expected %d flags, got %v", MaxRedFlags, got)
	}
	if got[2] != "c" || got[4] != "e" {
		t.Fatalf("unexpected order: %v", got)
	}
}

func TestNormalizeRedFlagsTopsUp(t *testing.T) {
	got := NormalizeRedFlags(types.KindEmail, []string{"Only one", " only ONE "})
	want := []string{"Only one", "Suspicious sender email (paypa1.com instead of paypal.com)", "Creates urgency with threats"}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v want %v", got, want)
		}
	}

	// Flags already present in the fallback are not repeated.
	got = NormalizeRedFlags(types.KindText, []string{"Sender is unknown", "Suspicious shortened URL"})
	if len(got) != 3 || got[2] != "Creates urgency with 'URGENT' message" {
		t.Fatalf("unexpected top-up: %v", got)
	}
}

func TestSchemasBoundRedFlags(t *testing.T) {
	for name, schema := range map[string]map[string]any{"email": SchemaEmail(), "text": SchemaText()} {
		props := schema["properties"].(map[string]any)
		flags := props["redFlags"].(map[string]any)
		if flags["minItems"] != MinRedFlags || flags["maxItems"] != MaxRedFlags {
			t.Fatalf("%s: redFlags bounds %v..%v", name, flags["minItems"], flags["maxItems"])
		}
	}
}

func TestFallbackIsCopy(t *testing.T) {
	a := FallbackRedFlags(types.KindEmail)
	a[0] = "mutated"
	b := FallbackRedFlags(types.KindEmail)
	if b[0] == "mutated" {
		t.Fatalf("fallback list shared between callers")
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	raw := EncodeRedFlags([]string{"x", "y", "z"})
	if raw == nil || *raw != `["x","y","z"]` {
		t.Fatalf("unexpected encoding: %v", raw)
	}
	if got := ParseRedFlags(types.KindEmail, raw); len(got) != 3 {
		t.Fatalf("round trip: %v", got)
	}
}

func TestProfileDefaults(t *testing.T) {
	p := ProfileOf(&types.User{})
	if p.Age != "30" || p.Gender != "unspecified" || p.Interests != "technology, online safety" {
		t.Fatalf("unexpected defaults: %+v", p)
	}
	age := 34
	p = ProfileOf(&types.User{Age: &age, Gender: strPtr("female"), Interests: strPtr("gardening")})
	if p.Age != "34" || p.Gender != "female" || p.Interests != "gardening" {
		t.Fatalf("unexpected profile: %+v", p)
	}
	_, user := PromptEmail(p)
	if !strings.Contains(user, "gardening") || !strings.Contains(user, "34") {
		t.Fatalf("prompt missing profile: %q", user)
	}
}

func TestDecodeEmail(t *testing.T) {
	obj := map[string]any{
		"sender":      map[string]any{"name": "Garden Club", "email": "rewards@gardenc1ub.com"},
		"subjectLine": "Your seed voucher expires today",
		"body":        "Click here to claim.",
		"isScam":      true,
		"redFlags":    []any{},
	}
	got, err := DecodeEmail(obj)
	if err != nil {
		t.Fatalf("DecodeEmail: %v", err)
	}
	if got.SenderEmail != "rewards@gardenc1ub.com" || !got.IsScam {
		t.Fatalf("unexpected decode: %+v", got)
	}
	if len(got.RedFlags) != 4 {
		t.Fatalf("expected fallback red flags, got %v", got.RedFlags)
	}

	delete(obj, "body")
	if _, err := DecodeEmail(obj); err == nil || !strings.Contains(err.Error(), "body") {
		t.Fatalf("expected missing body error, got %v", err)
	}
	if _, err := DecodeEmail(nil); err == nil {
		t.Fatalf("expected error for nil payload")
	}
}

func TestDecodeText(t *testing.T) {
	obj := map[string]any{
		"sender":   map[string]any{"name": "USPS", "phoneNumber": "+1 555 0100"},
		"body":     "URGENT: package held. Pay fee at bit.ly/x",
		"isScam":   true,
		"redFlags": []any{"Short link", "Urgency"},
	}
	got, err := DecodeText(obj)
	if err != nil {
		t.Fatalf("DecodeText: %v", err)
	}
	if got.SenderPhone != "+1 555 0100" || len(got.RedFlags) != MinRedFlags {
		t.Fatalf("unexpected decode: %+v", got)
	}
	if got.RedFlags[0] != "Short link" || got.RedFlags[2] != "Suspicious shortened URL" {
		t.Fatalf("short list should be topped up from the fallback: %v", got.RedFlags)
	}
	obj["sender"] = map[string]any{"name": " ", "phoneNumber": ""}
	if _, err := DecodeText(obj); err == nil {
		t.Fatalf("expected missing sender error")
	}
}
