package envutil

import (
	"testing"
	"time"
)

func TestDuration(t *testing.T) {
	t.Setenv("ENVUTIL_DUR", "90s")
	if got := Duration("ENVUTIL_DUR", time.Minute); got != 90*time.Second {
		t.Fatalf("Duration: got %s", got)
	}
	t.Setenv("ENVUTIL_DUR", "120")
	if got := Duration("ENVUTIL_DUR", time.Minute); got != 2*time.Minute {
		t.Fatalf("Duration seconds: got %s", got)
	}
	t.Setenv("ENVUTIL_DUR", "soon")
	if got := Duration("ENVUTIL_DUR", time.Minute); got != time.Minute {
		t.Fatalf("Duration fallback: got %s", got)
	}
}

func TestBoolAndList(t *testing.T) {
	t.Setenv("ENVUTIL_BOOL", "off")
	if Bool("ENVUTIL_BOOL", true) {
		t.Fatalf("Bool: expected false")
	}
	t.Setenv("ENVUTIL_LIST", " a, ,b ")
	got := List("ENVUTIL_LIST", nil)
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("List: unexpected %v", got)
	}
}
