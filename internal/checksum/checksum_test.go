package checksum

import "testing"

func TestSum_Deterministic(t *testing.T) {
	a := Sum([]byte("hello"))
	b := Sum([]byte("hello"))
	if a != b {
		t.Errorf("digests differ: %s vs %s", a, b)
	}
	if len(a) != 64 {
		t.Errorf("digest length = %d, want 64 hex chars", len(a))
	}
}

func TestCanonical_OrderInsensitive(t *testing.T) {
	h1 := map[string]string{"title": "A", "excerpt": "B", "next": "c"}
	h2 := map[string]string{"next": "c", "excerpt": "B", "title": "A"}
	if Canonical(h1, "body") != Canonical(h2, "body") {
		t.Error("digest depends on map construction order")
	}
}

func TestCanonical_NewlineValueNotAmbiguous(t *testing.T) {
	// A value containing "\nb: y" must not collapse into the same
	// serialization as a separate b header.
	two := Canonical(map[string]string{"a": "x", "b": "y"}, "body")
	one := Canonical(map[string]string{"a": "x\nb: y"}, "body")
	if two == one {
		t.Error("distinct header mappings produced the same digest")
	}
}

func TestCanonical_HeaderContentBoundary(t *testing.T) {
	if Canonical(map[string]string{"a": "xtail"}, "body") ==
		Canonical(map[string]string{"a": "x"}, "tailbody") {
		t.Error("header bytes leaked into the content section")
	}
}

func TestCanonical_SensitiveToValues(t *testing.T) {
	base := Canonical(map[string]string{"title": "A"}, "body")
	if Canonical(map[string]string{"title": "B"}, "body") == base {
		t.Error("header value change not reflected")
	}
	if Canonical(map[string]string{"title": "A"}, "other") == base {
		t.Error("content change not reflected")
	}
	if Canonical(map[string]string{"Title": "A"}, "body") == base {
		t.Error("header key change not reflected")
	}
}
