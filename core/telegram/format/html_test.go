package format

import "testing"

func TestEscapeHTML(t *testing.T) {
	if got := EscapeHTML(`<b>"x" & y</b>`); got != `&lt;b&gt;"x" &amp; y&lt;/b&gt;` {
		t.Fatalf("EscapeHTML = %q", got)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("привет", 10); got != "привет" {
		t.Fatalf("short string changed: %q", got)
	}
	if got := TruncateRunes("привет", 3); got != "при…" {
		t.Fatalf("TruncateRunes = %q", got)
	}
}

func TestWrappers(t *testing.T) {
	if got := Bold("a<b"); got != "<b>a&lt;b</b>" {
		t.Fatalf("Bold = %q", got)
	}
	if got := Code("x&y"); got != "<code>x&amp;y</code>" {
		t.Fatalf("Code = %q", got)
	}
}
