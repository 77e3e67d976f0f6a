package netutil

import (
	"errors"
	"testing"
	"time"

	tele "gopkg.in/telebot.v4"
)

func TestShouldRetry(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"flood", tele.FloodError{RetryAfter: 5}, true},
		{"server 502", &tele.Error{Code: 502}, true},
		{"client 403", &tele.Error{Code: 403, Description: "bot was blocked by the user"}, false},
		{"plain", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ShouldRetry(tc.err); got != tc.want {
				t.Fatalf("ShouldRetry(%v) = %v, expected %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestRetryAfter(t *testing.T) {
	flood := tele.FloodError{RetryAfter: 7}
	if got := RetryAfter(flood); got != 7*time.Second {
		t.Fatalf("RetryAfter = %v, expected 7s", got)
	}
	if got := RetryAfter(&tele.Error{Code: 502}); got != 0 {
		t.Fatalf("RetryAfter = %v, expected 0", got)
	}
	if got := RetryAfter(nil); got != 0 {
		t.Fatalf("RetryAfter(nil) = %v, expected 0", got)
	}
}
