package logger

import "testing"

func TestNew(t *testing.T) {
	for _, debug := range []bool{false, true} {
		l, err := New(debug)
		if err != nil {
			t.Fatalf("New(%v): %v", debug, err)
		}
		if got := l.Core().Enabled(-1); got != debug {
			t.Fatalf("New(%v): debug level enabled = %v", debug, got)
		}
	}
}
