package httperr

import "testing"

func TestNewUsesTableDefaults(t *testing.T) {
	e := New(KindHeadersTooLarge, "")
	if e.ExpectedStatus() != 431 {
		t.Errorf("expected status 431, got %d", e.ExpectedStatus())
	}
	if !e.IsCritical() {
		t.Error("expected KindHeadersTooLarge to be critical")
	}
	if e.Message != "request header fields too large" {
		t.Errorf("expected default message, got %q", e.Message)
	}
}

func TestNewOverridesMessage(t *testing.T) {
	e := New(KindHeaderValue, "custom detail")
	if e.Message != "custom detail" {
		t.Errorf("expected custom message to win, got %q", e.Message)
	}
	if e.ExpectedStatus() != 400 {
		t.Errorf("expected status 400, got %d", e.ExpectedStatus())
	}
}

func TestErrorString(t *testing.T) {
	e := New(KindChunkSize, "")
	if e.Error() == "" {
		t.Error("expected a non-empty Error() string")
	}
}
