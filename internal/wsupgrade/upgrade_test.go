package wsupgrade

import (
	"testing"

	"github.com/yourusername/httpcore/internal/http1"
)

func upgradeRequest() *http1.Request {
	req := &http1.Request{Method: "GET"}
	req.Header.Add("Connection", "Upgrade")
	req.Header.Add("Upgrade", "websocket")
	req.Header.Add("Sec-WebSocket-Version", "13")
	req.Header.Add("Sec-WebSocket-Key", "dGhlIHNhbXBsZSBub25jZQ==")
	return req
}

func TestAcceptKeyKnownVector(t *testing.T) {
	// RFC 6455 §1.3's worked example.
	got := AcceptKey("dGhlIHNhbXBsZSBub25jZQ==")
	want := "s3pPLMBiTxaQ9kYGzzhZRbK+xOo="
	if got != want {
		t.Errorf("AcceptKey: got %q, want %q", got, want)
	}
}

func TestIsUpgradeRequest(t *testing.T) {
	if !IsUpgradeRequest(upgradeRequest()) {
		t.Fatal("expected a valid upgrade request to be recognized")
	}

	plain := &http1.Request{Method: "GET"}
	if IsUpgradeRequest(plain) {
		t.Error("expected a plain GET to not be recognized as an upgrade")
	}
}

func TestNegotiateSuccess(t *testing.T) {
	req := upgradeRequest()
	req.Header.Add("Sec-WebSocket-Protocol", "chat, superchat")
	resp := &http1.Response{}

	hs, err := Negotiate(req, resp)
	if err != nil {
		t.Fatalf("Negotiate: %v", err)
	}
	if hs.AcceptValue != "s3pPLMBiTxaQ9kYGzzhZRbK+xOo=" {
		t.Errorf("unexpected accept value %q", hs.AcceptValue)
	}
	if hs.Protocol != "chat" {
		t.Errorf("expected first subprotocol 'chat', got %q", hs.Protocol)
	}
	if resp.Status != 101 {
		t.Errorf("expected resp.Status 101, got %d", resp.Status)
	}
}

func TestNegotiateRejectsWrongVersion(t *testing.T) {
	req := upgradeRequest()
	req.Header.Erase("sec-websocket-version")
	req.Header.Add("Sec-WebSocket-Version", "8")
	resp := &http1.Response{}

	if _, err := Negotiate(req, resp); err != ErrBadVersion {
		t.Fatalf("expected ErrBadVersion, got %v", err)
	}
}

func TestNegotiateRejectsMissingKey(t *testing.T) {
	req := &http1.Request{Method: "GET"}
	req.Header.Add("Connection", "Upgrade")
	req.Header.Add("Upgrade", "websocket")
	req.Header.Add("Sec-WebSocket-Version", "13")
	resp := &http1.Response{}

	if _, err := Negotiate(req, resp); err != ErrBadKey {
		t.Fatalf("expected ErrBadKey, got %v", err)
	}
}

func TestNegotiateRejectsNonUpgrade(t *testing.T) {
	req := &http1.Request{Method: "POST"}
	resp := &http1.Response{}
	if _, err := Negotiate(req, resp); err != ErrNotUpgrade {
		t.Fatalf("expected ErrNotUpgrade, got %v", err)
	}
}
