package httpclient

import "testing"

func TestSplitURL(t *testing.T) {
	cases := []struct {
		raw      string
		wantHost string
		wantPort int
		wantPath string
		wantTLS  bool
	}{
		{"http://example.com/a/b?c=1", "example.com", 80, "/a/b", false},
		{"https://example.com", "example.com", 443, "/", true},
		{"http://example.com:9090/x", "example.com", 9090, "/x", false},
	}

	for _, tc := range cases {
		u, err := SplitURL(tc.raw)
		if err != nil {
			t.Fatalf("SplitURL(%q): %v", tc.raw, err)
		}
		if u.Host != tc.wantHost || u.Port != tc.wantPort {
			t.Errorf("SplitURL(%q) = host %q port %d, want %q %d", tc.raw, u.Host, u.Port, tc.wantHost, tc.wantPort)
		}
		if u.Target.Path != tc.wantPath {
			t.Errorf("SplitURL(%q) path = %q, want %q", tc.raw, u.Target.Path, tc.wantPath)
		}
		if u.TLS() != tc.wantTLS {
			t.Errorf("SplitURL(%q) TLS = %v, want %v", tc.raw, u.TLS(), tc.wantTLS)
		}
	}
}

func TestSplitURLRejectsUnsupportedScheme(t *testing.T) {
	if _, err := SplitURL("ftp://example.com/x"); err != ErrUnsupportedScheme {
		t.Fatalf("expected ErrUnsupportedScheme, got %v", err)
	}
	if _, err := SplitURL("not-a-url"); err != ErrUnsupportedScheme {
		t.Fatalf("expected ErrUnsupportedScheme for missing scheme, got %v", err)
	}
}
