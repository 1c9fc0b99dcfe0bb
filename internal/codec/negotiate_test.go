package codec

import "testing"

func TestNegotiatePrefersHighestQ(t *testing.T) {
	reg := DefaultRegistry()

	c, ok := Negotiate("gzip;q=0.1, deflate;q=0.2, br;q=0.9", reg)
	if !ok {
		t.Fatal("expected a match")
	}
	if c.Name() != "br" {
		t.Errorf("expected br to win on q, got %s", c.Name())
	}
}

func TestNegotiateExcludesZeroQ(t *testing.T) {
	reg := DefaultRegistry()
	c, ok := Negotiate("gzip;q=0, br;q=0, deflate;q=0", reg)
	if ok {
		t.Fatalf("expected no match, got %v", c)
	}
}

func TestNegotiateStarMatchesUnlisted(t *testing.T) {
	reg := DefaultRegistry()
	c, ok := Negotiate("*", reg)
	if !ok {
		t.Fatal("expected a match for *")
	}
	if c.Name() != "gzip" {
		t.Errorf("expected registration-order winner gzip, got %s", c.Name())
	}
}

func TestNegotiateEmptyHeader(t *testing.T) {
	reg := DefaultRegistry()
	_, ok := Negotiate("", reg)
	if ok {
		t.Fatal("expected no match for empty Accept-Encoding")
	}
}
