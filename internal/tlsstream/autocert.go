package tlsstream

import (
	"crypto/tls"

	"golang.org/x/crypto/acme/autocert"
)

// AutocertConfig configures automatic Let's Encrypt certificate
// management, replacing a hand-rolled ACME client with the ecosystem
// library the rest of the pack reaches for.
type AutocertConfig struct {
	// Hosts is the allow-list of domains the manager will request
	// certificates for; an empty list accepts any host (only safe
	// behind a trusted frontend).
	Hosts []string
	// CacheDir persists issued certificates across restarts. Empty
	// disables on-disk caching (certificates are re-issued each run).
	CacheDir string
}

// NewAutocertTLSConfig builds a *tls.Config whose GetCertificate hook
// is backed by an autocert.Manager, and whose NextProtos advertises
// ACME's tls-alpn-01 challenge alongside HTTP/1.1.
func NewAutocertTLSConfig(cfg AutocertConfig) *tls.Config {
	m := &autocert.Manager{
		Prompt: autocert.AcceptTOS,
	}
	if len(cfg.Hosts) > 0 {
		m.HostPolicy = autocert.HostWhitelist(cfg.Hosts...)
	}
	if cfg.CacheDir != "" {
		m.Cache = autocert.DirCache(cfg.CacheDir)
	}

	tlsCfg := m.TLSConfig()
	tlsCfg.NextProtos = append([]string{"http/1.1"}, tlsCfg.NextProtos...)
	return tlsCfg
}
