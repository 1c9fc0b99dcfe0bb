//go:build !linux

package socket

import "net"

// ApplyPlatform is a no-op outside Linux: QuickAck has no portable
// equivalent.
func ApplyPlatform(tc *net.TCPConn, cfg Config) {}

// ApplyListenerPlatform is a no-op outside Linux: SO_REUSEPORT and
// TCP_FASTOPEN are applied only where golang.org/x/sys/unix exposes
// them for this platform's socket layer.
func ApplyListenerPlatform(fd uintptr, cfg Config) error { return nil }
