//go:build linux

package socket

import (
	"net"

	"golang.org/x/sys/unix"
)

// ApplyPlatform applies Linux-only per-connection options not
// reachable through net.TCPConn's portable API.
func ApplyPlatform(tc *net.TCPConn, cfg Config) {
	if !cfg.QuickAck {
		return
	}
	raw, err := tc.SyscallConn()
	if err != nil {
		return
	}
	_ = raw.Control(func(fd uintptr) {
		_ = unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_QUICKACK, 1)
	})
}

// ApplyListenerPlatform applies Linux-only listener-level options
// (SO_REUSEPORT, TCP_FASTOPEN) to the raw listening socket fd, called
// from the net.ListenConfig.Control hook before bind.
func ApplyListenerPlatform(fd uintptr, cfg Config) error {
	if cfg.ReusePort {
		if err := unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1); err != nil {
			return err
		}
	}
	if cfg.FastOpen {
		// Queue length for pending Fast Open connections.
		if err := unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_FASTOPEN, 256); err != nil {
			return err
		}
	}
	return nil
}
