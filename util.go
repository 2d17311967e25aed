package reactor

import (
	"context"
	"net"
	"time"

	"golang.org/x/sys/unix"
)

// Write sends msg on a connected descriptor. Intended for use inside
// callbacks; on error the callback should return false so the connection
// takes the disconnect path.
func Write(fd int, msg []byte) error {
	var _, err = unix.Write(fd, msg)
	return err
}

func WriteWithTimeout(fd int, msg []byte, timeout time.Duration) error {
	var ctx, cancel = context.WithTimeout(context.Background(), timeout)
	defer cancel()
	var done = make(chan int8, 1)
	var err error
	go func() {
		err = Write(fd, msg)
		done <- 1
	}()
	select {
	case <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// peerAddr queries the peer address of a connected descriptor. A descriptor
// that is already reset yields a zero Addr.
func peerAddr(fd int) Addr {
	var sa, err = unix.Getpeername(fd)
	if err != nil {
		return Addr{}
	}
	return sockaddrToAddr(sa)
}

func sockaddrToAddr(sa unix.Sockaddr) Addr {
	switch s := sa.(type) {
	case *unix.SockaddrInet4:
		return Addr{Host: net.IP(s.Addr[:]).String(), Port: s.Port}
	case *unix.SockaddrInet6:
		return Addr{Host: net.IP(s.Addr[:]).String(), Port: s.Port}
	}
	return Addr{}
}
