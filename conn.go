package reactor

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// readResult classifies one non-blocking read so the disconnect path is
// reached by explicit case, not by a catch-all error branch.
type readResult int

const (
	readData readResult = iota
	readAgain
	readPeerClosed
	readReset
	readFailed
)

func readOnce(fd int, buf []byte) (int, readResult, error) {
	var n, err = unix.Read(fd, buf)
	switch {
	case err == unix.EAGAIN || err == unix.EWOULDBLOCK:
		return 0, readAgain, nil
	case err == unix.ECONNRESET || err == unix.EPIPE:
		return 0, readReset, err
	case err != nil:
		return 0, readFailed, err
	case n == 0:
		return 0, readPeerClosed, nil
	}
	return n, readData, nil
}

// connHandler reacts to readability on a client descriptor. One instance is
// shared by every connection; all per-connection state is the fd itself.
type connHandler struct {
	r *Reactor
}

func (h *connHandler) readable(fd int) {
	var r = h.r
	var buf, err = r.getBufferPoolItem()
	if err != nil {
		r.triggerOnError(fd, ERROR_POOL_BUFFER, err)
		r.disconnect(fd)
		return
	}
	defer r.bufferPool.Put(buf)
	var n, res, rerr = readOnce(fd, *buf)
	switch res {
	case readAgain:
		return
	case readFailed:
		r.triggerOnError(fd, ERROR_READ, rerr)
		r.disconnect(fd)
		return
	case readPeerClosed, readReset:
		r.disconnect(fd)
		return
	}
	var addr = peerAddr(fd)
	if r.OnRead == nil || !r.OnRead(fd, addr, (*buf)[:n]) {
		r.disconnect(fd)
	}
}

// disconnect runs the single teardown path for a client descriptor: lifecycle
// callback, unregister, close. It is reached at most once per registration; a
// second call for the same fd is a contract violation, reported without
// firing the callback or touching the descriptor again. Past the guard this
// path owns the descriptor, so a failed kernel-side delete is reported but
// the close still happens.
func (r *Reactor) disconnect(fd int) {
	if !r.table.contains(fd) {
		r.triggerOnError(fd, ERROR_CLOSE_CONNECTION, fmt.Errorf("fd %d: %w", fd, ErrNotRegistered))
		return
	}
	var addr = peerAddr(fd)
	if r.OnDisconnect != nil {
		r.OnDisconnect(fd, addr)
	}
	if err := r.unregister(fd); err != nil {
		r.triggerOnError(fd, ERROR_CLOSE_CONNECTION, err)
	}
	r.logger.Debug().Int("fd", fd).Str("peer", addr.String()).Msg("disconnected")
	unix.Close(fd)
}
