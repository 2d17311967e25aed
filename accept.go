package reactor

import (
	"golang.org/x/sys/unix"
)

// acceptHandler reacts to readability on the listening descriptor.
type acceptHandler struct {
	r *Reactor
}

// readable performs one non-blocking accept. EAGAIN means the wake was
// spurious and is not an error; any other failure is reported and the
// listener stays registered either way.
func (h *acceptHandler) readable(fd int) {
	var r = h.r
	var nfd, sa, err = unix.Accept(fd)
	if err != nil {
		if err == unix.EAGAIN || err == unix.EWOULDBLOCK {
			return
		}
		r.logger.Error().Err(err).Msg("accept failed")
		r.triggerOnError(-1, ERROR_ACCEPT, err)
		return
	}
	if r.MaxConnections > 0 && r.Count() >= r.MaxConnections {
		unix.Close(nfd)
		r.logger.Warn().Int("fd", nfd).Int("max", r.MaxConnections).Msg("connection limit reached")
		r.triggerOnError(nfd, ERROR_MAX_CONNECTIONS, ErrMaxConnections)
		return
	}
	unix.SetNonblock(nfd, true)
	unix.SetsockoptInt(nfd, unix.SOL_SOCKET, unix.SO_KEEPALIVE, r.KeepAlive)
	unix.SetsockoptInt(nfd, unix.SOL_SOCKET, unix.SO_RCVBUF, r.ReadBuffer)
	if err = r.register(nfd, Readable, r.connH); err != nil {
		unix.Close(nfd)
		r.logger.Error().Err(err).Int("fd", nfd).Msg("register connection failed")
		r.triggerOnError(nfd, ERROR_ADD_CONNECTION, err)
		return
	}
	var addr = sockaddrToAddr(sa)
	r.logger.Debug().Int("fd", nfd).Str("peer", addr.String()).Msg("accepted")
	if r.OnConnect != nil {
		r.OnConnect(nfd, addr)
	}
}
