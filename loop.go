package reactor

import (
	"fmt"
	"net"

	"golang.org/x/sys/unix"
)

// Start binds the listener and runs the loop until Stop is called or the
// wait primitive fails. It blocks the calling goroutine.
func (r *Reactor) Start(host string, port int) error {
	var err = r.InitEpoll(host, port)
	if err != nil {
		return err
	}
	return r.Listen()
}

// InitEpoll creates the non-blocking listening socket, registers it together
// with the stop eventfd, and leaves the reactor ready for Listen. With port
// 0 the kernel-assigned port is written back to r.Port.
func (r *Reactor) InitEpoll(host string, port int) error {
	r.Host = host
	r.Port = port

	var err error
	if r.Fd, err = unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_NONBLOCK|unix.SOCK_CLOEXEC, 0); err != nil {
		return err
	}
	if err = unix.SetsockoptInt(r.Fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(r.Fd)
		return err
	}
	unix.SetsockoptInt(r.Fd, unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)

	var addr = unix.SockaddrInet4{Port: port}
	if host != "" {
		var ip = net.ParseIP(host).To4()
		if ip == nil {
			unix.Close(r.Fd)
			return fmt.Errorf("invalid IPv4 listen host %q", host)
		}
		copy(addr.Addr[:], ip)
	}

	if err = unix.Bind(r.Fd, &addr); err != nil {
		unix.Close(r.Fd)
		return err
	}
	if err = unix.Listen(r.Fd, unix.SOMAXCONN); err != nil {
		unix.Close(r.Fd)
		return err
	}
	if port == 0 {
		if sa, err := unix.Getsockname(r.Fd); err == nil {
			if sa4, ok := sa.(*unix.SockaddrInet4); ok {
				r.Port = sa4.Port
			}
		}
	}

	var wfd int
	if wfd, err = unix.Eventfd(0, unix.EFD_NONBLOCK|unix.EFD_CLOEXEC); err != nil {
		unix.Close(r.Fd)
		return err
	}
	if err = r.register(wfd, Readable, r.wakeH); err != nil {
		unix.Close(wfd)
		unix.Close(r.Fd)
		return err
	}
	if err = r.register(r.Fd, Readable, r.acceptH); err != nil {
		r.unregister(wfd)
		unix.Close(wfd)
		unix.Close(r.Fd)
		return err
	}
	r.wakeFd.Store(int64(wfd))
	return nil
}

// Listen polls the multiplexer and dispatches every ready entry to its
// registered handler, on this goroutine, until the state leaves RUNNING.
// The ready set is re-resolved against the table per entry so a descriptor
// unregistered earlier in the same batch gets no further dispatch.
func (r *Reactor) Listen() error {
	r.state = STATE_RUNNING
	r.logger.Info().Str("host", r.Host).Int("port", r.Port).Msg("listening")
	var events = make([]unix.EpollEvent, r.EpollEvents)
	for r.state == STATE_RUNNING {
		var n, err = r.wait(events)
		if err != nil {
			r.logger.Error().Err(err).Msg("epoll wait failed")
			r.triggerOnError(-1, ERROR_EPOLL_WAIT, err)
			r.shutdown()
			return err
		}
		for i := 0; i < n; i++ {
			var fd = int(events[i].Fd)
			var reg, ok = r.table.lookup(fd)
			if !ok {
				continue
			}
			reg.handler.readable(fd)
		}
	}
	r.shutdown()
	return nil
}

// wakeHandler reacts to the stop eventfd and flips the loop to STOPPED.
type wakeHandler struct {
	r *Reactor
}

func (h *wakeHandler) readable(fd int) {
	var buf [8]byte
	unix.Read(fd, buf[:])
	h.r.state = STATE_STOPPED
}

// shutdown tears everything down on the loop goroutine: every client runs
// the normal disconnect path, then the eventfd, then the listener as the
// last descriptor, then the epoll fd.
func (r *Reactor) shutdown() {
	r.state = STATE_STOPPED
	var wfd = int(r.wakeFd.Load())
	for _, fd := range r.table.fds() {
		if fd == r.Fd || fd == wfd {
			continue
		}
		r.disconnect(fd)
	}
	if wfd >= 0 && r.table.contains(wfd) {
		r.wakeFd.Store(-1)
		r.unregister(wfd)
		unix.Close(wfd)
	}
	if r.Fd >= 0 && r.table.contains(r.Fd) {
		r.unregister(r.Fd)
		unix.Close(r.Fd)
		r.Fd = -1
	}
	if r.Epfd >= 0 {
		unix.Close(r.Epfd)
		r.Epfd = -1
	}
	r.logger.Info().Msg("stopped")
}
