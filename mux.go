package reactor

import (
	"golang.org/x/sys/unix"
)

func epollEvents(mask EventMask) uint32 {
	var events uint32
	if mask&Readable != 0 {
		events |= unix.EPOLLIN
	}
	if mask&Writable != 0 {
		events |= unix.EPOLLOUT
	}
	return events
}

// register adds a watch for fd. The table insert runs first so a duplicate
// registration is rejected before the kernel sees anything.
func (r *Reactor) register(fd int, mask EventMask, h handler) error {
	var err = r.table.insert(fd, mask, h)
	if err != nil {
		return err
	}
	var event = unix.EpollEvent{Events: epollEvents(mask), Fd: int32(fd)}
	if err = unix.EpollCtl(r.Epfd, unix.EPOLL_CTL_ADD, fd, &event); err != nil {
		r.table.remove(fd)
		return err
	}
	return nil
}

func (r *Reactor) unregister(fd int) error {
	var err = r.table.remove(fd)
	if err != nil {
		return err
	}
	return unix.EpollCtl(r.Epfd, unix.EPOLL_CTL_DEL, fd, nil)
}

// wait blocks until at least one watched descriptor is ready. An interrupt
// counts as zero ready descriptors; the caller just polls again.
func (r *Reactor) wait(events []unix.EpollEvent) (int, error) {
	var n, err = unix.EpollWait(r.Epfd, events, r.WaitTimeout)
	if err != nil {
		if err == unix.EINTR {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}
