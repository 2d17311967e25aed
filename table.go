package reactor

import (
	"fmt"
)

type registration struct {
	fd      int
	mask    EventMask
	handler handler
}

// table maps a watched descriptor to its interest mask and handler. It is
// touched only by the loop goroutine, so a plain map suffices. Its
// membership mirrors the epoll watch set at all times: every insert or
// remove here pairs with the matching EpollCtl in the same step.
type table struct {
	entries map[int]*registration
}

func newTable() *table {
	return &table{
		entries: make(map[int]*registration),
	}
}

func (t *table) insert(fd int, mask EventMask, h handler) error {
	if _, ok := t.entries[fd]; ok {
		return fmt.Errorf("fd %d: %w", fd, ErrDuplicateRegistration)
	}
	t.entries[fd] = &registration{fd: fd, mask: mask, handler: h}
	return nil
}

func (t *table) remove(fd int) error {
	if _, ok := t.entries[fd]; !ok {
		return fmt.Errorf("fd %d: %w", fd, ErrNotRegistered)
	}
	delete(t.entries, fd)
	return nil
}

func (t *table) lookup(fd int) (*registration, bool) {
	var reg, ok = t.entries[fd]
	return reg, ok
}

func (t *table) contains(fd int) bool {
	var _, ok = t.entries[fd]
	return ok
}

func (t *table) len() int {
	return len(t.entries)
}

func (t *table) fds() []int {
	var out = make([]int, 0, len(t.entries))
	for fd := range t.entries {
		out = append(out, fd)
	}
	return out
}
