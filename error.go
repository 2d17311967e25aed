package reactor

import (
	"errors"
)

var (
	// ErrDuplicateRegistration is returned when a descriptor that is already
	// watched is registered again.
	ErrDuplicateRegistration = errors.New("descriptor already registered")

	// ErrNotRegistered is returned when unregistering a descriptor that is
	// not watched.
	ErrNotRegistered = errors.New("descriptor not registered")

	ErrMaxConnections = errors.New("connection limit reached")

	ErrGetPoolBuffer = errors.New("get pool buffer error")
)

// ErrorCode classifies errors delivered to the OnError hook.
type ErrorCode int

const (
	ERROR_ACCEPT           ErrorCode = 1
	ERROR_ADD_CONNECTION   ErrorCode = 2
	ERROR_CLOSE_CONNECTION ErrorCode = 3
	ERROR_READ             ErrorCode = 4
	ERROR_EPOLL_WAIT       ErrorCode = 5
	ERROR_POOL_BUFFER      ErrorCode = 6
	ERROR_MAX_CONNECTIONS  ErrorCode = 7
)

func (r *Reactor) triggerOnError(fd int, code ErrorCode, err error) {
	if r.OnError != nil {
		r.OnError(fd, code, err)
	}
}
