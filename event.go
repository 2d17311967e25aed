package reactor

import (
	"strconv"
)

// EventMask describes which readiness conditions on a descriptor trigger
// dispatch. The core only ever requests Readable.
type EventMask uint32

const (
	Readable EventMask = 1 << iota
	Writable
)

// Addr is the peer address of a connected descriptor. It is looked up when
// needed rather than cached alongside the registration.
type Addr struct {
	Host string
	Port int
}

func (a Addr) String() string {
	return a.Host + ":" + strconv.Itoa(a.Port)
}

type OnConnectEvent func(fd int, addr Addr)

// OnReadEvent receives one chunk of raw bytes; returning false closes the
// connection. The slice is only valid for the duration of the call.
type OnReadEvent func(fd int, addr Addr, msg []byte) bool

type OnDisconnectEvent func(fd int, addr Addr)

type OnErrorEvent func(fd int, code ErrorCode, err error)

// handler is one unit of reactive work bound to a registered descriptor.
// Closed set: acceptHandler for the listener, connHandler for clients,
// wakeHandler for the stop eventfd.
type handler interface {
	readable(fd int)
}
