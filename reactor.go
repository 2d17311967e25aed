package reactor

import (
	"sync/atomic"

	"github.com/rs/zerolog"
	"github.com/wuyongjia/pool"
	"golang.org/x/sys/unix"
)

const (
	DEFAULT_READ_BUFFER      = 1024
	DEFAULT_EPOLL_EVENTS     = 4096
	DEFAULT_BUFFER_POOL_SIZE = 64
)

type loopState int

const (
	STATE_IDLE loopState = iota
	STATE_RUNNING
	STATE_STOPPED
)

// Reactor owns the listening socket, the epoll instance and the registration
// table. All callbacks run synchronously on the goroutine that called Start
// or Listen; the only blocking point is the epoll wait.
type Reactor struct {
	Host           string
	Port           int
	Epfd           int
	Fd             int
	ReadBuffer     int
	WaitTimeout    int
	KeepAlive      int
	EpollEvents    int
	MaxConnections int
	OnConnect      OnConnectEvent
	OnRead         OnReadEvent
	OnDisconnect   OnDisconnectEvent
	OnError        OnErrorEvent

	table      *table
	bufferPool *pool.Pool
	logger     zerolog.Logger
	wakeFd     atomic.Int64
	state      loopState
	acceptH    *acceptHandler
	connH      *connHandler
	wakeH      *wakeHandler
}

func New(readBuffer int) (*Reactor, error) {
	if readBuffer <= 0 {
		readBuffer = DEFAULT_READ_BUFFER
	}
	var epfd, err = unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, err
	}
	var r = &Reactor{
		Epfd:           epfd,
		Fd:             -1,
		ReadBuffer:     readBuffer,
		WaitTimeout:    -1,
		KeepAlive:      0,
		EpollEvents:    DEFAULT_EPOLL_EVENTS,
		MaxConnections: 0,
		table:          newTable(),
		logger:         zerolog.Nop(),
		state:          STATE_IDLE,
	}
	r.wakeFd.Store(-1)
	r.bufferPool = pool.New(DEFAULT_BUFFER_POOL_SIZE, func() interface{} {
		var buf = make([]byte, readBuffer)
		return &buf
	})
	r.acceptH = &acceptHandler{r: r}
	r.connH = &connHandler{r: r}
	r.wakeH = &wakeHandler{r: r}
	return r, nil
}

// SetWaitTimeout sets the epoll wait timeout in milliseconds, -1 blocks.
func (r *Reactor) SetWaitTimeout(n int) {
	r.WaitTimeout = n
}

func (r *Reactor) SetKeepAlive(n int) {
	r.KeepAlive = n
}

func (r *Reactor) SetEpollEvents(n int) {
	r.EpollEvents = n
}

// SetMaxConnections caps the number of watched client descriptors; 0 means
// uncapped. Connections past the cap are accepted and closed immediately.
func (r *Reactor) SetMaxConnections(n int) {
	r.MaxConnections = n
}

func (r *Reactor) SetLogger(logger zerolog.Logger) {
	r.logger = logger
}

// Count reports the number of watched client descriptors. Only safe to call
// from the loop goroutine (inside a callback) or after Listen has returned.
func (r *Reactor) Count() int {
	var n = r.table.len()
	if r.Fd >= 0 && r.table.contains(r.Fd) {
		n--
	}
	if wfd := int(r.wakeFd.Load()); wfd >= 0 && r.table.contains(wfd) {
		n--
	}
	return n
}

// Stop wakes the loop and makes it shut down. Safe to call from any
// goroutine; the teardown itself happens on the loop goroutine.
func (r *Reactor) Stop() {
	var wfd = int(r.wakeFd.Load())
	if wfd < 0 {
		return
	}
	var one = []byte{1, 0, 0, 0, 0, 0, 0, 0}
	unix.Write(wfd, one)
}
