package reactor

import (
	"bytes"
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestWriteWithTimeoutEcho(t *testing.T) {
	var r, err = New(1024)
	require.NoError(t, err)
	r.OnRead = func(fd int, addr Addr, msg []byte) bool {
		return WriteWithTimeout(fd, bytes.ToUpper(msg), time.Second) == nil
	}
	require.NoError(t, r.InitEpoll("127.0.0.1", 0))

	var done = make(chan error, 1)
	go func() {
		done <- r.Listen()
	}()

	var conn, derr = net.Dial("tcp", fmt.Sprintf("127.0.0.1:%d", r.Port))
	require.NoError(t, derr)
	defer conn.Close()
	require.Equal(t, "HELLO", roundTrip(t, conn, "hello"))

	r.Stop()
	select {
	case err = <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("reactor did not stop in time")
	}
}

func TestWriteWithTimeoutExpires(t *testing.T) {
	var p [2]int
	require.NoError(t, unix.Pipe(p[:]))
	defer unix.Close(p[0])
	defer unix.Close(p[1])

	// fill the pipe so a blocking write cannot complete
	require.NoError(t, unix.SetNonblock(p[1], true))
	var chunk = make([]byte, 4096)
	for {
		if _, err := unix.Write(p[1], chunk); err != nil {
			require.ErrorIs(t, err, unix.EAGAIN)
			break
		}
	}
	require.NoError(t, unix.SetNonblock(p[1], false))

	var err = WriteWithTimeout(p[1], chunk, 100*time.Millisecond)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}
