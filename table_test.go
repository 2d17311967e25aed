package reactor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

type nopHandler struct{}

func (nopHandler) readable(fd int) {}

func TestTableInsertRemove(t *testing.T) {
	var tb = newTable()
	var h nopHandler

	require.NoError(t, tb.insert(7, Readable, h))
	assert.True(t, tb.contains(7))
	assert.Equal(t, 1, tb.len())

	var reg, ok = tb.lookup(7)
	require.True(t, ok)
	assert.Equal(t, 7, reg.fd)
	assert.Equal(t, Readable, reg.mask)

	var err = tb.insert(7, Readable, h)
	require.ErrorIs(t, err, ErrDuplicateRegistration)

	require.NoError(t, tb.remove(7))
	assert.False(t, tb.contains(7))
	require.ErrorIs(t, tb.remove(7), ErrNotRegistered)
}

func TestTableFds(t *testing.T) {
	var tb = newTable()
	var h nopHandler
	require.NoError(t, tb.insert(3, Readable, h))
	require.NoError(t, tb.insert(5, Readable, h))
	assert.ElementsMatch(t, []int{3, 5}, tb.fds())
}

func TestRegisterDuplicateDescriptor(t *testing.T) {
	var r, err = New(64)
	require.NoError(t, err)
	defer unix.Close(r.Epfd)

	var p [2]int
	require.NoError(t, unix.Pipe(p[:]))
	defer unix.Close(p[0])
	defer unix.Close(p[1])

	require.NoError(t, r.register(p[0], Readable, r.connH))
	require.ErrorIs(t, r.register(p[0], Readable, r.connH), ErrDuplicateRegistration)

	// the failed second register must not have disturbed the first
	require.True(t, r.table.contains(p[0]))

	require.NoError(t, r.unregister(p[0]))
	require.ErrorIs(t, r.unregister(p[0]), ErrNotRegistered)
	require.False(t, r.table.contains(p[0]))
}
