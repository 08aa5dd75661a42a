//go:build linux

package joystick

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sys/unix"
)

func TestOpenMissingDevice(t *testing.T) {
	_, err := Open(filepath.Join(t.TempDir(), "js9"), false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOpen)
}

func TestOpenNonJoystick(t *testing.T) {
	// a regular file opens fine but rejects the js ioctls
	path := filepath.Join(t.TempDir(), "js0")
	require.NoError(t, os.WriteFile(path, nil, 0o644))

	_, err := Open(path, false)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOpen)
}

// pipeDevice wires a Device to the read end of a pipe
func pipeDevice(t *testing.T) (*Device, int) {
	t.Helper()
	var fds [2]int
	require.NoError(t, unix.Pipe(fds[:]))
	require.NoError(t, unix.SetNonblock(fds[0], true))
	t.Cleanup(func() { _ = unix.Close(fds[1]) })

	d := &Device{path: "pipe", fd: fds[0], axes: 8, buttons: 11}
	t.Cleanup(func() { _ = d.Close() })
	return d, fds[1]
}

func TestDeviceReadEvent(t *testing.T) {
	d, w := pipeDevice(t)

	_, err := d.ReadEvent()
	assert.ErrorIs(t, err, ErrNoData)

	want := Event{Time: 42, Value: 12000, Kind: KindAxis, Index: 4}
	_, err = unix.Write(w, want.Encode())
	require.NoError(t, err)

	got, err := d.ReadEvent()
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDeviceShortReadIsDisconnect(t *testing.T) {
	d, w := pipeDevice(t)

	_, err := unix.Write(w, []byte{1, 2, 3})
	require.NoError(t, err)

	_, err = d.ReadEvent()
	assert.ErrorIs(t, err, ErrDisconnected)
}

func TestDeviceEOFIsDisconnect(t *testing.T) {
	var fds [2]int
	require.NoError(t, unix.Pipe(fds[:]))
	require.NoError(t, unix.Close(fds[1]))

	d := &Device{path: "pipe", fd: fds[0]}
	defer d.Close()

	_, err := d.ReadEvent()
	assert.ErrorIs(t, err, ErrDisconnected)
}

func TestDeviceClose(t *testing.T) {
	d, _ := pipeDevice(t)

	require.NoError(t, d.Close())
	assert.NoError(t, d.Close(), "second close is a no-op")

	_, err := d.ReadEvent()
	assert.ErrorIs(t, err, ErrDisconnected)
}
