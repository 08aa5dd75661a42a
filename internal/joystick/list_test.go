package joystick

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	tests := []struct {
		name string
		dir  string
		dev  string
		want string
	}{
		{"defaults", "", "", "/dev/input/js0"},
		{"named device", "/dev/input", "js1", "/dev/input/js1"},
		{"custom dir", "/tmp/devs", "js2", "/tmp/devs/js2"},
		{"absolute name wins", "/dev/input", "/dev/input/by-id/pad-joystick", "/dev/input/by-id/pad-joystick"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolvePath(tt.dir, tt.dev))
		})
	}
}

func TestList(t *testing.T) {
	devDir := t.TempDir()
	sysDir := t.TempDir()

	orig := sysfsRoot
	sysfsRoot = sysDir
	defer func() { sysfsRoot = orig }()

	for _, name := range []string{"js1", "js0", "event3", "mice"} {
		require.NoError(t, os.WriteFile(filepath.Join(devDir, name), nil, 0o644))
	}

	idDir := filepath.Join(sysDir, "js0", "device", "id")
	require.NoError(t, os.MkdirAll(idDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(sysDir, "js0", "device", "name"),
		[]byte("Microsoft X-Box 360 pad\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(idDir, "vendor"), []byte("045e\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(idDir, "product"), []byte("028e\n"), 0o644))

	devices, err := List(devDir)
	require.NoError(t, err)
	require.Len(t, devices, 2)

	assert.Equal(t, "js0", devices[0].Name)
	assert.Equal(t, filepath.Join(devDir, "js0"), devices[0].Path)
	assert.Equal(t, "Microsoft X-Box 360 pad", devices[0].Description)
	assert.Equal(t, "045e", devices[0].VendorID)
	assert.Equal(t, "028e", devices[0].ProductID)

	assert.Equal(t, "js1", devices[1].Name)
	assert.Empty(t, devices[1].Description)
}

func TestListEmpty(t *testing.T) {
	devices, err := List(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, devices)
}
