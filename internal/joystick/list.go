package joystick

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultDir is where js device nodes live
const DefaultDir = "/dev/input"

// DefaultName is the device used when none is given
const DefaultName = "js0"

// sysfsRoot is a variable so tests can point it at a fake tree
var sysfsRoot = "/sys/class/input"

// Info describes a js device node found on the system
type Info struct {
	Name        string // base name, e.g. js0
	Path        string
	Description string // driver name from sysfs, may be empty
	VendorID    string
	ProductID   string
}

// ResolvePath joins a device name onto dir. Names that already contain a
// path separator are used as given.
func ResolvePath(dir, name string) string {
	if name == "" {
		name = DefaultName
	}
	if strings.ContainsRune(name, os.PathSeparator) {
		return name
	}
	if dir == "" {
		dir = DefaultDir
	}
	return filepath.Join(dir, name)
}

// List returns the js devices under dir sorted by name
func List(dir string) ([]Info, error) {
	if dir == "" {
		dir = DefaultDir
	}
	matches, err := filepath.Glob(filepath.Join(dir, "js*"))
	if err != nil {
		return nil, err
	}
	sort.Strings(matches)

	devices := make([]Info, 0, len(matches))
	for _, path := range matches {
		base := filepath.Base(path)
		sysdir := filepath.Join(sysfsRoot, base, "device")
		devices = append(devices, Info{
			Name:        base,
			Path:        path,
			Description: readSysfs(filepath.Join(sysdir, "name")),
			VendorID:    readSysfs(filepath.Join(sysdir, "id", "vendor")),
			ProductID:   readSysfs(filepath.Join(sysdir, "id", "product")),
		})
	}
	return devices, nil
}

func readSysfs(path string) string {
	b, err := os.ReadFile(path)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(b))
}
