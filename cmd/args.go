package cmd

import (
	"github.com/bnema/js2mouse/internal/config"
)

// leftStickArg selects left-stick pointer mode on the command line
const leftStickArg = "L"

// positional is what the legacy [deviceName] [L] arguments select
type positional struct {
	Device    string // empty keeps the configured device
	LeftStick bool
}

// parseArgs applies the positional rules: a sole L selects the left
// stick on the default device, otherwise the first argument names the
// device and an L in second position selects the left stick.
func parseArgs(args []string) positional {
	var p positional
	switch len(args) {
	case 0:
	case 1:
		if args[0] == leftStickArg {
			p.LeftStick = true
		} else {
			p.Device = args[0]
		}
	default:
		p.Device = args[0]
		p.LeftStick = args[1] == leftStickArg
	}
	return p
}

// resolveSettings layers the positional arguments over cfg and freezes
// the result. cfg itself is not modified.
func resolveSettings(cfg *config.Config, args []string) (config.Settings, error) {
	c := *cfg
	p := parseArgs(args)
	if p.Device != "" {
		c.Device.Name = p.Device
	}
	if p.LeftStick {
		c.Stick.Handedness = "left"
	}
	return c.Settings()
}
