package ui

import (
	"fmt"
	"strings"

	"github.com/bnema/js2mouse/internal/config"
	"github.com/bnema/js2mouse/internal/joystick"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// newTable returns a rounded table with the header row highlighted and the
// first column accented
func newTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorSubtle)).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return lipgloss.NewStyle().
					Foreground(ColorPrimary).
					Bold(true).
					Padding(0, 1)
			case col == 0:
				return lipgloss.NewStyle().
					Foreground(ColorInfo).
					Bold(true).
					Padding(0, 1)
			default:
				return lipgloss.NewStyle().
					Foreground(ColorText).
					Padding(0, 1)
			}
		}).
		Headers(headers...)
}

// DeviceTable renders the output of joystick.List
func DeviceTable(dir string, devices []joystick.Info) string {
	var out strings.Builder

	out.WriteString(FormatAppHeader("DEVICES", dir))
	out.WriteString("\n\n")

	if len(devices) == 0 {
		out.WriteString(SubtleStyle.Render("No joystick devices found"))
		return out.String()
	}

	t := newTable("NAME", "PATH", "DESCRIPTION", "VENDOR:PRODUCT")
	for _, d := range devices {
		desc := d.Description
		if desc == "" {
			desc = "-"
		}
		id := "-"
		if d.VendorID != "" || d.ProductID != "" {
			id = d.VendorID + ":" + d.ProductID
		}
		t.Row(d.Name, d.Path, desc, id)
	}
	out.WriteString(t.String())
	out.WriteString("\n\n")
	out.WriteString(SubtleStyle.Render(fmt.Sprintf("Total: %d device(s)", len(devices))))

	return out.String()
}

// BannerInfo is what the run command knows once the device is open
type BannerInfo struct {
	DevicePath string
	DeviceName string
	Axes       int
	Buttons    int
	Backend    string
	Settings   config.Settings
}

// Banner renders the startup summary: device, stick, deadzones and the
// control bindings
func Banner(b BannerInfo) string {
	var out strings.Builder
	s := b.Settings

	name := b.DeviceName
	if name == "" {
		name = "unknown device"
	}
	out.WriteString(FormatAppHeader("RUNNING", name))
	out.WriteString("\n")

	mode := "poll"
	if s.Blocking {
		mode = "blocking"
	}
	idle := "off"
	if s.IdleTimeout > 0 {
		idle = s.IdleTimeout.String()
	}

	info := newTable("SETTING", "VALUE").
		Row("device", b.DevicePath).
		Row("controls", fmt.Sprintf("%d axes, %d buttons", b.Axes, b.Buttons)).
		Row("read mode", mode).
		Row("pointer stick", s.Handedness.String()).
		Row("injector", b.Backend).
		Row("idle prompt", idle)

	dz := newTable("CONTROL", "DEADZONE").
		Row("right stick", fmt.Sprint(s.Deadzones.RightStick)).
		Row("left stick", fmt.Sprint(s.Deadzones.LeftStick)).
		Row("right trigger", fmt.Sprint(s.Deadzones.RightTrigger)).
		Row("left trigger", fmt.Sprint(s.Deadzones.LeftTrigger)).
		Row("d-pad", fmt.Sprint(s.Deadzones.DPad))

	out.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, info.String(), " ", dz.String()))
	out.WriteString("\n")
	out.WriteString(BindingsHelp())
	return out.String()
}

// BindingsHelp lists what each control does
func BindingsHelp() string {
	lines := []string{
		SubheaderStyle.Render("Controls:"),
		"  " + FormatControl("stick", "move pointer"),
		"  " + FormatControl("A", "left click") + "   " + FormatControl("B", "right click") + "   " + FormatControl("X", "middle click"),
		"  " + FormatControl("LB", "scroll up") + "   " + FormatControl("RB", "scroll down"),
		"  " + FormatControl("d-pad", "arrow keys"),
		"  " + FormatControl("Home", "quit"),
	}
	return strings.Join(lines, "\n")
}
