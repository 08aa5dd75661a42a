package input

import (
	"github.com/bnema/js2mouse/internal/logger"
	"github.com/bnema/js2mouse/internal/mapping"
)

// DryRun logs every action instead of injecting it
type DryRun struct {
	quiet bool
}

// NewDryRun returns an injector that only logs
func NewDryRun() *DryRun {
	return &DryRun{}
}

// Discard returns an injector that neither injects nor logs
func Discard() *DryRun {
	return &DryRun{quiet: true}
}

func (d *DryRun) Click(button mapping.MouseButton) error {
	d.log("click", "button", button.String())
	return nil
}

func (d *DryRun) MoveRelative(dx, dy int) error {
	d.log("move", "dx", dx, "dy", dy)
	return nil
}

func (d *DryRun) KeyDown(code int) error {
	d.log("keydown", "key", code)
	return nil
}

func (d *DryRun) KeyUp(codes ...int) error {
	d.log("keyup", "keys", codes)
	return nil
}

func (d *DryRun) Close() error { return nil }

func (d *DryRun) log(msg string, keyvals ...interface{}) {
	if d.quiet {
		return
	}
	logger.With("injector", BackendDryRun).Info(msg, keyvals...)
}
