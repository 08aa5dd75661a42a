package engine

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
)

// Prompter asks the user whether to quit after an idle period
type Prompter interface {
	ConfirmQuit(ctx context.Context, idle time.Duration) (bool, error)
}

// NewPrompter returns an interactive huh prompt when in is a terminal
// and a plain line prompt otherwise
func NewPrompter(in *os.File, out io.Writer) Prompter {
	if isatty.IsTerminal(in.Fd()) || isatty.IsCygwinTerminal(in.Fd()) {
		return &FormPrompter{}
	}
	return NewLinePrompter(in, out)
}

// FormPrompter shows a huh confirm field
type FormPrompter struct{}

func (p *FormPrompter) ConfirmQuit(ctx context.Context, idle time.Duration) (bool, error) {
	var quit bool
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("It has been %s since last input.", idle.Round(time.Second))).
				Description("Do you want to quit?").
				Affirmative("Yes").
				Negative("No").
				Value(&quit),
		),
	)

	if err := form.RunWithContext(ctx); err != nil {
		return false, fmt.Errorf("quit prompt: %w", err)
	}
	return quit, nil
}

type lineResult struct {
	line string
	err  error
}

// LinePrompter reads a y/n answer from a line-oriented reader. Lines are
// read on a background goroutine so a cancelled context ends the prompt
// without waiting for input.
type LinePrompter struct {
	in    *bufio.Reader
	out   io.Writer
	once  sync.Once
	lines chan lineResult
}

// NewLinePrompter reads answers from in and writes questions to out
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{
		in:    bufio.NewReader(in),
		out:   out,
		lines: make(chan lineResult),
	}
}

func (p *LinePrompter) ConfirmQuit(ctx context.Context, idle time.Duration) (bool, error) {
	p.once.Do(func() { go p.readLines() })

	fmt.Fprintf(p.out, "It has been %s since last input.\n", idle.Round(time.Second))
	fmt.Fprint(p.out, "Do you want to quit (y/n): ")

	var res lineResult
	select {
	case <-ctx.Done():
		return false, ctx.Err()
	case r, ok := <-p.lines:
		if !ok {
			return false, io.EOF
		}
		res = r
	}
	if res.err != nil && res.line == "" {
		return false, res.err
	}

	switch strings.ToLower(strings.TrimSpace(res.line)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// readLines feeds p.lines until the reader fails, then closes it
func (p *LinePrompter) readLines() {
	defer close(p.lines)
	for {
		line, err := p.in.ReadString('\n')
		p.lines <- lineResult{line: line, err: err}
		if err != nil {
			return
		}
	}
}
