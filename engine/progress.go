package engine

import (
	"io"
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/mattn/go-isatty"
)

const stageTemplate pb.ProgressBarTemplate = `{{ cycle . "⠋" "⠙" "⠹" "⠸" "⠼" "⠴" "⠦" "⠧" "⠇" "⠏" }} {{ string . "stage" }}`

// progress draws on stderr, and only when stderr is a terminal.
type progress struct {
	enabled bool
	out     io.Writer
}

func newProgress(enabled bool) *progress {
	fd := os.Stderr.Fd()
	tty := isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
	return &progress{enabled: enabled && tty, out: os.Stderr}
}

// reader wraps r in a byte counting bar of size bytes. The returned func must be
// called once r is drained.
func (p *progress) reader(r io.Reader, size int64) (io.Reader, func()) {
	if !p.enabled {
		return r, func() {}
	}
	bar := pb.New64(size)
	bar.Set(pb.Bytes, true)
	bar.SetWriter(p.out)
	bar.Start()
	return bar.NewProxyReader(r), func() { bar.Finish() }
}

// stage shows a spinner labelled name until the returned func is called.
func (p *progress) stage(name string) func() {
	if !p.enabled {
		return func() {}
	}
	bar := stageTemplate.New(0)
	bar.Set("stage", name)
	bar.Set(pb.CleanOnFinish, true)
	bar.SetWriter(p.out)
	bar.Start()
	return func() { bar.Finish() }
}
