package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// progressBar renders sync progress on a terminal. It stays invisible when
// out is not a terminal or when running in CI, so logs remain readable.
type progressBar struct {
	out     io.Writer
	visible bool
	bar     *progressbar.ProgressBar
}

func newProgressBar(out io.Writer) *progressBar {
	return &progressBar{out: out, visible: isTerminal(out) && os.Getenv("CI") != "true"}
}

func (p *progressBar) Start(total int) {
	if !p.visible {
		p.bar = progressbar.NewOptions(total, progressbar.OptionSetWriter(io.Discard))
		return
	}

	p.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(p.out),
		progressbar.OptionSetDescription("syncing"),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprint(p.out, "\n")
		}),
	)
}

func (p *progressBar) Step(name string) {
	if p.bar == nil {
		return
	}
	p.bar.Describe(name)
	_ = p.bar.Add(1)
}

func (p *progressBar) Done() {
	if p.bar == nil {
		return
	}
	_ = p.bar.Finish()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
