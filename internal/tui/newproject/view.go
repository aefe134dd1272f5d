package newproject

import (
	"fmt"
	"strings"

	"github.com/frinkifail/dreamcpp/internal/scaffold"
	"github.com/frinkifail/dreamcpp/internal/tui"
)

// RenderSuccess renders a summary after the project was created.
func RenderSuccess(dir string, opts *scaffold.Options) string {
	var b strings.Builder

	b.WriteString(tui.SuccessStyle.Render("✓ Project Created"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("  %s %s\n", tui.SubtleStyle.Render("directory:"), dir))
	b.WriteString(fmt.Sprintf("  %s %s\n", tui.SubtleStyle.Render("standard: "), opts.Standard))
	b.WriteString(fmt.Sprintf("  %s %s\n", tui.SubtleStyle.Render("compiler: "), opts.PreferredCompiler))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("Next: cd %s && dreamcpp run\n", opts.Name))

	return b.String()
}
