package main

import (
	"fmt"
	"os"

	"github.com/frinkifail/dreamcpp/internal/cli"
	"github.com/frinkifail/dreamcpp/internal/tui"
)

func main() {
	if err := cli.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, tui.ErrorStyle.Render("error:"), err)
		os.Exit(1)
	}
}
