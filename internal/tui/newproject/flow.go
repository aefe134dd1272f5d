// Package newproject asks for the details of a project to scaffold.
package newproject

import (
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	huh "github.com/charmbracelet/huh"

	"github.com/frinkifail/dreamcpp/internal/models"
	"github.com/frinkifail/dreamcpp/internal/scaffold"
	"github.com/frinkifail/dreamcpp/internal/tui"
)

// Standards offered by the prompt, newest first after the default.
var Standards = []string{models.DefaultStandard, "c++23", "c++17", "c++14", "c++11"}

// Compilers offered by the prompt.
var Compilers = []string{models.DefaultPreferredCompiler, "g++", "c++"}

// Flow prompts for a project name, standard and compiler using huh forms.
type Flow struct {
	theme *huh.Theme
	name  string
}

// NewFlow constructs a Flow. A non-empty name skips the name prompt.
func NewFlow(name string) *Flow {
	return &Flow{
		theme: tui.NewHuhTheme(),
		name:  name,
	}
}

// Run executes the form; returns nil options on user abort.
func (f *Flow) Run() (*scaffold.Options, error) {
	opts := &scaffold.Options{
		Name:              f.name,
		Standard:          models.DefaultStandard,
		PreferredCompiler: models.DefaultPreferredCompiler,
	}

	var fields []huh.Field
	if strings.TrimSpace(f.name) == "" {
		fields = append(fields, huh.NewInput().
			Title("Project name").
			Placeholder("my-app").
			Value(&opts.Name).
			Validate(scaffold.ValidateName))
	}

	fields = append(fields,
		huh.NewSelect[string]().
			Title("Language standard").
			Options(huh.NewOptions(Standards...)...).
			Value(&opts.Standard),
		huh.NewSelect[string]().
			Title("Compiler").
			Options(huh.NewOptions(Compilers...)...).
			Value(&opts.PreferredCompiler),
	)

	form := huh.NewForm(
		huh.NewGroup(fields...).
			Title("New Project").
			Description("Creates the project directory, manifest and a starter main.cpp."),
	).
		WithTheme(f.theme).
		WithShowHelp(true).
		WithProgramOptions(tea.WithAltScreen())

	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return nil, nil
		}
		return nil, err
	}

	opts.Name = strings.TrimSpace(opts.Name)
	return opts, nil
}
