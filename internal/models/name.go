package models

import (
	"strings"

	"github.com/rotisserie/eris"
)

var ErrInvalidName = eris.New("invalid name")

// ValidateName rejects names that are not a single path component. Project
// and dependency names both become directory names under a fixed root.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return eris.Wrap(ErrInvalidName, "name cannot be empty")
	case name == "." || name == "..":
		return eris.Wrapf(ErrInvalidName, "name cannot be %q", name)
	case strings.ContainsAny(name, `/\`):
		return eris.Wrapf(ErrInvalidName, "name %q cannot contain path separators", name)
	}
	return nil
}
