// Package helpers ships the generic helper stylesheet that synthesized
// programs import. The synthesizer never emits these templates itself; it
// only calls them by name.
package helpers

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"schema-evolver/internal/common"
)

// Names of the helper templates and their parameter.
const (
	CopyAttributes  = "copy-attributes"
	CopyContent     = "copy-content"
	DispatchContent = "dispatch-content"
	ExcludeParam    = "exclude"
)

// DefaultHref is the href under which programs import the helpers.
const DefaultHref = "evolution-helpers.xsl"

//go:embed helpers.xsl
var stylesheet []byte

// Stylesheet returns a copy of the helper stylesheet.
func Stylesheet() []byte {
	return append([]byte(nil), stylesheet...)
}

// Mode selects whether an existing helper file is kept or replaced.
type Mode int

const (
	// ModeReuse writes the helpers only when no file exists yet.
	ModeReuse Mode = iota
	// ModeRegenerate writes the helpers on every run.
	ModeRegenerate
)

// ParseMode converts "reuse" or "regenerate".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(s) {
	case "reuse", "":
		return ModeReuse, nil
	case "regenerate":
		return ModeRegenerate, nil
	default:
		return 0, fmt.Errorf("unknown helpers mode %q (expected reuse or regenerate)", s)
	}
}

// String returns the flag form of the mode.
func (m Mode) String() string {
	switch m {
	case ModeReuse:
		return "reuse"
	case ModeRegenerate:
		return "regenerate"
	default:
		return common.UnknownStr
	}
}

const filePerm = 0o644

// Install places the helper stylesheet at dir/href according to mode and
// reports whether the file was written.
func Install(dir, href string, mode Mode) (bool, error) {
	path := filepath.Join(dir, filepath.FromSlash(href))

	if mode == ModeReuse {
		_, err := os.Stat(path)
		if err == nil {
			return false, nil
		}

		if !errors.Is(err, fs.ErrNotExist) {
			return false, fmt.Errorf("checking helpers %s: %w", path, err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("creating helpers directory: %w", err)
	}

	if err := os.WriteFile(path, stylesheet, filePerm); err != nil {
		return false, fmt.Errorf("writing helpers %s: %w", path, err)
	}

	return true, nil
}
