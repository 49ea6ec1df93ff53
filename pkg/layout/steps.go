package layout

import (
	"fmt"

	"github.com/matzehuels/orca/pkg/errors"
)

// IndentMode selects how far a node's children are shifted right.
type IndentMode string

const (
	// IndentContent shifts children past the parent's own width plus Pad.
	IndentContent IndentMode = "content"
	// IndentFixed shifts children by Pad regardless of the parent.
	IndentFixed IndentMode = "fixed"
)

// DefaultLineStep is the vertical distance between a node and its children.
const DefaultLineStep = 5

// Steps holds the offsets used to place a node's first child.
type Steps struct {
	Mode IndentMode
	Pad  int
	Line int
}

// DefaultSteps returns content-based indentation with no padding and a line
// step of DefaultLineStep.
func DefaultSteps() Steps {
	return Steps{Mode: IndentContent, Line: DefaultLineStep}
}

// Validate reports an errors.ErrCodeInvalidConfig error for an unknown mode
// or a negative offset.
func (s Steps) Validate() error {
	switch s.Mode {
	case IndentContent, IndentFixed:
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "unknown indent mode %q (want %q or %q)", s.Mode, IndentContent, IndentFixed)
	}
	if s.Pad < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "indent pad must be >= 0, got %d", s.Pad)
	}
	if s.Line < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "line step must be >= 0, got %d", s.Line)
	}
	return nil
}

// Indent returns the horizontal offset of the first child of a node whose
// own footprint is own.
func (s Steps) Indent(own Fit) int {
	if s.Mode == IndentFixed {
		return s.Pad
	}
	return own.W + s.Pad
}

func (s Steps) String() string {
	return fmt.Sprintf("%s+%d/%d", s.Mode, s.Pad, s.Line)
}

// ParseIndentMode converts a config or flag value to an IndentMode.
func ParseIndentMode(v string) (IndentMode, error) {
	switch m := IndentMode(v); m {
	case IndentContent, IndentFixed:
		return m, nil
	case "":
		return IndentContent, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidConfig, "unknown indent mode %q (want %q or %q)", v, IndentContent, IndentFixed)
	}
}
