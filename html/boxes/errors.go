package boxes

import (
	"errors"
	"fmt"

	pr "github.com/benoitkugler/boxtree/css/properties"
)

var (
	// ErrPrecondition is matched by the errors reporting a bug in the caller
	// (or in this package), such as building a box for a 'display: none' element.
	ErrPrecondition = errors.New("box tree precondition violated")

	// ErrUnsupportedDisplay is matched by [*UnsupportedDisplayError].
	ErrUnsupportedDisplay = errors.New("unsupported display")
)

// PreconditionError is the panic value used when the box tree is misused.
// [BuildFormattingStructure] reports it as an error.
type PreconditionError struct {
	msg string
}

func (e *PreconditionError) Error() string { return "boxes: " + e.msg }

func (e *PreconditionError) Is(target error) bool { return target == ErrPrecondition }

func preconditionf(format string, args ...interface{}) {
	panic(&PreconditionError{msg: fmt.Sprintf(format, args...)})
}

// UnsupportedDisplayError is returned when an element has a 'display' value
// the box construction does not handle (tables, flex, etc...).
type UnsupportedDisplayError struct {
	Display pr.Display
	Element string // tag of the element
}

func (e *UnsupportedDisplayError) Error() string {
	return fmt.Sprintf("unsupported display: %s (on <%s>)", e.Display, e.Element)
}

func (e *UnsupportedDisplayError) Is(target error) bool { return target == ErrUnsupportedDisplay }
