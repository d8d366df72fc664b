package domain

import "fmt"

const (
	// CurrentSuffix is appended to the queue path to name the current-work file.
	CurrentSuffix = ".curr"

	// PathWindow bounds len(queue)+len(CurrentSuffix)+1.
	PathWindow = 256

	// LineWindow is the size of the per-line read buffer.
	LineWindow = 256

	// MaxLineLen is the longest accepted line, newline included.
	MaxLineLen = LineWindow - 1

	// MaxArgs is the number of argv slots, including argv[0] and one empty slot.
	MaxArgs = 20

	// MaxRealArgs is the number of argv entries a line may produce.
	MaxRealArgs = MaxArgs - 1
)

// Invocation is a parsed queue line.
type Invocation struct {
	// Argv holds the arguments; Argv[0] is the command name.
	Argv []string

	// Outfile is the redirection target. Only meaningful when HasOutfile is set;
	// it may be empty when a bare '>' ended the line.
	Outfile string

	// HasOutfile reports whether a redirection directive was present.
	HasOutfile bool

	// Append is set for '>>' directives.
	Append bool
}

// Name returns the command name.
func (inv Invocation) Name() string {
	if len(inv.Argv) == 0 {
		return ""
	}
	return inv.Argv[0]
}

// Argc returns the number of arguments including the command name.
func (inv Invocation) Argc() int {
	return len(inv.Argv)
}

// CurrentPath returns the current-work path for queue path q.
func CurrentPath(q string) string {
	return q + CurrentSuffix
}

// CheckQueuePath verifies that q plus the current-work suffix fits in the
// path window.
func CheckQueuePath(q string) error {
	if len(q)+len(CurrentSuffix)+1 > PathWindow {
		return fmt.Errorf("%w ('%s')", ErrPathTooLong, q)
	}
	return nil
}
