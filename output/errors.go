package output

import (
	"errors"
	"fmt"
)

// ErrNamingViolation is matched by errors.Is when a write targets a file
// name the generator does not own.
var ErrNamingViolation = errors.New("naming violation")

// NamingViolationError reports an attempt to write a file whose name lacks
// one of the generated suffixes. It always denotes a bug in the caller.
type NamingViolationError struct {
	Path string
}

// Error implements the error interface.
func (e *NamingViolationError) Error() string {
	return fmt.Sprintf("refusing to write %s: generated file names must end in %q or %q", e.Path, GoSuffix, MarkdownSuffix)
}

// Is reports whether target is ErrNamingViolation.
func (e *NamingViolationError) Is(target error) bool {
	return target == ErrNamingViolation
}

// FilesystemError reports a failed directory creation or atomic replace.
type FilesystemError struct {
	// Op is the failed operation: mkdir, create, write, sync, close or
	// rename.
	Op   string
	Path string
	Err  error
}

// Error implements the error interface.
func (e *FilesystemError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *FilesystemError) Unwrap() error {
	return e.Err
}
