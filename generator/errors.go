package generator

import (
	"errors"
	"fmt"
)

var (
	// ErrSelectionEmpty is returned by Run when no contract matches the
	// selection.
	ErrSelectionEmpty = errors.New("no contracts selected")

	// ErrInvalidSelection is returned by Run when the selection names
	// neither all modules nor a single one, or both.
	ErrInvalidSelection = errors.New("select either all modules or a single module")
)

// Stage names the step of contract generation that failed.
type Stage string

// Generation stages, in execution order.
const (
	StageRead   Stage = "read"
	StageParse  Stage = "parse"
	StageRender Stage = "render"
	StageMkdir  Stage = "mkdir"
	StageWrite  Stage = "write"
)

// ContractError reports the failure of one contract.
type ContractError struct {
	// Path is the contract file path.
	Path string
	// Stage is the step that failed.
	Stage Stage
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ContractError) Error() string {
	return fmt.Sprintf("contract %s: %s: %v", e.Path, e.Stage, e.Err)
}

// Unwrap returns the underlying error.
func (e *ContractError) Unwrap() error {
	return e.Err
}
