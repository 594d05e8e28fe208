package contract

import (
	"errors"
	"fmt"
)

// ErrMalformedContract is matched by errors.Is for every contract parse
// failure.
var ErrMalformedContract = errors.New("malformed contract")

// MalformedContractError reports a contract that could not be parsed.
type MalformedContractError struct {
	// Path is the contract file path, empty when parsing raw bytes.
	Path string
	// Err is the underlying decode error.
	Err error
}

// Error implements the error interface.
func (e *MalformedContractError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("malformed contract: %v", e.Err)
	}
	return fmt.Sprintf("malformed contract %s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying decode error.
func (e *MalformedContractError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrMalformedContract.
func (e *MalformedContractError) Is(target error) bool {
	return target == ErrMalformedContract
}
