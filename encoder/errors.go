package encoder

import "fmt"

// EncodingError reports an invalid input to an encoder constructor:
// a register index out of range, an immediate out of its signed range, a
// misaligned branch/jump offset, or a shift amount greater than 31. These
// are programmer errors in the caller, not runtime traps, so they are
// surfaced immediately rather than folded into the vm package's trap
// taxonomy.
type EncodingError struct {
	Mnemonic string // Instruction mnemonic being encoded, e.g. "ADDI"
	Message  string // Description of the precondition that failed
	Wrapped  error  // Underlying error, if any
}

func (e *EncodingError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("encoding %s: %s: %v", e.Mnemonic, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("encoding %s: %s", e.Mnemonic, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *EncodingError) Unwrap() error {
	return e.Wrapped
}

// NewEncodingError creates a new EncodingError for the named mnemonic.
func NewEncodingError(mnemonic, message string) *EncodingError {
	return &EncodingError{Mnemonic: mnemonic, Message: message}
}

// WrapEncodingError wraps an existing error with mnemonic context. If err
// is already an EncodingError it is returned unchanged; if err is nil,
// WrapEncodingError returns nil.
func WrapEncodingError(mnemonic string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := err.(*EncodingError); ok {
		return err
	}
	return &EncodingError{Mnemonic: mnemonic, Message: "failed to encode instruction", Wrapped: err}
}
