package processing

import "errors"

// PermanentError marks a failure that redelivery cannot fix, such as a
// malformed payload. The worker loop routes these straight to the
// dead-letter queue instead of burning the retry budget on them.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return "permanent: " + e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent wraps an error as permanently failed
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// IsPermanent reports whether any error in the chain is a PermanentError
func IsPermanent(err error) bool {
	var p *PermanentError
	return errors.As(err, &p)
}
