package processor

import "fmt"

// ValidationError reports a transaction that fails the family's
// business rules. It is always the signer's fault — never an internal
// error — so the platform should reject the transaction without
// retrying it.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

func invalidf(format string, args ...any) error {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}
