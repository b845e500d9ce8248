package entity

import "fmt"

// DomainError reports a field value that violates the entity model,
// such as an out-of-enum status.
type DomainError struct {
	Field string
	Msg   string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Msg)
}
