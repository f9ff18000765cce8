package d2diagram

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDeletePending  = errors.New("deletion already pending")
	ErrDiagramClosed  = errors.New("diagram is closed")
	ErrGroupsDisabled = errors.New("grouping is disabled")
)

// DuplicateIDError is returned when registering an identifier already used by
// any node, port, link or group of the diagram.
type DuplicateIDError struct {
	ID string
}

func (e *DuplicateIDError) Error() string {
	return fmt.Sprintf("duplicate id %q", e.ID)
}

// DanglingReferenceError is returned when an entity refers to another one that
// is not registered.
type DanglingReferenceError struct {
	From string
	To   string
}

func (e *DanglingReferenceError) Error() string {
	return fmt.Sprintf("%q references unregistered %q", e.From, e.To)
}

// CyclicGroupError is returned when Child would become an ancestor of Group.
type CyclicGroupError struct {
	Group string
	Child string
}

func (e *CyclicGroupError) Error() string {
	if e.Group == e.Child {
		return fmt.Sprintf("group %q cannot contain itself", e.Group)
	}
	return fmt.Sprintf("group %q cannot contain %q, %q is one of its ancestors", e.Group, e.Child, e.Child)
}

type InvalidLinkError struct {
	ID     string
	Reason string
}

func (e *InvalidLinkError) Error() string {
	return fmt.Sprintf("invalid link %q: %s", e.ID, e.Reason)
}

// InvalidConfigurationError collects every problem found in Options.
type InvalidConfigurationError struct {
	Errs []error
}

func newInvalidConfigurationError(err error) error {
	errs := multierr.Errors(err)
	if len(errs) == 0 {
		return nil
	}
	return &InvalidConfigurationError{Errs: errs}
}

func (e *InvalidConfigurationError) Error() string {
	msgs := make([]string, 0, len(e.Errs))
	for _, err := range e.Errs {
		msgs = append(msgs, err.Error())
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

func (e *InvalidConfigurationError) Unwrap() []error {
	return e.Errs
}
