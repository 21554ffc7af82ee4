package service

import (
	"errors"
	"fmt"

	"github.com/urban-services/api/internal/database"
)

// ErrIllegalTransition is matched by every *TransitionError.
var ErrIllegalTransition = errors.New("illegal status transition")

// TransitionError reports a status change the lifecycle does not allow.
type TransitionError struct {
	From database.OrderStatus
	To   database.OrderStatus
}

func (e *TransitionError) Error() string {
	if e.To == database.OrderStatusCANCELLED {
		return "only pending orders may be cancelled"
	}
	return fmt.Sprintf("cannot transition order from %s to %s", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrIllegalTransition
}

// allowedTransitions defines the valid status transitions for an order group.
var allowedTransitions = map[database.OrderStatus][]database.OrderStatus{
	database.OrderStatusPENDING:    {database.OrderStatusINPROGRESS, database.OrderStatusCANCELLED},
	database.OrderStatusINPROGRESS: {database.OrderStatusCOMPLETED},
	database.OrderStatusCOMPLETED:  {},
	database.OrderStatusCANCELLED:  {},
}

// ValidateTransition returns a *TransitionError unless from -> to is an edge
// of the lifecycle.
func ValidateTransition(from, to database.OrderStatus) error {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return nil
		}
	}
	return &TransitionError{From: from, To: to}
}

// IsTerminal reports whether no transition leaves status.
func IsTerminal(status database.OrderStatus) bool {
	next, ok := allowedTransitions[status]
	return ok && len(next) == 0
}
