package order

import (
	"fmt"

	"inflight/internal/pkg/errs"
)

// Status is the service state of an order.
//
//	new ──> forming ──> done
//	  └───────┴──────> cancelled
//
// The admin tooling may set any status of the set at any time; the arrows
// show the usual cabin-crew workflow only.
type Status string

const (
	// New is the initial status of every order.
	New Status = "new"

	// Forming means the crew is assembling the order.
	Forming Status = "forming"

	// Done means the order was served.
	Done Status = "done"

	// Cancelled means the order will not be served.
	Cancelled Status = "cancelled"
)

// AllStatuses returns the fixed status set in workflow order.
func AllStatuses() []Status {
	return []Status{New, Forming, Done, Cancelled}
}

// ParseStatus maps a raw string onto the status set. The boolean is false for
// anything outside the set.
func ParseStatus(raw string) (Status, bool) {
	for _, s := range AllStatuses() {
		if string(s) == raw {
			return s, true
		}
	}
	return "", false
}

// Validate checks that s belongs to the status set.
func (s Status) Validate() error {
	if _, ok := ParseStatus(string(s)); !ok {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", string(s)))
	}
	return nil
}

func (s Status) String() string {
	return string(s)
}
