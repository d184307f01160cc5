package apperrors

import (
	"errors"
	"fmt"
)

// Sentinel errors let callers branch on specific business failures.
var (
	// ErrForbidden is the single error surfaced for every authorization
	// denial so callers can render one consistent message.
	ErrForbidden = errors.New("you do not have permission to perform this action")

	// ErrDeleteDisabled is returned for delete attempts on invoices and
	// services regardless of the caller's role. The records form the
	// audit trail and are never removed.
	ErrDeleteDisabled = errors.New("deletion is disabled for this record type")
)

// ChannelError is a structured send failure from an outbound channel.
// It is recorded on the service row, never raised out of a dispatch
// run.
type ChannelError struct {
	Channel string
	Reason  string
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("%s send failed: %s", e.Channel, e.Reason)
}
