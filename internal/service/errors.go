package service

import "errors"

// ErrValidation marks a request rejected before any side effect: a missing
// field, a zero quantity, an unpaid checkout session.  Workflow methods
// wrap it with fmt.Errorf("%w: ...") so handlers can errors.Is it into an
// HTTP 400 while keeping the specific message.
var ErrValidation = errors.New("validation failed")
