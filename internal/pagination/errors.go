package pagination

import "errors"

// ErrInvalidArgument reports a caller contract violation, such as a
// non-positive per-page size or link cap.
var ErrInvalidArgument = errors.New("pagination: invalid argument")
