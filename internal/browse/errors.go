package browse

import "errors"

// ErrInvalidDirectory is the only rejection a caller ever sees from Resolve.
// Its text is shown to end users as is, so it never says why a path failed.
var ErrInvalidDirectory = errors.New("Invalid directory")

// ErrStatsUnavailable marks a stats run where the external tool produced no output.
var ErrStatsUnavailable = errors.New("stats tool unavailable")
