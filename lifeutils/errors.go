package lifeutils

import "github.com/pkg/errors"

// ErrOutOfMemory is the error returned when a native create fails for lack of
// device or host memory. There is no local retry path; callers are expected to
// surface it to the top level.
var ErrOutOfMemory error = errors.New("out of device or host memory")
