package seasongen

import "errors"

// ErrInvalidConfig reports unusable generator settings.
var ErrInvalidConfig = errors.New("invalid generator config")
