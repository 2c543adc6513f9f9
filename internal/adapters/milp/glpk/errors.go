package glpk

import "errors"

// ErrInvalidModel is returned for models that cannot be loaded into GLPK.
var ErrInvalidModel = errors.New("invalid milp model")
