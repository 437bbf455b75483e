package infer

import "errors"

// ErrAlignment indicates the classifier returned a different number of
// predictions than names it was given.
var ErrAlignment = errors.New("prediction count does not match name count")
