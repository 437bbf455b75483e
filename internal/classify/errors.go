package classify

import "errors"

// ErrMalformedResponse indicates a model API answered with a body that does
// not have the expected prediction shape.
var ErrMalformedResponse = errors.New("malformed classifier response")
