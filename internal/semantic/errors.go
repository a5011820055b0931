package semantic

import "errors"

// ErrQueryConstruction is returned when the constructed semantic query is
// shorter than MinContentLength.
var ErrQueryConstruction = errors.New("semantic: constructed query too short")
