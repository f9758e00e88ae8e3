package naming

import "errors"

// ErrUnknownToken indicates a naming template references a token that is not
// available for its media type.
var ErrUnknownToken = errors.New("unknown template token")
