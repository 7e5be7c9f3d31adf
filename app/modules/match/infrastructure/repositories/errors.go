package matchdb

import "errors"

// ErrNotFound indicates no rally rows matched the query.
var ErrNotFound = errors.New("rally history not found")
