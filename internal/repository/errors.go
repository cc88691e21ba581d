package repository

import "errors"

// ErrNotFound indicates an entity was not located, or exists but is owned by
// a different user. The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("repository: not found")
