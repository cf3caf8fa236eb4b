package domain

import "errors"

// ErrNotFound is returned by repositories when no row matches the key
var ErrNotFound = errors.New("not found")
