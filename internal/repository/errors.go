package repository

import "errors"

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateUsername is returned when a username unique constraint is
// violated at write time.
var ErrDuplicateUsername = errors.New("username already exists")
