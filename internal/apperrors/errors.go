package apperrors

import "errors"

// ErrNotFound indicates that a requested resource could not be found.
// Entries owned by another user are reported with this same error so
// existence is never revealed across owners.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrPersistence indicates that the backing store was unreachable or rejected a write.
var ErrPersistence = errors.New("persistence error")
