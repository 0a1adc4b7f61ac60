package usecase

import "errors"

// Sentinels shared across usecases. Handlers translate these into HTTP
// semantics; repositories never leak through them.
var (
	ErrInternal     = errors.New("internal error")
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")
)
