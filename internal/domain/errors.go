package domain

import "errors"

var (
	ErrCandidateNotFound = errors.New("candidate not found")
	ErrEmailTaken        = errors.New("email already registered")
)
