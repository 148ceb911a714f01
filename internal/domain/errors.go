package domain

import "errors"

var (
	ErrProjectNotFound = errors.New("Project not found")
	ErrDuplicateID     = errors.New("Duplicate project id")
)
