package ledger

import (
	"errors"
)

var (
	ErrBlankName           = errors.New("the student name must not be blank")
	ErrDuplicateName       = errors.New("a student with this name already exists")
	ErrUnknownStudent      = errors.New("there is no student matching your query")
	ErrNonPositiveAmount   = errors.New("the amount must be larger than zero")
	ErrMalformedAmount     = errors.New("the amount must not have more than two decimal places")
	ErrInsufficientBalance = errors.New("the class balance does not cover this withdrawal")
	ErrPersistence         = errors.New("the change could not be saved to the store")
)
