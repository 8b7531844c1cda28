// Package httperror maps domain errors to the HTTP error envelope.
package httperror

type Error struct {
	Message string `json:"error" example:"you must specify a student ID"`
}

func New(e error) Error {
	return Error{
		Message: e.Error(),
	}
}

func NewFromString(s string) Error {
	return Error{
		Message: s,
	}
}
