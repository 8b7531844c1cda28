package planner

import (
	"errors"
)

var (
	ErrInvalidDuration         = errors.New("the duration must be a positive number of months")
	ErrInvalidDailyFund        = errors.New("the daily fund must be a positive amount")
	ErrUnknownMonth            = errors.New("this month has not been selected yet")
	ErrIncompleteConfiguration = errors.New("duration, daily fund and a month must be set before saving")
	ErrPersistence             = errors.New("the collection could not be saved to the store")
)
