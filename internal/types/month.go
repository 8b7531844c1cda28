// Package types implements special types for the class fund backend.
package types

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// CollectionMonth is one of the twelve canonical month names a collection
// cycle can be configured for.
type CollectionMonth string

const (
	January   CollectionMonth = "January"
	February  CollectionMonth = "February"
	March     CollectionMonth = "March"
	April     CollectionMonth = "April"
	May       CollectionMonth = "May"
	June      CollectionMonth = "June"
	July      CollectionMonth = "July"
	August    CollectionMonth = "August"
	September CollectionMonth = "September"
	October   CollectionMonth = "October"
	November  CollectionMonth = "November"
	December  CollectionMonth = "December"
)

// CollectionMonths lists all canonical months in calendar order.
var CollectionMonths = []CollectionMonth{
	January, February, March, April, May, June,
	July, August, September, October, November, December,
}

var ErrInvalidMonthName = errors.New("not a canonical month name")

// ParseCollectionMonth parses a month name. Matching is case-insensitive,
// the returned value is always the canonical spelling.
func ParseCollectionMonth(s string) (CollectionMonth, error) {
	for _, m := range CollectionMonths {
		if strings.EqualFold(string(m), strings.TrimSpace(s)) {
			return m, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrInvalidMonthName, s)
}

// String returns the canonical month name.
func (m CollectionMonth) String() string {
	return string(m)
}

// IsZero reports if no month is set.
func (m CollectionMonth) IsZero() bool {
	return m == ""
}

// Month returns the time.Month the name corresponds to. It returns 0 for
// values that are not canonical month names.
func (m CollectionMonth) Month() time.Month {
	for i, name := range CollectionMonths {
		if name == m {
			return time.Month(i + 1)
		}
	}

	return 0
}

// Contains reports whether the time instant falls into the named calendar
// month, regardless of year.
func (m CollectionMonth) Contains(t time.Time) bool {
	return t.Month() == m.Month()
}
