package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TransactionLog is one immutable balance-affecting entry. Entries with a
// StudentID belong to that student's log, entries without one belong to
// the class-level log (withdrawals and external funds).
type TransactionLog struct {
	ID        uint64          `json:"-" gorm:"primaryKey"`
	StudentID *uint64         `json:"-" gorm:"index"`
	Seq       uint64          `json:"seq" gorm:"uniqueIndex"`
	Kind      string          `json:"kind"`
	Amount    decimal.Decimal `json:"amount" gorm:"type:DECIMAL(20,8)"` // signed: negative for withdrawals
	Note      string          `json:"note,omitempty"`
	Date      time.Time       `json:"date"`
}

// BeforeSave sets the timezone for the Date to UTC.
func (t *TransactionLog) BeforeSave(_ *gorm.DB) (err error) {
	if t.Date.IsZero() {
		t.Date = time.Now().In(time.UTC)
	} else {
		t.Date = t.Date.In(time.UTC)
	}

	return nil
}

// AfterFind updates the timestamp to use UTC as timezone, not +0000.
func (t *TransactionLog) AfterFind(_ *gorm.DB) (err error) {
	t.Date = t.Date.In(time.UTC)
	return nil
}
