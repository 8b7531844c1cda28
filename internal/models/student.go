package models

import (
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Student is the persisted record of a student and their contribution log.
//
// Field names are stable strings for compatibility with existing stores,
// do not rename them.
type Student struct {
	ID              uint64           `json:"id" gorm:"primaryKey"`
	Name            string           `json:"name" gorm:"uniqueIndex:student_name"`
	Balance         decimal.Decimal  `json:"balance" gorm:"type:DECIMAL(20,8)"`
	Target          decimal.Decimal  `json:"target" gorm:"type:DECIMAL(20,8)"`
	TransactionLogs []TransactionLog `json:"transactionLogs" gorm:"constraint:OnDelete:CASCADE"`
	Timestamps
}

// BeforeSave trims whitespace from the name.
func (s *Student) BeforeSave(_ *gorm.DB) error {
	s.Name = strings.TrimSpace(s.Name)
	return nil
}
