package models

import (
	"github.com/classfund/backend/internal/types"
	"github.com/shopspring/decimal"
)

// Collection is the immutable snapshot of a saved collection
// configuration: the settings, the selected month and its derived
// monthly fund. Saving creates a new record, older ones are kept.
//
// Field names are stable strings for compatibility with existing stores,
// do not rename them.
type Collection struct {
	DefaultModel
	Duration    int             `json:"duration"`
	DailyFund   decimal.Decimal `json:"dailyFund" gorm:"type:DECIMAL(20,8)"`
	MonthName   string          `json:"monthName" gorm:"index"`
	ActiveDays  []types.Date    `json:"activeDays" gorm:"serializer:json"`
	MonthlyFund decimal.Decimal `json:"monthlyFund" gorm:"type:DECIMAL(20,8)"`
}
