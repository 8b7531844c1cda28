// Package v1 contains the HTTP handlers translating between the
// presentation layer and the core: commands in, read models out.
package v1

import (
	"github.com/classfund/backend/internal/ledger"
	"github.com/classfund/backend/internal/notify"
	"github.com/classfund/backend/internal/planner"
	"github.com/classfund/backend/internal/pubsub"
	"github.com/shopspring/decimal"
)

// Controller carries the core components the handlers operate on.
type Controller struct {
	Store       *ledger.Store
	Processor   *ledger.Processor
	Planner     *planner.Planner
	Engine      *notify.Engine
	Broadcaster *pubsub.Broadcaster
}

// Student is the presentation-facing read model of a student.
type Student struct {
	ID              uint64          `json:"id"`
	Name            string          `json:"name" example:"Ana"`
	Balance         decimal.Decimal `json:"balance" example:"60"`
	Target          decimal.Decimal `json:"target" example:"150"`
	Progress        decimal.Decimal `json:"progress" example:"40"` // percent of the target reached
	TransactionLogs []ledger.Entry  `json:"transactionLogs"`
}

func newStudent(snapshot ledger.StudentSnapshot) Student {
	progress := decimal.Zero
	if snapshot.Target.IsPositive() {
		progress = snapshot.Balance.Div(snapshot.Target).Mul(decimal.NewFromInt(100)).Round(2)
	}

	return Student{
		ID:              snapshot.ID,
		Name:            snapshot.Name,
		Balance:         snapshot.Balance,
		Target:          snapshot.Target,
		Progress:        progress,
		TransactionLogs: snapshot.Log,
	}
}

type StudentResponse struct {
	Data Student `json:"data"`
}

type StudentListResponse struct {
	Data []Student `json:"data"`
}

type BalanceResponse struct {
	Data BalanceObject `json:"data"`
}

type BalanceObject struct {
	Balance decimal.Decimal `json:"balance" example:"45.5"`
}

type ClassResponse struct {
	Data ClassObject `json:"data"`
}

type ClassObject struct {
	Balance      decimal.Decimal `json:"balance" example:"45.5"`
	StudentCount int             `json:"studentCount" example:"23"`
}

type ClassLogResponse struct {
	Data []ledger.Entry `json:"data"`
}

type CollectionResponse struct {
	Data planner.Snapshot `json:"data"`
}

type CollectionRecordResponse struct {
	Data planner.CollectionSnapshot `json:"data"`
}

type MonthResponse struct {
	Data planner.MonthDetail `json:"data"`
}

type NotificationResponse struct {
	Data    []notify.Event `json:"data"`
	LastSeq uint64         `json:"lastSeq" example:"17"` // pass as ?since= on the next pull
}

// Editable types bind command payloads.

type StudentEditable struct {
	Name string `json:"name" binding:"required" example:"Ana"`
}

type PaymentEditable struct {
	Amount decimal.Decimal `json:"amount" binding:"required" example:"60"`
}

type WithdrawalEditable struct {
	Amount  decimal.Decimal `json:"amount" binding:"required" example:"40"`
	Purpose string          `json:"purpose" example:"class party"`
}

type ExternalFundEditable struct {
	Amount decimal.Decimal `json:"amount" binding:"required" example:"25.5"`
	Source string          `json:"source" example:"bake sale"`
}

type SettingsEditable struct {
	Duration  *string `json:"duration" example:"10"`
	DailyFund *string `json:"dailyFund" example:"50"`
}

type MonthEditable struct {
	MonthName string `json:"monthName" binding:"required" example:"June"`
}

type ActiveDayEditable struct {
	Date string `json:"date" binding:"required" example:"2026-06-03"`
}
