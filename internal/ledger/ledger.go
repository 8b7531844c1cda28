// Package ledger implements the authoritative in-memory ledger for a
// class fund: per-student balances, the class-wide balance and the
// append-only transaction logs, together with the processor that applies
// validated commands to it.
package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Kind is the kind of a transaction log entry.
type Kind string

const (
	KindPayment      Kind = "payment"
	KindWithdrawal   Kind = "withdrawal"
	KindExternalFund Kind = "external-fund"
)

// Entry is one immutable transaction log entry. The amount is signed:
// positive for payments and external funds, negative for withdrawals.
// Entries are never edited or reordered once appended.
type Entry struct {
	Seq    uint64          `json:"seq"`
	Kind   Kind            `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
	Date   time.Time       `json:"date"`
	Note   string          `json:"note,omitempty"`
}

// StudentSnapshot is a point-in-time copy of one student's ledger state.
type StudentSnapshot struct {
	ID      uint64          `json:"id"`
	Name    string          `json:"name"`
	Balance decimal.Decimal `json:"balance"`
	Target  decimal.Decimal `json:"target"`
	Log     []Entry         `json:"transactionLogs"`
}

// Snapshot is a consistent point-in-time copy of the whole ledger. No
// entry pair in it can reflect a partially applied transaction.
type Snapshot struct {
	Students     []StudentSnapshot `json:"students"`
	ClassBalance decimal.Decimal   `json:"classBalance"`
	ClassLog     []Entry           `json:"classLog"`
	LastSeq      uint64            `json:"lastSeq"`
}

// TransactionEvent describes one applied transaction for downstream
// consumers.
type TransactionEvent struct {
	Kind           Kind             `json:"kind"`
	StudentID      *uint64          `json:"studentId,omitempty"`
	Amount         decimal.Decimal  `json:"amount"`
	StudentBalance *decimal.Decimal `json:"studentBalance,omitempty"`
	ClassBalance   decimal.Decimal  `json:"classBalance"`
	Timestamp      time.Time        `json:"timestamp"`
}

// Gateway is the narrow persistence contract the ledger depends on. The
// implementation lives with the document store adapter; the ledger calls
// it, never the reverse.
type Gateway interface {
	SaveStudent(ctx context.Context, student StudentSnapshot) error
	DeleteStudent(ctx context.Context, id uint64) error
	FetchAllStudents(ctx context.Context) ([]StudentSnapshot, error)
	SaveClassEntry(ctx context.Context, entry Entry) error
	FetchClassEntries(ctx context.Context) ([]Entry, error)
}

// TargetSource provides the target amount new students start with.
type TargetSource interface {
	MonthlyFund() decimal.Decimal
}

// Publisher receives events for applied transactions. Publishing is
// best-effort and never affects the outcome of a command.
type Publisher interface {
	PublishTransaction(ctx context.Context, event TransactionEvent) error
}
