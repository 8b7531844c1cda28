// Package notify derives human-readable event descriptions from ledger
// and planner snapshots. The engine is a pure function of its inputs: it
// never mutates state and running it twice on the same snapshots yields
// the same sequence.
package notify

import (
	"sort"
	"time"

	"github.com/classfund/backend/internal/ledger"
	"github.com/classfund/backend/internal/planner"
	"github.com/classfund/backend/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// EventKind identifies which rule produced an event.
type EventKind string

const (
	KindContributionSummary EventKind = "contribution-summary"
	KindProgress            EventKind = "progress"
	KindWithdrawal          EventKind = "withdrawal"
	KindTargetCompleted     EventKind = "target-completed"
	KindMonthlyCompleted    EventKind = "monthly-completed"
)

// Event is one derived notification.
type Event struct {
	Kind    EventKind `json:"kind"`
	Message string    `json:"message"`
	Seq     uint64    `json:"seq,omitempty"` // set for withdrawal events, for cursor tracking
}

// Engine derives notification events from snapshots.
type Engine struct {
	printer *message.Printer
}

// NewEngine returns an engine formatting messages for English readers.
func NewEngine() *Engine {
	return &Engine{
		printer: message.NewPrinter(language.English),
	}
}

// Events evaluates the notification rules in fixed order against the
// snapshots. since is the class log sequence number of the last
// notification pull; withdrawal events are only derived for entries
// after it.
func (e *Engine) Events(ls ledger.Snapshot, ps planner.Snapshot, since uint64) []Event {
	events := make([]Event, 0)

	if event, ok := e.contributionSummary(ls, ps); ok {
		events = append(events, event)
	}

	if event, ok := e.progress(ls); ok {
		events = append(events, event)
	}

	events = append(events, e.withdrawals(ls, since)...)
	events = append(events, e.targetsCompleted(ls)...)
	events = append(events, e.monthlyCompleted(ls, ps)...)

	return events
}

// contributionSummary reports how many students have no payment on the
// month's final active day.
func (e *Engine) contributionSummary(ls ledger.Snapshot, ps planner.Snapshot) (Event, bool) {
	if !ps.HasSelection() || len(ps.Selected.ActiveDays) == 0 || len(ls.Students) == 0 {
		return Event{}, false
	}

	// Active days in the snapshot are chronological, the last one is the
	// final collection day.
	finalDay := ps.Selected.ActiveDays[len(ps.Selected.ActiveDays)-1]

	missed := 0
	for _, student := range ls.Students {
		if !paidOn(student, finalDay) {
			missed++
		}
	}

	if missed == 0 {
		msg := e.printer.Sprintf("All %d students completed the contribution for %s.", len(ls.Students), finalDay)
		if len(ls.Students) == 1 {
			msg = e.printer.Sprintf("The only student completed the contribution for %s.", finalDay)
		}

		return Event{Kind: KindContributionSummary, Message: msg}, true
	}

	msg := e.printer.Sprintf("%d students missed the contribution on %s.", missed, finalDay)
	if missed == 1 {
		msg = e.printer.Sprintf("1 student missed the contribution on %s.", finalDay)
	}

	return Event{Kind: KindContributionSummary, Message: msg}, true
}

// progress reports the class-wide progress towards the sinking fund
// target, the sum of all student targets.
func (e *Engine) progress(ls ledger.Snapshot) (Event, bool) {
	target := decimal.Zero
	balance := decimal.Zero
	for _, student := range ls.Students {
		target = target.Add(student.Target)
		balance = balance.Add(student.Balance)
	}

	if !target.IsPositive() {
		return Event{}, false
	}

	percent := balance.Div(target).Mul(decimal.NewFromInt(100)).Round(2)

	return Event{
		Kind:    KindProgress,
		Message: e.printer.Sprintf("The fund is at %v%% of its %v target.", percent, target),
	}, true
}

// withdrawals emits one event per withdrawal entry after the cursor.
func (e *Engine) withdrawals(ls ledger.Snapshot, since uint64) []Event {
	events := make([]Event, 0)

	for _, entry := range ls.ClassLog {
		if entry.Kind != ledger.KindWithdrawal || entry.Seq <= since {
			continue
		}

		msg := e.printer.Sprintf("Withdrawal of %v on %s.", entry.Amount.Abs(), types.DateOf(entry.Date))
		if entry.Note != "" {
			msg = e.printer.Sprintf("Withdrawal of %v on %s for %s.", entry.Amount.Abs(), types.DateOf(entry.Date), entry.Note)
		}

		events = append(events, Event{
			Kind:    KindWithdrawal,
			Message: msg,
			Seq:     entry.Seq,
		})
	}

	return events
}

// targetsCompleted emits one event per student whose balance reached the
// target, ordered by the date of the payment that completed it.
func (e *Engine) targetsCompleted(ls ledger.Snapshot) []Event {
	type completion struct {
		student ledger.StudentSnapshot
		when    time.Time
	}

	completions := make([]completion, 0)
	for _, student := range ls.Students {
		if !student.Target.IsPositive() || student.Balance.LessThan(student.Target) {
			continue
		}

		completions = append(completions, completion{
			student: student,
			when:    completionDate(student),
		})
	}

	sort.SliceStable(completions, func(i, j int) bool {
		if !completions[i].when.Equal(completions[j].when) {
			return completions[i].when.Before(completions[j].when)
		}
		return completions[i].student.ID < completions[j].student.ID
	})

	events := make([]Event, 0, len(completions))
	for _, c := range completions {
		events = append(events, Event{
			Kind:    KindTargetCompleted,
			Message: e.printer.Sprintf("%s completed the %v target on %s.", c.student.Name, c.student.Target, types.DateOf(c.when)),
		})
	}

	return events
}

// monthlyCompleted emits one event per student with a payment inside the
// selected month.
func (e *Engine) monthlyCompleted(ls ledger.Snapshot, ps planner.Snapshot) []Event {
	if !ps.HasSelection() {
		return nil
	}

	// When active days exist, their year pins the month to a calendar
	// year; without them only the month name is compared.
	year := 0
	if len(ps.Selected.ActiveDays) > 0 {
		year = ps.Selected.ActiveDays[0].Year()
	}

	events := make([]Event, 0)
	for _, student := range ls.Students {
		if !paidInMonth(student, ps.Selected.Name, year) {
			continue
		}

		events = append(events, Event{
			Kind:    KindMonthlyCompleted,
			Message: e.printer.Sprintf("%s completed a contribution for %s.", student.Name, ps.Selected.Name),
		})
	}

	return events
}

func paidOn(student ledger.StudentSnapshot, day types.Date) bool {
	for _, entry := range student.Log {
		if entry.Kind == ledger.KindPayment && day.SameDay(entry.Date) {
			return true
		}
	}

	return false
}

func paidInMonth(student ledger.StudentSnapshot, month types.CollectionMonth, year int) bool {
	for _, entry := range student.Log {
		if entry.Kind != ledger.KindPayment || !month.Contains(entry.Date) {
			continue
		}

		if year == 0 || entry.Date.Year() == year {
			return true
		}
	}

	return false
}

// completionDate returns the date of the earliest payment at which the
// cumulative paid amount reached the target.
func completionDate(student ledger.StudentSnapshot) time.Time {
	sum := decimal.Zero
	for _, entry := range student.Log {
		if entry.Kind != ledger.KindPayment {
			continue
		}

		sum = sum.Add(entry.Amount)
		if sum.GreaterThanOrEqual(student.Target) {
			return entry.Date
		}
	}

	return time.Time{}
}
