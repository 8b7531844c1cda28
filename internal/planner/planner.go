// Package planner implements the collection planning engine: duration,
// daily fund and active collection days per month, and the monthly fund
// target derived from them.
package planner

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/classfund/backend/internal/types"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MonthDetail is the read model of one month record. Active days are
// chronological for display; storage order is unordered.
type MonthDetail struct {
	Name        types.CollectionMonth `json:"monthName"`
	ActiveDays  []types.Date          `json:"activeDays"`
	MonthlyFund decimal.Decimal       `json:"monthlyFund"`
}

// Snapshot is a point-in-time copy of the planner configuration.
type Snapshot struct {
	Duration  int             `json:"duration"`
	DailyFund decimal.Decimal `json:"dailyFund"`
	Selected  MonthDetail     `json:"selectedMonth"`
}

// HasSelection reports whether a month is currently selected.
func (s Snapshot) HasSelection() bool {
	return !s.Selected.Name.IsZero()
}

// CollectionSnapshot is the immutable record of a saved configuration.
type CollectionSnapshot struct {
	ID        uuid.UUID             `json:"id"`
	Duration  int                   `json:"duration"`
	DailyFund decimal.Decimal       `json:"dailyFund"`
	Month     types.CollectionMonth `json:"monthName"`
	Days      []types.Date          `json:"activeDays"`
	Fund      decimal.Decimal       `json:"monthlyFund"`
}

// Gateway is the persistence contract for collection records.
type Gateway interface {
	SaveCollection(ctx context.Context, collection CollectionSnapshot) (uuid.UUID, error)
	FetchCollectionByMonth(ctx context.Context, month types.CollectionMonth) (*CollectionSnapshot, error)
	FetchLatestCollection(ctx context.Context) (*CollectionSnapshot, error)
	DeleteCollection(ctx context.Context, id uuid.UUID) error
}

type monthRecord struct {
	name types.CollectionMonth
	days []types.Date
}

// Planner owns the month records and the collection settings. It never
// touches ledger state; the processor and the notification engine read
// its derived target amounts through snapshots.
type Planner struct {
	mu        sync.Mutex
	duration  int
	dailyFund decimal.Decimal
	months    map[types.CollectionMonth]*monthRecord
	selected  types.CollectionMonth
	gateway   Gateway
}

// New returns a planner with no configuration.
func New(gateway Gateway) *Planner {
	return &Planner{
		months:  make(map[types.CollectionMonth]*monthRecord),
		gateway: gateway,
	}
}

// SetDuration sets the collection duration from treasurer input. Only
// digit characters are considered; anything else is dropped before
// parsing.
func (p *Planner) SetDuration(input string) (int, error) {
	var digits strings.Builder
	for _, r := range input {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}

	if digits.Len() == 0 {
		return 0, ErrInvalidDuration
	}

	duration, err := strconv.Atoi(digits.String())
	if err != nil || duration <= 0 {
		return 0, ErrInvalidDuration
	}

	p.mu.Lock()
	p.duration = duration
	p.mu.Unlock()

	return duration, nil
}

// SetDailyFund sets the per-student daily contribution from treasurer
// input. Digits and at most one decimal point are accepted.
func (p *Planner) SetDailyFund(input string) (decimal.Decimal, error) {
	var filtered strings.Builder
	dots := 0
	for _, r := range input {
		switch {
		case r >= '0' && r <= '9':
			filtered.WriteRune(r)
		case r == '.':
			dots++
			filtered.WriteRune(r)
		}
	}

	if filtered.Len() == 0 || dots > 1 {
		return decimal.Zero, ErrInvalidDailyFund
	}

	fund, err := decimal.NewFromString(filtered.String())
	if err != nil || !fund.IsPositive() {
		return decimal.Zero, ErrInvalidDailyFund
	}

	p.mu.Lock()
	p.dailyFund = fund
	p.mu.Unlock()

	return fund, nil
}

// SelectMonth selects a month, creating its record on first selection.
// Selecting an already known month returns the existing record.
func (p *Planner) SelectMonth(name types.CollectionMonth) MonthDetail {
	p.mu.Lock()
	defer p.mu.Unlock()

	record, ok := p.months[name]
	if !ok {
		record = &monthRecord{name: name}
		p.months[name] = record
	}
	p.selected = name

	return p.detailLocked(record)
}

// AddActiveDay appends a collection day to a month that was selected
// before. Duplicate dates are appended as-is and inflate the monthly
// fund; deduplicating here would change the observed target amounts.
// TODO: clarify with the treasurers whether duplicate dates should be
// rejected instead.
func (p *Planner) AddActiveDay(name types.CollectionMonth, day types.Date) (MonthDetail, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	record, ok := p.months[name]
	if !ok {
		return MonthDetail{}, ErrUnknownMonth
	}

	record.days = append(record.days, day)

	return p.detailLocked(record), nil
}

// Month returns the record for a month that was selected before.
func (p *Planner) Month(name types.CollectionMonth) (MonthDetail, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	record, ok := p.months[name]
	if !ok {
		return MonthDetail{}, ErrUnknownMonth
	}

	return p.detailLocked(record), nil
}

// MonthlyFund returns dailyFund times the number of active days of the
// selected month. It is zero while the configuration is incomplete.
func (p *Planner) MonthlyFund() decimal.Decimal {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.monthlyFundLocked()
}

func (p *Planner) monthlyFundLocked() decimal.Decimal {
	record, ok := p.months[p.selected]
	if !ok {
		return decimal.Zero
	}

	return p.dailyFund.Mul(decimal.NewFromInt(int64(len(record.days))))
}

func (p *Planner) detailLocked(record *monthRecord) MonthDetail {
	days := append([]types.Date(nil), record.days...)
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	return MonthDetail{
		Name:        record.name,
		ActiveDays:  days,
		MonthlyFund: p.dailyFund.Mul(decimal.NewFromInt(int64(len(record.days)))),
	}
}

// Save emits an immutable collection snapshot and requests persistence.
// It fails when the settings or the month selection are incomplete.
func (p *Planner) Save(ctx context.Context) (CollectionSnapshot, error) {
	p.mu.Lock()

	record, ok := p.months[p.selected]
	if p.duration <= 0 || !p.dailyFund.IsPositive() || !ok {
		p.mu.Unlock()
		return CollectionSnapshot{}, ErrIncompleteConfiguration
	}

	snapshot := CollectionSnapshot{
		Duration:  p.duration,
		DailyFund: p.dailyFund,
		Month:     record.name,
		Days:      append([]types.Date(nil), record.days...),
		Fund:      p.monthlyFundLocked(),
	}
	p.mu.Unlock()

	id, err := p.gateway.SaveCollection(ctx, snapshot)
	if err != nil {
		return CollectionSnapshot{}, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	snapshot.ID = id

	return snapshot, nil
}

// Delete resets the in-memory configuration: settings to zero, month
// records dropped, selection cleared. Persisted collection records are
// not touched; use DeleteRecord for those.
func (p *Planner) Delete() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.duration = 0
	p.dailyFund = decimal.Zero
	p.months = make(map[types.CollectionMonth]*monthRecord)
	p.selected = ""
}

// DeleteRecord deletes one persisted collection record.
func (p *Planner) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	if err := p.gateway.DeleteCollection(ctx, id); err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return nil
}

// FetchRecord returns the persisted collection record for a month, nil
// when none exists.
func (p *Planner) FetchRecord(ctx context.Context, month types.CollectionMonth) (*CollectionSnapshot, error) {
	return p.gateway.FetchCollectionByMonth(ctx, month)
}

// FetchLatestRecord returns the most recently persisted collection
// record, nil when none exists.
func (p *Planner) FetchLatestRecord(ctx context.Context) (*CollectionSnapshot, error) {
	return p.gateway.FetchLatestCollection(ctx)
}

// Restore hydrates the planner from a persisted collection record.
func (p *Planner) Restore(snapshot CollectionSnapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.duration = snapshot.Duration
	p.dailyFund = snapshot.DailyFund
	p.months[snapshot.Month] = &monthRecord{
		name: snapshot.Month,
		days: append([]types.Date(nil), snapshot.Days...),
	}
	p.selected = snapshot.Month
}

// Snapshot returns a point-in-time copy of the configuration.
func (p *Planner) Snapshot() Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	snapshot := Snapshot{
		Duration:  p.duration,
		DailyFund: p.dailyFund,
	}

	if record, ok := p.months[p.selected]; ok {
		snapshot.Selected = p.detailLocked(record)
	}

	return snapshot
}
