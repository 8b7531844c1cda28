package ledger

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AddStudentCommand adds a student to the class.
type AddStudentCommand struct {
	Name string
}

// RemoveStudentCommand removes a student and their log.
type RemoveStudentCommand struct {
	ID uint64
}

// PaymentCommand records a contribution payment for one student.
type PaymentCommand struct {
	StudentID uint64
	Amount    decimal.Decimal
}

// WithdrawalCommand takes money out of the class balance.
type WithdrawalCommand struct {
	Amount  decimal.Decimal
	Purpose string
}

// ExternalFundCommand records externally sourced money on the class
// balance.
type ExternalFundCommand struct {
	Amount decimal.Decimal
	Source string
}

// Processor validates commands and applies them to the store. Checks run
// strictly before any mutation; a rejected command leaves no trace. The
// in-memory state is updated optimistically and rolled back when the
// gateway does not acknowledge the change.
type Processor struct {
	store     *Store
	gateway   Gateway
	targets   TargetSource
	publisher Publisher
}

// NewProcessor returns a processor for the store. targets and publisher
// may be nil.
func NewProcessor(store *Store, gateway Gateway, targets TargetSource, publisher Publisher) *Processor {
	return &Processor{
		store:     store,
		gateway:   gateway,
		targets:   targets,
		publisher: publisher,
	}
}

// validateAmount enforces the currency-minor-unit convention: positive,
// at most two fraction digits. Exact decimal comparison, no float
// equality.
func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrNonPositiveAmount
	}

	if !amount.Equal(amount.Truncate(2)) {
		return ErrMalformedAmount
	}

	return nil
}

// AddStudent adds a student with the next sequential ID. The target
// amount defaults to the currently configured monthly fund.
func (p *Processor) AddStudent(ctx context.Context, cmd AddStudentCommand) (uint64, error) {
	name := strings.TrimSpace(cmd.Name)
	if name == "" {
		return 0, ErrBlankName
	}

	target := decimal.Zero
	if p.targets != nil {
		target = p.targets.MonthlyFund()
	}

	s := p.store

	s.mu.Lock()
	if _, exists := s.names[name]; exists {
		s.mu.Unlock()
		return 0, ErrDuplicateName
	}

	record := &studentRecord{
		id:     s.nextID,
		name:   name,
		target: target,
	}
	s.nextID++
	s.students[record.id] = record
	s.names[name] = record.id
	s.mu.Unlock()

	if err := p.gateway.SaveStudent(ctx, snapshotLocked(record)); err != nil {
		s.mu.Lock()
		delete(s.students, record.id)
		delete(s.names, name)
		s.mu.Unlock()

		return 0, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return record.id, nil
}

// RemoveStudent removes a student. Their payment entries move into the
// class-level log, the class balance keeps the money they contributed.
// Removing an absent ID is a no-op.
func (p *Processor) RemoveStudent(ctx context.Context, cmd RemoveStudentCommand) error {
	s := p.store

	s.classMu.Lock()
	s.mu.Lock()
	record, ok := s.students[cmd.ID]
	if !ok {
		s.mu.Unlock()
		s.classMu.Unlock()
		return nil
	}

	delete(s.students, cmd.ID)
	delete(s.names, record.name)

	record.mu.Lock()
	moved := append([]Entry(nil), record.log...)
	record.mu.Unlock()

	s.classLog = append(s.classLog, moved...)
	sort.Slice(s.classLog, func(i, j int) bool { return s.classLog[i].Seq < s.classLog[j].Seq })

	s.mu.Unlock()
	s.classMu.Unlock()

	if err := p.gateway.DeleteStudent(ctx, cmd.ID); err != nil {
		s.classMu.Lock()
		s.mu.Lock()
		s.students[cmd.ID] = record
		s.names[record.name] = cmd.ID
		for _, entry := range moved {
			s.classLog = removeEntry(s.classLog, entry.Seq)
		}
		s.mu.Unlock()
		s.classMu.Unlock()

		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	return nil
}

// RecordPayment appends a payment entry and raises the student and class
// balances as one atomic unit. It returns the new student balance.
func (p *Processor) RecordPayment(ctx context.Context, cmd PaymentCommand) (decimal.Decimal, error) {
	if err := validateAmount(cmd.Amount); err != nil {
		return decimal.Zero, err
	}

	s := p.store

	// Membership is checked under the class mutex, a concurrent removal
	// cannot slip in between the lookup and the mutation.
	s.classMu.Lock()
	s.mu.RLock()
	record, ok := s.students[cmd.StudentID]
	s.mu.RUnlock()
	if !ok {
		s.classMu.Unlock()
		return decimal.Zero, ErrUnknownStudent
	}

	record.mu.Lock()

	entry := Entry{
		Seq:    s.nextSeq(),
		Kind:   KindPayment,
		Amount: cmd.Amount,
		Date:   time.Now().In(time.UTC),
	}
	record.log = append(record.log, entry)
	record.balance = record.balance.Add(cmd.Amount)
	s.classBalance = s.classBalance.Add(cmd.Amount)

	newBalance := record.balance
	classBalance := s.classBalance
	snapshot := snapshotLocked(record)

	record.mu.Unlock()
	s.classMu.Unlock()

	if err := p.gateway.SaveStudent(ctx, snapshot); err != nil {
		s.classMu.Lock()
		record.mu.Lock()
		record.log = removeEntry(record.log, entry.Seq)
		record.balance = record.balance.Sub(cmd.Amount)
		// The entry sits in the class log when the student was removed in
		// the meantime
		s.classLog = removeEntry(s.classLog, entry.Seq)
		s.classBalance = s.classBalance.Sub(cmd.Amount)
		record.mu.Unlock()
		s.classMu.Unlock()

		return decimal.Zero, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	p.publish(ctx, TransactionEvent{
		Kind:           KindPayment,
		StudentID:      &cmd.StudentID,
		Amount:         cmd.Amount,
		StudentBalance: &newBalance,
		ClassBalance:   classBalance,
		Timestamp:      entry.Date,
	})

	return newBalance, nil
}

// RecordWithdrawal lowers the class balance and appends a withdrawal
// entry to the class-level log. It returns the new class balance.
func (p *Processor) RecordWithdrawal(ctx context.Context, cmd WithdrawalCommand) (decimal.Decimal, error) {
	if err := validateAmount(cmd.Amount); err != nil {
		return decimal.Zero, err
	}

	s := p.store

	s.classMu.Lock()
	if cmd.Amount.GreaterThan(s.classBalance) {
		s.classMu.Unlock()
		return decimal.Zero, ErrInsufficientBalance
	}

	entry := Entry{
		Seq:    s.nextSeq(),
		Kind:   KindWithdrawal,
		Amount: cmd.Amount.Neg(),
		Date:   time.Now().In(time.UTC),
		Note:   cmd.Purpose,
	}
	s.classLog = append(s.classLog, entry)
	s.classBalance = s.classBalance.Sub(cmd.Amount)
	classBalance := s.classBalance
	s.classMu.Unlock()

	if err := p.gateway.SaveClassEntry(ctx, entry); err != nil {
		s.classMu.Lock()
		s.classLog = removeEntry(s.classLog, entry.Seq)
		s.classBalance = s.classBalance.Add(cmd.Amount)
		s.classMu.Unlock()

		return decimal.Zero, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	p.publish(ctx, TransactionEvent{
		Kind:         KindWithdrawal,
		Amount:       cmd.Amount.Neg(),
		ClassBalance: classBalance,
		Timestamp:    entry.Date,
	})

	return classBalance, nil
}

// RecordExternalFund raises the class balance and appends an
// external-fund entry to the class-level log. It returns the new class
// balance.
func (p *Processor) RecordExternalFund(ctx context.Context, cmd ExternalFundCommand) (decimal.Decimal, error) {
	if err := validateAmount(cmd.Amount); err != nil {
		return decimal.Zero, err
	}

	s := p.store

	s.classMu.Lock()
	entry := Entry{
		Seq:    s.nextSeq(),
		Kind:   KindExternalFund,
		Amount: cmd.Amount,
		Date:   time.Now().In(time.UTC),
		Note:   cmd.Source,
	}
	s.classLog = append(s.classLog, entry)
	s.classBalance = s.classBalance.Add(cmd.Amount)
	classBalance := s.classBalance
	s.classMu.Unlock()

	if err := p.gateway.SaveClassEntry(ctx, entry); err != nil {
		s.classMu.Lock()
		s.classLog = removeEntry(s.classLog, entry.Seq)
		s.classBalance = s.classBalance.Sub(cmd.Amount)
		s.classMu.Unlock()

		return decimal.Zero, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	p.publish(ctx, TransactionEvent{
		Kind:         KindExternalFund,
		Amount:       cmd.Amount,
		ClassBalance: classBalance,
		Timestamp:    entry.Date,
	})

	return classBalance, nil
}

func (p *Processor) publish(ctx context.Context, event TransactionEvent) {
	if p.publisher == nil {
		return
	}

	if err := p.publisher.PublishTransaction(ctx, event); err != nil {
		log.Warn().Err(err).Str("kind", string(event.Kind)).Msg("transaction event not published")
	}
}

// removeEntry drops the entry with the given sequence number.
func removeEntry(entries []Entry, seq uint64) []Entry {
	for i, entry := range entries {
		if entry.Seq == seq {
			return append(entries[:i], entries[i+1:]...)
		}
	}

	return entries
}
