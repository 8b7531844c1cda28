package ledger

import (
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

// studentRecord is the mutable per-student state. Its mutex guards the
// balance and the log; the class mutex must be taken first when both are
// needed.
type studentRecord struct {
	mu      sync.Mutex
	id      uint64
	name    string
	balance decimal.Decimal
	target  decimal.Decimal
	log     []Entry
}

// Store exclusively owns all student and class balance state for the
// lifetime of the process. All mutation goes through the Processor; no
// ambient access to the internals exists.
//
// Lock order: classMu before mu before any studentRecord.mu. A reader
// holding classMu for reading therefore never observes a student balance
// without its matching class balance update, and vice versa.
type Store struct {
	mu       sync.RWMutex // guards students, names, nextID
	students map[uint64]*studentRecord
	names    map[string]uint64
	nextID   uint64

	classMu      sync.RWMutex // guards classBalance, classLog, lastSeq
	classBalance decimal.Decimal
	classLog     []Entry
	lastSeq      uint64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{
		students: make(map[uint64]*studentRecord),
		names:    make(map[string]uint64),
		nextID:   1,
	}
}

// Restore hydrates the store from persisted state. It must only be called
// before the store is shared between goroutines.
func (s *Store) Restore(students []StudentSnapshot, classLog []Entry) {
	balance := decimal.Zero

	for _, student := range students {
		record := &studentRecord{
			id:      student.ID,
			name:    student.Name,
			balance: student.Balance,
			target:  student.Target,
			log:     append([]Entry(nil), student.Log...),
		}
		s.students[student.ID] = record
		s.names[student.Name] = student.ID

		if student.ID >= s.nextID {
			s.nextID = student.ID + 1
		}

		for _, entry := range student.Log {
			balance = balance.Add(entry.Amount)
			if entry.Seq > s.lastSeq {
				s.lastSeq = entry.Seq
			}
		}
	}

	s.classLog = append([]Entry(nil), classLog...)
	for _, entry := range classLog {
		balance = balance.Add(entry.Amount)
		if entry.Seq > s.lastSeq {
			s.lastSeq = entry.Seq
		}
	}

	s.classBalance = balance
}

// nextSeq returns the next entry sequence number. Must be called with
// classMu held for writing.
func (s *Store) nextSeq() uint64 {
	s.lastSeq++
	return s.lastSeq
}

// student looks up a student record.
func (s *Store) student(id uint64) (*studentRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.students[id]
	return record, ok
}

// Balance returns the current balance of a student. The second return
// value reports whether the student exists.
func (s *Store) Balance(id uint64) (decimal.Decimal, bool) {
	record, ok := s.student(id)
	if !ok {
		return decimal.Zero, false
	}

	record.mu.Lock()
	defer record.mu.Unlock()
	return record.balance, true
}

// ClassBalance returns the current class-wide balance.
func (s *Store) ClassBalance() decimal.Decimal {
	s.classMu.RLock()
	defer s.classMu.RUnlock()
	return s.classBalance
}

// StudentCount returns the number of students.
func (s *Store) StudentCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.students)
}

// snapshotLocked copies a student record. The record's mutex must be held.
func snapshotLocked(record *studentRecord) StudentSnapshot {
	return StudentSnapshot{
		ID:      record.id,
		Name:    record.name,
		Balance: record.balance,
		Target:  record.target,
		Log:     append([]Entry(nil), record.log...),
	}
}

// Student returns a snapshot of a single student.
func (s *Store) Student(id uint64) (StudentSnapshot, bool) {
	record, ok := s.student(id)
	if !ok {
		return StudentSnapshot{}, false
	}

	record.mu.Lock()
	defer record.mu.Unlock()
	return snapshotLocked(record), true
}

// Snapshot returns a consistent copy of the whole ledger, students sorted
// by ID. Transactions apply their student and class mutation while
// holding the class mutex, so the copy never contains half of a
// transaction.
func (s *Store) Snapshot() Snapshot {
	s.classMu.RLock()
	defer s.classMu.RUnlock()

	s.mu.RLock()
	records := make([]*studentRecord, 0, len(s.students))
	for _, record := range s.students {
		records = append(records, record)
	}
	s.mu.RUnlock()

	students := make([]StudentSnapshot, 0, len(records))
	for _, record := range records {
		record.mu.Lock()
		students = append(students, snapshotLocked(record))
		record.mu.Unlock()
	}

	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })

	return Snapshot{
		Students:     students,
		ClassBalance: s.classBalance,
		ClassLog:     append([]Entry(nil), s.classLog...),
		LastSeq:      s.lastSeq,
	}
}
