// Package gateway implements the persistence gateway contracts of the
// ledger and the planner on top of the document store.
package gateway

import (
	"context"
	"errors"
	"sort"

	"github.com/classfund/backend/internal/ledger"
	"github.com/classfund/backend/internal/models"
	"github.com/classfund/backend/internal/planner"
	"github.com/classfund/backend/internal/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store implements ledger.Gateway and planner.Gateway.
type Store struct {
	db *gorm.DB
}

// New returns a gateway backed by the passed database.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// SaveStudent persists a student record and any log entries not yet
// stored. Entries are immutable, existing ones are never updated.
func (s *Store) SaveStudent(ctx context.Context, snapshot ledger.StudentSnapshot) error {
	student := models.Student{
		ID:      snapshot.ID,
		Name:    snapshot.Name,
		Balance: snapshot.Balance,
		Target:  snapshot.Target,
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&student).Error
		if err != nil {
			return err
		}

		if len(snapshot.Log) == 0 {
			return nil
		}

		logs := make([]models.TransactionLog, 0, len(snapshot.Log))
		for _, entry := range snapshot.Log {
			id := snapshot.ID
			logs = append(logs, models.TransactionLog{
				StudentID: &id,
				Seq:       entry.Seq,
				Kind:      string(entry.Kind),
				Amount:    entry.Amount,
				Note:      entry.Note,
				Date:      entry.Date,
			})
		}

		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "seq"}},
			DoNothing: true,
		}).Create(&logs).Error
	})
}

// DeleteStudent removes a student. Their log entries are detached into
// the class-level log so the class balance stays intact, and the row is
// dropped for good so the name is free for a new student.
func (s *Store) DeleteStudent(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.TransactionLog{}).
			Where("student_id = ?", id).
			Update("student_id", nil).Error
		if err != nil {
			return err
		}

		return tx.Unscoped().Delete(&models.Student{}, id).Error
	})
}

// FetchAllStudents returns all stored students with their logs.
func (s *Store) FetchAllStudents(ctx context.Context) ([]ledger.StudentSnapshot, error) {
	var students []models.Student

	err := s.db.WithContext(ctx).Preload("TransactionLogs").Find(&students).Error
	if err != nil {
		return nil, err
	}

	snapshots := make([]ledger.StudentSnapshot, 0, len(students))
	for _, student := range students {
		snapshot := ledger.StudentSnapshot{
			ID:      student.ID,
			Name:    student.Name,
			Balance: student.Balance,
			Target:  student.Target,
			Log:     toEntries(student.TransactionLogs),
		}
		snapshots = append(snapshots, snapshot)
	}

	return snapshots, nil
}

// SaveClassEntry persists one class-level log entry.
func (s *Store) SaveClassEntry(ctx context.Context, entry ledger.Entry) error {
	log := models.TransactionLog{
		Seq:    entry.Seq,
		Kind:   string(entry.Kind),
		Amount: entry.Amount,
		Note:   entry.Note,
		Date:   entry.Date,
	}

	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "seq"}},
		DoNothing: true,
	}).Create(&log).Error
}

// FetchClassEntries returns all class-level log entries.
func (s *Store) FetchClassEntries(ctx context.Context) ([]ledger.Entry, error) {
	var logs []models.TransactionLog

	err := s.db.WithContext(ctx).Where("student_id IS NULL").Find(&logs).Error
	if err != nil {
		return nil, err
	}

	return toEntries(logs), nil
}

// SaveCollection persists an immutable collection snapshot. Older records
// for the same month are kept.
func (s *Store) SaveCollection(ctx context.Context, snapshot planner.CollectionSnapshot) (uuid.UUID, error) {
	collection := models.Collection{
		Duration:    snapshot.Duration,
		DailyFund:   snapshot.DailyFund,
		MonthName:   snapshot.Month.String(),
		ActiveDays:  snapshot.Days,
		MonthlyFund: snapshot.Fund,
	}

	err := s.db.WithContext(ctx).Create(&collection).Error
	if err != nil {
		return uuid.Nil, err
	}

	return collection.ID, nil
}

// FetchCollectionByMonth returns the most recently saved collection
// record for a month, nil when none exists.
func (s *Store) FetchCollectionByMonth(ctx context.Context, month types.CollectionMonth) (*planner.CollectionSnapshot, error) {
	var collection models.Collection

	err := s.db.WithContext(ctx).
		Where(&models.Collection{MonthName: month.String()}).
		Order("created_at DESC").
		First(&collection).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return toCollectionSnapshot(collection)
}

// FetchLatestCollection returns the most recently saved collection
// record, nil when none exists.
func (s *Store) FetchLatestCollection(ctx context.Context) (*planner.CollectionSnapshot, error) {
	var collection models.Collection

	err := s.db.WithContext(ctx).Order("created_at DESC").First(&collection).Error
	if errors.Is(err, models.ErrResourceNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return toCollectionSnapshot(collection)
}

// DeleteCollection deletes one persisted collection record.
func (s *Store) DeleteCollection(ctx context.Context, id uuid.UUID) error {
	return s.db.WithContext(ctx).Delete(&models.Collection{}, "id = ?", id).Error
}

func toEntries(logs []models.TransactionLog) []ledger.Entry {
	sort.Slice(logs, func(i, j int) bool { return logs[i].Seq < logs[j].Seq })

	entries := make([]ledger.Entry, 0, len(logs))
	for _, log := range logs {
		entries = append(entries, ledger.Entry{
			Seq:    log.Seq,
			Kind:   ledger.Kind(log.Kind),
			Amount: log.Amount,
			Note:   log.Note,
			Date:   log.Date,
		})
	}

	return entries
}

func toCollectionSnapshot(collection models.Collection) (*planner.CollectionSnapshot, error) {
	month, err := types.ParseCollectionMonth(collection.MonthName)
	if err != nil {
		return nil, err
	}

	return &planner.CollectionSnapshot{
		ID:        collection.ID,
		Duration:  collection.Duration,
		DailyFund: collection.DailyFund,
		Month:     month,
		Days:      collection.ActiveDays,
		Fund:      collection.MonthlyFund,
	}, nil
}
