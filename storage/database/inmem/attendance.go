package inmemdb

import (
	"context"

	"github.com/edutrack/edutrack/core/attendance"
)

type attendanceRepository struct {
	db *attendanceTable
}

var _ attendance.Repository = (*attendanceRepository)(nil)

func NewAttendanceRepository(db *DB) attendance.Repository {
	return &attendanceRepository{db: db.attendance}
}

func (repo *attendanceRepository) AddDailyRecord(_ context.Context, rec attendance.Record) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	for _, r := range repo.db.daily {
		if r.Date == rec.Date && r.StudentID == rec.StudentID {
			return attendance.ErrAlreadyMarked
		}
	}
	repo.db.daily = append(repo.db.daily, rec)
	return nil
}

func (repo *attendanceRepository) QueryDailyRecords(_ context.Context, date string) ([]attendance.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	records := make([]attendance.Record, 0)
	for _, r := range repo.db.daily {
		if r.Date == date {
			records = append(records, r)
		}
	}
	return records, nil
}

func (repo *attendanceRepository) QueryHistory(_ context.Context) ([]attendance.Record, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return append([]attendance.Record{}, repo.db.history...), nil
}

func (repo *attendanceRepository) ArchiveDailyRecords(_ context.Context) (int, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	n := len(repo.db.daily)
	repo.db.history = append(repo.db.history, repo.db.daily...)
	repo.db.daily = nil
	return n, nil
}
