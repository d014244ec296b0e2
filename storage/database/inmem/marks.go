package inmemdb

import (
	"context"

	"github.com/edutrack/edutrack/core/marks"
)

type marksRepository struct {
	db *marksTable
}

var _ marks.Repository = (*marksRepository)(nil)

func NewMarksRepository(db *DB) marks.Repository {
	return &marksRepository{db: db.marks}
}

func (repo *marksRepository) AddMark(_ context.Context, m marks.Mark) error {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()
	repo.db.table = append(repo.db.table, m)
	return nil
}

func (repo *marksRepository) QueryMarks(_ context.Context) ([]marks.Mark, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return append([]marks.Mark{}, repo.db.table...), nil
}
