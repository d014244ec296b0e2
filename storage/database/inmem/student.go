package inmemdb

import (
	"context"
	"sort"
	"strings"

	"github.com/edutrack/edutrack/core"
	"github.com/edutrack/edutrack/core/student"
)

type studentRepository struct {
	db *studentTable
}

var _ student.Repository = (*studentRepository)(nil)

func NewStudentRepository(db *DB) student.Repository {
	return &studentRepository{db: db.student}
}

func (repo *studentRepository) query() []student.Student {
	students := make([]student.Student, 0, len(repo.db.table))
	for _, s := range repo.db.table {
		students = append(students, *s)
	}
	return students
}

func (repo *studentRepository) UpsertStudent(_ context.Context, s student.Student) (bool, error) {
	repo.db.mutex.Lock()
	defer repo.db.mutex.Unlock()

	_, exists := repo.db.table[s.ID]
	repo.db.table[s.ID] = &s
	return !exists, nil
}

func (repo *studentRepository) GetStudent(_ context.Context, id string) (student.Student, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()

	if s, ok := repo.db.table[id]; ok {
		return *s, nil
	}
	return student.Student{}, student.ErrNotFound
}

// QueryStudents sorts by ID unless orderings are given; unknown fields are ignored.
func (repo *studentRepository) QueryStudents(_ context.Context, ordering ...core.Ordering) ([]student.Student, error) {
	repo.db.mutex.RLock()
	students := repo.query()
	repo.db.mutex.RUnlock()

	ordering = append(ordering, core.Ordering{Field: "id", Ascending: true})
	sort.SliceStable(students, func(i, j int) bool {
		for _, ord := range ordering {
			a, b := studentField(students[i], ord.Field), studentField(students[j], ord.Field)
			if a == b {
				continue
			}
			if ord.Ascending {
				return a < b
			}
			return a > b
		}
		return false
	})
	return students, nil
}

func (repo *studentRepository) CountStudents(_ context.Context) (int, error) {
	repo.db.mutex.RLock()
	defer repo.db.mutex.RUnlock()
	return len(repo.db.table), nil
}

func studentField(s student.Student, field string) string {
	switch field {
	case "id":
		return s.ID
	case "name":
		return strings.ToLower(s.Name)
	case "department":
		return strings.ToLower(s.Department)
	}
	return ""
}
