package inmemdb

import (
	"sync"

	"github.com/edutrack/edutrack/core"
	"github.com/edutrack/edutrack/core/attendance"
	"github.com/edutrack/edutrack/core/batch"
	"github.com/edutrack/edutrack/core/marks"
	"github.com/edutrack/edutrack/core/student"
)

type (
	// DB holds every table in memory; nothing survives a restart.
	DB struct {
		student    *studentTable
		attendance *attendanceTable
		marks      *marksTable
		batch      *batchTable
	}

	studentTable struct {
		table map[string]*student.Student
		mutex sync.RWMutex
	}

	attendanceTable struct {
		daily   []attendance.Record
		history []attendance.Record
		mutex   sync.RWMutex
	}

	marksTable struct {
		table []marks.Mark
		mutex sync.RWMutex
	}

	batchTable struct {
		table map[core.Session]*batch.Batch
		mutex sync.RWMutex
	}
)

func Open() *DB {
	return &DB{
		student:    &studentTable{table: make(map[string]*student.Student)},
		attendance: &attendanceTable{},
		marks:      &marksTable{},
		batch:      &batchTable{table: make(map[core.Session]*batch.Batch)},
	}
}
