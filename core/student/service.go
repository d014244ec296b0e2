package student

import (
	"context"

	"github.com/pkg/errors"

	"github.com/edutrack/edutrack/core"
)

var ErrNotFound = errors.New("student not found")

type (
	Repository interface {
		// UpsertStudent creates the student or replaces the one with the same ID.
		UpsertStudent(ctx context.Context, s Student) (created bool, err error)
		GetStudent(ctx context.Context, id string) (Student, error)
		QueryStudents(ctx context.Context, ordering ...core.Ordering) ([]Student, error)
		CountStudents(ctx context.Context) (int, error)
	}

	Service interface {
		Upsert(ctx context.Context, ns NewStudent) (s Student, created bool, err error)
		Get(ctx context.Context, id string) (Student, error)
		QueryAll(ctx context.Context, ordering ...core.Ordering) ([]Student, error)
		Count(ctx context.Context) (int, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) Upsert(ctx context.Context, ns NewStudent) (Student, bool, error) {
	s := Student{
		ID:          core.CleanString(ns.ID),
		Name:        ns.Name,
		Department:  ns.Department,
		ParentName:  ns.ParentName,
		ParentPhone: ns.ParentPhone,
		ParentEmail: ns.ParentEmail,
	}
	created, err := svc.repo.UpsertStudent(ctx, s)
	if err != nil {
		return Student{}, false, errors.Wrap(err, "saving student")
	}
	return s, created, nil
}

func (svc *service) Get(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudent(ctx, core.CleanString(id))
}

func (svc *service) QueryAll(ctx context.Context, ordering ...core.Ordering) ([]Student, error) {
	return svc.repo.QueryStudents(ctx, ordering...)
}

func (svc *service) Count(ctx context.Context) (int, error) {
	return svc.repo.CountStudents(ctx)
}
