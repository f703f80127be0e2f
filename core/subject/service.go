package subject

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/taskly/core"
)

var (
	// errors
	ErrNotFound    = errors.New("subject not found")
	errEmptyUpdate = errors.New("at least one field must be provided for update")
)

type (
	Repository interface {
		CreateSubject(ctx context.Context, userID string, s Subject) (Subject, error)
		QueryAllSubjects(ctx context.Context, userID string) ([]Subject, error)
		GetSubjectByID(ctx context.Context, userID, id string) (Subject, error)
		UpdateSubject(ctx context.Context, userID, id string, us UpdateSubject) (Subject, error)
		// DeleteSubject removes the subject only; tasks, notes & attendance records stay.
		DeleteSubject(ctx context.Context, userID, id string) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, userID string, ns NewSubject) (Subject, error)
		QueryAll(ctx context.Context, userID string) ([]Subject, error)
		GetByID(ctx context.Context, userID, id string) (Subject, error)
		Update(ctx context.Context, userID, id string, us UpdateSubject) (Subject, error)
		Delete(ctx context.Context, userID, id string) error
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil) // interface compliance check

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func checkUserID(userID string) error {
	if core.CleanString(userID) == "" {
		return core.NewArgumentError("userId", "user ID is required")
	}
	return nil
}

func (svc *Service) Create(ctx context.Context, userID string, ns NewSubject) (Subject, error) {
	if err := checkUserID(userID); err != nil {
		return Subject{}, err
	}

	s := Subject{
		SubjectName:   ns.SubjectName,
		TeacherName:   ns.TeacherName,
		Color:         ns.Color,
		Icon:          ns.Icon,
		ClassTime:     ns.ClassTime,
		ClassEndTime:  ns.ClassEndTime,
		Semester:      ns.Semester,
		Year:          ns.Year,
		CollegePeriod: ns.CollegePeriod,
		DaysOfWeek:    ns.DaysOfWeek,
	}
	if ns.TotalClasses != nil {
		s.TotalClasses = *ns.TotalClasses
	}
	if s.DaysOfWeek == nil {
		s.DaysOfWeek = []string{}
	}

	s, err := svc.repo.CreateSubject(ctx, userID, s)
	return s, errors.Wrap(err, "creating subject")
}

func (svc *Service) QueryAll(ctx context.Context, userID string) ([]Subject, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}
	subjects, err := svc.repo.QueryAllSubjects(ctx, userID)
	return subjects, errors.Wrap(err, "querying subjects")
}

func (svc *Service) GetByID(ctx context.Context, userID, id string) (Subject, error) {
	if err := checkUserID(userID); err != nil {
		return Subject{}, err
	}
	return svc.repo.GetSubjectByID(ctx, userID, id)
}

func (svc *Service) Update(ctx context.Context, userID, id string, us UpdateSubject) (Subject, error) {
	if err := checkUserID(userID); err != nil {
		return Subject{}, err
	}
	us.ID, us.CreatedAt = nil, nil

	s, err := svc.repo.UpdateSubject(ctx, userID, id, us)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Subject{}, ErrNotFound
		}
		return Subject{}, errors.Wrap(err, "updating subject")
	}
	return s, nil
}

func (svc *Service) Delete(ctx context.Context, userID, id string) error {
	if err := checkUserID(userID); err != nil {
		return err
	}
	return errors.Wrap(svc.repo.DeleteSubject(ctx, userID, id), "deleting subject")
}
