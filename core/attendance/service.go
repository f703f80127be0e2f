package attendance

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/taskly/core"
)

var (
	// errors
	ErrNotFound = errors.New("attendance not found")
)

type (
	Repository interface {
		// UpsertAttendance creates or overwrites the record of a.Date, keeping the original createdAt.
		UpsertAttendance(ctx context.Context, userID, subjectID string, a Attendance) (Attendance, error)
		// QueryAttendance returns the matching records, most recent date first.
		QueryAttendance(ctx context.Context, userID, subjectID string, filter QueryFilter) ([]Attendance, error)
		GetAttendanceByDate(ctx context.Context, userID, subjectID, date string) (Attendance, error)
		DeleteAttendance(ctx context.Context, userID, subjectID, date string) error
	}

	ServiceInterface interface {
		Upsert(ctx context.Context, userID, subjectID string, na NewAttendance) (Attendance, error)
		Query(ctx context.Context, userID, subjectID string, filter QueryFilter) ([]Attendance, error)
		GetByDate(ctx context.Context, userID, subjectID, date string) (Attendance, error)
		Delete(ctx context.Context, userID, subjectID, date string) error
		Stats(ctx context.Context, userID, subjectID string) (Stats, error)
	}

	Service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*Service)(nil) // interface compliance check

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func checkIDs(userID, subjectID string) error {
	if core.CleanString(userID) == "" {
		return core.NewArgumentError("userId", "user ID is required")
	}
	if core.CleanString(subjectID) == "" {
		return core.NewArgumentError("subjectId", "subject ID is required")
	}
	return nil
}

// Upsert records the attendance of na.Date for the subject; last write wins.
func (svc *Service) Upsert(ctx context.Context, userID, subjectID string, na NewAttendance) (Attendance, error) {
	if err := checkIDs(userID, subjectID); err != nil {
		return Attendance{}, err
	}
	a := Attendance{
		ID:          na.Date,
		Date:        na.Date,
		Status:      na.Status,
		SubjectID:   subjectID,
		SubjectName: na.SubjectName,
		Notes:       na.Notes,
	}
	a, err := svc.repo.UpsertAttendance(ctx, userID, subjectID, a)
	return a, errors.Wrap(err, "saving attendance")
}

func (svc *Service) Query(ctx context.Context, userID, subjectID string, filter QueryFilter) ([]Attendance, error) {
	if err := checkIDs(userID, subjectID); err != nil {
		return nil, err
	}
	if filter.Limit < 0 {
		return nil, core.NewArgumentError("limit", "limit must be a positive number")
	}
	records, err := svc.repo.QueryAttendance(ctx, userID, subjectID, filter)
	return records, errors.Wrap(err, "querying attendance")
}

func (svc *Service) GetByDate(ctx context.Context, userID, subjectID, date string) (Attendance, error) {
	if err := checkIDs(userID, subjectID); err != nil {
		return Attendance{}, err
	}
	return svc.repo.GetAttendanceByDate(ctx, userID, subjectID, date)
}

func (svc *Service) Delete(ctx context.Context, userID, subjectID, date string) error {
	if err := checkIDs(userID, subjectID); err != nil {
		return err
	}
	return errors.Wrap(svc.repo.DeleteAttendance(ctx, userID, subjectID, date), "deleting attendance")
}

// Stats computes the attendance statistics of one subject.
func (svc *Service) Stats(ctx context.Context, userID, subjectID string) (Stats, error) {
	if err := checkIDs(userID, subjectID); err != nil {
		return Stats{}, err
	}
	records, err := svc.repo.QueryAttendance(ctx, userID, subjectID, QueryFilter{})
	if err != nil {
		return Stats{}, errors.Wrap(err, "querying attendance")
	}
	return ComputeStats(records), nil
}
