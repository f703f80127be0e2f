package dashboard

import (
	"context"

	"github.com/trezcool/taskly/core/attendance"
	"github.com/trezcool/taskly/core/subject"
	"github.com/trezcool/taskly/core/task"
)

// Store is what the aggregator reads from.
type Store interface {
	ListTasks(ctx context.Context, userID string, filter task.QueryFilter) ([]task.Task, error)
	ListSubjects(ctx context.Context, userID string) ([]subject.Subject, error)
	ListAttendance(ctx context.Context, userID, subjectID string) ([]attendance.Attendance, error)
}

type repoStore struct {
	tasks      task.Repository
	subjects   subject.Repository
	attendance attendance.Repository
}

var _ Store = (*repoStore)(nil) // interface compliance check

// NewStore reads through the entity repositories.
func NewStore(tasks task.Repository, subjects subject.Repository, att attendance.Repository) Store {
	return &repoStore{tasks: tasks, subjects: subjects, attendance: att}
}

func (s *repoStore) ListTasks(ctx context.Context, userID string, filter task.QueryFilter) ([]task.Task, error) {
	return s.tasks.QueryTasks(ctx, userID, filter)
}

func (s *repoStore) ListSubjects(ctx context.Context, userID string) ([]subject.Subject, error) {
	return s.subjects.QueryAllSubjects(ctx, userID)
}

func (s *repoStore) ListAttendance(ctx context.Context, userID, subjectID string) ([]attendance.Attendance, error) {
	return s.attendance.QueryAttendance(ctx, userID, subjectID, attendance.QueryFilter{})
}
