package dashboard

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/trezcool/taskly/core"
	"github.com/trezcool/taskly/core/attendance"
	"github.com/trezcool/taskly/core/subject"
	"github.com/trezcool/taskly/core/task"
)

type (
	ServiceInterface interface {
		GetOverview(ctx context.Context, userID string, opts Options) (Overview, error)
		GetTasksSummary(ctx context.Context, userID string) (TasksSummary, error)
		GetUpcomingTasks(ctx context.Context, userID string, limit int) ([]UpcomingTask, error)
	}

	Service struct {
		store             Store
		clock             core.Clock
		logger            core.Logger
		attendanceTimeout time.Duration
	}
)

var _ ServiceInterface = (*Service)(nil) // interface compliance check

// NewService returns the dashboard aggregator.
// attendanceTimeout bounds the per-subject attendance fan-out; 0 disables it.
func NewService(store Store, clock core.Clock, logger core.Logger, attendanceTimeout time.Duration) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		store:             store,
		clock:             clock,
		logger:            logger,
		attendanceTimeout: attendanceTimeout,
	}
}

func (svc *Service) today() int {
	return core.DateInt(svc.clock())
}

func checkUserID(userID string) error {
	if core.CleanString(userID) == "" {
		return core.NewArgumentError("userId", "user ID is required")
	}
	return nil
}

func checkLimit(arg string, limit int) (int, error) {
	if limit < 0 {
		return 0, core.NewArgumentError(arg, "must be a positive number")
	}
	if limit == 0 {
		return DefaultUpcomingLimit, nil
	}
	return limit, nil
}

// GetOverview builds the whole dashboard for userID.
//
// Tasks and subjects are fetched concurrently and either failure aborts with an *AggregationError.
// Attendance is then fetched per subject; a subject whose fetch fails is logged and counted as
// having no records.
func (svc *Service) GetOverview(ctx context.Context, userID string, opts Options) (Overview, error) {
	if err := checkUserID(userID); err != nil {
		return Overview{}, err
	}
	limit, err := checkLimit("upcomingLimit", opts.UpcomingLimit)
	if err != nil {
		return Overview{}, err
	}

	var (
		tasks    []task.Task
		subjects []subject.Subject
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if tasks, err = svc.store.ListTasks(gctx, userID, task.QueryFilter{}); err != nil {
			return &AggregationError{Op: "tasks", UserID: userID, Err: err}
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if subjects, err = svc.store.ListSubjects(gctx, userID); err != nil {
			return &AggregationError{Op: "subjects", UserID: userID, Err: err}
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Overview{}, err
	}

	task.RecomputeOverdue(tasks, svc.today())

	records := svc.fetchAttendance(ctx, userID, subjects)

	ov := Overview{
		UpcomingTasks:   upcoming(tasks, limit),
		TasksSummary:    summarize(tasks),
		SubjectsSummary: make([]SubjectSummary, 0, len(subjects)),
	}

	pending := make(map[string]int)
	for _, t := range tasks {
		if t.Status == task.StatusPending {
			pending[t.SubjectID]++
		}
	}

	var total attendance.Stats
	for i, sub := range subjects {
		stats := attendance.ComputeStats(records[i])
		total = total.Merge(stats)
		ov.SubjectsSummary = append(ov.SubjectsSummary, SubjectSummary{
			SubjectID:    sub.ID,
			SubjectName:  sub.SubjectName,
			Color:        sub.Color,
			Icon:         sub.Icon,
			PendingTasks: pending[sub.ID],
			Attendance: SubjectAttendance{
				AttendanceSummary: newAttendanceSummary(stats),
				IsAtRisk:          stats.IsAtRisk(),
			},
		})
	}
	ov.AttendanceSummary = newAttendanceSummary(total)

	return ov, nil
}

// fetchAttendance returns the attendance records of every subject, indexed like subjects.
func (svc *Service) fetchAttendance(ctx context.Context, userID string, subjects []subject.Subject) [][]attendance.Attendance {
	if svc.attendanceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, svc.attendanceTimeout)
		defer cancel()
	}

	records := make([][]attendance.Attendance, len(subjects))
	var wg sync.WaitGroup
	for i, sub := range subjects {
		wg.Add(1)
		go func(i int, subjectID string) {
			defer wg.Done()
			recs, err := svc.store.ListAttendance(ctx, userID, subjectID)
			if err != nil {
				svc.logger.Warn(
					"dashboard: attendance fetch failed, subject counted as empty",
					err,
					map[string]interface{}{"userId": userID, "subjectId": subjectID},
				)
				return
			}
			records[i] = recs
		}(i, sub.ID)
	}
	wg.Wait()

	return records
}

func (svc *Service) GetTasksSummary(ctx context.Context, userID string) (TasksSummary, error) {
	if err := checkUserID(userID); err != nil {
		return TasksSummary{}, err
	}
	tasks, err := svc.store.ListTasks(ctx, userID, task.QueryFilter{})
	if err != nil {
		return TasksSummary{}, &AggregationError{Op: "tasks summary", UserID: userID, Err: err}
	}
	task.RecomputeOverdue(tasks, svc.today())
	return summarize(tasks), nil
}

// GetUpcomingTasks returns the next pending tasks that are not overdue, earliest first.
// limit 0 means DefaultUpcomingLimit.
func (svc *Service) GetUpcomingTasks(ctx context.Context, userID string, limit int) ([]UpcomingTask, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}
	limit, err := checkLimit("limit", limit)
	if err != nil {
		return nil, err
	}
	tasks, err := svc.store.ListTasks(ctx, userID, task.QueryFilter{Status: task.StatusPending})
	if err != nil {
		return nil, &AggregationError{Op: "upcoming tasks", UserID: userID, Err: err}
	}
	task.RecomputeOverdue(tasks, svc.today())
	return upcoming(tasks, limit), nil
}

// summarize expects IsOverdue to be fresh.
func summarize(tasks []task.Task) TasksSummary {
	s := TasksSummary{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case task.StatusPending:
			s.Pending++
			if t.IsOverdue {
				s.Overdue++
			}
		case task.StatusDelivered:
			s.Delivered++
		case task.StatusCompleted:
			s.Completed++
		}
	}
	return s
}

// upcoming expects IsOverdue to be fresh. tasks is left untouched.
func upcoming(tasks []task.Task, limit int) []UpcomingTask {
	candidates := make([]task.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Status == task.StatusPending && !t.IsOverdue {
			candidates = append(candidates, t)
		}
	}
	task.SortByDueOn(candidates)
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	views := make([]UpcomingTask, 0, len(candidates))
	for _, t := range candidates {
		views = append(views, newUpcomingTask(t))
	}
	return views
}
