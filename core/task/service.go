package task

import (
	"context"
	"sort"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/taskly/core"
)

var (
	// errors
	ErrNotFound    = errors.New("task not found")
	errEmptyUpdate = errors.New("at least one field must be provided for update")
)

type (
	Repository interface {
		CreateTask(ctx context.Context, userID string, t Task) (Task, error)
		// QueryTasks applies the store-side filters (everything but IsOverdue), in storage order.
		QueryTasks(ctx context.Context, userID string, filter QueryFilter) ([]Task, error)
		GetTaskByID(ctx context.Context, userID, id string) (Task, error)
		UpdateTask(ctx context.Context, userID, id string, ut UpdateTask) (Task, error)
		DeleteTask(ctx context.Context, userID, id string) error
	}

	ServiceInterface interface {
		Create(ctx context.Context, userID string, nt NewTask) (Task, error)
		Query(ctx context.Context, userID string, filter QueryFilter) ([]Task, error)
		GetByID(ctx context.Context, userID, id string) (Task, error)
		Update(ctx context.Context, userID, id string, ut UpdateTask) (Task, error)
		Delete(ctx context.Context, userID, id string) error
	}

	Service struct {
		repo  Repository
		clock core.Clock
	}
)

var _ ServiceInterface = (*Service)(nil) // interface compliance check

func NewService(repo Repository, clock core.Clock) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{repo: repo, clock: clock}
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

// Create stores a new Task. A caller-supplied IsOverdue is kept as is; otherwise it is computed.
func (svc *Service) Create(ctx context.Context, userID string, nt NewTask) (Task, error) {
	if err := checkUserID(userID); err != nil {
		return Task{}, err
	}

	t := Task{
		Title:       nt.Title,
		Type:        nt.Type,
		Status:      nt.Status,
		SubjectID:   nt.SubjectID,
		SubjectName: nt.SubjectName,
		DueOn:       nt.DueOn,
		Notes:       nt.Notes,
	}
	if nt.IsOverdue != nil {
		t.IsOverdue = *nt.IsOverdue
	} else {
		t.IsOverdue = IsOverdue(t.DueOn, t.Status, svc.today())
	}

	t, err := svc.repo.CreateTask(ctx, userID, t)
	return t, errors.Wrap(err, "creating task")
}

// Query lists the user's tasks, sorted by due date (earliest first), with IsOverdue recomputed.
func (svc *Service) Query(ctx context.Context, userID string, filter QueryFilter) ([]Task, error) {
	if err := checkUserID(userID); err != nil {
		return nil, err
	}
	filter.Clean()

	tasks, err := svc.repo.QueryTasks(ctx, userID, filter)
	if err != nil {
		return nil, errors.Wrap(err, "querying tasks")
	}
	RecomputeOverdue(tasks, svc.today())

	if filter.IsOverdue != nil {
		kept := tasks[:0]
		for _, t := range tasks {
			if t.IsOverdue == *filter.IsOverdue {
				kept = append(kept, t)
			}
		}
		tasks = kept
	}

	SortByDueOn(tasks)
	return tasks, nil
}

func (svc *Service) GetByID(ctx context.Context, userID, id string) (Task, error) {
	if err := checkUserID(userID); err != nil {
		return Task{}, err
	}
	t, err := svc.repo.GetTaskByID(ctx, userID, id)
	if err != nil {
		return Task{}, err
	}
	t.IsOverdue = IsOverdue(t.DueOn, t.Status, svc.today())
	return t, nil
}

// Update merges ut into the Task. IsOverdue is recomputed when the status or the due date change.
func (svc *Service) Update(ctx context.Context, userID, id string, ut UpdateTask) (Task, error) {
	if err := checkUserID(userID); err != nil {
		return Task{}, err
	}
	ut.ID, ut.CreatedAt = nil, nil

	if ut.Status != nil || ut.DueOn != nil {
		current, err := svc.repo.GetTaskByID(ctx, userID, id)
		if err != nil {
			return Task{}, err
		}
		status, dueOn := current.Status, current.DueOn
		if ut.Status != nil {
			status = *ut.Status
		}
		if ut.DueOn != nil {
			dueOn = *ut.DueOn
		}
		overdue := IsOverdue(dueOn, status, svc.today())
		ut.IsOverdue = &overdue
	}

	t, err := svc.repo.UpdateTask(ctx, userID, id, ut)
	if err != nil {
		if errors.Cause(err) == ErrNotFound {
			return Task{}, ErrNotFound
		}
		return Task{}, errors.Wrap(err, "updating task")
	}
	t.IsOverdue = IsOverdue(t.DueOn, t.Status, svc.today())
	return t, nil
}

func (svc *Service) Delete(ctx context.Context, userID, id string) error {
	if err := checkUserID(userID); err != nil {
		return err
	}
	return errors.Wrap(svc.repo.DeleteTask(ctx, userID, id), "deleting task")
}

// SortByDueOn orders tasks by due date, earliest first, keeping the current order of ties.
func SortByDueOn(tasks []Task) {
	sort.SliceStable(tasks, func(i, j int) bool { return tasks[i].DueOn < tasks[j].DueOn })
}
