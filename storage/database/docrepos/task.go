package docrepos

import (
	"context"

	"github.com/pkg/errors"

	"github.com/trezcool/taskly/core"
	"github.com/trezcool/taskly/core/task"
)

type taskRepository struct {
	store core.DocumentStore
}

var _ task.Repository = (*taskRepository)(nil) // interface compliance check

func NewTaskRepository(store core.DocumentStore) *taskRepository {
	return &taskRepository{store: store}
}

type taskDoc struct {
	Title       string      `json:"title"`
	Type        task.Type   `json:"type"`
	Status      task.Status `json:"status"`
	SubjectID   string      `json:"subjectId"`
	SubjectName string      `json:"subjectName"`
	DueOn       int         `json:"dueOn"`
	Notes       string      `json:"notes"`
	IsOverdue   bool        `json:"isOverdue"`
}

func tasksCollection(userID string) string {
	return core.Collection(usersCollection, userID, "tasks")
}

func (repo taskRepository) toDoc(t task.Task) taskDoc {
	return taskDoc{
		Title:       t.Title,
		Type:        t.Type,
		Status:      t.Status,
		SubjectID:   t.SubjectID,
		SubjectName: t.SubjectName,
		DueOn:       t.DueOn,
		Notes:       t.Notes,
		IsOverdue:   t.IsOverdue,
	}
}

func (repo taskRepository) fromDoc(doc core.Document) (task.Task, error) {
	var d taskDoc
	if err := doc.Decode(&d); err != nil {
		return task.Task{}, err
	}
	return task.Task{
		ID:          doc.ID,
		Title:       d.Title,
		Type:        d.Type,
		Status:      d.Status,
		SubjectID:   d.SubjectID,
		SubjectName: d.SubjectName,
		DueOn:       d.DueOn,
		Notes:       d.Notes,
		IsOverdue:   d.IsOverdue,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}, nil
}

func (repo taskRepository) fromDocs(docs []core.Document) ([]task.Task, error) {
	tasks := make([]task.Task, 0, len(docs))
	for _, doc := range docs {
		t, err := repo.fromDoc(doc)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, nil
}

func (repo taskRepository) CreateTask(ctx context.Context, userID string, t task.Task) (task.Task, error) {
	doc, err := repo.store.Add(ctx, tasksCollection(userID), repo.toDoc(t))
	if err != nil {
		return task.Task{}, err
	}
	return repo.fromDoc(doc)
}

func (repo taskRepository) QueryTasks(ctx context.Context, userID string, filter task.QueryFilter) ([]task.Task, error) {
	var q core.Query
	if filter.SubjectID != "" {
		q = q.Where("subjectId", core.OpEqual, filter.SubjectID)
	}
	if filter.Status != "" {
		q = q.Where("status", core.OpEqual, filter.Status)
	}
	if filter.Type != "" {
		q = q.Where("type", core.OpEqual, filter.Type)
	}
	if filter.DueOnStart != 0 {
		q = q.Where("dueOn", core.OpGreaterOrEqual, filter.DueOnStart)
	}
	if filter.DueOnEnd != 0 {
		q = q.Where("dueOn", core.OpLessOrEqual, filter.DueOnEnd)
	}

	docs, err := repo.store.Query(ctx, tasksCollection(userID), q)
	if err != nil {
		return nil, err
	}
	return repo.fromDocs(docs)
}

func (repo taskRepository) GetTaskByID(ctx context.Context, userID, id string) (task.Task, error) {
	doc, err := repo.store.Get(ctx, tasksCollection(userID), id)
	if err != nil {
		if errors.Cause(err) == core.ErrDocumentNotFound {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, err
	}
	return repo.fromDoc(doc)
}

func (repo taskRepository) UpdateTask(ctx context.Context, userID, id string, ut task.UpdateTask) (task.Task, error) {
	ut.ID, ut.CreatedAt = nil, nil
	doc, err := repo.store.Update(ctx, tasksCollection(userID), id, ut)
	if err != nil {
		if errors.Cause(err) == core.ErrDocumentNotFound {
			return task.Task{}, task.ErrNotFound
		}
		return task.Task{}, err
	}
	return repo.fromDoc(doc)
}

func (repo taskRepository) DeleteTask(ctx context.Context, userID, id string) error {
	return repo.store.Delete(ctx, tasksCollection(userID), id)
}
