package task

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsOverdue(t *testing.T) {
	today := 20251120

	tests := []struct {
		name   string
		dueOn  int
		status Status
		want   bool
	}{
		{name: "pending, due yesterday", dueOn: 20251119, status: StatusPending, want: true},
		{name: "pending, due today", dueOn: 20251120, status: StatusPending, want: false},
		{name: "pending, due tomorrow", dueOn: 20251121, status: StatusPending, want: false},
		{name: "pending, due last year", dueOn: 20241231, status: StatusPending, want: true},
		{name: "delivered, due yesterday", dueOn: 20251119, status: StatusDelivered, want: false},
		{name: "completed, due long ago", dueOn: 20200101, status: StatusCompleted, want: false},
		{name: "unknown status counts as not done", dueOn: 20251119, status: Status("archived"), want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOverdue(tt.dueOn, tt.status, today))
		})
	}
}

func TestRecomputeOverdue(t *testing.T) {
	tasks := []Task{
		{ID: "1", DueOn: 20251101, Status: StatusPending, IsOverdue: false},
		{ID: "2", DueOn: 20251101, Status: StatusCompleted, IsOverdue: true},
		{ID: "3", DueOn: 20251201, Status: StatusPending, IsOverdue: true},
	}
	RecomputeOverdue(tasks, 20251120)

	got := make([]bool, 0, len(tasks))
	for _, tk := range tasks {
		got = append(got, tk.IsOverdue)
	}
	assert.Equal(t, []bool{true, false, false}, got)
}

func TestSortByDueOn(t *testing.T) {
	tasks := []Task{
		{ID: "a", DueOn: 20251125},
		{ID: "b", DueOn: 20251121},
		{ID: "c", DueOn: 20251125},
		{ID: "d", DueOn: 20251120},
	}
	SortByDueOn(tasks)

	ids := make([]string, 0, len(tasks))
	for _, tk := range tasks {
		ids = append(ids, tk.ID)
	}
	assert.Equal(t, []string{"d", "b", "a", "c"}, ids)
}
