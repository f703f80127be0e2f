package task

// IsOverdue reports whether a task due on dueOn (YYYYMMDD) is late on day today (YYYYMMDD).
// Delivered and completed tasks are never overdue; a task due today is not overdue yet.
func IsOverdue(dueOn int, status Status, today int) bool {
	if status.IsDone() {
		return false
	}
	return dueOn < today
}

// RecomputeOverdue refreshes IsOverdue on every task for day today (YYYYMMDD).
// Stored flags go stale as days pass, so reads never trust them.
func RecomputeOverdue(tasks []Task, today int) {
	for i := range tasks {
		tasks[i].IsOverdue = IsOverdue(tasks[i].DueOn, tasks[i].Status, today)
	}
}
