package dashboard

import (
	"github.com/trezcool/taskly/core/attendance"
	"github.com/trezcool/taskly/core/task"
)

// DefaultUpcomingLimit is the number of upcoming tasks returned when no limit is given.
const DefaultUpcomingLimit = 5

type (
	Overview struct {
		UpcomingTasks     []UpcomingTask    `json:"upcomingTasks"`
		TasksSummary      TasksSummary      `json:"tasksSummary"`
		SubjectsSummary   []SubjectSummary  `json:"subjectsSummary"`
		AttendanceSummary AttendanceSummary `json:"attendanceSummary"`
	}

	// TasksSummary counts tasks per status. Overdue only counts pending tasks.
	TasksSummary struct {
		Total     int `json:"total"`
		Pending   int `json:"pending"`
		Delivered int `json:"delivered"`
		Completed int `json:"completed"`
		Overdue   int `json:"overdue"`
	}

	// UpcomingTask is the trimmed view of a pending task that is not overdue.
	UpcomingTask struct {
		ID          string      `json:"id"`
		Title       string      `json:"title"`
		SubjectID   string      `json:"subjectId"`
		SubjectName string      `json:"subjectName"`
		Type        task.Type   `json:"type"`
		Status      task.Status `json:"status"`
		DueOn       int         `json:"dueOn"`
		IsOverdue   bool        `json:"isOverdue"`
	}

	SubjectSummary struct {
		SubjectID    string            `json:"subjectId"`
		SubjectName  string            `json:"subjectName"`
		Color        string            `json:"color"`
		Icon         string            `json:"icon"`
		PendingTasks int               `json:"pendingTasks"`
		Attendance   SubjectAttendance `json:"attendance"`
	}

	SubjectAttendance struct {
		AttendanceSummary
		IsAtRisk bool `json:"isAtRisk"`
	}

	AttendanceSummary struct {
		TotalClasses   int     `json:"totalClasses"`
		Absences       int     `json:"absences"`
		Presences      int     `json:"presences"`
		Lates          int     `json:"lates"`
		Justified      int     `json:"justified"`
		AttendanceRate float64 `json:"attendanceRate"`
	}

	Options struct {
		// UpcomingLimit caps Overview.UpcomingTasks; 0 means DefaultUpcomingLimit.
		UpcomingLimit int
	}
)

func newAttendanceSummary(s attendance.Stats) AttendanceSummary {
	return AttendanceSummary{
		TotalClasses:   s.Total,
		Absences:       s.Absent,
		Presences:      s.Present,
		Lates:          s.Late,
		Justified:      s.Justified,
		AttendanceRate: s.AttendanceRate,
	}
}

func newUpcomingTask(t task.Task) UpcomingTask {
	return UpcomingTask{
		ID:          t.ID,
		Title:       t.Title,
		SubjectID:   t.SubjectID,
		SubjectName: t.SubjectName,
		Type:        t.Type,
		Status:      t.Status,
		DueOn:       t.DueOn,
		IsOverdue:   t.IsOverdue,
	}
}
