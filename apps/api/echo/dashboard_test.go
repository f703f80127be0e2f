package echoapi_test

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/taskly/apps/api/echo"
	"github.com/trezcool/taskly/core"
	"github.com/trezcool/taskly/core/attendance"
	"github.com/trezcool/taskly/core/dashboard"
	"github.com/trezcool/taskly/core/subject"
	"github.com/trezcool/taskly/core/task"
	"github.com/trezcool/taskly/core/user"
	"github.com/trezcool/taskly/tests"
)

type dashboardFixture struct {
	usr            user.User
	math, bio, art string
}

// newDashboardFixture seeds the data of one student, on a day where "today" is 2025-11-20.
func newDashboardFixture(t *testing.T, app *testApp) dashboardFixture {
	usr := testutil.CreateUser(t, app.usrRepo, "ana@test.br", "s3cret-Pass", true)
	f := dashboardFixture{
		usr:  usr,
		math: createSubject(t, app.subRepo, usr.ID, "math").ID,
		bio:  createSubject(t, app.subRepo, usr.ID, "bio").ID,
		art:  createSubject(t, app.subRepo, usr.ID, "art").ID,
	}

	for _, tk := range []task.Task{
		{Title: "essay", Status: task.StatusPending, SubjectID: f.math, SubjectName: "math", DueOn: 20251125},
		{Title: "homework", Status: task.StatusPending, SubjectID: f.math, SubjectName: "math", DueOn: 20251110},
		{Title: "exam", Type: task.TypeExam, Status: task.StatusCompleted, SubjectID: f.math, DueOn: 20251101},
		{Title: "slides", Status: task.StatusDelivered, SubjectID: f.bio, DueOn: 20251121},
		{Title: "lab", Status: task.StatusPending, SubjectID: f.bio, SubjectName: "bio", DueOn: 20251122},
		{Title: "quiz", Type: task.TypeQuiz, Status: task.StatusPending, SubjectID: f.art, SubjectName: "art", DueOn: 20251120},
		{Title: "reading", Status: task.StatusPending, SubjectID: f.art, SubjectName: "art", DueOn: 20251201},
	} {
		createTask(t, app.tskRepo, usr.ID, tk)
	}
	createTask(t, app.tskRepo, "someone-else", task.Task{Title: "other", Status: task.StatusPending, DueOn: 20251121})

	for date, status := range map[string]attendance.Status{
		"2025-11-03": attendance.StatusPresent,
		"2025-11-05": attendance.StatusPresent,
		"2025-11-10": attendance.StatusLate,
		"2025-11-12": attendance.StatusAbsent,
	} {
		saveAttendance(t, app.attRepo, usr.ID, f.math, date, status)
	}
	for date, status := range map[string]attendance.Status{
		"2025-11-04": attendance.StatusPresent,
		"2025-11-11": attendance.StatusAbsent,
		"2025-11-18": attendance.StatusAbsent,
	} {
		saveAttendance(t, app.attRepo, usr.ID, f.bio, date, status)
	}
	return f
}

type overviewResponse struct {
	Success bool               `json:"success"`
	Data    dashboard.Overview `json:"data"`
}

type upcomingResponse struct {
	Success bool                     `json:"success"`
	Count   int                      `json:"count"`
	Data    []dashboard.UpcomingTask `json:"data"`
}

func upcomingTitles(tasks []dashboard.UpcomingTask) []string {
	out := make([]string, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, t.Title)
	}
	return out
}

func Test_dashboardApi_overview(t *testing.T) {
	app := setup(t)
	f := newDashboardFixture(t, app)

	rec := app.do(t, httpTest{path: "/dashboard?userId=" + f.usr.ID})
	var res overviewResponse
	unmarshalBody(t, rec, &res)
	ov := res.Data

	assert.True(t, res.Success)
	assert.Equal(t, dashboard.TasksSummary{Total: 7, Pending: 5, Delivered: 1, Completed: 1, Overdue: 1}, ov.TasksSummary)
	assert.Equal(t, []string{"quiz", "lab", "essay", "reading"}, upcomingTitles(ov.UpcomingTasks))
	for _, tk := range ov.UpcomingTasks {
		assert.Equal(t, task.StatusPending, tk.Status)
		assert.False(t, tk.IsOverdue)
	}
	assert.Equal(t, "art", ov.UpcomingTasks[0].SubjectName)
	assert.Equal(t, task.TypeQuiz, ov.UpcomingTasks[0].Type)

	require.Len(t, ov.SubjectsSummary, 3)
	bySubject := make(map[string]dashboard.SubjectSummary, 3)
	for _, s := range ov.SubjectsSummary {
		bySubject[s.SubjectID] = s
	}

	math := bySubject[f.math]
	assert.Equal(t, "math", math.SubjectName)
	assert.Equal(t, "#math", math.Color)
	assert.Equal(t, "math.png", math.Icon)
	assert.Equal(t, 2, math.PendingTasks)
	assert.Equal(t, dashboard.AttendanceSummary{TotalClasses: 4, Presences: 2, Lates: 1, Absences: 1, AttendanceRate: 75}, math.Attendance.AttendanceSummary)
	assert.False(t, math.Attendance.IsAtRisk, "75% is not at risk")

	bio := bySubject[f.bio]
	assert.Equal(t, 1, bio.PendingTasks)
	assert.Equal(t, 33.33, bio.Attendance.AttendanceRate)
	assert.True(t, bio.Attendance.IsAtRisk)

	art := bySubject[f.art]
	assert.Equal(t, 2, art.PendingTasks)
	assert.Equal(t, dashboard.AttendanceSummary{}, art.Attendance.AttendanceSummary)
	assert.False(t, art.Attendance.IsAtRisk, "no classes recorded")

	assert.Equal(t, dashboard.AttendanceSummary{TotalClasses: 7, Presences: 3, Lates: 1, Absences: 3, AttendanceRate: 57.14}, ov.AttendanceSummary)
}

func Test_dashboardApi_overview_upcomingLimit(t *testing.T) {
	app := setup(t)
	f := newDashboardFixture(t, app)

	tests := []struct {
		name  string
		limit string
		want  []string
	}{
		{name: "limit", limit: "2", want: []string{"quiz", "lab"}},
		{name: "above the number of tasks", limit: "10", want: []string{"quiz", "lab", "essay", "reading"}},
		{name: "not a number: default", limit: "lol", want: []string{"quiz", "lab", "essay", "reading"}},
		{name: "zero: default", limit: "0", want: []string{"quiz", "lab", "essay", "reading"}},
		{name: "negative: default", limit: "-3", want: []string{"quiz", "lab", "essay", "reading"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(t, httpTest{path: "/dashboard?upcomingLimit=" + tt.limit + "&userId=" + f.usr.ID})
			var res overviewResponse
			unmarshalBody(t, rec, &res)
			assert.Equal(t, tt.want, upcomingTitles(res.Data.UpcomingTasks))
		})
	}
}

func Test_dashboardApi_emptyUser(t *testing.T) {
	app := setup(t)

	app.do(t, httpTest{
		path: "/dashboard?userId=nobody",
		wantData: []byte(`{
			"success": true,
			"data": {
				"upcomingTasks": [],
				"tasksSummary": {"total": 0, "pending": 0, "delivered": 0, "completed": 0, "overdue": 0},
				"subjectsSummary": [],
				"attendanceSummary": {"totalClasses": 0, "absences": 0, "presences": 0, "lates": 0, "justified": 0, "attendanceRate": 0}
			}
		}`),
	})
	app.do(t, httpTest{
		path:     "/dashboard/upcoming-tasks?userId=nobody",
		wantData: marchallObj(t, echoapi.ListResponse{Success: true, Count: 0, Data: []interface{}{}}),
	})
}

func Test_dashboardApi_userID(t *testing.T) {
	app := setup(t)
	f := newDashboardFixture(t, app)
	loggedOut := testutil.CreateUser(t, app.usrRepo, "bob@test.br", "s3cret-Pass", false)

	summary := marchallObj(t, echoapi.DataResponse{
		Success: true,
		Data:    dashboard.TasksSummary{Total: 7, Pending: 5, Delivered: 1, Completed: 1, Overdue: 1},
	})
	empty := marchallObj(t, echoapi.DataResponse{Success: true, Data: dashboard.TasksSummary{}})

	tests := []httpTest{
		{
			name: "missing", path: "/dashboard/tasks-summary",
			wantCode: http.StatusBadRequest, wantData: userIDRequired(http.MethodGet, "/dashboard/tasks-summary"),
		},
		{
			name: "missing (overview)", path: "/dashboard",
			wantCode: http.StatusBadRequest, wantData: userIDRequired(http.MethodGet, "/dashboard"),
		},
		{
			name: "blank", path: "/dashboard/tasks-summary?userId=%20%20",
			wantCode: http.StatusBadRequest, wantData: userIDRequired(http.MethodGet, "/dashboard/tasks-summary"),
		},
		{name: "query param", path: "/dashboard/tasks-summary?userId=" + f.usr.ID, wantData: summary},
		{
			name: "header", path: "/dashboard/tasks-summary",
			header: map[string]string{"X-User-Id": f.usr.ID}, wantData: summary,
		},
		{
			name: "query param before header", path: "/dashboard/tasks-summary?userId=" + f.usr.ID,
			header: map[string]string{"X-User-Id": loggedOut.ID}, wantData: summary,
		},
		{name: "session", path: "/dashboard/tasks-summary", token: getToken(t, app.conf, f.usr), wantData: summary},
		{
			name: "query param before session", path: "/dashboard/tasks-summary?userId=" + loggedOut.ID,
			token: getToken(t, app.conf, f.usr), wantData: empty,
		},
		{
			name: "session of a logged out user", path: "/dashboard/tasks-summary", token: getToken(t, app.conf, loggedOut),
			wantCode: http.StatusBadRequest, wantData: userIDRequired(http.MethodGet, "/dashboard/tasks-summary"),
		},
		{
			name: "session of an unknown user", path: "/dashboard/tasks-summary", token: getToken(t, app.conf, user.User{ID: "ghost"}),
			wantCode: http.StatusBadRequest, wantData: userIDRequired(http.MethodGet, "/dashboard/tasks-summary"),
		},
		{
			name: "invalid token", path: "/dashboard/tasks-summary?userId=" + f.usr.ID, token: "lol",
			wantCode: http.StatusUnauthorized, wantData: marchallObj(t, httpErr{Error: "invalid or expired jwt"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app.do(t, tt)
		})
	}
}

func Test_dashboardApi_upcomingTasks(t *testing.T) {
	app := setup(t)
	f := newDashboardFixture(t, app)

	rec := app.do(t, httpTest{path: "/dashboard?userId=" + f.usr.ID})
	var ov overviewResponse
	unmarshalBody(t, rec, &ov)

	tests := []struct {
		name      string
		query     string
		wantCount int
	}{
		{name: "default limit", wantCount: 4},
		{name: "limit", query: "&limit=1", wantCount: 1},
		{name: "invalid limit", query: "&limit=abc", wantCount: 4},
		{name: "negative limit", query: "&limit=-1", wantCount: 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do(t, httpTest{path: "/dashboard/upcoming-tasks?userId=" + f.usr.ID + tt.query})
			var res upcomingResponse
			unmarshalBody(t, rec, &res)

			assert.True(t, res.Success)
			assert.Equal(t, tt.wantCount, res.Count)
			assert.Equal(t, ov.Data.UpcomingTasks[:tt.wantCount], res.Data, "same list as the overview")
		})
	}
}

func Test_dashboardApi_overdueFollowsClock(t *testing.T) {
	app := setup(t)
	usr := testutil.CreateUser(t, app.usrRepo, "ana@test.br", "s3cret-Pass", true)

	// stored flags are stale: the service clock decides
	createTask(t, app.tskRepo, usr.ID, task.Task{Title: "late", Status: task.StatusPending, DueOn: 20251119, IsOverdue: false})
	createTask(t, app.tskRepo, usr.ID, task.Task{Title: "fine", Status: task.StatusPending, DueOn: 20251121, IsOverdue: true})

	app.do(t, httpTest{
		path: "/dashboard/tasks-summary?userId=" + usr.ID,
		wantData: marchallObj(t, echoapi.DataResponse{
			Success: true,
			Data:    dashboard.TasksSummary{Total: 2, Pending: 2, Overdue: 1},
		}),
	})

	rec := app.do(t, httpTest{path: "/dashboard/upcoming-tasks?userId=" + usr.ID})
	var res upcomingResponse
	unmarshalBody(t, rec, &res)
	assert.Equal(t, []string{"fine"}, upcomingTitles(res.Data))
}

var errStoreDown = errors.New(`pq: password authentication failed for user "taskly_admin" host=10.0.0.5`)

// downStore fails to list tasks; subjects are listed so the overview always fails on "tasks".
type downStore struct{}

func (downStore) ListTasks(context.Context, string, task.QueryFilter) ([]task.Task, error) {
	return nil, errStoreDown
}

func (downStore) ListSubjects(context.Context, string) ([]subject.Subject, error) {
	return []subject.Subject{}, nil
}

func (downStore) ListAttendance(context.Context, string, string) ([]attendance.Attendance, error) {
	return nil, errStoreDown
}

type logEntry struct {
	msg  string
	args []interface{}
}

// errorLogger keeps the error entries and drops the rest.
type errorLogger struct {
	mu      sync.Mutex
	entries []logEntry
}

func (l *errorLogger) Debug(string, ...interface{}) {}
func (l *errorLogger) Info(string, ...interface{})  {}
func (l *errorLogger) Warn(string, ...interface{})  {}
func (l *errorLogger) Fatal(string, ...interface{}) {}
func (l *errorLogger) Error(msg string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, logEntry{msg: msg, args: args})
}

func withFailingDashboard(logger core.Logger, debug bool) func(*echoapi.ServerDeps) {
	return func(deps *echoapi.ServerDeps) {
		conf := *deps.Conf
		conf.Debug = debug
		deps.Conf = &conf
		deps.Logger = logger
		deps.DashboardSvc = dashboard.NewService(downStore{}, testutil.FixedClock, logger, time.Second)
	}
}

func Test_dashboardApi_storeFailure(t *testing.T) {
	tests := []struct {
		path string
		op   string
	}{
		{path: "/dashboard?userId=u1", op: "tasks"},
		{path: "/dashboard/tasks-summary?userId=u1", op: "tasks summary"},
		{path: "/dashboard/upcoming-tasks?userId=u1", op: "upcoming tasks"},
	}
	for _, tt := range tests {
		t.Run(tt.op, func(t *testing.T) {
			logger := &errorLogger{}
			app := setup(t, withFailingDashboard(logger, false))

			rec := app.do(t, httpTest{
				path:     tt.path,
				wantCode: http.StatusInternalServerError,
				wantData: marchallObj(t, map[string]string{
					"error":   "Internal server error",
					"message": "failed to fetch dashboard " + tt.op,
				}),
			})
			assert.NotContains(t, rec.Body.String(), "taskly_admin")

			require.Len(t, logger.entries, 1)
			assert.Equal(t, "Internal server error", logger.entries[0].msg)
			assert.Contains(t, logger.entries[0].args, map[string]interface{}{"userId": "u1", "op": tt.op})
		})
	}

	t.Run("debug shows the cause", func(t *testing.T) {
		app := setup(t, withFailingDashboard(&errorLogger{}, true))

		rec := app.do(t, httpTest{path: "/dashboard/tasks-summary?userId=u1", wantCode: http.StatusInternalServerError})
		var res map[string]string
		unmarshalBody(t, rec, &res)
		assert.Equal(t, "failed to fetch dashboard tasks summary: "+errStoreDown.Error(), res["message"])
	})
}
