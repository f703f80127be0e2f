package echoapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	echoapi "github.com/trezcool/taskly/apps/api/echo"
	"github.com/trezcool/taskly/core"
	"github.com/trezcool/taskly/core/attendance"
	"github.com/trezcool/taskly/core/dashboard"
	"github.com/trezcool/taskly/core/note"
	"github.com/trezcool/taskly/core/subject"
	"github.com/trezcool/taskly/core/task"
	"github.com/trezcool/taskly/core/user"
	logsvc "github.com/trezcool/taskly/services/logger"
	"github.com/trezcool/taskly/storage/database/docrepos"
	inmemdb "github.com/trezcool/taskly/storage/database/inmem"
	"github.com/trezcool/taskly/tests"
)

type testApp struct {
	server  *echoapi.Server
	conf    *core.Config
	usrRepo user.Repository
	subRepo subject.Repository
	tskRepo task.Repository
	attRepo attendance.Repository
	nteRepo note.Repository
}

// setup builds the app over an in-memory store; opts may swap any server dependency.
func setup(t *testing.T, opts ...func(*echoapi.ServerDeps)) *testApp {
	conf := &core.Config{
		Env:                "TEST",
		TestMode:           true,
		AppName:            "Taskly",
		SecretKey:          "secret",
		JWTExpirationDelta: time.Hour,
		Server:             core.ServerConfig{DisableReqLogs: true},
		Dashboard:          core.DashboardConfig{UpcomingLimit: dashboard.DefaultUpcomingLimit},
	}

	// set up store & repos
	store := inmemdb.Open(inmemdb.WithClock(testutil.NewTickClock(testutil.Today)))
	app := &testApp{
		conf:    conf,
		usrRepo: docrepos.NewUserRepository(store),
		subRepo: docrepos.NewSubjectRepository(store),
		tskRepo: docrepos.NewTaskRepository(store),
		attRepo: docrepos.NewAttendanceRepository(store),
		nteRepo: docrepos.NewNoteRepository(store),
	}

	logger := logsvc.NewRollbarLogger(log.New(io.Discard, "", 0), conf)
	logger.Enable(false)

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	// set up server
	deps := echoapi.ServerDeps{
		Conf:          conf,
		Logger:        logger,
		UserSvc:       user.NewService(app.usrRepo),
		SubjectSvc:    subject.NewService(app.subRepo),
		TaskSvc:       task.NewService(app.tskRepo, testutil.FixedClock),
		NoteSvc:       note.NewService(app.nteRepo),
		AttendanceSvc: attendance.NewService(app.attRepo),
		DashboardSvc: dashboard.NewService(
			dashboard.NewStore(app.tskRepo, app.subRepo, app.attRepo),
			testutil.FixedClock,
			logger,
			time.Second,
		),
		Validate:   validate,
		Translator: translator,
	}
	for _, opt := range opts {
		opt(&deps)
	}
	app.server = echoapi.NewServer(deps)
	t.Cleanup(func() {
		_ = app.server.Shutdown(context.Background())
		_ = store.Close()
	})
	return app
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	header   map[string]string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

// do runs tt against the app and checks the response code (and data, when set).
func (app *testApp) do(t *testing.T, tt httpTest) *httptest.ResponseRecorder {
	method := tt.method
	if method == "" {
		method = http.MethodGet
	}
	req, rec := newAuthRequest(method, tt.path, tt.token, tt.body)
	for k, v := range tt.header {
		req.Header.Set(k, v)
	}
	app.server.ServeHTTP(rec, req)

	wantCode := tt.wantCode
	if wantCode == 0 {
		wantCode = http.StatusOK
	}
	if tt.wantData != nil {
		checkCodeAndData(t, wantCode, tt.wantData, rec)
	} else {
		assert.Equal(t, wantCode, rec.Code, rec.Body.String())
	}
	return rec
}

func getToken(t *testing.T, conf *core.Config, usr user.User) string {
	token, err := echoapi.GenerateToken(echoapi.GetUserClaims(usr, conf), conf.SecretKey)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func unmarshalBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

func checkCodeAndData(t *testing.T, wantCode int, wantData []byte, rec *httptest.ResponseRecorder) {
	if rec.Code != wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, wantCode)
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(wantData))
	}
}

func userIDRequired(method, path string) []byte {
	var hint string
	if method == http.MethodGet {
		hint = "Send userId as query param: GET " + path + "?userId=YOUR_USER_ID"
	} else {
		hint = "Send the user ID as `id` in the request body: " + method + " " + path
	}
	data, _ := json.Marshal(map[string]string{"error": "User ID is required", "hint": hint})
	return data
}

func createSubject(t *testing.T, repo subject.Repository, userID, name string) subject.Subject {
	s, err := repo.CreateSubject(context.Background(), userID, subject.Subject{
		SubjectName:  name,
		Color:        "#" + name,
		Icon:         name + ".png",
		TotalClasses: 30,
		DaysOfWeek:   []string{"SEG"},
	})
	if err != nil {
		t.Fatalf("createSubject() failed: %v", err)
	}
	return s
}

func createTask(t *testing.T, repo task.Repository, userID string, tk task.Task) task.Task {
	if tk.Type == "" {
		tk.Type = task.TypeAssignment
	}
	tk, err := repo.CreateTask(context.Background(), userID, tk)
	if err != nil {
		t.Fatalf("createTask() failed: %v", err)
	}
	return tk
}

func saveAttendance(t *testing.T, repo attendance.Repository, userID, subjectID, date string, status attendance.Status) {
	_, err := repo.UpsertAttendance(context.Background(), userID, subjectID, attendance.Attendance{
		ID:     date,
		Date:   date,
		Status: status,
	})
	if err != nil {
		t.Fatalf("saveAttendance() failed: %v", err)
	}
}
