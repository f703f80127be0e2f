package echoapi

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"github.com/trezcool/taskly/core"
	"github.com/trezcool/taskly/core/attendance"
	"github.com/trezcool/taskly/core/dashboard"
	"github.com/trezcool/taskly/core/note"
	"github.com/trezcool/taskly/core/subject"
	"github.com/trezcool/taskly/core/task"
	"github.com/trezcool/taskly/core/user"
)

type (
	ServerDeps struct {
		Conf          *core.Config
		Logger        core.Logger
		UserSvc       user.ServiceInterface
		SubjectSvc    subject.ServiceInterface
		TaskSvc       task.ServiceInterface
		NoteSvc       note.ServiceInterface
		AttendanceSvc attendance.ServiceInterface
		DashboardSvc  dashboard.ServiceInterface
		Validate      *validator.Validate
		Translator    ut.Translator
	}

	Server struct {
		deps     ServerDeps
		app      *echo.Echo
		errors   chan error
		shutdown chan os.Signal
	}
)

func NewServer(deps ServerDeps) *Server {
	s := &Server{
		deps:     deps,
		app:      echo.New(),
		errors:   make(chan error, 1),
		shutdown: make(chan os.Signal, 1),
	}
	signal.Notify(s.shutdown, os.Interrupt, syscall.SIGTERM)
	s.setup()
	return s
}

func (s *Server) setup() {
	conf := s.deps.Conf

	s.app.HideBanner = true
	s.app.Pre(middleware.RemoveTrailingSlash())
	if !conf.Server.DisableReqLogs {
		s.app.Use(middleware.Logger())
	}
	// do not recover in DEV|TEST mode
	if !(conf.Debug || conf.TestMode) {
		s.app.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{LogLevel: log.ERROR}))
	}
	s.app.Use(sessionMiddleware(conf.SecretKey))

	s.app.HTTPErrorHandler = newAppHTTPErrorHandler(s.deps.Logger, s.deps.Translator, s.signalShutdown)
	s.app.Debug = conf.Debug

	s.app.GET("/", home)

	resolver := &userIDResolver{svc: s.deps.UserSvc}
	g := s.app.Group("")

	registerUserAPI(g, s.deps.UserSvc, resolver, conf, s.deps.Validate)
	registerSubjectAPI(g, s.deps.SubjectSvc, resolver, s.deps.Validate)
	registerTaskAPI(g, s.deps.TaskSvc, resolver, s.deps.Validate)
	registerNoteAPI(g, s.deps.NoteSvc, resolver, s.deps.Validate)
	registerAttendanceAPI(g, s.deps.AttendanceSvc, resolver, s.deps.Validate)
	registerDashboardAPI(g, s.deps.DashboardSvc, resolver, conf.Dashboard.UpcomingLimit)
}

// Start blocks until the server stops. Listener errors are sent to Errors().
func (s *Server) Start() {
	if err := s.app.Start(s.deps.Conf.Server.Address); err != nil && err != http.ErrServerClosed {
		s.errors <- err
	}
}

func (s *Server) Errors() <-chan error {
	return s.errors
}

func (s *Server) ShutdownSignal() <-chan os.Signal {
	return s.shutdown
}

func (s *Server) signalShutdown() {
	select {
	case s.shutdown <- syscall.SIGTERM:
	default: // already shutting down
	}
}

func (s *Server) Shutdown(ctx context.Context) error {
	signal.Stop(s.shutdown)
	return s.app.Shutdown(ctx)
}

func (s *Server) Close() error {
	return s.app.Close()
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { // for tests
	s.app.ServeHTTP(w, r)
}

func home(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Welcome to Taskly API!")
}
