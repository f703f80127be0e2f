package logsvc

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/taskly/core"
	"github.com/trezcool/taskly/core/user"
)

func newTestLogger(buf *bytes.Buffer) *RollbarLogger {
	l := NewRollbarLogger(log.New(buf, "", 0), &core.Config{Env: "TEST"})
	l.Enable(false)
	return l
}

func TestRollbarLogger_prepare(t *testing.T) {
	l := newTestLogger(new(bytes.Buffer))
	err := errors.New("boom")
	extra := map[string]interface{}{"userId": "u1", "subjectId": "s1"}

	args := l.prepare("msg", []interface{}{err, extra, user.User{ID: "u1", Email: "ana@test.br"}})
	assert.Equal(t, []interface{}{"msg", err, extra}, args, "users are not forwarded as args")
}

func TestRollbarLogger_print(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf)

	l.Warn("attendance fetch failed", errors.New("boom"), user.User{ID: "u1"})

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	assert.Equal(t, []string{"WARN: attendance fetch failed", "boom"}, lines)
}
