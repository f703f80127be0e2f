package testutil

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/trezcool/taskly/core"
	"github.com/trezcool/taskly/core/user"
)

// Today is the date every fixed clock starts at.
var Today = time.Date(2025, time.November, 20, 10, 0, 0, 0, time.UTC)

// FixedClock always returns Today.
func FixedClock() time.Time {
	return Today
}

// NewTickClock returns a clock starting at start that moves one second forward on every call.
func NewTickClock(start time.Time) core.Clock {
	var mu sync.Mutex
	now := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := now
		now = now.Add(time.Second)
		return t
	}
}

func CreateUser(t *testing.T, repo user.Repository, email, pwd string, authenticated bool) user.User {
	usr := user.User{
		Email:         email,
		Authenticated: authenticated,
	}
	if pwd != "" {
		if err := usr.SetPassword(pwd); err != nil {
			t.Fatalf("createUser() failed: %v", err)
		}
	}
	usr, err := repo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("createUser() failed: %v", err)
	}
	return usr
}
