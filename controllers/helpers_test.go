package controllers

import (
	"context"
	"io"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/PranayChowdhury00/event-management-task-ph-Backend/middleware"
	"github.com/PranayChowdhury00/event-management-task-ph-Backend/models"
	"github.com/PranayChowdhury00/event-management-task-ph-Backend/session"
)

const testSecret = "test-secret"

// testLogger discards output so tests don't assert on log lines.
var testLogger = zerolog.New(io.Discard)

func init() {
	gin.SetMode(gin.TestMode)
}

// fakeSessionStore is an in-memory middleware.SessionStore.
type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]models.SessionUser
	setErr   error
	delErr   error
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: map[string]models.SessionUser{}}
}

func (f *fakeSessionStore) Get(_ context.Context, id string) (*models.SessionUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.sessions[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	return &user, nil
}

func (f *fakeSessionStore) Set(_ context.Context, id string, user models.SessionUser) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[id] = user
	return nil
}

func (f *fakeSessionStore) Delete(_ context.Context, id string) error {
	if f.delErr != nil {
		return f.delErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

func newTestSessions(store *fakeSessionStore) *middleware.Sessions {
	return &middleware.Sessions{
		Store:  store,
		Secret: testSecret,
		Logger: testLogger,
	}
}

// sessionCookie seeds a live session for user and returns the matching
// signed cookie.
func sessionCookie(store *fakeSessionStore, user models.SessionUser) *http.Cookie {
	id := session.NewID()
	store.mu.Lock()
	store.sessions[id] = user
	store.mu.Unlock()
	return &http.Cookie{Name: session.CookieName, Value: session.SignCookie(testSecret, id)}
}
