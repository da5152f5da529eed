package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/PranayChowdhury00/event-management-task-ph-Backend/middleware"
	"github.com/PranayChowdhury00/event-management-task-ph-Backend/models"
	"github.com/PranayChowdhury00/event-management-task-ph-Backend/store"
)

// fakeUserStore is an in-memory UserStore keyed by email.
type fakeUserStore struct {
	mu      sync.Mutex
	byEmail map[string]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]models.User{}}
}

func (f *fakeUserStore) FindByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.byEmail[email]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &user, nil
}

func (f *fakeUserStore) Insert(_ context.Context, user *models.User) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.byEmail[user.Email] = *user
	return user.ID.Hex(), nil
}

func (f *fakeUserStore) List(_ context.Context) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	users := []models.User{}
	for _, u := range f.byEmail {
		users = append(users, u)
	}
	return users, nil
}

func (f *fakeUserStore) seed(t *testing.T, name, email, password string) models.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := models.User{
		ID:        primitive.NewObjectID(),
		Name:      name,
		Email:     email,
		Password:  string(hash),
		PhotoURL:  "https://example.com/p.png",
		CreatedAt: time.Now().UTC(),
	}
	f.mu.Lock()
	f.byEmail[email] = user
	f.mu.Unlock()
	return user
}

type authRig struct {
	router   *gin.Engine
	users    *fakeUserStore
	sessions *fakeSessionStore
}

func newAuthRig() *authRig {
	users := newFakeUserStore()
	sessionStore := newFakeSessionStore()
	sessions := newTestSessions(sessionStore)
	auth := NewAuthController(users, sessions, testLogger)

	router := gin.New()
	router.Use(sessions.Resolve())
	router.POST("/users", auth.Register)
	router.GET("/users", auth.ListUsers)
	router.POST("/login", auth.Login)
	router.POST("/logout", middleware.RequireAuth(), auth.Logout)
	router.GET("/check-auth", auth.CheckAuth)
	router.GET("/protected", middleware.RequireAuth(), auth.Protected)

	return &authRig{router: router, users: users, sessions: sessionStore}
}

func (r *authRig) do(method, path, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	r.router.ServeHTTP(rec, req)
	return rec
}

func TestRegisterHashesPassword(t *testing.T) {
	rig := newAuthRig()

	rec := rig.do(http.MethodPost, "/users", `{"name":"Ana","email":"ana@example.com","password":"secret123","photoURL":"https://example.com/a.png"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, true, body["acknowledged"])
	assert.NotEmpty(t, body["insertedId"])

	stored, err := rig.users.FindByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", stored.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.Password), []byte("secret123")))
}

func TestRegisterDuplicateEmail(t *testing.T) {
	rig := newAuthRig()
	first := rig.users.seed(t, "Ana", "ana@example.com", "secret123")

	rec := rig.do(http.MethodPost, "/users", `{"name":"Impostor","email":"ana@example.com","password":"other"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already exists")

	// the original record is untouched
	stored, err := rig.users.FindByEmail(context.Background(), "ana@example.com")
	require.NoError(t, err)
	assert.Equal(t, first.ID, stored.ID)
	assert.Equal(t, "Ana", stored.Name)
}

func TestLoginUnknownEmail(t *testing.T) {
	rig := newAuthRig()

	rec := rig.do(http.MethodPost, "/login", `{"email":"ghost@example.com","password":"whatever"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No account found")
}

func TestLoginWrongPassword(t *testing.T) {
	rig := newAuthRig()
	rig.users.seed(t, "Ana", "ana@example.com", "secret123")

	rec := rig.do(http.MethodPost, "/login", `{"email":"ana@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Incorrect password")
}

func TestLoginCreatesSession(t *testing.T) {
	rig := newAuthRig()
	user := rig.users.seed(t, "Ana", "ana@example.com", "secret123")

	rec := rig.do(http.MethodPost, "/login", `{"email":"ana@example.com","password":"secret123"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	// the response carries the reduced projection, never the password
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	payload, ok := body["user"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, user.ID.Hex(), payload["_id"])
	assert.Equal(t, "Ana", payload["name"])
	assert.NotContains(t, payload, "password")

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.NotEmpty(t, cookies[0].Value)
	assert.True(t, cookies[0].HttpOnly)

	// the session cookie authenticates subsequent requests
	check := rig.do(http.MethodGet, "/check-auth", "", cookies[0])
	require.Equal(t, http.StatusOK, check.Code)
	assert.Contains(t, check.Body.String(), `"authenticated":true`)
	assert.NotContains(t, check.Body.String(), "password")
}

func TestCheckAuthWithoutSession(t *testing.T) {
	rig := newAuthRig()

	rec := rig.do(http.MethodGet, "/check-auth", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"authenticated":false`)
}

func TestProtectedRequiresSession(t *testing.T) {
	rig := newAuthRig()

	rec := rig.do(http.MethodGet, "/protected", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Not authenticated")
}

func TestLogoutDestroysSession(t *testing.T) {
	rig := newAuthRig()
	user := rig.users.seed(t, "Ana", "ana@example.com", "secret123")
	cookie := sessionCookie(rig.sessions, user.SessionProjection())

	rec := rig.do(http.MethodPost, "/logout", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Logout successful")

	// the old cookie no longer authenticates anything
	after := rig.do(http.MethodGet, "/protected", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, after.Code)
}

func TestLogoutStoreFailure(t *testing.T) {
	rig := newAuthRig()
	user := rig.users.seed(t, "Ana", "ana@example.com", "secret123")
	cookie := sessionCookie(rig.sessions, user.SessionProjection())
	rig.sessions.delErr = assert.AnError

	rec := rig.do(http.MethodPost, "/logout", "", cookie)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Logout failed")
}

func TestTamperedCookieIsIgnored(t *testing.T) {
	rig := newAuthRig()
	user := rig.users.seed(t, "Ana", "ana@example.com", "secret123")
	cookie := sessionCookie(rig.sessions, user.SessionProjection())
	cookie.Value += "x"

	rec := rig.do(http.MethodGet, "/protected", "", cookie)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
