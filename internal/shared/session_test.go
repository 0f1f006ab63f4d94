package shared

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(store SessionStore) *SessionManager {
	return NewSessionManager(store, "test_session", "secret", time.Hour, false)
}

func TestSessionLoadWithoutCookieCreatesNewSession(t *testing.T) {
	sm := newTestManager(NewMemorySessionStore())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.NotEmpty(t, sess.ID)
}

func TestSessionCommitSetsCookieAndPersists(t *testing.T) {
	sm := newTestManager(NewMemorySessionStore())
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	sess.Set("theme", "dark")

	rr := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rr, req, sess))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "test_session", cookies[0].Name)
	assert.Equal(t, sess.ID, cookies[0].Value)

	// The next request with that cookie sees the stored value.
	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookies[0])
	restored, err := sm.Load(ctx, next)
	require.NoError(t, err)
	assert.Equal(t, "dark", restored.Get("theme"))
}

func TestFlashSurvivesExactlyOneRequest(t *testing.T) {
	sm := newTestManager(NewMemorySessionStore())
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	sess.AddFlash(FlashMessage{Kind: "success", Message: "saved"})

	rr := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rr, req, sess))

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(rr.Result().Cookies()[0])
	restored, err := sm.Load(ctx, next)
	require.NoError(t, err)

	flash := restored.PopFlash()
	require.NotNil(t, flash)
	assert.Equal(t, "saved", flash.Message)
	assert.Nil(t, restored.PopFlash())

	// Once consumed and committed, the flash is gone for good.
	rr2 := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rr2, next, restored))

	third := httptest.NewRequest(http.MethodGet, "/", nil)
	third.AddCookie(rr.Result().Cookies()[0])
	final, err := sm.Load(ctx, third)
	require.NoError(t, err)
	assert.Nil(t, final.PopFlash())
}

func TestCommitZeroTTLIssuesSessionCookie(t *testing.T) {
	sm := NewSessionManager(NewMemorySessionStore(), "test_session", "secret", 0, false)
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)
	sess.Set("theme", "dark")

	rr := httptest.NewRecorder()
	require.NoError(t, sm.Commit(ctx, rr, req, sess))

	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	// A zero TTL must not produce an already-expired cookie; the
	// store keeps the session until process exit, so the cookie is a
	// browser-session cookie with no Expires at all.
	assert.True(t, cookies[0].Expires.IsZero())
	assert.LessOrEqual(t, cookies[0].MaxAge, 0)

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	next.AddCookie(cookies[0])
	restored, err := sm.Load(ctx, next)
	require.NoError(t, err)
	assert.Equal(t, "dark", restored.Get("theme"))
}

func TestMemoryStoreExpiresEntries(t *testing.T) {
	store := NewMemorySessionStore()
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "id", []byte("payload"), time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	_, err := store.Get(ctx, "id")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRedisStoreRoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer func() {
		_ = client.Close()
		mr.Close()
	}()

	store := NewRedisSessionStore(client)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "id", []byte("payload"), time.Minute))
	payload, err := store.Get(ctx, "id")
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), payload)

	require.NoError(t, store.Del(ctx, "id"))
	_, err = store.Get(ctx, "id")
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCSRFTokenRoundTrip(t *testing.T) {
	sm := newTestManager(NewMemorySessionStore())
	cm := NewCSRFManager("csrf-secret")
	ctx := context.Background()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	sess, err := sm.Load(ctx, req)
	require.NoError(t, err)

	token, err := cm.EnsureToken(ctx, sess)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	// Stable for the session, and verifiable.
	again, err := cm.EnsureToken(ctx, sess)
	require.NoError(t, err)
	assert.Equal(t, token, again)
	require.NoError(t, cm.VerifyToken(ctx, sess, token))

	require.ErrorIs(t, cm.VerifyToken(ctx, sess, ""), ErrCSRFTokenMissing)
	require.ErrorIs(t, cm.VerifyToken(ctx, sess, "forged"), ErrCSRFTokenMismatch)
}
