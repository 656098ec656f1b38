package sessions_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kylekyl-khan/contacts-server/sessions"
)

func TestSessionBag(t *testing.T) {
	session := sessions.New(time.Hour)
	require.NotEmpty(t, session.ID)

	_, ok := session.Get("auth_state")
	assert.False(t, ok)

	session.Set("auth_state", "abc")
	v, ok := session.Get("auth_state")
	require.True(t, ok)
	assert.Equal(t, "abc", v)

	session.Set("auth_state", "def")
	v, _ = session.Get("auth_state")
	assert.Equal(t, "def", v)

	session.Delete("auth_state")
	_, ok = session.Get("auth_state")
	assert.False(t, ok)

	// Deleting a missing key is a no-op.
	session.Delete("auth_state")
}

// Parallel requests with the same cookie share one Session; the bag must
// survive concurrent mutation (run with -race).
func TestSessionConcurrentAccess(t *testing.T) {
	store := sessions.NewInMemoryStore()
	session := sessions.New(time.Hour)
	require.NoError(t, store.Save(session))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			loaded, err := store.Get(session.ID)
			if !assert.NoError(t, err) {
				return
			}
			for j := 0; j < 100; j++ {
				loaded.Set("auth_state", j)
				loaded.Get("auth_state")
				loaded.Delete("auth_state")
			}
		}()
	}
	wg.Wait()
}

func TestInMemoryStoreRoundTrip(t *testing.T) {
	store := sessions.NewInMemoryStore()
	session := sessions.New(time.Hour)
	session.Set("auth_state", "abc")

	require.NoError(t, store.Save(session))

	loaded, err := store.Get(session.ID)
	require.NoError(t, err)
	v, ok := loaded.Get("auth_state")
	require.True(t, ok)
	assert.Equal(t, "abc", v)

	require.NoError(t, store.Delete(session.ID))
	_, err = store.Get(session.ID)
	require.ErrorIs(t, err, sessions.SessionNotFoundErr)

	// Deleting again is fine.
	require.NoError(t, store.Delete(session.ID))
}

func TestInMemoryStoreUnknownID(t *testing.T) {
	store := sessions.NewInMemoryStore()
	_, err := store.Get("no-such-session")
	require.ErrorIs(t, err, sessions.SessionNotFoundErr)
}

func TestInMemoryStoreExpiry(t *testing.T) {
	store := sessions.NewInMemoryStore()
	session := sessions.New(-time.Minute) // already expired
	require.NoError(t, store.Save(session))

	_, err := store.Get(session.ID)
	require.ErrorIs(t, err, sessions.SessionNotFoundErr)
}

func TestCookieCodecRoundTrip(t *testing.T) {
	codec := sessions.NewCookieCodec("contacts_session", "secret-key")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	codec.Write(w, r, "session-123", 3600)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "contacts_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	r2 := httptest.NewRequest(http.MethodGet, "/", nil)
	r2.AddCookie(cookies[0])
	id, ok := codec.Read(r2)
	require.True(t, ok)
	assert.Equal(t, "session-123", id)
}

func TestCookieCodecRejectsTampering(t *testing.T) {
	codec := sessions.NewCookieCodec("contacts_session", "secret-key")

	w := httptest.NewRecorder()
	codec.Write(w, httptest.NewRequest(http.MethodGet, "/", nil), "session-123", 3600)
	cookie := w.Result().Cookies()[0]

	tests := []struct {
		name  string
		value string
	}{
		{"swapped id", "session-456." + strings.SplitN(cookie.Value, ".", 2)[1]},
		{"no signature", "session-123"},
		{"garbage", "not-even-a-cookie-value."},
		{"empty", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.AddCookie(&http.Cookie{Name: "contacts_session", Value: tc.value})
			_, ok := codec.Read(r)
			assert.False(t, ok)
		})
	}
}

func TestCookieCodecKeyMismatch(t *testing.T) {
	codec := sessions.NewCookieCodec("contacts_session", "secret-key")
	other := sessions.NewCookieCodec("contacts_session", "different-key")

	w := httptest.NewRecorder()
	codec.Write(w, httptest.NewRequest(http.MethodGet, "/", nil), "session-123", 3600)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(w.Result().Cookies()[0])
	_, ok := other.Read(r)
	assert.False(t, ok)
}
