package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/p10-paddock/internal/models"
)

var fixedNow = time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)

func mintToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "user-1",
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func newTestStore(persist TokenStore, now *time.Time) *Store {
	return NewStore(persist, nil, WithClock(func() time.Time { return *now }))
}

func testUser() *models.User {
	return &models.User{ID: "user-1", Email: "driver@example.com", Firstname: "Lando", Lastname: "Norris"}
}

// failingStore fails every write
type failingStore struct {
	MemoryTokenStore
}

func (f *failingStore) Save(string) error { return errors.New("disk full") }
func (f *failingStore) Delete() error     { return errors.New("read-only") }

func TestDecodeToken(t *testing.T) {
	exp := fixedNow.Add(time.Hour)
	claims, err := DecodeToken(mintToken(t, exp))
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)
	assert.Equal(t, exp.Unix(), claims.ExpiresAt.Unix())
	assert.False(t, claims.Expired(fixedNow))
	assert.True(t, claims.Expired(exp))

	for _, raw := range []string{"", "abc", "not.a.jwt", "a.b.c"} {
		_, err := DecodeToken(raw)
		assert.ErrorIs(t, err, ErrMalformedToken, "token %q", raw)
	}

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1"})
	signed, err := noExp.SignedString([]byte("k"))
	require.NoError(t, err)
	_, err = DecodeToken(signed)
	assert.ErrorIs(t, err, ErrMalformedToken)
}

func TestRestoreValidToken(t *testing.T) {
	now := fixedNow
	token := mintToken(t, now.Add(2*time.Hour))
	persist := NewMemoryTokenStore(token)
	store := newTestStore(persist, &now)

	assert.Equal(t, StateUnknown, store.State())
	assert.Equal(t, StateAuthenticated, store.Restore())
	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, token, store.Token())
	assert.Nil(t, store.Identity(), "identity is not reconstructed from the token")

	stored, err := persist.Load()
	require.NoError(t, err)
	assert.Equal(t, token, stored)
}

func TestRestoreDiscardsInvalidTokens(t *testing.T) {
	now := fixedNow
	tests := []struct {
		name  string
		token string
	}{
		{name: "expired", token: mintToken(t, now.Add(-time.Second))},
		{name: "expires exactly now", token: mintToken(t, now)},
		{name: "malformed", token: "definitely-not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			persist := NewMemoryTokenStore(tt.token)
			store := newTestStore(persist, &now)

			assert.Equal(t, StateUnauthenticated, store.Restore())
			assert.False(t, store.IsAuthenticated())
			assert.Empty(t, store.Token())

			_, err := persist.Load()
			assert.ErrorIs(t, err, ErrNoPersistedToken)
		})
	}
}

func TestRestoreWithoutPersistedToken(t *testing.T) {
	now := fixedNow
	store := newTestStore(NewMemoryTokenStore(""), &now)
	assert.Equal(t, StateUnauthenticated, store.Restore())
}

func TestRestoreRunsOnce(t *testing.T) {
	now := fixedNow
	persist := NewMemoryTokenStore("")
	store := newTestStore(persist, &now)
	require.Equal(t, StateUnauthenticated, store.Restore())

	require.NoError(t, persist.Save(mintToken(t, now.Add(time.Hour))))
	assert.Equal(t, StateUnauthenticated, store.Restore())
}

func TestLoginThenLogout(t *testing.T) {
	now := fixedNow
	persist := NewMemoryTokenStore("")
	store := newTestStore(persist, &now)
	store.Restore()

	token := mintToken(t, now.Add(time.Hour))
	require.NoError(t, store.Login(token, testUser()))

	assert.True(t, store.IsAuthenticated())
	assert.Equal(t, token, store.Token())
	require.NotNil(t, store.Identity())
	assert.Equal(t, "Lando Norris", store.Identity().FullName())
	stored, err := persist.Load()
	require.NoError(t, err)
	assert.Equal(t, token, stored)

	store.Logout()

	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, StateUnauthenticated, store.State())
	assert.Nil(t, store.Identity())
	_, err = persist.Load()
	assert.ErrorIs(t, err, ErrNoPersistedToken)
}

func TestLoginRejectsBadTokens(t *testing.T) {
	now := fixedNow
	persist := NewMemoryTokenStore("")
	store := newTestStore(persist, &now)
	store.Restore()

	assert.ErrorIs(t, store.Login("garbage", testUser()), ErrMalformedToken)
	assert.ErrorIs(t, store.Login(mintToken(t, now.Add(-time.Minute)), testUser()), ErrTokenExpired)
	assert.False(t, store.IsAuthenticated())
	_, err := persist.Load()
	assert.ErrorIs(t, err, ErrNoPersistedToken)
}

func TestLoginPersistFailureLeavesSessionUnchanged(t *testing.T) {
	now := fixedNow
	store := newTestStore(&failingStore{}, &now)
	store.Restore()

	err := store.Login(mintToken(t, now.Add(time.Hour)), testUser())
	require.Error(t, err)
	assert.False(t, store.IsAuthenticated())
	assert.Equal(t, StateUnauthenticated, store.State())
}

func TestLogoutNeverFails(t *testing.T) {
	now := fixedNow
	store := newTestStore(&failingStore{}, &now)

	assert.NotPanics(t, store.Logout)
	assert.Equal(t, StateUnauthenticated, store.State())

	empty := newTestStore(NewMemoryTokenStore(""), &now)
	assert.NotPanics(t, empty.Logout)
}

func TestTokenExpiryEndsSession(t *testing.T) {
	now := fixedNow
	persist := NewMemoryTokenStore("")
	store := newTestStore(persist, &now)
	store.Restore()
	require.NoError(t, store.Login(mintToken(t, now.Add(time.Minute)), testUser()))

	var states []State
	store.Subscribe(func(s State) { states = append(states, s) })

	now = now.Add(time.Minute)
	assert.Empty(t, store.Token())
	assert.Equal(t, StateUnauthenticated, store.State())
	assert.Nil(t, store.Identity())
	assert.Equal(t, []State{StateUnauthenticated}, states)

	_, err := persist.Load()
	assert.ErrorIs(t, err, ErrNoPersistedToken)
}

func TestSetIdentity(t *testing.T) {
	now := fixedNow
	store := newTestStore(NewMemoryTokenStore(mintToken(t, now.Add(time.Hour))), &now)

	store.SetIdentity(testUser())
	assert.Nil(t, store.Identity(), "ignored before restore")

	store.Restore()
	store.SetIdentity(testUser())
	require.NotNil(t, store.Identity())
	assert.Equal(t, "user-1", store.Identity().ID)

	store.Identity().Firstname = "mutated"
	assert.Equal(t, "Lando", store.Identity().Firstname)
}

func TestSubscribeAndUnsubscribe(t *testing.T) {
	now := fixedNow
	store := newTestStore(NewMemoryTokenStore(""), &now)

	var got []State
	unsubscribe := store.Subscribe(func(s State) { got = append(got, s) })
	store.Restore()
	require.NoError(t, store.Login(mintToken(t, now.Add(time.Hour)), nil))
	unsubscribe()
	store.Logout()

	assert.Equal(t, []State{StateUnauthenticated, StateAuthenticated}, got)
}

func TestFileTokenStore(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "state")
	fs, err := NewFileTokenStore(dir, "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "token.json"), fs.Path())

	_, err = fs.Load()
	assert.ErrorIs(t, err, ErrNoPersistedToken)
	require.NoError(t, fs.Delete(), "deleting nothing is fine")

	require.NoError(t, fs.Save("abc"))
	token, err := fs.Load()
	require.NoError(t, err)
	assert.Equal(t, "abc", token)

	info, err := os.Stat(fs.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	require.NoError(t, fs.Delete())
	_, err = fs.Load()
	assert.ErrorIs(t, err, ErrNoPersistedToken)
}

func TestFileTokenStoreCorruptFile(t *testing.T) {
	dir := t.TempDir()
	fs, err := NewFileTokenStore(dir, "token")
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(fs.Path(), []byte("{not json"), 0o600))

	_, err = fs.Load()
	assert.ErrorIs(t, err, ErrMalformedToken)

	now := fixedNow
	store := newTestStore(fs, &now)
	assert.Equal(t, StateUnauthenticated, store.Restore())
	_, err = os.Stat(fs.Path())
	assert.True(t, os.IsNotExist(err), "corrupt file is discarded")
}

func TestSessionSurvivesRestart(t *testing.T) {
	dir := t.TempDir()
	now := fixedNow
	token := mintToken(t, now.Add(time.Hour))

	first, err := NewFileTokenStore(dir, "token")
	require.NoError(t, err)
	s1 := newTestStore(first, &now)
	s1.Restore()
	require.NoError(t, s1.Login(token, testUser()))

	second, err := NewFileTokenStore(dir, "token")
	require.NoError(t, err)
	s2 := newTestStore(second, &now)
	assert.Equal(t, StateAuthenticated, s2.Restore())
	assert.Equal(t, token, s2.Token())
}
