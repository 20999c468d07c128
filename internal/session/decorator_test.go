package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type staticSource string

func (s staticSource) Token() string { return string(s) }

func TestAuthorizationHeader(t *testing.T) {
	assert.Empty(t, AuthorizationHeader(""))
	assert.Equal(t, map[string]string{"authorization": "Bearer abc"}, AuthorizationHeader("abc"))
}

func TestDecorate(t *testing.T) {
	t.Run("sets bearer credential", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
		NewDecorator(staticSource("abc")).Decorate(req)
		assert.Equal(t, "Bearer abc", req.Header.Get("Authorization"))
	})

	t.Run("clears stale credential", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
		req.Header.Set("Authorization", "Bearer old")
		NewDecorator(staticSource("")).Decorate(req)
		assert.Empty(t, req.Header.Values("Authorization"))
	})

	t.Run("nil source sends nothing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
		NewDecorator(nil).Decorate(req)
		assert.Empty(t, req.Header.Values("Authorization"))
	})
}

func TestDecorateFollowsStore(t *testing.T) {
	now := fixedNow
	store := newTestStore(NewMemoryTokenStore(""), &now)
	store.Restore()
	d := NewDecorator(store)

	req := httptest.NewRequest(http.MethodPost, "/graphql", nil)
	d.Decorate(req)
	assert.Empty(t, req.Header.Get("Authorization"))

	token := mintToken(t, now.Add(time.Hour))
	assert.NoError(t, store.Login(token, nil))
	d.Decorate(req)
	assert.Equal(t, "Bearer "+token, req.Header.Get("Authorization"))

	store.Logout()
	d.Decorate(req)
	assert.Empty(t, req.Header.Get("Authorization"))
}
