package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/p10-paddock/internal/models"
)

func TestLogin(t *testing.T) {
	fs := newFakeServer(t)
	fs.on("LoginUser", http.StatusOK, `{"data":{"loginUser":{"token":"tok","user":{"id":"u1","email":"lando@example.com","firstname":"Lando","lastname":"Norris","role":"user"}}}}`)
	client := newTestClient(fs, &mutableToken{}, 0)

	payload, err := client.Login(context.Background(), " lando@example.com ", "secret")
	require.NoError(t, err)
	assert.Equal(t, "tok", payload.Token)
	assert.Equal(t, "Lando Norris", payload.User.FullName())
	assert.Equal(t, "lando@example.com", fs.requests()[0].Variables["email"])
}

func TestLoginMissingToken(t *testing.T) {
	fs := newFakeServer(t)
	fs.on("LoginUser", http.StatusOK, `{"data":{"loginUser":{"token":"","user":{"id":"u1"}}}}`)
	client := newTestClient(fs, &mutableToken{}, 0)

	_, err := client.Login(context.Background(), "lando@example.com", "secret")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestLoginRequiresCredentials(t *testing.T) {
	fs := newFakeServer(t)
	client := newTestClient(fs, &mutableToken{}, 0)

	_, err := client.Login(context.Background(), "", "secret")
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, fs.requests())
}

func TestRegisterValidatesInput(t *testing.T) {
	fs := newFakeServer(t)
	fs.on("CreateUser", http.StatusOK, `{"data":{"createUser":{"id":"u2","email":"oscar@example.com","firstname":"Oscar","lastname":"Piastri","role":"user"}}}`)
	client := newTestClient(fs, &mutableToken{}, 0)
	ctx := context.Background()

	_, err := client.Register(ctx, models.RegisterInput{Email: "not-an-email", Firstname: "O", Lastname: "P", Password: "secret1"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = client.Register(ctx, models.RegisterInput{Email: "oscar@example.com", Firstname: "O", Lastname: "P", Password: "123"})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, fs.requests())

	user, err := client.Register(ctx, models.RegisterInput{Email: "oscar@example.com", Firstname: "Oscar", Lastname: "Piastri", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "u2", user.ID)
}

func TestUpdateProfileSendsOnlyChangedFields(t *testing.T) {
	fs := newFakeServer(t)
	fs.on("UpdateUser", http.StatusOK, `{"data":{"updateUser":{"id":"u1","firstname":"Max","lastname":"Norris"}}}`)
	client := newTestClient(fs, &mutableToken{token: "abc"}, 0)
	ctx := context.Background()

	_, err := client.UpdateProfile(ctx, models.ProfileUpdate{})
	assert.ErrorIs(t, err, ErrInvalidInput)

	user, err := client.UpdateProfile(ctx, models.ProfileUpdate{Firstname: "Max"})
	require.NoError(t, err)
	assert.Equal(t, "Max", user.Firstname)

	reqs := fs.requests()
	require.Len(t, reqs, 1)
	assert.Equal(t, map[string]interface{}{"firstname": "Max"}, reqs[0].Variables)
}

func TestMeAndDelete(t *testing.T) {
	fs := newFakeServer(t)
	fs.on("GetMe", http.StatusOK, `{"data":{"getMe":{"id":"u1","email":"lando@example.com","firstname":"Lando","lastname":"Norris","avatar":{"id":3,"picture_avatar":"https://img/3.png"}}}}`)
	fs.on("DeleteUser", http.StatusOK, `{"data":{"deleteUser":true}}`)
	client := newTestClient(fs, &mutableToken{token: "abc"}, 0)
	ctx := context.Background()

	me, err := client.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "https://img/3.png", me.AvatarURL())

	require.NoError(t, client.DeleteAccount(ctx))
}
