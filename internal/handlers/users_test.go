package handlers

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/go-storybook/storybook/internal/middleware"
	"github.com/go-storybook/storybook/internal/models"
	"github.com/go-storybook/storybook/internal/services"
)

func TestProfileShowsOwnStoriesOnly(t *testing.T) {
	app := newTestApp(t)
	alice := app.seedUser(t, "Alice")
	bob := app.seedUser(t, "Bob")
	cookies := app.login(t, alice)
	ctx := context.Background()

	_, err := app.posts.CreatePost(ctx, services.CreatePostParams{
		Title: "Alice draft", Body: "b", Status: models.StatusUnpublished, UserID: alice.ID,
	})
	require.NoError(t, err)
	_, err = app.posts.CreatePost(ctx, services.CreatePostParams{
		Title: "Bob story", Body: "b", Status: models.StatusPublic, UserID: bob.ID,
	})
	require.NoError(t, err)

	w := app.do(http.MethodGet, "/profile", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	assert.Contains(t, body, "Alice draft", "profile shows every status the owner has")
	assert.NotContains(t, body, "Bob story")
}

func TestListUsers(t *testing.T) {
	app := newTestApp(t)
	alice := app.seedUser(t, "Alice")
	app.seedUser(t, "Bob")
	cookies := app.login(t, alice)

	w := app.do(http.MethodGet, "/users", nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Alice")
	assert.Contains(t, w.Body.String(), "Bob")
}

func TestShowUser(t *testing.T) {
	app := newTestApp(t)
	alice := app.seedUser(t, "Alice")
	bob := app.seedUser(t, "Bob")
	cookies := app.login(t, alice)

	w := app.do(http.MethodGet, "/user/"+bob.ID.Hex(), nil, cookies)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Bob")
}

func TestShowUserNotFound(t *testing.T) {
	app := newTestApp(t)
	alice := app.seedUser(t, "Alice")
	cookies := app.login(t, alice)

	w := app.do(http.MethodGet, "/user/"+bson.NewObjectID().Hex(), nil, cookies)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = app.do(http.MethodGet, "/user/garbage", nil, cookies)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddEmail(t *testing.T) {
	app := newTestApp(t)
	user := app.seedUser(t, "Jane Doe")
	cookies := app.login(t, user)

	w := app.do(http.MethodPost, "/addEmail", url.Values{"email": {"jane@example.com"}}, cookies)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.AuthLanding, w.Header().Get("Location"))

	got, err := app.users.GetUserByID(context.Background(), user.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", got.Email)
}

func TestAddEmailRejectsInvalidAddress(t *testing.T) {
	app := newTestApp(t)
	user := app.seedUser(t, "Jane Doe")
	cookies := app.login(t, user)

	w := app.do(http.MethodPost, "/addEmail", url.Values{"email": {"not-an-email"}}, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(http.MethodPost, "/addEmail", url.Values{}, cookies)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddPhoneAndLocation(t *testing.T) {
	app := newTestApp(t)
	user := app.seedUser(t, "Jane Doe")
	cookies := app.login(t, user)

	w := app.do(http.MethodPost, "/addPhone", url.Values{"phone": {"+1 555 0100"}}, cookies)
	assert.Equal(t, http.StatusFound, w.Code)

	w = app.do(http.MethodPost, "/addLocation", url.Values{"location": {"Lisbon"}}, cookies)
	assert.Equal(t, http.StatusFound, w.Code)

	got, err := app.users.GetUserByID(context.Background(), user.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "+1 555 0100", got.Phone)
	assert.Equal(t, "Lisbon", got.Location)
}

func TestLogoutClearsSession(t *testing.T) {
	app := newTestApp(t)
	user := app.seedUser(t, "Jane Doe")
	cookies := app.login(t, user)

	w := app.do(http.MethodGet, "/logout", nil, cookies)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, middleware.GuestLanding, w.Header().Get("Location"))

	// The refreshed cookie no longer carries a principal.
	w2 := app.do(http.MethodGet, "/profile", nil, w.Result().Cookies())
	assert.Equal(t, http.StatusFound, w2.Code)
	assert.Equal(t, middleware.GuestLanding, w2.Header().Get("Location"))
}
