package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/go-storybook/storybook/internal/metrics"
	"github.com/go-storybook/storybook/internal/middleware"
	"github.com/go-storybook/storybook/internal/models"
	"github.com/go-storybook/storybook/internal/services"
	"github.com/go-storybook/storybook/internal/store/storetest"
	"github.com/go-storybook/storybook/internal/templates"
)

// testApp wires the handlers against an in-memory store with the real view
// templates and session middleware.
type testApp struct {
	router *gin.Engine
	fake   *storetest.Fake
	users  *services.UserService
	posts  *services.PostService
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fake := storetest.New()
	logger := zerolog.Nop()
	userService := services.NewUserService(fake, logger)
	postService := services.NewPostService(fake, logger)
	rec := metrics.NewNoopMetrics()

	r := gin.New()
	r.Use(sessions.Sessions(middleware.SessionName, cookie.NewStore([]byte("test-secret"))))
	r.Use(middleware.LoadPrincipal(userService))

	tmpl, err := templates.Load(os.DirFS("../.."))
	require.NoError(t, err)
	r.SetHTMLTemplate(tmpl)

	pageHandler := NewPageHandler(nil)
	authHandler := NewAuthHandler(rec)
	userHandler := NewUserHandler(userService, postService, logger)
	postHandler := NewPostHandler(postService, rec, logger)

	r.GET("/test/login/:id", func(c *gin.Context) {
		session := sessions.Default(c)
		session.Set(middleware.SessionUserID, c.Param("id"))
		require.NoError(t, session.Save())
		c.Status(http.StatusNoContent)
	})

	r.GET("/", middleware.RequireGuest(), pageHandler.Home)
	r.GET("/about", pageHandler.About)
	r.GET("/logout", authHandler.Logout)

	protected := r.Group("", middleware.RequireAuth())
	{
		protected.GET("/profile", userHandler.Profile)
		protected.GET("/users", userHandler.ListUsers)
		protected.GET("/user/:id", userHandler.ShowUser)
		protected.POST("/addEmail", userHandler.AddEmail)
		protected.POST("/addPhone", userHandler.AddPhone)
		protected.POST("/addLocation", userHandler.AddLocation)

		protected.GET("/addPost", postHandler.AddPostPage)
		protected.POST("/savePost", postHandler.SavePost)
		protected.GET("/editPost/:id", postHandler.EditPostPage)
		protected.PUT("/editingPost/:id", postHandler.UpdatePost)
		protected.DELETE("/:id", postHandler.DeletePost)
		protected.GET("/posts", postHandler.PublicPosts)
		protected.GET("/showposts/:id", postHandler.UserPosts)
		protected.POST("/addComment/:id", postHandler.AddComment)
	}

	return &testApp{
		router: r,
		fake:   fake,
		users:  userService,
		posts:  postService,
	}
}

// seedUser creates a member directly in the store.
func (a *testApp) seedUser(t *testing.T, name string) *models.User {
	t.Helper()
	user, err := a.fake.CreateUser(context.Background(), &models.User{
		GoogleID: "google-" + name,
		FullName: name,
	})
	require.NoError(t, err)
	return user
}

// login establishes a session for the user and returns its cookies.
func (a *testApp) login(t *testing.T, user *models.User) []*http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test/login/"+user.ID.Hex(), nil))
	require.Equal(t, http.StatusNoContent, w.Code)
	return w.Result().Cookies()
}

// doWrapped performs a request against an arbitrary handler, typically the
// router behind the method-override wrapper.
func doWrapped(
	handler http.Handler,
	method, target string,
	form url.Values,
	cookies []*http.Cookie,
) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

// do performs a request with the given session cookies. Form requests get a
// urlencoded body.
func (a *testApp) do(
	method, target string,
	form url.Values,
	cookies []*http.Cookie,
) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}
