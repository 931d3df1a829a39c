package templates

import (
	"github.com/go-storybook/storybook/internal/models"
)

// BaseProps contains common properties shared across all pages
type BaseProps struct {
	// User is the authenticated principal, or nil for guests. The navbar
	// switches on it.
	User *models.User
}

// ErrorPageProps contains properties for the error page
type ErrorPageProps struct {
	BaseProps
	Error string
}

// HomePageProps contains properties for the guest landing page
type HomePageProps struct {
	BaseProps
	Providers []OAuthProvider
}

// AboutPageProps contains properties for the about page
type AboutPageProps struct {
	BaseProps
}

// OAuthProvider represents a configured login provider for the views
type OAuthProvider struct {
	Name        string
	DisplayName string
}

// ProfilePageProps contains properties for the profile page
type ProfilePageProps struct {
	BaseProps
	Posts []*models.Post
}

// UsersPageProps contains properties for the user listing page
type UsersPageProps struct {
	BaseProps
	Users []*models.User
}

// UserPageProps contains properties for a single user's detail page
type UserPageProps struct {
	BaseProps
	Profile *models.User
}

// AddPostPageProps contains properties for the new-post form
type AddPostPageProps struct {
	BaseProps
}

// EditPostPageProps contains properties for the edit-post form
type EditPostPageProps struct {
	BaseProps
	Post *models.Post
}

// PostsPageProps contains properties for the public post listings
type PostsPageProps struct {
	BaseProps
	Posts []*models.Post
}
