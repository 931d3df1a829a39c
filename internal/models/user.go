package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// User represents a member of the site. A user is created exactly once, on
// the first successful login with a previously unseen provider account, and
// is never deleted by the application.
type User struct {
	ID bson.ObjectID `bson:"_id,omitempty"`

	// Provider subject ids. At most one per provider; a local user
	// corresponds 1:1 with the external identity that created it.
	GoogleID   string `bson:"google,omitempty"`
	FacebookID string `bson:"facebook,omitempty"`

	// Profile fields supplied by the provider at creation.
	FirstName string `bson:"firstname,omitempty"`
	LastName  string `bson:"lastname,omitempty"`
	FullName  string `bson:"fullname,omitempty"`
	Email     string `bson:"email,omitempty"`
	Image     string `bson:"image,omitempty"`

	// Contact fields the user may add later from the profile page.
	Phone    string `bson:"phone,omitempty"`
	Location string `bson:"location,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// DisplayName returns the best name available for rendering.
func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	if u.FirstName != "" || u.LastName != "" {
		if u.FirstName == "" {
			return u.LastName
		}
		if u.LastName == "" {
			return u.FirstName
		}
		return u.FirstName + " " + u.LastName
	}
	return u.Email
}
