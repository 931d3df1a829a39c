package models

import (
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Post visibility statuses. Only public posts appear in shared listings.
const (
	StatusPublic      = "public"
	StatusPrivate     = "private"
	StatusUnpublished = "unpublished"
)

// ValidStatus reports whether s is one of the recognised post statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPublic, StatusPrivate, StatusUnpublished:
		return true
	}
	return false
}

// Comment is a single comment embedded in a post. Comments are append-only;
// the application never edits or removes them.
type Comment struct {
	Body      string        `bson:"comment_body"`
	UserID    bson.ObjectID `bson:"comment_user"`
	CreatedAt time.Time     `bson:"comment_date"`

	// User carries the commenter's record after population. Not stored.
	User *User `bson:"-"`
}

// Post is a story written by a user. The owning user must exist when the
// post is created. Title, body, status and AllowComments are mutable via the
// edit flow; id, owner and comments survive edits untouched.
type Post struct {
	ID            bson.ObjectID `bson:"_id,omitempty"`
	Title         string        `bson:"title"`
	Body          string        `bson:"body"`
	Status        string        `bson:"status"`
	AllowComments bool          `bson:"allow_comments"`
	UserID        bson.ObjectID `bson:"user"`
	Comments      []Comment     `bson:"comments,omitempty"`
	CreatedAt     time.Time     `bson:"date"`

	// User carries the owner's record after population. Not stored.
	User *User `bson:"-"`
}

// IsPublic reports whether the post belongs in public listings.
func (p *Post) IsPublic() bool {
	return p.Status == StatusPublic
}
