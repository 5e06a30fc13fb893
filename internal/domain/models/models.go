package models

import (
	"time"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

func (r Role) IsValid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID          int64     `json:"-" db:"id"`
	Username    string    `json:"username" db:"username"`
	Email       string    `json:"email" db:"email"`
	FirstName   string    `json:"first_name" db:"first_name"`
	LastName    string    `json:"last_name" db:"last_name"`
	Bio         string    `json:"bio" db:"bio"`
	Role        Role      `json:"role" db:"role"`
	IsActive    bool      `json:"-" db:"is_active"`
	IsSuperuser bool      `json:"-" db:"is_superuser"`
	CreatedAt   time.Time `json:"-" db:"created_at"`
	UpdatedAt   time.Time `json:"-" db:"updated_at"`
}

// AnonymousUser is put into the request context when no credentials were supplied.
var AnonymousUser = &User{}

func (u *User) IsAnonymous() bool {
	return u == nil || u == AnonymousUser || u.ID == 0
}

// IsAdmin reports admin rights. Superusers are admins whatever their role says.
func (u *User) IsAdmin() bool {
	if u.IsAnonymous() {
		return false
	}
	return u.Role == RoleAdmin || u.IsSuperuser
}

func (u *User) IsModerator() bool {
	if u.IsAnonymous() {
		return false
	}
	return u.Role == RoleModerator
}

// IsAuthor reports whether the user owns a resource authored by authorID.
func (u *User) IsAuthor(authorID int64) bool {
	if u.IsAnonymous() {
		return false
	}
	return u.ID == authorID
}

type Category struct {
	ID   int64  `json:"-" db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}

type Genre struct {
	ID   int64  `json:"-" db:"id"`
	Name string `json:"name" db:"name"`
	Slug string `json:"slug" db:"slug"`
}

type Title struct {
	ID          int64     `json:"id"`          // Unique integer ID for the title
	Name        string    `json:"name"`        // Title name
	Year        int32     `json:"year"`        // Release year, never in the future
	Rating      *float64  `json:"rating"`      // Mean review score, null without reviews
	Description string    `json:"description"` // Optional free text
	Genres      []Genre   `json:"genre"`       // Genres the title belongs to
	Category    *Category `json:"category"`    // Nulled when the category is deleted
}

type Review struct {
	ID       int64     `json:"id" db:"id"`
	TitleID  int64     `json:"-" db:"title_id"`
	AuthorID int64     `json:"-" db:"author_id"`
	Author   string    `json:"author" db:"author"`
	Text     string    `json:"text" db:"text"`
	Score    int16     `json:"score" db:"score"`
	PubDate  time.Time `json:"pub_date" db:"pub_date"`
}

type Comment struct {
	ID       int64     `json:"id" db:"id"`
	ReviewID int64     `json:"-" db:"review_id"`
	AuthorID int64     `json:"-" db:"author_id"`
	Author   string    `json:"author" db:"author"`
	Text     string    `json:"text" db:"text"`
	PubDate  time.Time `json:"pub_date" db:"pub_date"`
}

type AuthToken struct {
	Token string `json:"token"`
}
