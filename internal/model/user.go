package model

import (
	"strings"
	"time"
)

const (
	LangES = "es"
	LangEN = "en"
)

type User struct {
	ID         string    `gorm:"primaryKey;size:16" bson:"_id" json:"id"`
	Name       string    `gorm:"not null" bson:"name" json:"name"`
	Email      string    `gorm:"uniqueIndex;not null" bson:"email" json:"email"`
	Password   string    `gorm:"not null" bson:"password" json:"-"`
	Admin      int       `bson:"admin" json:"admin"`
	Lang       string    `gorm:"size:2" bson:"lang" json:"lang"`
	Status     int       `gorm:"index" bson:"status" json:"status"`
	Avatar     *string   `bson:"avatar" json:"avatar"`
	Facebook   *string   `bson:"facebook" json:"facebook"`
	Github     *string   `bson:"github" json:"github"`
	Google     *string   `bson:"google" json:"google"`
	SignupDate time.Time `bson:"signupDate" json:"-"`
}

// NewUser returns an active, non-admin user. The password must already be
// hashed by the caller.
func NewUser(name, email, hash string, now time.Time) *User {
	return &User{
		Name:       name,
		Email:      strings.ToLower(email),
		Password:   hash,
		Lang:       LangES,
		Status:     1,
		SignupDate: now,
	}
}

func (u *User) IsAdmin() bool {
	return u.Admin == 1
}

func (u *User) Identity() Identity {
	return Identity{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Admin:  u.IsAdmin(),
	}
}

// Identity is the authenticated principal carried in access tokens.
type Identity struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Admin  bool   `json:"admin"`
}

// CanAccess reports whether the identity may act on the user with the given id.
func (i Identity) CanAccess(userID string) bool {
	return i.Admin || i.UserID == userID
}
