package models

import "strings"

// Avatar is a picture reference attached to a user or a league
type Avatar struct {
	ID      int    `json:"id"`
	Picture string `json:"picture_avatar"`
}

// User is the profile of an account as returned by the API
type User struct {
	ID        string  `json:"id" validate:"required"`
	Email     string  `json:"email" validate:"omitempty,email"`
	Firstname string  `json:"firstname"`
	Lastname  string  `json:"lastname"`
	Role      string  `json:"role"`
	AvatarID  *int    `json:"id_avatar,omitempty"`
	Avatar    *Avatar `json:"avatar,omitempty"`
}

// FullName returns "Firstname Lastname", trimmed when either part is missing
func (u *User) FullName() string {
	return strings.TrimSpace(u.Firstname + " " + u.Lastname)
}

// AvatarURL returns the avatar picture or an empty string
func (u *User) AvatarURL() string {
	if u.Avatar == nil {
		return ""
	}
	return u.Avatar.Picture
}

// AuthPayload is the result of a successful login
type AuthPayload struct {
	Token string `json:"token" validate:"required"`
	User  User   `json:"user"`
}

// RegisterInput carries the fields needed to create an account
type RegisterInput struct {
	Email     string `json:"email" validate:"required,email"`
	Firstname string `json:"firstname" validate:"required"`
	Lastname  string `json:"lastname" validate:"required"`
	Password  string `json:"password" validate:"required,min=6"`
}

// ProfileUpdate carries optional profile changes; empty fields are left untouched
type ProfileUpdate struct {
	Firstname string `json:"firstname,omitempty"`
	Lastname  string `json:"lastname,omitempty"`
	Password  string `json:"password,omitempty"`
}

// IsEmpty reports whether the update changes nothing
func (p ProfileUpdate) IsEmpty() bool {
	return p.Firstname == "" && p.Lastname == "" && p.Password == ""
}
