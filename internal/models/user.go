package models

import "time"

type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash *string   `json:"-"`
	GoogleID     *string   `json:"-"`
	FirstName    *string   `json:"firstName,omitempty"`
	LastName     *string   `json:"lastName,omitempty"`
	ImgURL       *string   `json:"imgUrl,omitempty"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SessionUser is the public view of the authenticated user, rebuilt from the
// store on every request.
type SessionUser struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	ImgURL    *string `json:"imgUrl,omitempty"`
	IsAdmin   bool    `json:"isAdmin"`
}

func NewSessionUser(user *User) *SessionUser {
	if user == nil {
		return nil
	}
	return &SessionUser{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		ImgURL:    user.ImgURL,
		IsAdmin:   user.IsAdmin,
	}
}

// Actor identifies who is performing a service call.
type Actor struct {
	UserID  string
	IsAdmin bool
}

func (u *SessionUser) Actor() Actor {
	if u == nil {
		return Actor{}
	}
	return Actor{UserID: u.ID, IsAdmin: u.IsAdmin}
}

// CanAccess reports whether the actor may read or modify a resource owned by ownerID.
func (a Actor) CanAccess(ownerID string) bool {
	return a.IsAdmin || (a.UserID != "" && a.UserID == ownerID)
}

type SignUpInput struct {
	Email     string
	Password  *string
	GoogleID  *string
	FirstName *string
	LastName  *string
	ImgURL    *string
}

type SignInInput struct {
	Email    string
	Password *string
	GoogleID *string
}

type UpdateUserInput struct {
	FirstName *string
	LastName  *string
}

type ChangePasswordInput struct {
	CurrentPassword string
	NewPassword     string
}
