package domain

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Avatar struct {
	PublicID string `json:"public_id,omitempty"`
	URL      string `json:"url"`
}

// User is the identity record owned by the user store. The password hash is
// never serialized to JSON, so session snapshots and responses cannot carry it.
type User struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Role           Role      `json:"role"`
	HashedPassword string    `json:"-"`
	Avatar         *Avatar   `json:"avatar,omitempty"`
	Courses        []string  `json:"courses"`
	IsVerified     bool      `json:"is_verified"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser builds a verified USER with a fresh id. An empty password yields an
// account that can only sign in through a social provider.
func NewUser(name, email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:         uuid.NewString(),
		Name:       name,
		Email:      email,
		Role:       RoleUser,
		Courses:    []string{},
		IsVerified: true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if password != "" {
		if err := user.SetPassword(password); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.HashedPassword = string(hash)
	return nil
}

func (u *User) HasPassword() bool {
	return u.HashedPassword != ""
}

func (u *User) ComparePassword(candidate string) bool {
	if !u.HasPassword() {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(u.HashedPassword), []byte(candidate))
	return err == nil
}

// Snapshot returns a copy safe to cache in the session store.
func (u *User) Snapshot() *User {
	s := *u
	s.HashedPassword = ""
	if u.Avatar != nil {
		a := *u.Avatar
		s.Avatar = &a
	}
	s.Courses = append([]string{}, u.Courses...)
	return &s
}
