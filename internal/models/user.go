package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt"
)

// Role is the closed set of user roles.
type Role string

const (
	RoleTenant Role = "TENANT"
	RoleOwner  Role = "OWNER"
	RoleAdmin  Role = "ADMIN"
)

// ParseRole accepts a role name in any letter case.
func ParseRole(s string) (Role, error) {
	switch Role(strings.ToUpper(strings.TrimSpace(s))) {
	case RoleTenant:
		return RoleTenant, nil
	case RoleOwner:
		return RoleOwner, nil
	case RoleAdmin:
		return RoleAdmin, nil
	}
	return "", fmt.Errorf("%w: unknown role %q", ErrInvalidRequest, s)
}

func (r Role) Valid() bool {
	return r == RoleTenant || r == RoleOwner || r == RoleAdmin
}

type User struct {
	ID         int        `json:"id"`
	Username   string     `json:"username"`
	Email      string     `json:"email"`
	Password   string     `json:"-"`
	Role       Role       `json:"role"`
	DateJoined time.Time  `json:"date_joined"`
	LastLogin  *time.Time `json:"last_login"`
}

// Caller is the identity attached to a request. The zero value is an
// anonymous caller.
type Caller struct {
	ID            int
	Role          Role
	Authenticated bool
}

// Anonymous returns the unauthenticated caller.
func Anonymous() Caller {
	return Caller{}
}

// Owns reports whether the caller is the owner of the given user id.
func (c Caller) Owns(ownerID int) bool {
	return c.Authenticated && c.ID == ownerID
}

type Claims struct {
	UserID int    `json:"user_id"`
	Role   Role   `json:"role"`
	jwt.StandardClaims
}

type Tokens struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
}

// Session is a refresh-token session stored in Redis.
type Session struct {
	UserID    int       `json:"user_id"`
	Role      Role      `json:"role"`
	ExpiresAt time.Time `json:"expires_at"`
}

type RegisterRequest struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Password2 string `json:"password2"`
	Role      string `json:"role,omitempty"`
}

type RegisterResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     Role   `json:"role"`
	Message  string `json:"message"`
}

type SignInRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type ChangeRoleRequest struct {
	Role string `json:"role"`
}
