package models

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// Roles a user can hold. Self-registration always yields RoleUser.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is the identity record. Email doubles as the login handle and is
// stored case-normalized so the unique index behaves case-insensitively.
type User struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	Firstname  string    `json:"firstname"`
	Lastname   string    `json:"lastname"`
	Email      string    `json:"email" gorm:"uniqueIndex;not null"`
	Password   string    `json:"-"` // bcrypt hash, never serialized
	Role       string    `json:"role" gorm:"size:10;default:'USER'"`
	Avatar     string    `json:"avatar,omitempty" gorm:"type:text"`
	Cover      string    `json:"cover,omitempty" gorm:"type:text"`
	Bio        string    `json:"bio,omitempty" gorm:"type:text"`
	Banned     bool      `json:"banned" gorm:"default:false"`
	Subscribed bool      `json:"subscribed" gorm:"default:false"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// BeforeSave normalizes the email before every insert or update.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = NormalizeEmail(u.Email)
	return nil
}

// NormalizeEmail lowercases and trims an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Handle is the public short name derived from the email local part.
func (u *User) Handle() string {
	return "@" + strings.SplitN(u.Email, "@", 2)[0]
}

func (u *User) FullName() string {
	return strings.TrimSpace(u.Firstname + " " + u.Lastname)
}

type RegisterRequest struct {
	Firstname string `json:"firstname" validate:"required,min=2,max=50"`
	Lastname  string `json:"lastname" validate:"required,min=2,max=50"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// UpdateProfileRequest carries optional profile fields. Pointers distinguish
// "not sent" from "set to empty". Role is honored only on the admin route.
type UpdateProfileRequest struct {
	Firstname  *string `json:"firstname,omitempty" validate:"omitempty,min=2,max=50"`
	Lastname   *string `json:"lastname,omitempty" validate:"omitempty,min=2,max=50"`
	Bio        *string `json:"bio,omitempty" validate:"omitempty,max=500"`
	Avatar     *string `json:"avatar,omitempty" validate:"omitempty,max=2048"`
	Cover      *string `json:"cover,omitempty" validate:"omitempty,max=2048"`
	Subscribed *bool   `json:"subscribed,omitempty"`
	Role       *string `json:"role,omitempty" validate:"omitempty,oneof=USER ADMIN"`
}

// JwtCustomClaims are custom claims extending standard jwt.RegisteredClaims
type JwtCustomClaims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}
