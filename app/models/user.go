package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is a registered account. Password holds the bcrypt hash and is
// never serialised; the reset-token pair is only populated between a
// forgot-password request and its consumption.
type User struct {
	ID                  primitive.ObjectID `bson:"_id,omitempty" json:"_id,omitempty"`
	Username            string             `bson:"username" json:"username"`
	Email               string             `bson:"email" json:"email"`
	Password            string             `bson:"password" json:"-"`
	IsAdmin             bool               `bson:"isAdmin" json:"isAdmin"`
	ResetPasswordToken  string             `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpire time.Time          `bson:"resetPasswordExpire,omitempty" json:"-"`
	CreatedAt           time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt           time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Profile is the public view of a user returned by auth and profile
// endpoints. No credential fields.
type Profile struct {
	ID       primitive.ObjectID `json:"_id"`
	Username string             `json:"username"`
	Email    string             `json:"email"`
	IsAdmin  bool               `json:"isAdmin"`
	Token    string             `json:"token,omitempty"`
}

// Profile returns the public view of u, optionally carrying a freshly
// issued bearer token.
func (u *User) Profile(token string) Profile {
	return Profile{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		IsAdmin:  u.IsAdmin,
		Token:    token,
	}
}
