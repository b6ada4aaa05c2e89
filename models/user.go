package models

import (
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleAdmin  = "admin"
	RoleAuthor = "author"
)

// User is a profile in the users collection. Email is the natural key and is
// unique at the store level. Plain readers have no role.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Email        string             `bson:"email" json:"email"`
	Name         string             `bson:"name" json:"name"`
	ProfileImage string             `bson:"profileImage" json:"profileImage"`
	Address      string             `bson:"address" json:"address"`
	Phone        string             `bson:"phone" json:"phone"`
	Dob          string             `bson:"dob" json:"dob"`
	Bio          string             `bson:"bio" json:"bio"`
	Role         string             `bson:"role,omitempty" json:"role,omitempty"`
}

// UserInput is the POST /users body; every field but email is optional.
type UserInput struct {
	Email        string `json:"email" validate:"required,email"`
	Name         string `json:"name"`
	ProfileImage string `json:"profileImage" validate:"omitempty,url"`
	Address      string `json:"address"`
	Phone        string `json:"phone"`
	Dob          string `json:"dob"`
	Bio          string `json:"bio"`
	Role         string `json:"role"`
}

type ProfileUpdate struct {
	Name         *string `json:"name"`
	ProfileImage *string `json:"profileImage" validate:"omitempty,url"`
	Address      *string `json:"address"`
	Phone        *string `json:"phone"`
	Dob          *string `json:"dob"`
	Bio          *string `json:"bio"`
}

func (u ProfileUpdate) Empty() bool {
	return u.Name == nil && u.ProfileImage == nil && u.Address == nil &&
		u.Phone == nil && u.Dob == nil && u.Bio == nil
}

type RoleUpdate struct {
	Role string `json:"role" validate:"required"`
}

func NewUser(in UserInput) (User, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := Validate(in); err != nil {
		return User{}, err
	}
	return User{
		Email:        in.Email,
		Name:         strings.TrimSpace(in.Name),
		ProfileImage: in.ProfileImage,
		Address:      in.Address,
		Phone:        in.Phone,
		Dob:          in.Dob,
		Bio:          in.Bio,
		Role:         strings.TrimSpace(in.Role),
	}, nil
}
