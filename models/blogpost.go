package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusDenied   Status = "denied"
)

type Author struct {
	Name  string `bson:"name,omitempty" json:"name,omitempty"`
	Email string `bson:"email" json:"email" validate:"omitempty,email"`
	Photo string `bson:"photo,omitempty" json:"photo,omitempty"`
}

// Blog is a post as stored in the blogs collection.
// Approved mirrors Status == StatusApproved; deny leaves EditorsPick untouched.
type Blog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Title       string             `bson:"title" json:"title"`
	Content     string             `bson:"content" json:"content"`
	Category    string             `bson:"category" json:"category"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Author      Author             `bson:"author" json:"author"`
	Status      Status             `bson:"status" json:"status"`
	Approved    bool               `bson:"approved" json:"approved"`
	Denied      bool               `bson:"denied" json:"denied"`
	ApprovedAt  *time.Time         `bson:"approvedAt,omitempty" json:"approvedAt,omitempty"`
	EditorsPick bool               `bson:"editorsPick" json:"editorsPick"`
	PostAt      time.Time          `bson:"postAt" json:"postAt"`
}

// BlogInput is the POST /blogs body.
type BlogInput struct {
	Title    string     `json:"title"`
	Content  string     `json:"content"`
	Category string     `json:"category"`
	Image    string     `json:"image"`
	Author   Author     `json:"author"`
	PostAt   *time.Time `json:"postAt"`
}

// BlogUpdate carries the fields a PATCH /updateBlog body may set. Nil means
// "leave as is".
type BlogUpdate struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	Category *string `json:"category"`
	Image    *string `json:"image"`
	Author   *Author `json:"author"`
}

func (u BlogUpdate) Empty() bool {
	return u.Title == nil && u.Content == nil && u.Category == nil && u.Image == nil && u.Author == nil
}

type EditorsPickUpdate struct {
	EditorsPick *bool `json:"editorsPick" validate:"required"`
}

// NewBlog validates in and fills the defaults every new post starts with.
func NewBlog(in BlogInput, now time.Time) (Blog, error) {
	if err := Validate(in); err != nil {
		return Blog{}, err
	}
	postAt := now.UTC()
	if in.PostAt != nil && !in.PostAt.IsZero() {
		postAt = in.PostAt.UTC()
	}
	return Blog{
		Title:    in.Title,
		Content:  in.Content,
		Category: in.Category,
		Image:    in.Image,
		Author:   in.Author,
		Status:   StatusPending,
		PostAt:   postAt,
	}, nil
}
