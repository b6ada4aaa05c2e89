package users

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"quill/models"
)

var (
	ErrNotFound = errors.New("user not found")
	ErrExists   = errors.New("user already exists")
)

type Repository interface {
	FindAll(ctx context.Context) ([]models.User, error)
	// FindByEmail returns nil, nil when nobody has the address.
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// Insert returns ErrExists when the email is taken.
	Insert(ctx context.Context, user models.User) (primitive.ObjectID, error)
	// Update never creates a user; it returns ErrNotFound instead.
	Update(ctx context.Context, email string, update bson.M) (models.UpdateAck, error)
	Delete(ctx context.Context, email string) (int64, error)
}
