package blogs

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"quill/models"
)

var ErrNotFound = errors.New("blog not found")

type Repository interface {
	Find(ctx context.Context, q Query) ([]models.Blog, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error)
	Aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]models.Blog, error)
	Insert(ctx context.Context, blog models.Blog) (primitive.ObjectID, error)
	// Update never upserts; it returns ErrNotFound when id matches nothing.
	Update(ctx context.Context, id primitive.ObjectID, update bson.M) (models.UpdateAck, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
}
