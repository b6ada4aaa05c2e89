package stats

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"quill/models"
)

type Repository interface {
	RoleCounts(ctx context.Context) ([]models.GroupCount, error)
	StatusCounts(ctx context.Context) ([]models.GroupCount, error)
	AuthorStatusCounts(ctx context.Context, email string) ([]models.GroupCount, error)
}

type mongoRepository struct {
	users *mongo.Collection
	blogs *mongo.Collection
}

func NewMongoRepository(users, blogs *mongo.Collection) Repository {
	return &mongoRepository{users: users, blogs: blogs}
}

func (r *mongoRepository) RoleCounts(ctx context.Context) ([]models.GroupCount, error) {
	return aggregate(ctx, r.users, RolePipeline())
}

func (r *mongoRepository) StatusCounts(ctx context.Context) ([]models.GroupCount, error) {
	return aggregate(ctx, r.blogs, StatusPipeline())
}

func (r *mongoRepository) AuthorStatusCounts(ctx context.Context, email string) ([]models.GroupCount, error) {
	return aggregate(ctx, r.blogs, AuthorStatusPipeline(email))
}

func aggregate(ctx context.Context, coll *mongo.Collection, pipeline mongo.Pipeline) ([]models.GroupCount, error) {
	cur, err := coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate %s: %w", coll.Name(), err)
	}
	defer cur.Close(ctx)

	var rows []models.GroupCount
	if err := cur.All(ctx, &rows); err != nil {
		return nil, fmt.Errorf("decode %s counts: %w", coll.Name(), err)
	}
	return rows, nil
}
