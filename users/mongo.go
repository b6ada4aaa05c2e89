package users

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"quill/models"
)

type mongoRepository struct {
	coll *mongo.Collection
}

// NewMongoRepository expects the unique email index from db.EnsureIndexes
// to be in place; Insert relies on it to reject duplicates.
func NewMongoRepository(coll *mongo.Collection) Repository {
	return &mongoRepository{coll: coll}
}

var _ Repository = (*mongoRepository)(nil)

func (r *mongoRepository) FindAll(ctx context.Context) ([]models.User, error) {
	cur, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cur.Close(ctx)

	users := []models.User{}
	if err := cur.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	return users, nil
}

func (r *mongoRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.coll.FindOne(ctx, ByEmail(email)).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find user %q: %w", email, err)
	}
	return &user, nil
}

func (r *mongoRepository) Insert(ctx context.Context, user models.User) (primitive.ObjectID, error) {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	_, err := r.coll.InsertOne(ctx, user)
	if mongo.IsDuplicateKeyError(err) {
		return primitive.NilObjectID, ErrExists
	}
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert user: %w", err)
	}
	return user.ID, nil
}

func (r *mongoRepository) Update(ctx context.Context, email string, update bson.M) (models.UpdateAck, error) {
	res, err := r.coll.UpdateOne(ctx, ByEmail(email), update)
	if err != nil {
		return models.UpdateAck{}, fmt.Errorf("update user %q: %w", email, err)
	}
	if res.MatchedCount == 0 {
		return models.UpdateAck{}, ErrNotFound
	}
	return models.UpdateAck{
		Acknowledged:  true,
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}

func (r *mongoRepository) Delete(ctx context.Context, email string) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, ByEmail(email))
	if err != nil {
		return 0, fmt.Errorf("delete user %q: %w", email, err)
	}
	return res.DeletedCount, nil
}
