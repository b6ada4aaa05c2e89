package blogs

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"quill/models"
)

type mongoRepository struct {
	coll *mongo.Collection
}

func NewMongoRepository(coll *mongo.Collection) Repository {
	return &mongoRepository{coll: coll}
}

var _ Repository = (*mongoRepository)(nil)

func (r *mongoRepository) Find(ctx context.Context, q Query) ([]models.Blog, error) {
	opts := options.Find()
	if len(q.Sort) > 0 {
		opts.SetSort(q.Sort)
	}
	if q.Skip > 0 {
		opts.SetSkip(q.Skip)
	}
	if q.Limit > 0 {
		opts.SetLimit(q.Limit)
	}

	cur, err := r.coll.Find(ctx, q.Filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find blogs: %w", err)
	}
	defer cur.Close(ctx)

	blogs := []models.Blog{}
	if err := cur.All(ctx, &blogs); err != nil {
		return nil, fmt.Errorf("decode blogs: %w", err)
	}
	return blogs, nil
}

func (r *mongoRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return 0, fmt.Errorf("count blogs: %w", err)
	}
	return n, nil
}

func (r *mongoRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Blog, error) {
	var blog models.Blog
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&blog)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find blog %s: %w", id.Hex(), err)
	}
	return &blog, nil
}

func (r *mongoRepository) Aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]models.Blog, error) {
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, fmt.Errorf("aggregate blogs: %w", err)
	}
	defer cur.Close(ctx)

	blogs := []models.Blog{}
	if err := cur.All(ctx, &blogs); err != nil {
		return nil, fmt.Errorf("decode blogs: %w", err)
	}
	return blogs, nil
}

func (r *mongoRepository) Insert(ctx context.Context, blog models.Blog) (primitive.ObjectID, error) {
	if blog.ID.IsZero() {
		blog.ID = primitive.NewObjectID()
	}
	if _, err := r.coll.InsertOne(ctx, blog); err != nil {
		return primitive.NilObjectID, fmt.Errorf("insert blog: %w", err)
	}
	return blog.ID, nil
}

func (r *mongoRepository) Update(ctx context.Context, id primitive.ObjectID, update bson.M) (models.UpdateAck, error) {
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return models.UpdateAck{}, fmt.Errorf("update blog %s: %w", id.Hex(), err)
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

func (r *mongoRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, fmt.Errorf("delete blog %s: %w", id.Hex(), err)
	}
	return res.DeletedCount, nil
}
