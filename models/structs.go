package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Write acknowledgements, shaped like the driver results clients already
// consume.

type InsertAck struct {
	Acknowledged bool               `json:"acknowledged"`
	InsertedID   primitive.ObjectID `json:"insertedId"`
}

type UpdateAck struct {
	Acknowledged  bool  `json:"acknowledged"`
	MatchedCount  int64 `json:"matchedCount"`
	ModifiedCount int64 `json:"modifiedCount"`
}

type DeleteAck struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

type AdminStats struct {
	Users              int64 `json:"users"`
	Blogs              int64 `json:"blogs"`
	TotalAdmin         int64 `json:"totalAdmin"`
	TotalAuthor        int64 `json:"totalAuthor"`
	TotalPendingBlogs  int64 `json:"totalPendingBlogs"`
	TotalApprovedBlogs int64 `json:"totalApprovedBlogs"`
	TotalDeniedBlogs   int64 `json:"totalDeniedBlogs"`
}

type AuthorStats struct {
	TotalBlogs         int64 `json:"totalBlogs"`
	TotalPendingBlogs  int64 `json:"totalPendingBlogs"`
	TotalApprovedBlogs int64 `json:"totalApprovedBlogs"`
	TotalDeniedBlogs   int64 `json:"totalDeniedBlogs"`
}

// GroupCount is one row of a $group {_id: <field>, count: {$sum: 1}} stage.
type GroupCount struct {
	Key   *string `bson:"_id" json:"_id"`
	Count int64   `bson:"count" json:"count"`
}
