package blogs

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"quill/models"
	"quill/utils"
)

// SampleSize is how many approved posts GET /blogs/random returns.
const SampleSize = 5

var (
	byApprovedAt = bson.D{{Key: "approvedAt", Value: -1}}
	byPostAt     = bson.D{{Key: "postAt", Value: -1}}
)

// Query is one find call: filter, order and window. Limit 0 is unbounded.
type Query struct {
	Filter bson.M
	Sort   bson.D
	Skip   int64
	Limit  int64
}

// SearchFilter matches posts whose title, content or category contains
// search, ignoring case. An empty search matches everything.
func SearchFilter(search string, approvedOnly bool) bson.M {
	filter := bson.M{}
	if search != "" {
		pattern := bson.M{"$regex": regexp.QuoteMeta(search), "$options": "i"}
		filter["$or"] = []bson.M{
			{"title": pattern},
			{"content": pattern},
			{"category": pattern},
		}
	}
	if approvedOnly {
		filter["approved"] = true
	}
	return filter
}

// ListQuery is the paged GET /blogs query.
func ListQuery(o utils.QueryOptions) Query {
	q := Query{
		Filter: SearchFilter(o.Search, o.Approved),
		Skip:   o.Skip(),
		Limit:  int64(o.Limit),
	}
	if o.Approved {
		q.Sort = byApprovedAt
	}
	return q
}

func CategoryQuery(category string) Query {
	return Query{
		Filter: bson.M{"category": category, "approved": true},
		Sort:   byApprovedAt,
	}
}

// AuthorQuery lists an author's posts. The public listing only shows approved
// posts; the author's own dashboard shows everything, newest first.
func AuthorQuery(email string, dashboard bool) Query {
	if dashboard {
		return Query{Filter: bson.M{"author.email": email}, Sort: byPostAt}
	}
	return Query{
		Filter: bson.M{"author.email": email, "approved": true},
		Sort:   byApprovedAt,
	}
}

func EditorsPickQuery() Query {
	return Query{
		Filter: bson.M{"editorsPick": true, "approved": true},
		Sort:   byApprovedAt,
	}
}

func RandomPipeline() mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"status": models.StatusApproved}}},
		{{Key: "$sample", Value: bson.M{"size": SampleSize}}},
	}
}

func ApproveUpdate(now time.Time) bson.M {
	return bson.M{"$set": bson.M{
		"approved":   true,
		"denied":     false,
		"status":     models.StatusApproved,
		"approvedAt": now.UTC(),
	}}
}

// DenyUpdate leaves editorsPick alone.
func DenyUpdate() bson.M {
	return bson.M{"$set": bson.M{
		"approved": false,
		"denied":   true,
		"status":   models.StatusDenied,
	}}
}

func EditorsPickUpdate(pick bool) bson.M {
	return bson.M{"$set": bson.M{"editorsPick": pick}}
}

// ContentUpdate sets only the fields present in u.
func ContentUpdate(u models.BlogUpdate) bson.M {
	set := bson.M{}
	if u.Title != nil {
		set["title"] = *u.Title
	}
	if u.Content != nil {
		set["content"] = *u.Content
	}
	if u.Category != nil {
		set["category"] = *u.Category
	}
	if u.Image != nil {
		set["image"] = *u.Image
	}
	if u.Author != nil {
		set["author"] = *u.Author
	}
	return bson.M{"$set": set}
}
