package stats

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"quill/models"
)

// groupBy counts documents per distinct value of field.
func groupBy(field string) bson.D {
	return bson.D{{Key: "$group", Value: bson.M{
		"_id":   "$" + field,
		"count": bson.M{"$sum": 1},
	}}}
}

func RolePipeline() mongo.Pipeline {
	return mongo.Pipeline{groupBy("role")}
}

func StatusPipeline() mongo.Pipeline {
	return mongo.Pipeline{groupBy("status")}
}

func AuthorStatusPipeline(email string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"author.email": email}}},
		groupBy("status"),
	}
}

// Counts indexes grouped rows by key. Documents missing the field group under "".
type Counts map[string]int64

func Tally(rows []models.GroupCount) Counts {
	c := make(Counts, len(rows))
	for _, row := range rows {
		key := ""
		if row.Key != nil {
			key = *row.Key
		}
		c[key] += row.Count
	}
	return c
}

// Admin reduces the role and status groupings. The totals are the sums of the
// known buckets, so readers without a staff role are not counted as users.
func Admin(roles, statuses Counts) models.AdminStats {
	s := models.AdminStats{
		TotalAdmin:         roles[models.RoleAdmin],
		TotalAuthor:        roles[models.RoleAuthor],
		TotalPendingBlogs:  statuses[string(models.StatusPending)],
		TotalApprovedBlogs: statuses[string(models.StatusApproved)],
		TotalDeniedBlogs:   statuses[string(models.StatusDenied)],
	}
	s.Users = s.TotalAdmin + s.TotalAuthor
	s.Blogs = s.TotalPendingBlogs + s.TotalApprovedBlogs + s.TotalDeniedBlogs
	return s
}

func Author(statuses Counts) models.AuthorStats {
	s := models.AuthorStats{
		TotalPendingBlogs:  statuses[string(models.StatusPending)],
		TotalApprovedBlogs: statuses[string(models.StatusApproved)],
		TotalDeniedBlogs:   statuses[string(models.StatusDenied)],
	}
	s.TotalBlogs = s.TotalPendingBlogs + s.TotalApprovedBlogs + s.TotalDeniedBlogs
	return s
}
