package routes

import (
	"github.com/julienschmidt/httprouter"

	"quill/auth"
	"quill/autocom"
	"quill/blogs"
	"quill/ratelim"
	"quill/stats"
	"quill/users"
)

type Handlers struct {
	Blogs  *blogs.Handler
	Users  *users.Handler
	Stats  *stats.Handler
	Tokens *auth.Issuer
	Health HealthDeps
	// Titles is nil when Redis is not configured.
	Titles *autocom.Index
}

func NewRouter(h Handlers, rateLimiter *ratelim.RateLimiter) *httprouter.Router {
	router := httprouter.New()
	router.GET("/", Index)
	router.GET("/health", Health(h.Health))

	AddBlogRoutes(router, h.Blogs, rateLimiter)
	if h.Titles != nil {
		router.GET("/blogs/suggest", rateLimiter.Limit(h.Titles.Suggest))
	}
	AddUserRoutes(router, h.Users)
	AddStatsRoutes(router, h.Stats)
	AddAuthRoutes(router, h.Tokens, rateLimiter)
	return router
}

// Public reads go through the rate limiter; moderation and author writes do not.
func AddBlogRoutes(router *httprouter.Router, b *blogs.Handler, rateLimiter *ratelim.RateLimiter) {
	router.GET("/blogs", rateLimiter.Limit(b.List))
	router.GET("/blogs/approved", rateLimiter.Limit(b.ListApproved))
	router.GET("/blogs/random", rateLimiter.Limit(b.Random))
	router.GET("/blogs/editorsPick", rateLimiter.Limit(b.EditorsPicks))
	router.GET("/blogs/category/:category", rateLimiter.Limit(b.ByCategory))
	router.GET("/blogs/author/:email", rateLimiter.Limit(b.ByAuthor))
	router.GET("/blogs/dashboard/:email", b.Dashboard)
	router.GET("/blog/:id", rateLimiter.Limit(b.Get))

	router.POST("/blogs", b.Create)
	router.PATCH("/blog/approve/:id", b.Approve)
	router.PATCH("/blog/deny/:id", b.Deny)
	router.PATCH("/blogs/editorsPick/:id", b.SetEditorsPick)
	router.PATCH("/updateBlog/:id", b.Edit)
	router.PUT("/updateBlog/:id", b.Edit)
	router.DELETE("/blog/delete/:id", b.Delete)
}

func AddUserRoutes(router *httprouter.Router, u *users.Handler) {
	router.GET("/users", u.List)
	router.GET("/users/role/:email", u.Role)
	router.POST("/users", u.Create)
	router.PATCH("/user/updateInfo/:email", u.UpdateInfo)
	router.PATCH("/users/roleUpdate/:email", u.UpdateRole)
	router.DELETE("/users/:email", u.Delete)
}

func AddStatsRoutes(router *httprouter.Router, s *stats.Handler) {
	router.GET("/admin-stats", s.Admin)
	router.GET("/author-stats/:email", s.Author)
}

func AddAuthRoutes(router *httprouter.Router, tokens *auth.Issuer, rateLimiter *ratelim.RateLimiter) {
	router.POST("/jwt", rateLimiter.Limit(tokens.IssueToken))
}
