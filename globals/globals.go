package globals

// Context keys
type ContextKey string

const (
	EmailKey     ContextKey = "email"
	RequestIDKey ContextKey = "requestId"
)
