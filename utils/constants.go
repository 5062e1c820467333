// Package utils provides utility functions for the application.
package utils

type ContextKey string

const (
	// RequestIDKey is the context key carrying the per-request correlation ID.
	RequestIDKey ContextKey = "request_id"
	// UserAgentKey is the context key carrying the client user agent.
	UserAgentKey ContextKey = "user_agent"
	// IPAddressKey is the context key carrying the client IP address.
	IPAddressKey ContextKey = "ip_address"
	// EndpointKey is the context key carrying the matched endpoint path.
	EndpointKey ContextKey = "endpoint"
	// TimeoutKey is the context key carrying the request timeout.
	TimeoutKey ContextKey = "timeout"
	// CancelFuncKey is the context key carrying the request cancel function.
	CancelFuncKey ContextKey = "cancel_func"
)

// CORS and security constants
const (
	// CORSMaxAge is the maximum age for CORS preflight requests (24 hours)
	CORSMaxAge = 86400
)

const (
	// DefaultPageSize is the page size applied when a list request omits one.
	DefaultPageSize = 10
	// MaxPageSize caps list page sizes.
	MaxPageSize = 100

	// StatisticsCacheKey is the Redis key prefix for cached tenant statistics.
	StatisticsCacheKey = "stats:tenant"
)
