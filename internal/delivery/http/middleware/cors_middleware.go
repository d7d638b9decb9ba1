package middleware

import (
	"net/http"

	"github.com/gorilla/handlers"
)

type CORSMiddleware struct {
	handler func(http.Handler) http.Handler
}

// NewCORSMiddleware allows every origin when allowedOrigins is empty.
func NewCORSMiddleware(allowedOrigins []string) *CORSMiddleware {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	return &CORSMiddleware{
		handler: handlers.CORS(
			handlers.AllowedOrigins(allowedOrigins),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		),
	}
}

func (m *CORSMiddleware) Handle(next http.Handler) http.Handler {
	return m.handler(next)
}
