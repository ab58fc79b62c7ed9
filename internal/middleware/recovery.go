package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ranznz/wage-survey/pkg/errors"
	"github.com/ranznz/wage-survey/pkg/logger"
	"github.com/ranznz/wage-survey/pkg/response"
)

// Recovery converts panics into a 500 response and logs the error.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.WithModule("http").Error("panic",
					zap.String("path", c.Request.URL.Path),
					zap.Any("error", r),
				)
				// Avoid leaking internals to clients
				response.Error(c, errors.ErrInternalServer)
				c.Abort()
			}
		}()
		c.Next()
	}
}

// NotFoundHandler returns a JSON 404 response for unknown routes.
func NotFoundHandler(c *gin.Context) {
	response.Error(c, errors.ErrNotFound)
}

// MethodNotAllowedHandler answers requests that hit a known path with the wrong verb.
func MethodNotAllowedHandler(c *gin.Context) {
	response.Error(c, errors.ErrMethodNotAllowed)
}
