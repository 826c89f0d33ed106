package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"marketplace/internal/auth"
	"marketplace/internal/metrics"
	model "marketplace/internal/models"
	"marketplace/utils"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "marketplace/internal/server"

var (
	errMissingToken = errors.New("missing bearer token")
	errRoleDenied   = errors.New("role not permitted")
)

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	fields := map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	}
	if identity, ok := auth.IdentityFrom(c); ok {
		fields["user_id"] = identity.UserID
	}
	utils.Info("HTTP Request", fields)
}

// MetricsMiddleware records request counts and latency by route template
func MetricsMiddleware(c *gin.Context) {
	done := metrics.RequestStarted()

	c.Next()

	path := c.FullPath()
	if path == "" {
		path = "unmatched"
	}
	done(c.Request.Method, path, strconv.Itoa(c.Writer.Status()))
}

// TracingMiddleware opens a server span per request, continuing any incoming trace context
func TracingMiddleware(c *gin.Context) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))

	spanName := c.FullPath()
	if spanName == "" {
		spanName = "unmatched"
	}
	ctx, span := otel.Tracer(tracerName).Start(ctx, c.Request.Method+" "+spanName,
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(
			attribute.String("http.request.method", c.Request.Method),
			attribute.String("http.route", spanName),
		),
	)
	defer span.End()

	c.Request = c.Request.WithContext(ctx)
	c.Next()

	status := c.Writer.Status()
	span.SetAttributes(attribute.Int("http.response.status_code", status))
	if status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}

// AuthMiddleware requires a valid bearer token and stores the caller's identity
func AuthMiddleware(verifier *auth.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || strings.TrimSpace(token) == "" {
			utils.JSONError(c, http.StatusUnauthorized, errMissingToken, "authentication required")
			c.Abort()
			return
		}

		identity, err := verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			utils.Warn("AuthMiddleware: token rejected", map[string]any{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			utils.JSONError(c, http.StatusUnauthorized, err, "authentication required")
			c.Abort()
			return
		}

		auth.SetIdentity(c, identity)
		c.Next()
	}
}

// RequireRole admits only callers holding one of roles. It must run after AuthMiddleware.
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := auth.IdentityFrom(c)
		if !ok {
			utils.JSONError(c, http.StatusUnauthorized, errMissingToken, "authentication required")
			c.Abort()
			return
		}
		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}

		utils.Warn("RequireRole: access denied", map[string]any{
			"path":    c.Request.URL.Path,
			"user_id": identity.UserID,
			"role":    identity.Role,
		})
		utils.JSONError(c, http.StatusForbidden, errRoleDenied, "forbidden")
		c.Abort()
	}
}
