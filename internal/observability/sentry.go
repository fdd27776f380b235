package observability

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

type Options struct {
	DSN     string
	Env     string
	Release string
	Service string // "api" or "dedupe"
}

// Init configures error reporting. Without a DSN reporting stays off and
// every Capture call is a no-op.
func Init(o Options) (func(), error) {
	if o.DSN == "" {
		return func() {}, nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:              o.DSN,
		Environment:      o.Env,
		Release:          o.Release,
		ServerName:       o.Service,
		AttachStacktrace: true,
	}); err != nil {
		return func() {}, err
	}
	sentry.ConfigureScope(func(s *sentry.Scope) {
		s.SetTag("service", o.Service)
	})
	return func() { sentry.Flush(2 * time.Second) }, nil
}

// CaptureRequest reports a failed request tagged with its route and caller.
func CaptureRequest(c *gin.Context, err error) {
	if err == nil {
		return
	}
	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(s *sentry.Scope) {
		s.SetTag("route", c.FullPath())
		s.SetTag("method", c.Request.Method)
		if role := c.GetString("userRole"); role != "" {
			s.SetTag("role", role)
		}
		if id := c.GetString("userID"); id != "" {
			s.SetUser(sentry.User{ID: id, Email: c.GetString("userEmail")})
		}
	})
	hub.CaptureException(err)
}

// CaptureJob reports a failed background job run.
func CaptureJob(job string, err error) {
	if err == nil {
		return
	}
	hub := sentry.CurrentHub().Clone()
	hub.ConfigureScope(func(s *sentry.Scope) {
		s.SetTag("job", job)
	})
	hub.CaptureException(err)
}
