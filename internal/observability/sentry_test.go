package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

// captureEvents routes reports into a slice; BeforeSend drops them before
// they reach the transport.
func captureEvents(t *testing.T) *[]*sentry.Event {
	t.Helper()
	var events []*sentry.Event
	err := sentry.Init(sentry.ClientOptions{
		Dsn: "https://public@sentry.example.com/1",
		BeforeSend: func(e *sentry.Event, _ *sentry.EventHint) *sentry.Event {
			events = append(events, e)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("sentry init: %v", err)
	}
	t.Cleanup(func() { sentry.CurrentHub().BindClient(nil) })
	return &events
}

func TestInit_WithoutDSN(t *testing.T) {
	flush, err := Init(Options{Env: "dev", Service: "api"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	flush()
}

func TestCaptureRequest_TagsRouteAndUser(t *testing.T) {
	events := captureEvents(t)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/inspections", func(c *gin.Context) {
		c.Set("userID", "u-9")
		c.Set("userRole", "SUPERVISOR")
		CaptureRequest(c, errors.New("db down"))
		c.Status(http.StatusInternalServerError)
	})
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/inspections", nil))

	if len(*events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(*events))
	}
	e := (*events)[0]
	if e.Tags["route"] != "/inspections" || e.Tags["method"] != http.MethodPost || e.Tags["role"] != "SUPERVISOR" {
		t.Fatalf("tags %v", e.Tags)
	}
	if e.User.ID != "u-9" {
		t.Fatalf("user %+v", e.User)
	}
}

func TestCaptureJob_TagsJobAndSkipsNil(t *testing.T) {
	events := captureEvents(t)

	CaptureJob("dedupe", nil)
	CaptureJob("dedupe", errors.New("lock timeout"))

	if len(*events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(*events))
	}
	if (*events)[0].Tags["job"] != "dedupe" {
		t.Fatalf("tags %v", (*events)[0].Tags)
	}
}
