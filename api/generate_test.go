package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/zecrev/codez/db"
	"github.com/zecrev/codez/session"
)

// Idea expansion reads nothing from the session, so it must keep working
// while another action holds the slot instead of answering 409.
func TestExpandIdeaIgnoresSessionSlot(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ctrl := session.NewController(session.Deps{
		Store: db.NewMemoryHistoryStore(),
	})
	if err := ctrl.BeginAction(session.ActionGenerate); err != nil {
		t.Fatalf("begin action failed: %v", err)
	}
	defer ctrl.EndAction("")

	h := &Handlers{session: ctrl}
	r := gin.New()
	r.POST("/api/idea/expand", h.ExpandIdea)

	req := httptest.NewRequest(http.MethodPost, "/api/idea/expand", strings.NewReader(`{"idea":"a bakery site"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code == http.StatusConflict {
		t.Fatal("idea expansion must not contend for the action slot")
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without a configured backend, got %d", rec.Code)
	}
}
