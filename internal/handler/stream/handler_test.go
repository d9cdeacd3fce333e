package stream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/emotion-dashboard/backend/internal/analysis/emotion"
	dashboardService "github.com/zhouzirui/emotion-dashboard/backend/internal/service/dashboard"
	emotionService "github.com/zhouzirui/emotion-dashboard/backend/internal/service/emotion"
)

type stubClassifier struct {
	result emotion.Result
	err    error
}

func (s stubClassifier) Classify(context.Context, string) (emotion.Result, error) {
	return s.result, s.err
}

func stream(t *testing.T, classifier stubClassifier, text string) string {
	t.Helper()
	ctrl := dashboardService.NewController(classifier)
	r := chi.NewRouter()
	New(ctrl, "Gemini", nil).RegisterRoutes(r)

	req := httptest.NewRequest(http.MethodGet, "/analyze/stream?text="+text, nil)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "text/event-stream" {
		t.Fatalf("unexpected content type %s", ct)
	}
	return resp.Body.String()
}

func eventOrder(body string) []string {
	var events []string
	for _, line := range strings.Split(body, "\n") {
		if name, ok := strings.CutPrefix(line, "event: "); ok {
			events = append(events, name)
		}
	}
	return events
}

func TestStreamSuccessEvents(t *testing.T) {
	body := stream(t, stubClassifier{result: emotion.Result{Emotion: emotion.Joy, Sentiment: emotion.Positive, Score: 0.92}}, "happy")

	got := strings.Join(eventOrder(body), ",")
	if got != "start,result,end" {
		t.Fatalf("unexpected event order %s", got)
	}
	if !strings.Contains(body, `"emotion":"Joy"`) {
		t.Fatalf("result payload missing: %s", body)
	}
}

func TestStreamFailureEvents(t *testing.T) {
	failure := &emotionService.ClassificationError{Stage: "generate", Cause: errors.New("timeout")}
	body := stream(t, stubClassifier{err: failure}, "sad")

	got := strings.Join(eventOrder(body), ",")
	if got != "start,error,end" {
		t.Fatalf("unexpected event order %s", got)
	}
	if !strings.Contains(body, emotionService.FailureMessage) {
		t.Fatalf("generic failure message missing: %s", body)
	}
}

func TestStreamBlankTextIsValidationError(t *testing.T) {
	body := stream(t, stubClassifier{}, "")

	if !strings.Contains(body, dashboardService.EmptyTextMessage) {
		t.Fatalf("validation message missing: %s", body)
	}
}
