package dashboard_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/zhouzirui/emotion-dashboard/backend/internal/analysis/emotion"
	model "github.com/zhouzirui/emotion-dashboard/backend/internal/model/dashboard"
	dashboard "github.com/zhouzirui/emotion-dashboard/backend/internal/service/dashboard"
	emotionsvc "github.com/zhouzirui/emotion-dashboard/backend/internal/service/emotion"
)

type fakeClassifier struct {
	mu      sync.Mutex
	calls   []string
	results []emotion.Result
	err     error
	block   chan struct{}
}

func (f *fakeClassifier) Classify(_ context.Context, text string) (emotion.Result, error) {
	if f.block != nil {
		<-f.block
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	idx := len(f.calls)
	f.calls = append(f.calls, text)
	if f.err != nil {
		return emotion.Result{}, f.err
	}
	if idx < len(f.results) {
		return f.results[idx], nil
	}
	return emotion.Result{Emotion: emotion.NeutralEmotion, Sentiment: emotion.NeutralSentiment, Score: 0.5}, nil
}

func (f *fakeClassifier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func sequentialIDs() dashboard.Option {
	n := 0
	return dashboard.WithIDGenerator(func() string {
		n++
		return fmt.Sprintf("rec-%d", n)
	})
}

func TestAnalyzeRejectsBlankText(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t"} {
		classifier := &fakeClassifier{}
		ctrl := dashboard.NewController(classifier)
		ctrl.SetText(text)

		err := ctrl.Analyze(context.Background())

		var validationErr *dashboard.ValidationError
		if !errors.As(err, &validationErr) {
			t.Fatalf("expected ValidationError for %q, got %v", text, err)
		}
		if classifier.callCount() != 0 {
			t.Fatalf("classifier should not be called for %q", text)
		}

		snap := ctrl.Snapshot()
		if snap.Error != dashboard.EmptyTextMessage {
			t.Fatalf("unexpected error message %q", snap.Error)
		}
		if len(snap.History) != 0 || snap.IsLoading {
			t.Fatalf("state changed on validation failure: %+v", snap)
		}
	}
}

func TestAnalyzeSuccessPrependsRecord(t *testing.T) {
	joy := emotion.Result{Emotion: emotion.Joy, Sentiment: emotion.Positive, Score: 0.92}
	classifier := &fakeClassifier{results: []emotion.Result{joy}}
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	ctrl := dashboard.NewController(classifier, sequentialIDs(), dashboard.WithClock(func() time.Time { return fixed }))

	ctrl.SetText("I am thrilled!")
	if err := ctrl.Analyze(context.Background()); err != nil {
		t.Fatalf("Analyze err: %v", err)
	}

	snap := ctrl.Snapshot()
	if len(snap.History) != 1 {
		t.Fatalf("expected 1 record, got %d", len(snap.History))
	}
	record := snap.History[0]
	if record.ID != "rec-1" || record.Text != "I am thrilled!" || !record.CreatedAt.Equal(fixed) {
		t.Fatalf("unexpected record %+v", record)
	}
	if snap.CurrentResult == nil || *snap.CurrentResult != record.ModelResult {
		t.Fatalf("current result does not match record: %+v", snap.CurrentResult)
	}
	if snap.IsLoading || snap.Error != "" {
		t.Fatalf("unexpected state after success: %+v", snap)
	}
	if snap.Stats.Total != 1 {
		t.Fatalf("expected total 1, got %d", snap.Stats.Total)
	}
}

func TestAnalyzeSendsRawText(t *testing.T) {
	classifier := &fakeClassifier{}
	ctrl := dashboard.NewController(classifier)

	if _, err := ctrl.Submit(context.Background(), "  padded text \n"); err != nil {
		t.Fatalf("Submit err: %v", err)
	}
	if classifier.calls[0] != "  padded text \n" {
		t.Fatalf("expected untrimmed text, got %q", classifier.calls[0])
	}
}

func TestAnalyzeFailureKeepsHistory(t *testing.T) {
	classifier := &fakeClassifier{results: []emotion.Result{{Emotion: emotion.Anger, Sentiment: emotion.Negative, Score: 0.8}}}
	ctrl := dashboard.NewController(classifier)

	if _, err := ctrl.Submit(context.Background(), "first"); err != nil {
		t.Fatalf("Submit err: %v", err)
	}

	classifier.err = &emotionsvc.ClassificationError{Stage: "parse", Cause: errors.New("invalid character 'x'")}
	_, err := ctrl.Submit(context.Background(), "second")
	if err == nil {
		t.Fatal("expected failure")
	}

	snap := ctrl.Snapshot()
	if len(snap.History) != 1 {
		t.Fatalf("history changed on failure: %d", len(snap.History))
	}
	if snap.CurrentResult != nil {
		t.Fatal("current result should be cleared on failure")
	}
	if snap.Error != emotionsvc.FailureMessage {
		t.Fatalf("expected generic message, got %q", snap.Error)
	}
	if snap.IsLoading {
		t.Fatal("loading flag not cleared")
	}
}

type emptyError struct{}

func (emptyError) Error() string { return "" }

func TestAnalyzeFailureWithoutMessage(t *testing.T) {
	ctrl := dashboard.NewController(&fakeClassifier{err: emptyError{}})

	if _, err := ctrl.Submit(context.Background(), "text"); err == nil {
		t.Fatal("expected failure")
	}
	if got := ctrl.Snapshot().Error; got != dashboard.UnknownErrorMessage {
		t.Fatalf("expected fallback message, got %q", got)
	}
}

func TestTwoSuccessesNewestFirst(t *testing.T) {
	classifier := &fakeClassifier{results: []emotion.Result{
		{Emotion: emotion.Joy, Sentiment: emotion.Positive, Score: 0.9},
		{Emotion: emotion.Sadness, Sentiment: emotion.Negative, Score: 0.7},
	}}
	ctrl := dashboard.NewController(classifier, sequentialIDs())

	for _, text := range []string{"good day", "bad day"} {
		if _, err := ctrl.Submit(context.Background(), text); err != nil {
			t.Fatalf("Submit err: %v", err)
		}
	}

	history := ctrl.History()
	if len(history) != 2 {
		t.Fatalf("expected 2 records, got %d", len(history))
	}
	if history[0].Text != "bad day" || history[1].Text != "good day" {
		t.Fatalf("unexpected order: %q, %q", history[0].Text, history[1].Text)
	}
	if history[0].ID == history[1].ID {
		t.Fatal("record ids must be unique")
	}

	stats := ctrl.Stats()
	if stats.Total != 2 {
		t.Fatalf("expected total 2, got %d", stats.Total)
	}
	sum := 0
	for _, row := range stats.Emotions {
		sum += row.Count
	}
	if sum != stats.Total {
		t.Fatalf("emotion counts sum to %d, want %d", sum, stats.Total)
	}
}

func TestSameTextIsNotDeduplicated(t *testing.T) {
	ctrl := dashboard.NewController(&fakeClassifier{})
	for i := 0; i < 3; i++ {
		if _, err := ctrl.Submit(context.Background(), "again"); err != nil {
			t.Fatalf("Submit err: %v", err)
		}
	}
	if got := len(ctrl.History()); got != 3 {
		t.Fatalf("expected 3 records, got %d", got)
	}
}

func TestDefaultRecordIDsAreUUIDs(t *testing.T) {
	ctrl := dashboard.NewController(&fakeClassifier{})
	record, err := ctrl.Submit(context.Background(), "hello")
	if err != nil {
		t.Fatalf("Submit err: %v", err)
	}
	if len(record.ID) != 36 {
		t.Fatalf("unexpected id %q", record.ID)
	}
}

func TestAnalyzeBusyGuard(t *testing.T) {
	classifier := &fakeClassifier{block: make(chan struct{})}
	ctrl := dashboard.NewController(classifier)

	updates, unsubscribe := ctrl.Subscribe()
	defer unsubscribe()

	done := make(chan error, 1)
	go func() {
		_, err := ctrl.Submit(context.Background(), "slow")
		done <- err
	}()

	waitForLoading(t, updates)

	if _, err := ctrl.Submit(context.Background(), "second"); !errors.Is(err, dashboard.ErrAnalysisInProgress) {
		t.Fatalf("expected ErrAnalysisInProgress, got %v", err)
	}

	close(classifier.block)
	if err := <-done; err != nil {
		t.Fatalf("first Submit err: %v", err)
	}
	if got := len(ctrl.History()); got != 1 {
		t.Fatalf("expected 1 record, got %d", got)
	}
	if classifier.callCount() != 1 {
		t.Fatalf("expected 1 classifier call, got %d", classifier.callCount())
	}
}

func TestSubscribeReceivesLatestSnapshot(t *testing.T) {
	ctrl := dashboard.NewController(&fakeClassifier{})
	updates, unsubscribe := ctrl.Subscribe()

	if _, err := ctrl.Submit(context.Background(), "hello"); err != nil {
		t.Fatalf("Submit err: %v", err)
	}

	select {
	case snap := <-updates:
		if snap.IsLoading || len(snap.History) != 1 {
			t.Fatalf("expected final snapshot, got %+v", snap)
		}
	case <-time.After(time.Second):
		t.Fatal("no snapshot received")
	}

	unsubscribe()
	if _, ok := <-updates; ok {
		t.Fatal("expected channel closed after unsubscribe")
	}
	unsubscribe()
}

func waitForLoading(t *testing.T, updates <-chan model.Snapshot) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case snap := <-updates:
			if snap.IsLoading {
				return
			}
		case <-deadline:
			t.Fatal("timed out waiting for loading state")
		}
	}
}

type ctxAwareClassifier struct {
	started chan struct{}
	release chan struct{}
}

func (c *ctxAwareClassifier) Classify(ctx context.Context, _ string) (emotion.Result, error) {
	close(c.started)
	select {
	case <-ctx.Done():
		return emotion.Result{}, &emotionsvc.ClassificationError{Stage: "generate", Cause: ctx.Err()}
	case <-c.release:
		return emotion.Result{Emotion: emotion.Joy, Sentiment: emotion.Positive, Score: 0.8}, nil
	}
}

func TestSubmitSurvivesCallerCancellation(t *testing.T) {
	classifier := &ctxAwareClassifier{started: make(chan struct{}), release: make(chan struct{})}
	ctrl := dashboard.NewController(classifier)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := ctrl.Submit(ctx, "walked away")
		done <- err
	}()

	<-classifier.started
	cancel()
	close(classifier.release)

	if err := <-done; err != nil {
		t.Fatalf("Submit err after caller cancelled: %v", err)
	}
	snap := ctrl.Snapshot()
	if len(snap.History) != 1 || snap.History[0].Text != "walked away" {
		t.Fatalf("expected record in history, got %+v", snap.History)
	}
	if snap.Error != "" || snap.IsLoading {
		t.Fatalf("unexpected state %+v", snap)
	}
}

type panickingClassifier struct {
	panics bool
}

func (p *panickingClassifier) Classify(context.Context, string) (emotion.Result, error) {
	if p.panics {
		panic("sdk exploded")
	}
	return emotion.Result{Emotion: emotion.Fear, Sentiment: emotion.Negative, Score: 0.3}, nil
}

func TestClassifierPanicResetsLoading(t *testing.T) {
	classifier := &panickingClassifier{panics: true}
	ctrl := dashboard.NewController(classifier)

	_, err := ctrl.Submit(context.Background(), "boom")
	var classErr *emotionsvc.ClassificationError
	if !errors.As(err, &classErr) {
		t.Fatalf("expected ClassificationError, got %v", err)
	}

	snap := ctrl.Snapshot()
	if snap.IsLoading {
		t.Fatal("loading flag stuck after panic")
	}
	if snap.Error != emotionsvc.FailureMessage {
		t.Fatalf("expected generic message, got %q", snap.Error)
	}
	if len(snap.History) != 0 || snap.CurrentResult != nil {
		t.Fatalf("state changed on panic: %+v", snap)
	}

	classifier.panics = false
	if _, err := ctrl.Submit(context.Background(), "calm again"); err != nil {
		t.Fatalf("Submit after panic err: %v", err)
	}
	if got := len(ctrl.History()); got != 1 {
		t.Fatalf("expected 1 record, got %d", got)
	}
}
