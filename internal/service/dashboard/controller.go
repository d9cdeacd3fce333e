package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zhouzirui/emotion-dashboard/backend/internal/analysis/emotion"
	model "github.com/zhouzirui/emotion-dashboard/backend/internal/model/dashboard"
	emotionsvc "github.com/zhouzirui/emotion-dashboard/backend/internal/service/emotion"
)

const (
	// EmptyTextMessage is shown when the input is blank.
	EmptyTextMessage = "Please enter some text to analyze."
	// UnknownErrorMessage replaces failures that carry no message.
	UnknownErrorMessage = "An unknown error occurred."
)

// ErrAnalysisInProgress 表示已有分类请求在进行中。
var ErrAnalysisInProgress = errors.New("an analysis is already in progress")

// ValidationError reports input rejected before any model call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// Option customises a Controller.
type Option func(*Controller)

// WithStore replaces the default in-memory history.
func WithStore(store model.Store) Option {
	return func(c *Controller) {
		c.store = store
	}
}

// WithClock overrides the record timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) {
		c.now = now
	}
}

// WithIDGenerator overrides record id generation.
func WithIDGenerator(newID func() string) Option {
	return func(c *Controller) {
		c.newID = newID
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Controller 持有仪表盘的全部可变状态：输入文本、加载标记、错误、当前结果与历史。
// 所有字段由 mu 保护，模型调用期间释放锁，isLoading 保证同一时刻最多一次调用。
type Controller struct {
	classifier emotionsvc.Classifier
	store      model.Store
	logger     *zap.Logger
	now        func() time.Time
	newID      func() string

	mu            sync.Mutex
	text          string
	isLoading     bool
	errMessage    string
	currentResult *emotion.Result

	nextSubID   int
	subscribers map[int]chan model.Snapshot
}

// NewController creates a controller in the idle state with empty history.
func NewController(classifier emotionsvc.Classifier, opts ...Option) *Controller {
	c := &Controller{
		classifier:  classifier,
		store:       model.NewMemoryStore(),
		logger:      zap.NewNop(),
		now:         func() time.Time { return time.Now().UTC() },
		newID:       newRecordID,
		subscribers: make(map[int]chan model.Snapshot),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.Named("dashboard")
	return c
}

func newRecordID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// SetText updates the bound input text.
func (c *Controller) SetText(text string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.text == text {
		return
	}
	c.text = text
	c.publishLocked()
}

// Analyze classifies the current text.
func (c *Controller) Analyze(ctx context.Context) error {
	c.mu.Lock()
	text := c.text
	c.mu.Unlock()

	_, err := c.run(ctx, text, false)
	return err
}

// Submit 设置文本并立即分析，返回新写入历史的记录。
// HTTP 处理器使用它，避免并发请求之间互相覆盖输入。
func (c *Controller) Submit(ctx context.Context, text string) (model.Record, error) {
	return c.run(ctx, text, true)
}

func (c *Controller) run(ctx context.Context, text string, setText bool) (model.Record, error) {
	c.mu.Lock()
	if c.isLoading {
		c.mu.Unlock()
		return model.Record{}, ErrAnalysisInProgress
	}
	if setText {
		c.text = text
	}

	if strings.TrimSpace(text) == "" {
		c.errMessage = EmptyTextMessage
		c.publishLocked()
		c.mu.Unlock()
		return model.Record{}, &ValidationError{Message: EmptyTextMessage}
	}

	c.errMessage = ""
	c.currentResult = nil
	c.isLoading = true
	c.publishLocked()
	c.mu.Unlock()

	// 请求断开不影响已提交的分析，结果仍写入共享状态。
	result, err := c.classify(context.WithoutCancel(ctx), text)

	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.publishLocked()
	c.isLoading = false

	if err != nil {
		message := err.Error()
		if message == "" {
			message = UnknownErrorMessage
		}
		c.errMessage = message
		c.logger.Warn("analysis failed", zap.Error(err))
		return model.Record{}, err
	}

	record := model.Record{
		ID:          c.newID(),
		Text:        text,
		ModelResult: result,
		CreatedAt:   c.now(),
	}
	c.currentResult = &result
	c.store.Prepend(record)

	c.logger.Info("analysis recorded",
		zap.String("id", record.ID),
		zap.String("emotion", string(result.Emotion)),
		zap.Int("history", c.store.Len()))
	return record, nil
}

// classify turns a classifier panic into a ClassificationError so the
// loading flag is always cleared.
func (c *Controller) classify(ctx context.Context, text string) (result emotion.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("classifier panicked", zap.Any("panic", r), zap.Stack("stack"))
			err = &emotionsvc.ClassificationError{
				Stage: "panic",
				Cause: fmt.Errorf("classifier panicked: %v", r),
			}
		}
	}()
	return c.classifier.Classify(ctx, text)
}

// Snapshot returns a consistent copy of the state with derived stats.
func (c *Controller) Snapshot() model.Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

// History returns the records, newest first.
func (c *Controller) History() []model.Record {
	return c.store.List()
}

// Stats 基于历史按需重新计算统计。
func (c *Controller) Stats() emotion.Stats {
	return emotion.Summarize(c.store.Results())
}

func (c *Controller) snapshotLocked() model.Snapshot {
	var current *emotion.Result
	if c.currentResult != nil {
		r := *c.currentResult
		current = &r
	}
	history := c.store.List()
	results := make([]emotion.Result, 0, len(history))
	for _, record := range history {
		results = append(results, record.ModelResult)
	}

	return model.Snapshot{
		Text:          c.text,
		IsLoading:     c.isLoading,
		Error:         c.errMessage,
		CurrentResult: current,
		History:       history,
		Stats:         emotion.Summarize(results),
	}
}

// Subscribe 注册状态变更通知。通道缓冲为 1，只保留最新的快照；
// 调用返回的函数取消订阅并关闭通道。
func (c *Controller) Subscribe() (<-chan model.Snapshot, func()) {
	ch := make(chan model.Snapshot, 1)

	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = ch
	c.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subscribers, id)
			close(ch)
		})
	}
}

func (c *Controller) publishLocked() {
	if len(c.subscribers) == 0 {
		return
	}
	snapshot := c.snapshotLocked()
	for _, ch := range c.subscribers {
		select {
		case ch <- snapshot:
			continue
		default:
		}
		// Drop the stale snapshot so the newest one wins.
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snapshot:
		default:
		}
	}
}
