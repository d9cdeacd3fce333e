package emotion

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	analysis "github.com/zhouzirui/emotion-dashboard/backend/internal/analysis/emotion"
)

// FailureMessage 是所有分类失败时展示给用户的统一提示。
const FailureMessage = "Failed to analyze emotion. Please check your API key and network connection."

// Classifier 对文本进行情绪与情感分类。
type Classifier interface {
	Classify(ctx context.Context, text string) (analysis.Result, error)
}

// Backend 封装单个大模型提供方：发送提示词并返回模型的原始文本回复。
// 每个实现都需要按各自 SDK 的方式声明输出结构。
type Backend interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// ClassificationError wraps any failure at the model boundary. Error returns
// the user-facing message; the raw cause is only reachable via Unwrap.
type ClassificationError struct {
	Stage string
	Cause error
}

func (e *ClassificationError) Error() string {
	return FailureMessage
}

func (e *ClassificationError) Unwrap() error {
	return e.Cause
}

// Service 通过配置的 Backend 完成一次分类调用，不做重试。
type Service struct {
	backend Backend
	logger  *zap.Logger
}

// NewService 创建分类服务。
func NewService(backend Backend, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		backend: backend,
		logger:  logger.Named("emotion"),
	}
}

// Provider returns the backend name.
func (s *Service) Provider() string {
	return s.backend.Name()
}

// Classify 构造提示词、调用模型并校验回复。
func (s *Service) Classify(ctx context.Context, text string) (analysis.Result, error) {
	reply, err := s.backend.Generate(ctx, BuildPrompt(text))
	if err != nil {
		return analysis.Result{}, s.fail("generate", err, "")
	}

	result, err := parseReply(reply)
	if err != nil {
		return analysis.Result{}, s.fail("parse", err, reply)
	}

	s.logger.Debug("classified text",
		zap.String("provider", s.backend.Name()),
		zap.String("emotion", string(result.Emotion)),
		zap.String("sentiment", string(result.Sentiment)),
		zap.Float64("score", result.Score))
	return result, nil
}

func (s *Service) fail(stage string, cause error, reply string) error {
	fields := []zap.Field{
		zap.String("provider", s.backend.Name()),
		zap.String("stage", stage),
		zap.Error(cause),
	}
	if reply != "" {
		fields = append(fields, zap.String("response", reply))
	}
	s.logger.Error("Error analyzing emotion", fields...)
	return &ClassificationError{Stage: stage, Cause: cause}
}

// ErrMissingCredentials 表示所选提供方没有配置 API Key。
var ErrMissingCredentials = errors.New("api key not configured")

// unconfiguredBackend 在缺少凭证时使用，每次调用都失败。
type unconfiguredBackend struct {
	provider string
	hint     string
}

// NewUnconfiguredBackend returns a backend whose calls always fail with
// ErrMissingCredentials.
func NewUnconfiguredBackend(provider, hint string) Backend {
	return &unconfiguredBackend{provider: provider, hint: hint}
}

func (b *unconfiguredBackend) Name() string {
	return b.provider
}

func (b *unconfiguredBackend) Generate(context.Context, string) (string, error) {
	if strings.TrimSpace(b.hint) == "" {
		return "", ErrMissingCredentials
	}
	return "", fmt.Errorf("%w: set %s", ErrMissingCredentials, b.hint)
}
