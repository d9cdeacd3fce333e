package emotion

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	analysis "github.com/zhouzirui/emotion-dashboard/backend/internal/analysis/emotion"
)

// OpenAIOptions configures the OpenAI backend.
type OpenAIOptions struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature *float64
	MaxTokens   *int
}

type openAIBackend struct {
	client      *openai.Client
	model       string
	temperature *float64
	maxTokens   *int
}

// classificationReply documents the reply shape for schema generation.
type classificationReply struct {
	Emotion   string  `json:"emotion" jsonschema:"description=The primary emotion of the text."`
	Sentiment string  `json:"sentiment" jsonschema:"description=The overall sentiment of the text."`
	Score     float64 `json:"score" jsonschema:"description=Confidence score for the emotion from 0 to 1."`
}

var classificationSchema = generateSchema[classificationReply]()

// NewOpenAIBackend 使用 Responses API 与严格 JSON Schema 输出。
func NewOpenAIBackend(opts OpenAIOptions, extra ...option.RequestOption) Backend {
	requestOpts := []option.RequestOption{option.WithAPIKey(opts.APIKey)}
	if opts.BaseURL != "" {
		requestOpts = append(requestOpts, option.WithBaseURL(opts.BaseURL))
	}
	requestOpts = append(requestOpts, extra...)

	client := openai.NewClient(requestOpts...)
	return &openAIBackend{
		client:      &client,
		model:       opts.Model,
		temperature: opts.Temperature,
		maxTokens:   opts.MaxTokens,
	}
}

func (b *openAIBackend) Name() string {
	return "openai"
}

func (b *openAIBackend) Generate(ctx context.Context, promptText string) (string, error) {
	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "EmotionClassification",
			Schema:      classificationSchema,
			Strict:      openai.Bool(true),
			Description: openai.String("Emotion and sentiment classification JSON"),
			Type:        "json_schema",
		},
	}

	params := responses.ResponseNewParams{
		Model: b.model,
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(promptText, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}
	if b.temperature != nil {
		params.Temperature = openai.Float(*b.temperature)
	}
	if b.maxTokens != nil {
		params.MaxOutputTokens = openai.Int(int64(*b.maxTokens))
	}

	resp, err := b.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai API error: %w", err)
	}

	text := resp.OutputText()
	if strings.TrimSpace(text) == "" {
		return "", errors.New("openai returned no output text")
	}
	return text, nil
}

func generateSchema[T any]() map[string]interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	schema := reflector.Reflect(v)
	schemaObj, err := schemaToMap(schema)
	if err != nil {
		panic(err)
	}
	ensureOpenAICompliance(schemaObj)
	injectEnums(schemaObj)
	return schemaObj
}

func schemaToMap(schema *jsonschema.Schema) (map[string]interface{}, error) {
	b, err := schema.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return m, nil
}

const (
	propertiesKey           = "properties"
	additionalPropertiesKey = "additionalProperties"
	typeKey                 = "type"
	requiredKey             = "required"
	enumKey                 = "enum"
)

// ensureOpenAICompliance marks every object property required and closes
// the object, as strict mode demands.
func ensureOpenAICompliance(schema map[string]interface{}) {
	if schemaType, ok := schema[typeKey].(string); ok && schemaType == "object" {
		schema[additionalPropertiesKey] = false

		if properties, ok := schema[propertiesKey].(map[string]interface{}); ok {
			requiredFields := make([]string, 0, len(properties))
			for propName := range properties {
				requiredFields = append(requiredFields, propName)
			}
			sort.Strings(requiredFields)
			if len(requiredFields) > 0 {
				schema[requiredKey] = requiredFields
			}
		}
	}

	if properties, ok := schema[propertiesKey].(map[string]interface{}); ok {
		for _, prop := range properties {
			if propMap, ok := prop.(map[string]interface{}); ok {
				ensureOpenAICompliance(propMap)
			}
		}
	}
}

// injectEnums keeps the schema enum lists in step with the Go enums.
func injectEnums(schema map[string]interface{}) {
	properties, ok := schema[propertiesKey].(map[string]interface{})
	if !ok {
		return
	}
	if prop, ok := properties["emotion"].(map[string]interface{}); ok {
		prop[enumKey] = analysis.EmotionValues()
	}
	if prop, ok := properties["sentiment"].(map[string]interface{}); ok {
		prop[enumKey] = analysis.SentimentValues()
	}
}
