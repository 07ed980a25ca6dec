package gemini

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/yoyothesheep/ai-resilient-occupations/internal/ai"
	"github.com/yoyothesheep/ai-resilient-occupations/internal/logger"
	"github.com/yoyothesheep/ai-resilient-occupations/internal/onet"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"
)

//go:embed prompt.md
var promptTemplate string

const defaultMaxLogLength = 200

// contentGenerator abstracts the Gemini generator for testing.
type contentGenerator interface {
	GenerateContent(ctx context.Context, system, prompt string) (string, error)
}

// Scorer asks Gemini to rate batches of occupations for resilience to AI
// automation. It implements ai.Scorer.
type Scorer struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

// NewScorer creates a Scorer on top of a content generator.
func NewScorer(generator contentGenerator, maxLogLength int, log *zap.Logger) *Scorer {
	if log == nil {
		log = zap.NewNop()
	}
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Scorer{
		generator: generator,
		logger:    log,
		maxLogLen: maxLogLength,
	}
}

// ScoreBatch submits one batch of occupations and parses the model's JSON
// reply. The rubric travels as the system instruction. Responses that cannot
// be parsed are reported as ai.ErrMalformedResponse.
func (s *Scorer) ScoreBatch(ctx context.Context, rubric string, batch *onet.Occupations) ([]ai.Result, error) {
	if batch == nil || batch.Len() == 0 {
		return nil, nil
	}

	prompt := buildPrompt(batch)

	s.logger.Debug("gemini scoring request",
		zap.Int("batch_size", batch.Len()),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, s.maxLogLen)),
	)

	response, err := s.generator.GenerateContent(ctx, rubric, prompt)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("gemini scoring response",
		zap.Int("response_length", utf8.RuneCountInString(response)),
		zap.String("response_preview", logger.TruncateForLog(response, s.maxLogLen)),
	)

	results, err := parseResults(response)
	if err != nil {
		s.logger.Warn("discarding unparseable scoring response",
			zap.String("response_preview", logger.TruncateForLog(response, s.maxLogLen)),
			zap.Error(err),
		)
		return nil, fmt.Errorf("%w: %v", ai.ErrMalformedResponse, err)
	}

	return results, nil
}

func buildPrompt(batch *onet.Occupations) string {
	lines := make([]string, 0, batch.Len())
	for i, occ := range batch.Items {
		lines = append(lines, fmt.Sprintf("%d. %s (O*NET: %s, Job Zone: %s)", i+1, occ.Name, occ.Code, occ.JobZone))
	}

	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Score the following {{COUNT}} occupations.\n\n{{OCCUPATIONS}}\n\nRespond ONLY with a valid JSON array."
	}

	prompt := strings.ReplaceAll(template, "{{COUNT}}", strconv.Itoa(batch.Len()))
	prompt = strings.ReplaceAll(prompt, "{{OCCUPATIONS}}", strings.Join(lines, "\n"))

	return prompt
}

func parseResults(response string) ([]ai.Result, error) {
	payload := extractJSON(response)

	var raw []any
	if err := json.Unmarshal([]byte(payload), &raw); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	var results []ai.Result
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &results,
	})
	if err != nil {
		return nil, fmt.Errorf("build decoder: %w", err)
	}

	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decode results: %w", err)
	}

	return results, nil
}

// extractJSON strips markdown code fences the model sometimes wraps around
// its JSON payload.
func extractJSON(response string) string {
	trimmed := strings.TrimSpace(response)

	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(trimmed, "```")
		trimmed = strings.TrimSpace(trimmed)
	}

	return trimmed
}
