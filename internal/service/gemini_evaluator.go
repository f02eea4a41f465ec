package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/hntrann/casepanel/config"
	"github.com/hntrann/casepanel/internal/model"
	"github.com/rs/zerolog/log"
	"google.golang.org/api/option"
)

// CriterionScore is one rubric line of the evaluator's verdict.
type CriterionScore struct {
	Criterion string `json:"criterion"`
	Score     int    `json:"score"`
	Comment   string `json:"comment"`
}

// TranscriptEvaluation is the parsed evaluator output for one attempt.
type TranscriptEvaluation struct {
	Score    int              `json:"score"` // 0..15
	Summary  string           `json:"summary"`
	Criteria []CriterionScore `json:"criteria"`
}

// EvaluatorLLM scores a finished conversation transcript against a case's
// rubric.
type EvaluatorLLM interface {
	ScoreTranscript(modelID string, courseCase *model.Case, scenario *model.Scenario, transcript string) (*TranscriptEvaluation, error)
}

type geminiEvaluator struct {
	client *genai.Client
	cfg    *config.Config
}

func NewGeminiEvaluator(cfg *config.Config) (EvaluatorLLM, error) {
	if cfg.GeminiApiKey == "" {
		log.Warn().Msg("GEMINI_API_KEY is not set. Evaluator will be non-functional.")
		return &geminiEvaluator{cfg: cfg, client: nil}, nil
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(cfg.GeminiApiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}
	return &geminiEvaluator{client: client, cfg: cfg}, nil
}

func (s *geminiEvaluator) ScoreTranscript(modelID string, courseCase *model.Case, scenario *model.Scenario, transcript string) (*TranscriptEvaluation, error) {
	if s.client == nil {
		return nil, fmt.Errorf("gemini client not initialized")
	}
	if modelID == "" {
		modelID = model.BuiltinChatOptions().EvaluatorModel
	}

	gm := s.client.GenerativeModel(modelID)
	gm.ResponseMIMEType = "application/json"

	protagonist := courseCase.Protagonist
	if scenario != nil && scenario.Protagonist != "" {
		protagonist = scenario.Protagonist
	}

	var b strings.Builder
	b.WriteString("You are the supervising evaluator for a case-study training simulation.\n")
	b.WriteString(fmt.Sprintf("The student conversed with %q in the case %q.\n\n", protagonist, courseCase.Title))
	if courseCase.Rubric != "" {
		b.WriteString("Score the conversation against this rubric:\n---\n")
		b.WriteString(courseCase.Rubric)
		b.WriteString("\n---\n\n")
	} else {
		b.WriteString("Score the conversation on preparation, questioning technique, and handling of the protagonist's concerns.\n\n")
	}
	b.WriteString("Transcript:\n---\n")
	b.WriteString(transcript)
	b.WriteString("\n---\n\n")
	b.WriteString("Respond with a single JSON object of the form ")
	b.WriteString(`{"score": <integer 0-15 overall>, "summary": "<short overall feedback>", "criteria": [{"criterion": "<name>", "score": <integer>, "comment": "<feedback>"}]}.`)
	b.WriteString(" Do not wrap the JSON in markdown.")

	resp, err := gm.GenerateContent(context.Background(), genai.Text(b.String()))
	if err != nil {
		log.Error().Err(err).Str("model", modelID).Msg("Gemini API error during transcript scoring")
		return nil, fmt.Errorf("gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return nil, fmt.Errorf("gemini returned no content")
	}

	var raw strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if txt, ok := part.(genai.Text); ok {
			raw.WriteString(string(txt))
		}
	}
	text := strings.TrimSpace(raw.String())
	if text == "" {
		return nil, fmt.Errorf("gemini returned no text content")
	}

	var verdict TranscriptEvaluation
	if err := json.Unmarshal([]byte(text), &verdict); err != nil {
		log.Warn().Err(err).Str("rawResponse", text).Msg("Failed to parse evaluator verdict")
		return nil, fmt.Errorf("could not parse evaluator response: %w", err)
	}

	// Clamp to the 0..15 scale.
	if verdict.Score > 15 {
		verdict.Score = 15
	}
	if verdict.Score < 0 {
		verdict.Score = 0
	}
	return &verdict, nil
}
