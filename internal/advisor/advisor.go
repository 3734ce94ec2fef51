// Package advisor answers natural-language food-safety questions. It
// extracts keywords from the question, cross-references the hazard feeds
// through the fan-out engine, and asks an LLM for an answer grounded in
// the retrieved records only.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/platewatch/platewatch/internal/model"
	"github.com/platewatch/platewatch/internal/search"
)

// ErrDisabled is returned when no API key is configured.
var ErrDisabled = errors.New("advisor disabled: no API key configured")

// maxSources bounds the records quoted back in the answer.
const maxSources = 5

// stopWords are dropped during keyword extraction; they carry no search
// signal for the hazard feeds.
var stopWords = map[string]bool{
	"is": true, "are": true, "what": true, "which": true, "how": true,
	"when": true, "where": true, "who": true, "the": true, "a": true,
	"an": true, "and": true, "or": true, "but": true, "in": true,
	"on": true, "at": true, "to": true, "for": true, "of": true,
	"with": true, "by": true, "from": true, "about": true, "safe": true,
	"eat": true, "food": true, "should": true, "can": true, "i": true,
	"my": true, "me": true, "tell": true,
}

// Answer is the advisor's grounded response.
type Answer struct {
	Text       string               `json:"text"`
	Keywords   []string             `json:"keywords"`
	Sources    []model.HazardRecord `json:"sources,omitempty"`
	Model      string               `json:"model"`
	TokensUsed int                  `json:"tokens_used"`
}

// completionClient is the slice of the OpenAI client the advisor needs;
// narrowed for testing.
type completionClient interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Advisor grounds LLM answers in hazard records.
type Advisor struct {
	client completionClient
	engine *search.Engine
	opts   search.Options
	cfg    model.AdvisorConfig
	log    *slog.Logger
}

// New creates an advisor. Returns ErrDisabled when cfg carries no API key;
// callers treat that as "feature off", not a failure.
func New(cfg model.AdvisorConfig, engine *search.Engine, opts search.Options, log *slog.Logger) (*Advisor, error) {
	if cfg.APIKey == "" {
		return nil, ErrDisabled
	}
	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	return &Advisor{
		client: openai.NewClientWithConfig(clientConfig),
		engine: engine,
		opts:   opts,
		cfg:    cfg,
		log:    log,
	}, nil
}

// Ask answers a natural-language question, grounded in the hazard records
// matching its keywords. A question yielding no keywords is still answered;
// the prompt states that no matching records exist.
func (a *Advisor) Ask(ctx context.Context, question string) (*Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("empty question")
	}

	keywords := ExtractKeywords(question)
	var records []model.HazardRecord
	if len(keywords) > 0 {
		records = a.engine.SearchByKeywords(ctx, keywords, a.opts)
	}

	modelName := a.cfg.Model
	if modelName == "" {
		modelName = openai.GPT4oMini
	}
	maxTokens := a.cfg.MaxTokens
	if maxTokens == 0 {
		maxTokens = 1000
	}
	timeout := time.Duration(a.cfg.Timeout) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model: modelName,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: BuildPrompt(question, records),
			},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.3,
	}

	resp, err := a.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("empty completion response")
	}

	sources := records
	if len(sources) > maxSources {
		sources = sources[:maxSources]
	}
	return &Answer{
		Text:       strings.TrimSpace(resp.Choices[0].Message.Content),
		Keywords:   keywords,
		Sources:    sources,
		Model:      modelName,
		TokensUsed: resp.Usage.TotalTokens,
	}, nil
}

const systemPrompt = `You are a food safety assistant. You help users understand ` +
	`food safety, contaminants, recalls and advisories. Answer only from the ` +
	`record context provided. If the context has no relevant information, say ` +
	`so clearly. Be concise but thorough.`

// ExtractKeywords pulls search terms out of a question: lowercase words,
// stripped of punctuation, minus stop words and anything shorter than
// three characters. At most ten keywords.
func ExtractKeywords(question string) []string {
	words := strings.Fields(strings.ToLower(question))
	keywords := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.Trim(w, "?,!.;:'\"")
		if len(w) <= 2 || stopWords[w] {
			continue
		}
		keywords = append(keywords, w)
		if len(keywords) == 10 {
			break
		}
	}
	return keywords
}

// BuildPrompt renders the user question together with the record context
// the model is allowed to draw from.
func BuildPrompt(question string, records []model.HazardRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User question: %s\n\nMatching records:\n", question)

	if len(records) == 0 {
		b.WriteString("(none found)\n")
	}
	for _, rec := range records {
		fmt.Fprintf(&b, "- %s", truncate(rec.Subject, 200))
		if rec.Classification != "" {
			fmt.Fprintf(&b, " (%s)", rec.Classification)
		}
		if rec.HazardReason != "" {
			fmt.Fprintf(&b, ": %s", truncate(rec.HazardReason, 200))
		}
		if rec.Company != "" {
			fmt.Fprintf(&b, " [%s]", rec.Company)
		}
		b.WriteString("\n")
	}

	b.WriteString("\nAnswer from these records. Mention relevant recalls or " +
		"advisories by product and reason; if the records do not cover the " +
		"question, say so.")
	return b.String()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
