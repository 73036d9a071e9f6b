// Package quiz produces comprehension questions for a set of articles by
// calling an OpenAI-compatible chat model with a strict JSON-only contract.
// Quiz generation is best-effort: every failure degrades to "no quiz".
package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/goclippings/internal/article"
	"github.com/hyperifyio/goclippings/internal/block"
	"github.com/hyperifyio/goclippings/internal/llm"
)

// Section holds the questions and answers generated for one article.
// Questions and answers are matched by index; when the lengths differ,
// consumers use only the overlapping prefix.
type Section struct {
	Title     string   `json:"title"`
	Questions []string `json:"questions"`
	Answers   []string `json:"answers"`
}

const systemMessage = "You are a reading-comprehension assistant. Respond with strict JSON only, no narration. The JSON schema is [{\"title\": string, \"questions\": string[2..4], \"answers\": string[2..4]}] with one element per article, in the given order. Questions must be answerable from the article summary alone; answers must be short and factual."

// summaryCapChars bounds the per-article summary fed to the model.
const summaryCapChars = 1200

// Generator calls the model once per compiled request.
type Generator struct {
	Client llm.Client
	Model  string
}

// Generate returns one section per article, or nil when generation is
// unavailable or fails. A nil result is a valid, non-error outcome: the
// document is simply composed without a quiz.
func (g *Generator) Generate(ctx context.Context, articles []*article.Article) []Section {
	sections, err := g.generate(ctx, articles)
	if err != nil {
		log.Warn().Err(err).Msg("quiz generation failed; composing without quiz")
		return nil
	}
	return sections
}

func (g *Generator) generate(ctx context.Context, articles []*article.Article) ([]Section, error) {
	if g == nil || g.Client == nil || strings.TrimSpace(g.Model) == "" {
		return nil, nil
	}
	if len(articles) == 0 {
		return nil, nil
	}

	resp, err := g.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.Model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemMessage},
			{Role: openai.ChatMessageRoleUser, Content: buildUserPrompt(articles)},
		},
		Temperature: 0.2,
		N:           1,
	})
	if err != nil {
		return nil, fmt.Errorf("quiz call: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no choices")
	}

	var sections []Section
	raw := strings.TrimSpace(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(raw), &sections); err != nil {
		return nil, fmt.Errorf("parse quiz json: %w", err)
	}
	sections = sanitize(sections)
	if len(sections) == 0 {
		return nil, nil
	}
	return sections, nil
}

func buildUserPrompt(articles []*article.Article) string {
	var sb strings.Builder
	sb.WriteString("Articles:\n")
	for i, a := range articles {
		fmt.Fprintf(&sb, "%d. Title: %s\n", i+1, a.Title)
		sb.WriteString("Summary: ")
		sb.WriteString(Summary(a, summaryCapChars))
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// Summary concatenates the article's paragraph text up to capChars. Headings
// and images carry no quizzable content and are skipped.
func Summary(a *article.Article, capChars int) string {
	var sb strings.Builder
	for _, b := range a.Blocks {
		p, ok := b.(block.Paragraph)
		if !ok {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteString(" ")
		}
		sb.WriteString(p.Text)
		if sb.Len() >= capChars {
			break
		}
	}
	s := sb.String()
	if len(s) > capChars {
		s = s[:capChars]
	}
	return s
}

// sanitize drops sections with no usable question material and trims
// whitespace so layout never sees ragged strings.
func sanitize(in []Section) []Section {
	out := make([]Section, 0, len(in))
	for _, s := range in {
		s.Title = strings.TrimSpace(s.Title)
		s.Questions = trimAll(s.Questions)
		s.Answers = trimAll(s.Answers)
		if len(s.Questions) == 0 {
			continue
		}
		out = append(out, s)
	}
	return out
}

func trimAll(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if t := strings.TrimSpace(s); t != "" {
			out = append(out, t)
		}
	}
	return out
}
