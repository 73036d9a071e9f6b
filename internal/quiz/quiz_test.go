package quiz

import (
	"context"
	"errors"
	"strings"
	"testing"

	openai "github.com/sashabaranov/go-openai"

	"github.com/hyperifyio/goclippings/internal/article"
	"github.com/hyperifyio/goclippings/internal/block"
)

type fakeClient struct {
	content string
	err     error
	lastReq openai.ChatCompletionRequest
}

func (f *fakeClient) CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error) {
	f.lastReq = req
	if f.err != nil {
		return openai.ChatCompletionResponse{}, f.err
	}
	return openai.ChatCompletionResponse{
		Choices: []openai.ChatCompletionChoice{
			{Message: openai.ChatCompletionMessage{Content: f.content}},
		},
	}, nil
}

func sampleArticles() []*article.Article {
	return []*article.Article{
		{
			Title:     "First Article",
			SourceURL: "https://a.test/1",
			Blocks: []block.Block{
				block.Heading{Level: 1, Text: "First Article"},
				block.Paragraph{Text: "Alpha beta gamma."},
				block.Image{SourceURL: "https://a.test/img.png"},
				block.Paragraph{Text: "Delta epsilon."},
			},
		},
	}
}

func TestGenerate_ParsesSections(t *testing.T) {
	client := &fakeClient{content: `[{"title":"First Article","questions":["Q1?","Q2?"],"answers":["A1","A2"]}]`}
	g := &Generator{Client: client, Model: "test-model"}

	sections := g.Generate(context.Background(), sampleArticles())
	if len(sections) != 1 {
		t.Fatalf("expected 1 section, got %d", len(sections))
	}
	s := sections[0]
	if s.Title != "First Article" || len(s.Questions) != 2 || len(s.Answers) != 2 {
		t.Fatalf("unexpected section %#v", s)
	}

	user := client.lastReq.Messages[len(client.lastReq.Messages)-1].Content
	if !strings.Contains(user, "First Article") || !strings.Contains(user, "Alpha beta gamma.") {
		t.Fatalf("prompt missing article material: %q", user)
	}
}

func TestGenerate_FailureDegradesToNil(t *testing.T) {
	g := &Generator{Client: &fakeClient{err: errors.New("boom")}, Model: "test-model"}
	if got := g.Generate(context.Background(), sampleArticles()); got != nil {
		t.Fatalf("expected nil on failure, got %#v", got)
	}
}

func TestGenerate_BadJSONDegradesToNil(t *testing.T) {
	g := &Generator{Client: &fakeClient{content: "Sure! Here are some questions..."}, Model: "test-model"}
	if got := g.Generate(context.Background(), sampleArticles()); got != nil {
		t.Fatalf("expected nil on unparsable output, got %#v", got)
	}
}

func TestGenerate_UnconfiguredIsNil(t *testing.T) {
	var g *Generator
	if got := g.Generate(context.Background(), sampleArticles()); got != nil {
		t.Fatalf("expected nil for unconfigured generator")
	}
}

func TestSummary_ParagraphsOnlyAndCapped(t *testing.T) {
	a := sampleArticles()[0]
	s := Summary(a, 1000)
	if !strings.Contains(s, "Alpha beta gamma.") || !strings.Contains(s, "Delta epsilon.") {
		t.Fatalf("summary missing paragraph text: %q", s)
	}
	if strings.Contains(s, "First Article") {
		t.Fatalf("summary must not include headings: %q", s)
	}
	if capped := Summary(a, 5); len(capped) > 5 {
		t.Fatalf("summary exceeds cap: %q", capped)
	}
}

func TestGenerate_EmptySectionsDropped(t *testing.T) {
	client := &fakeClient{content: `[{"title":"  ","questions":[],"answers":[]}]`}
	g := &Generator{Client: client, Model: "test-model"}
	if got := g.Generate(context.Background(), sampleArticles()); got != nil {
		t.Fatalf("expected nil when every section is empty, got %#v", got)
	}
}
