package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"notionpost/internal/formatter"
)

// ProbePrompt is sent when checking that an API key works.
const ProbePrompt = "테스트 메시지입니다."

var ErrEmptyResponse = errors.New("model returned an empty response")

// BuildPrompt asks the model to rewrite title and content in the given format.
func BuildPrompt(title, content string, format formatter.Format) string {
	return fmt.Sprintf("다음 제목과 내용을 %s 형식으로 작성해주세요:\n\n제목: %s\n\n내용:\n%s",
		format, strings.TrimSpace(title), strings.TrimSpace(content))
}

// GenerateContent runs the formatting prompt and returns the cleaned text.
func GenerateContent(ctx context.Context, g Generator, title, content string, format formatter.Format) (string, error) {
	raw, err := g.Generate(ctx, BuildPrompt(title, content, format))
	if err != nil {
		return "", err
	}
	text := cleanMarkdownOutput(raw)
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// CheckAPIKey sends a short test prompt and reports whether the provider answered.
func CheckAPIKey(ctx context.Context, g Generator) error {
	if _, err := g.Generate(ctx, ProbePrompt); err != nil {
		return fmt.Errorf("api key check failed: %w", err)
	}
	return nil
}
