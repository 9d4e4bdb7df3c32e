package generator

import (
	"context"
	"strings"
)

// MockGenerator answers without calling a model. It echoes the prompt back as
// a small markdown document, which is enough to exercise the publish path.
type MockGenerator struct{}

func (MockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	var sb strings.Builder
	sb.WriteString("## 자동 생성 예시\n\n")
	sb.WriteString("아래 내용은 모델 호출 없이 생성되었습니다.\n\n")
	for _, line := range strings.Split(strings.TrimSpace(prompt), "\n") {
		if line = strings.TrimSpace(line); line != "" {
			sb.WriteString("- ")
			sb.WriteString(line)
			sb.WriteString("\n")
		}
	}
	return sb.String(), nil
}
