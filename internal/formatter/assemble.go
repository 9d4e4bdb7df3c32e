package formatter

import "strings"

// Envelope texts. They are part of the published page, so they stay in the
// product language.
const (
	BlogIntro    = "다음은 AI 어시스턴트가 제공한 정보를 기반으로 작성된 글입니다."
	SummaryLabel = "요약"
	GuideIntro   = "이 가이드는 AI 어시스턴트가 제공한 정보를 기반으로 작성되었습니다."
	GuideNotice  = "이 정보는 참고용으로만 사용하세요."

	QuestionPrefix = "Q: "
	OriginalPrefix = "원본 질문: "
	GuidePrefix    = "가이드: "

	IconBulb = "💡"
	IconInfo = "ℹ️"
)

// Assemble wraps the parsed body in the envelope selected by format.
// The plain format returns the body blocks alone and drops the title.
func Assemble(title, body string, format Format) []Block {
	title = strings.TrimSpace(title)
	content := ParseBody(body)

	var blocks []Block
	switch format {
	case FormatQA:
		blocks = append(blocks, Heading2(QuestionPrefix+title), Divider())
		blocks = append(blocks, content...)
	case FormatBlog:
		blocks = append(blocks, Heading1(title), Paragraph(BlogIntro), Divider())
		blocks = append(blocks, content...)
	case FormatSummary:
		blocks = append(blocks, Heading2(SummaryLabel), Paragraph(OriginalPrefix+title), Divider())
		blocks = append(blocks, content...)
	case FormatGuide:
		blocks = append(blocks, Heading1(GuidePrefix+title), Callout(GuideIntro, IconBulb))
		blocks = append(blocks, content...)
		blocks = append(blocks, Callout(GuideNotice, IconInfo))
	default:
		return content
	}
	return blocks
}
