package usecase

import (
	"fmt"
	"strings"

	"cag-gateway/internal/domain/entity"
)

const systemInstruction = `당신은 관세청의 공식 AI 에이전트 '커스텀-봇'입니다.
오직 아래 [관세청 공식 자료]만을 근거로 사용자의 [질문]에 한국어로 답변하세요.

1. 답변의 근거는 반드시 [관세청 공식 자료]에서만 찾으세요.
2. 자료에 근거가 없으면 "죄송합니다만, 제공된 자료에서 관련 정보를 찾을 수 없습니다."라고 답변하세요.
3. 자료에 없는 내용을 추측하거나 임의로 생성하지 마세요.
4. 답변은 마크다운 형식으로, 중요한 내용과 수치는 **굵게** 표시하세요.`

// BuildPrompt assembles the generation prompt from the query and the ranked
// passages. An empty passage list still yields a valid prompt: deciding
// whether an out-of-domain question can be answered is the generator's job.
func BuildPrompt(query string, passages []entity.Passage) string {
	var b strings.Builder
	b.WriteString(systemInstruction)
	b.WriteString("\n\n[관세청 공식 자료]\n")

	if len(passages) == 0 {
		b.WriteString("(검색된 자료 없음)\n")
	}
	for i, p := range passages {
		fmt.Fprintf(&b, "\n--- 문서 %d (출처: %s) ---\n%s\n", i+1, p.Source, p.Text)
	}

	b.WriteString("\n---\n[질문]\n")
	b.WriteString(query)
	return b.String()
}
