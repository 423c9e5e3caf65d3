package usecase

import (
	"strings"
	"testing"

	"cag-gateway/internal/domain/entity"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptIncludesPassagesInRankOrder(t *testing.T) {
	passages := []entity.Passage{
		{Text: "면세 한도는 US$800입니다.", Source: "faq.pdf", Rank: 1, Score: 0.9},
		{Text: "초과분에는 관세가 부과됩니다.", Source: "guide.pdf", Rank: 2, Score: 0.8},
	}

	prompt := BuildPrompt("여행자 면세 한도는?", passages)

	assert.Contains(t, prompt, "여행자 면세 한도는?")
	assert.Contains(t, prompt, "문서 1 (출처: faq.pdf)")
	assert.Contains(t, prompt, "문서 2 (출처: guide.pdf)")
	assert.Contains(t, prompt, "면세 한도는 US$800입니다.")
	assert.Less(t,
		strings.Index(prompt, "면세 한도는 US$800입니다."),
		strings.Index(prompt, "초과분에는 관세가 부과됩니다."),
		"passages keep their retrieval order")
	assert.Less(t,
		strings.Index(prompt, "[관세청 공식 자료]"),
		strings.Index(prompt, "[질문]"),
		"context precedes the question")
}

func TestBuildPromptWithNoPassages(t *testing.T) {
	prompt := BuildPrompt("오늘 날씨 어때?", nil)

	assert.Contains(t, prompt, "오늘 날씨 어때?")
	assert.Contains(t, prompt, "(검색된 자료 없음)")
}
