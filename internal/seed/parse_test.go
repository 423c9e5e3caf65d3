package seed

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSONL(t *testing.T) {
	input := `{"question": "관세는 어떻게 납부하나요?", "answer": "전자납부로 납부합니다."}

{"question": "여행자 면세 한도는?", "answer": "US$800입니다."}
`
	pairs, err := ParseJSONL(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.Equal(t, "관세는 어떻게 납부하나요?", pairs[0].Question)
	assert.Equal(t, "전자납부로 납부합니다.", pairs[0].Answer)
	assert.Equal(t, "US$800입니다.", pairs[1].Answer)
}

func TestParseJSONLRejectsMalformedLines(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"broken json", `{"question": "q",`},
		{"missing answer", `{"question": "관세 문의"}`},
		{"missing question", `{"answer": "답변"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSONL(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestParseTextSplitsOnQuestionLines(t *testing.T) {
	input := `관세는 어떻게 납부하나요?
전자납부 또는 은행 창구에서 납부할 수 있습니다.
납부 기한은 수입신고 수리일로부터 15일입니다.
여행자 휴대품 면세 한도를 알려주세요.
1인당 US$800까지 면세됩니다.
수출 신고 절차
전자통관시스템에서 신고합니다.
`
	pairs, err := ParseText(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, pairs, 3)

	assert.Equal(t, "관세는 어떻게 납부하나요?", pairs[0].Question)
	assert.Equal(t, "전자납부 또는 은행 창구에서 납부할 수 있습니다.\n납부 기한은 수입신고 수리일로부터 15일입니다.", pairs[0].Answer)
	assert.Equal(t, "여행자 휴대품 면세 한도를 알려주세요.", pairs[1].Question)
	assert.Equal(t, "수출 신고 절차", pairs[2].Question, "bare topic headings count as questions")
}

func TestParseTextDropsQuestionWithoutAnswer(t *testing.T) {
	input := `첫 번째 질문은 무엇인가요?
두 번째 질문은 무엇인가요?
두 번째 답변입니다.
`
	pairs, err := ParseText(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "두 번째 질문은 무엇인가요?", pairs[0].Question)
}

func TestParseTextIgnoresLeadingBody(t *testing.T) {
	// Body text before the first question has no home and is skipped.
	input := `머리말 본문입니다.
관세 환급 절차
관세 환급은 전자통관시스템에서 신청합니다.
`
	pairs, err := ParseText(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, pairs, 1)
	assert.Equal(t, "관세 환급 절차", pairs[0].Question)
}
