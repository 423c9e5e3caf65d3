// Package seed parses pre-cache source documents into question/answer pairs.
package seed

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strings"

	"cag-gateway/internal/domain/entity"
)

// questionLine matches the sentence endings that mark a question in Korean
// FAQ documents: interrogatives, polite request forms, and the bare topic
// headings (절차/방법/기준/...) used as section questions.
var questionLine = regexp.MustCompile(
	`.*(\?|？|궁금합니다\.?|알려주세요\.?|무엇인가요\.?|어떻게.*|대해\s*설명.*|요약.*|` +
		`문의(?:합니다|드립니다)\.?|설명(?:해\s*주|하여\s*주|바랍니다)\.?|알고\s*싶.*|` +
		`요청(?:합니다|드립니다)\.?|유의사항|절차|방법|기준|대상|요건|처리|신고|수입|수출|반입|검사|허가|확인|통관)$`)

// ParseJSONL reads one JSON object per line: {"question": ..., "answer": ...}.
// Blank lines are skipped; a line that is neither blank nor a valid pair is an
// error, since silently dropping seed data would go unnoticed until a query
// that should hit the cache misses.
func ParseJSONL(r io.Reader) ([]entity.QAPair, error) {
	var pairs []entity.QAPair
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0
	for scanner.Scan() {
		line++
		raw := strings.TrimSpace(scanner.Text())
		if raw == "" {
			continue
		}
		var qa entity.QAPair
		if err := json.Unmarshal([]byte(raw), &qa); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if qa.Question == "" || qa.Answer == "" {
			return nil, fmt.Errorf("line %d: question and answer must both be non-empty", line)
		}
		pairs = append(pairs, qa)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return pairs, nil
}

// ParseText extracts pairs from plain extracted document text: a line matching
// the question pattern starts a new pair, and every following line up to the
// next question is its answer. Questions with no answer body are dropped.
func ParseText(r io.Reader) ([]entity.QAPair, error) {
	var pairs []entity.QAPair
	var currentQ string
	var currentA []string

	flush := func() {
		if currentQ != "" && len(currentA) > 0 {
			pairs = append(pairs, entity.QAPair{
				Question: currentQ,
				Answer:   strings.TrimSpace(strings.Join(currentA, "\n")),
			})
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if questionLine.MatchString(line) {
			flush()
			currentQ = line
			currentA = nil
		} else if currentQ != "" {
			currentA = append(currentA, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	flush()
	return pairs, nil
}
