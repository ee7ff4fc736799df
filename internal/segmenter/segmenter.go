// Package segmenter asks the language service to split a passage into
// sentences and falls back to the rule-based splitter whenever the answer is
// unusable.
package segmenter

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/welljustpia/proofread-api/internal/llm"
	"github.com/welljustpia/proofread-api/internal/postprocess"
	"github.com/welljustpia/proofread-api/internal/reqlog"
)

const (
	DefaultModel = "gpt-4o-mini"

	temperature = 0.1
	maxTokens   = 2000
)

const systemPrompt = "คุณเป็นผู้เชี่ยวชาญในการแบ่งประโยคภาษาไทยและภาษาอังกฤษ ให้ผลลัพธ์เป็น JSON array เท่านั้น"

// Splitter is the deterministic fallback.
type Splitter interface {
	Split(text string) []string
}

type Config struct {
	Model  string
	Logger *slog.Logger
}

type Segmenter struct {
	llm      llm.Completer
	fallback Splitter
	model    string
	log      *slog.Logger
}

func New(completer llm.Completer, fallback Splitter, cfg Config) *Segmenter {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Segmenter{
		llm:      completer,
		fallback: fallback,
		model:    cfg.Model,
		log:      cfg.Logger.With("component", "segmenter"),
	}
}

// Segment returns the ordered, trimmed, non-empty sentences of text. It never
// fails: call errors and malformed answers both produce the fallback split.
func (s *Segmenter) Segment(ctx context.Context, text string) []string {
	if strings.TrimSpace(text) == "" {
		return []string{}
	}

	raw, err := s.llm.Complete(ctx, llm.Request{
		Model:       s.model,
		System:      systemPrompt,
		Prompt:      buildPrompt(text),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	})
	if err != nil {
		reqlog.Logger(ctx, s.log).Warn("segmentation failed, using fallback splitter", "reason", "call", "error", err)
		return s.fallback.Split(text)
	}

	sentences, err := Decode(raw)
	if err != nil {
		reqlog.Logger(ctx, s.log).Warn("segmentation answer unusable, using fallback splitter", "reason", "decode", "error", err)
		return s.fallback.Split(text)
	}
	return sentences
}

// Decode parses a JSON array of strings, tolerating a surrounding code fence
// and reasoning block. Elements are trimmed and blanks dropped; an array with
// no sentence left is an error.
func Decode(raw string) ([]string, error) {
	var items []string
	if err := json.Unmarshal([]byte(postprocess.JSONArray(raw)), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", llm.ErrResponseInvalid, err)
	}

	sentences := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			sentences = append(sentences, item)
		}
	}
	if len(sentences) == 0 {
		return nil, fmt.Errorf("%w: no sentences in answer", llm.ErrResponseInvalid)
	}
	return sentences, nil
}

func buildPrompt(text string) string {
	return fmt.Sprintf(`
กรุณาแบ่งข้อความต่อไปนี้เป็นประโยคที่สมบูรณ์ โดยคำนึงถึงบริบทและความหมาย:

"%s"

กฎการแบ่ง:
1. แบ่งตามเครื่องหมายวรรคตอน (. ! ? ฯลฯ)
2. แบ่งตามความหมายที่สมบูรณ์
3. รักษาบริบทของประโยคให้ครบถ้วน
4. ไม่แบ่งชื่อเฉพาะ วันที่ ตัวเลข ที่เป็นหน่วยเดียวกัน
5. รักษาการขึ้นบรรทัดใหม่ที่สำคัญ

แสดงผลเป็น JSON array ของ string โดยไม่ต้องอธิบายเพิ่มเติม:
`, text)
}
