package suggester

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/welljustpia/proofread-api/internal/llm"
)

type mockCompleter struct {
	completeFunc func(ctx context.Context, req llm.Request) (string, error)
	last         llm.Request
}

func (m *mockCompleter) Name() string { return "mock" }

func (m *mockCompleter) Complete(ctx context.Context, req llm.Request) (string, error) {
	m.last = req
	return m.completeFunc(ctx, req)
}

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestSuggest_ReturnsRawAnswer(t *testing.T) {
	answer := "จอน,จอห์น|จอร์น\n"
	m := &mockCompleter{completeFunc: func(context.Context, llm.Request) (string, error) {
		return answer, nil
	}}
	s := New(m, Config{Logger: quiet})

	got := s.Suggest(context.Background(), "ผมชื่อจอน.", []string{"แพทองธาร"})
	if got != answer {
		t.Errorf("Suggest() = %q, want raw answer %q", got, answer)
	}
}

func TestSuggest_RequestParameters(t *testing.T) {
	m := &mockCompleter{completeFunc: func(context.Context, llm.Request) (string, error) {
		return "", nil
	}}
	s := New(m, Config{Logger: quiet})

	s.Suggest(context.Background(), "ผมชื่อจอน.", []string{"แพทองธาร", "เชียงใหม่"})

	if m.last.Model != DefaultModel {
		t.Errorf("model = %q, want %q", m.last.Model, DefaultModel)
	}
	if m.last.Temperature != 0 {
		t.Errorf("temperature = %v, want 0", m.last.Temperature)
	}
	if m.last.Seed == nil || *m.last.Seed != 422 {
		t.Errorf("seed = %v, want 422", m.last.Seed)
	}
	if !strings.Contains(m.last.Prompt, "ผมชื่อจอน.") {
		t.Error("prompt should embed the sentence")
	}
	if !strings.Contains(m.last.Prompt, "แพทองธาร, เชียงใหม่") {
		t.Errorf("prompt should list protected terms joined by comma: %q", m.last.Prompt)
	}
	if !strings.Contains(m.last.Prompt, `"หรือ"`) {
		t.Error("prompt should carry the slash rule")
	}
}

func TestSuggest_CustomModel(t *testing.T) {
	m := &mockCompleter{completeFunc: func(context.Context, llm.Request) (string, error) {
		return "", nil
	}}
	New(m, Config{Model: "llama3.2", Logger: quiet}).Suggest(context.Background(), "x", nil)
	if m.last.Model != "llama3.2" {
		t.Errorf("model = %q, want llama3.2", m.last.Model)
	}
}

func TestSuggest_CallFailureReturnsEmpty(t *testing.T) {
	m := &mockCompleter{completeFunc: func(context.Context, llm.Request) (string, error) {
		return "partial", errors.New("timeout")
	}}
	s := New(m, Config{Logger: quiet})

	if got := s.Suggest(context.Background(), "ผมชื่อจอน.", nil); got != "" {
		t.Errorf("Suggest() = %q, want empty", got)
	}
}
