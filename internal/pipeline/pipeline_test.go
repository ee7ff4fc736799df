package pipeline

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/welljustpia/proofread-api/internal/applier"
	"github.com/welljustpia/proofread-api/internal/llm"
	"github.com/welljustpia/proofread-api/internal/segmenter"
	"github.com/welljustpia/proofread-api/internal/splitter"
	"github.com/welljustpia/proofread-api/internal/suggester"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type mockSegmenter struct {
	segmentFunc func(ctx context.Context, text string) []string
}

func (m *mockSegmenter) Segment(ctx context.Context, text string) []string {
	return m.segmentFunc(ctx, text)
}

type mockSuggester struct {
	suggestFunc func(ctx context.Context, sentence string, protected []string) string
}

func (m *mockSuggester) Suggest(ctx context.Context, sentence string, protected []string) string {
	return m.suggestFunc(ctx, sentence, protected)
}

type mockApplier struct {
	applyFunc func(ctx context.Context, original, suggestions string, protected []string) string
}

func (m *mockApplier) Apply(ctx context.Context, original, suggestions string, protected []string) string {
	return m.applyFunc(ctx, original, suggestions, protected)
}

type failingTerms struct{}

func (failingTerms) Terms(context.Context) ([]string, error) {
	return nil, errors.New("database is locked")
}

// stages wires the real stages to one completer.
func stages(c llm.Completer, concurrency int, terms TermSource) *Pipeline {
	return New(
		segmenter.New(c, splitter.ForLanguage("th"), segmenter.Config{Logger: quiet}),
		suggester.New(c, suggester.Config{Logger: quiet}),
		applier.New(c, applier.Config{Logger: quiet}),
		terms,
		Config{Concurrency: concurrency, Logger: quiet},
	)
}

// route dispatches on the request seed: none for segmentation, 422 for
// suggestions, anything else for corrections.
func route(segment, suggest, apply func(req llm.Request) (string, error)) llm.Completer {
	return llm.CompleterFunc(func(_ context.Context, req llm.Request) (string, error) {
		switch {
		case req.Seed == nil:
			return segment(req)
		case *req.Seed == 422:
			return suggest(req)
		default:
			return apply(req)
		}
	})
}

func TestProofread_ExampleSentence(t *testing.T) {
	c := route(
		func(llm.Request) (string, error) { return `["สวัสดีครับ", "ผมชื่อจอน."]`, nil },
		func(req llm.Request) (string, error) {
			if strings.Contains(req.Prompt, "ผมชื่อจอน.") {
				return "จอน,จอห์น|จอร์น", nil
			}
			return "", nil
		},
		func(req llm.Request) (string, error) { return "ผมชื่อจอห์น.", nil },
	)

	text := "สวัสดีครับ ผมชื่อจอน."
	got := stages(c, 1, nil).Proofread(context.Background(), text)

	if got.Before != text {
		t.Errorf("Before = %q, want %q", got.Before, text)
	}
	if want := "สวัสดีครับ ผมชื่อจอห์น."; got.After != want {
		t.Errorf("After = %q, want %q", got.After, want)
	}
}

func TestProofread_EmptyInput(t *testing.T) {
	var calls atomic.Int32
	c := llm.CompleterFunc(func(context.Context, llm.Request) (string, error) {
		calls.Add(1)
		return "", nil
	})

	got := stages(c, 1, nil).Proofread(context.Background(), "")
	if got.Before != "" || got.After != "" {
		t.Errorf("got %+v, want empty before and after", got)
	}
	if calls.Load() != 0 {
		t.Errorf("expected no calls, got %d", calls.Load())
	}
}

func TestProofread_ServiceDownEchoesFallbackSplit(t *testing.T) {
	c := llm.CompleterFunc(func(context.Context, llm.Request) (string, error) {
		return "", errors.New("connection refused")
	})

	text := "บรรทัดแรก\nบรรทัดที่สอง"
	got := stages(c, 1, nil).Proofread(context.Background(), text)

	if got.Before != text {
		t.Errorf("Before = %q", got.Before)
	}
	if want := "บรรทัดแรก บรรทัดที่สอง"; got.After != want {
		t.Errorf("After = %q, want %q", got.After, want)
	}
}

func TestProofread_ProtectedTermsReachEveryStage(t *testing.T) {
	var suggestTerms, applyTerms []string
	p := New(
		&mockSegmenter{segmentFunc: func(_ context.Context, text string) []string { return []string{text} }},
		&mockSuggester{suggestFunc: func(_ context.Context, _ string, protected []string) string {
			suggestTerms = protected
			return "แพทองธาร,แพรทองธาร\nเทียว,เที่ยว"
		}},
		&mockApplier{applyFunc: func(_ context.Context, original, suggestions string, protected []string) string {
			applyTerms = protected
			if suggestions != "เทียว,เที่ยว" {
				t.Errorf("applier got unsanitized suggestions %q", suggestions)
			}
			return original
		}},
		StaticTerms{"แพทองธาร", "เชียงใหม่"},
		Config{Logger: quiet},
	)

	p.Proofread(context.Background(), "แพทองธาร ไปเทียวเชียงใหม่")

	if len(suggestTerms) != 2 || len(applyTerms) != 2 {
		t.Errorf("terms not passed through: suggest=%v apply=%v", suggestTerms, applyTerms)
	}
}

func TestProofread_TermSourceFailureUsesDefaults(t *testing.T) {
	var got []string
	p := New(
		&mockSegmenter{segmentFunc: func(_ context.Context, text string) []string { return []string{text} }},
		&mockSuggester{suggestFunc: func(_ context.Context, _ string, protected []string) string {
			got = protected
			return ""
		}},
		&mockApplier{applyFunc: func(_ context.Context, original, _ string, _ []string) string { return original }},
		failingTerms{},
		Config{Logger: quiet},
	)

	p.Proofread(context.Background(), "ข้อความ")
	if len(got) != 1 || got[0] != DefaultTerms[0] {
		t.Errorf("protected = %v, want %v", got, DefaultTerms)
	}
}

func TestProofread_SequentialCallOrder(t *testing.T) {
	var mu sync.Mutex
	var order []string
	record := func(s string) {
		mu.Lock()
		order = append(order, s)
		mu.Unlock()
	}

	p := New(
		&mockSegmenter{segmentFunc: func(context.Context, string) []string { return []string{"a", "b"} }},
		&mockSuggester{suggestFunc: func(_ context.Context, s string, _ []string) string {
			record("suggest " + s)
			return "x,y"
		}},
		&mockApplier{applyFunc: func(_ context.Context, original, _ string, _ []string) string {
			record("apply " + original)
			return strings.ToUpper(original)
		}},
		nil,
		Config{Concurrency: 1, Logger: quiet},
	)

	got := p.Proofread(context.Background(), "a b")
	want := []string{"suggest a", "suggest b", "apply a", "apply b"}
	if strings.Join(order, ";") != strings.Join(want, ";") {
		t.Errorf("call order = %v, want %v", order, want)
	}
	if got.After != "A B" {
		t.Errorf("After = %q, want %q", got.After, "A B")
	}
}

func TestProofread_ConcurrentKeepsOrder(t *testing.T) {
	sentences := []string{"s0", "s1", "s2", "s3", "s4", "s5"}
	var inFlight, peak atomic.Int32

	p := New(
		&mockSegmenter{segmentFunc: func(context.Context, string) []string { return sentences }},
		&mockSuggester{suggestFunc: func(_ context.Context, s string, _ []string) string {
			n := inFlight.Add(1)
			for {
				old := peak.Load()
				if n <= old || peak.CompareAndSwap(old, n) {
					break
				}
			}
			// Later sentences finish first.
			time.Sleep(time.Duration(len(sentences)-int(s[1]-'0')) * 5 * time.Millisecond)
			inFlight.Add(-1)
			return s + ",fixed"
		}},
		&mockApplier{applyFunc: func(_ context.Context, original, _ string, _ []string) string {
			return strings.ToUpper(original)
		}},
		nil,
		Config{Concurrency: 3, Logger: quiet},
	)

	got := p.Proofread(context.Background(), "ignored")
	if want := "S0 S1 S2 S3 S4 S5"; got.After != want {
		t.Errorf("After = %q, want %q", got.After, want)
	}
	if peak.Load() > 3 {
		t.Errorf("peak concurrency %d exceeds limit 3", peak.Load())
	}
}

func TestProofread_Deterministic(t *testing.T) {
	c := route(
		func(llm.Request) (string, error) { return `["ผมไปเทียว.", "แพทองธาร สบายดี."]`, nil },
		func(req llm.Request) (string, error) { return "เทียว,เที่ยว", nil },
		func(req llm.Request) (string, error) {
			return strings.Replace(strings.SplitN(strings.SplitN(req.Prompt, "ข้อความต้นฉบับ: ", 2)[1], "\n", 2)[0], "เทียว", "เที่ยว", 1), nil
		},
	)

	p := stages(c, 2, nil)
	first := p.Proofread(context.Background(), "ผมไปเทียว. แพทองธาร สบายดี.")
	for i := 0; i < 5; i++ {
		if again := p.Proofread(context.Background(), "ผมไปเทียว. แพทองธาร สบายดี."); again != first {
			t.Fatalf("run %d: %+v differs from %+v", i, again, first)
		}
	}
	if want := "ผมไปเที่ยว. แพทองธาร สบายดี."; first.After != want {
		t.Errorf("After = %q, want %q", first.After, want)
	}
}
