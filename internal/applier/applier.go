// Package applier rewrites one sentence using the suggestions produced for
// it. Any failure leaves the sentence exactly as it was.
package applier

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/welljustpia/proofread-api/internal/llm"
	"github.com/welljustpia/proofread-api/internal/placeholder"
	"github.com/welljustpia/proofread-api/internal/postprocess"
	"github.com/welljustpia/proofread-api/internal/reqlog"
)

const (
	DefaultModel = "gpt-4o"

	seed = 123
)

const systemPrompt = "คุณคือผู้ช่วยแก้ไขข้อความภาษาไทย ทำหน้าที่แก้ไขข้อความตามคำแนะนำที่ได้รับ โดยเลือกคำที่เหมาะสมที่สุดและคงรูปแบบเดิมไว้"

// LanguageGuard rejects corrections written in another language.
type LanguageGuard interface {
	SameLanguage(original, corrected string) (bool, error)
}

type Config struct {
	Model string
	// Guard is optional.
	Guard  LanguageGuard
	Logger *slog.Logger
}

type Applier struct {
	llm   llm.Completer
	model string
	guard LanguageGuard
	log   *slog.Logger
	dmp   *diffmatchpatch.DiffMatchPatch
}

func New(completer llm.Completer, cfg Config) *Applier {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Applier{
		llm:   completer,
		model: cfg.Model,
		guard: cfg.Guard,
		log:   cfg.Logger.With("component", "applier"),
		dmp:   diffmatchpatch.New(),
	}
}

// Apply returns original corrected according to suggestions. Blank
// suggestions return original without a call. The protected terms are kept
// out of the model's reach with [PHn] markers.
func (a *Applier) Apply(ctx context.Context, original, suggestions string, protected []string) string {
	if strings.TrimSpace(suggestions) == "" {
		return original
	}

	log := reqlog.Logger(ctx, a.log)
	shielded, markers := placeholder.Protect(original, protected)

	raw, err := a.llm.Complete(ctx, llm.Request{
		Model:       a.model,
		System:      systemPrompt,
		Prompt:      buildPrompt(shielded, suggestions, len(markers) > 0),
		Temperature: 0,
		Seed:        llm.Seed(seed),
	})
	if err != nil {
		log.Warn("correction call failed, keeping sentence", "reason", "call", "error", err)
		return original
	}

	corrected := postprocess.CleanAgainst(raw, original)
	if corrected == "" {
		log.Warn("empty correction, keeping sentence", "reason", "empty")
		return original
	}

	if missing := placeholder.Validate(corrected, markers); len(missing) > 0 {
		log.Warn("protected term markers lost, keeping sentence", "reason", "markers", "missing", missing)
		return original
	}
	corrected = placeholder.Restore(corrected, markers)

	if a.guard != nil {
		if ok, err := a.guard.SameLanguage(original, corrected); !ok {
			log.Warn("correction changed language, keeping sentence", "reason", "language", "error", err)
			return original
		}
	}

	if log.Enabled(ctx, slog.LevelDebug) {
		log.Debug("sentence corrected", "edits", a.editCount(original, corrected))
	}
	return corrected
}

// editCount is the number of inserted or deleted runs between before and after.
func (a *Applier) editCount(before, after string) int {
	diffs := a.dmp.DiffCleanupSemantic(a.dmp.DiffMain(before, after, false))
	n := 0
	for _, d := range diffs {
		if d.Type != diffmatchpatch.DiffEqual {
			n++
		}
	}
	return n
}

func buildPrompt(original, suggestions string, shielded bool) string {
	var hint string
	if shielded {
		hint = "\n6. " + placeholder.InstructionHint()
	}
	return fmt.Sprintf(`
ข้อความต้นฉบับ: %s

คำแนะนำการแก้ไข: %s

กรุณาแก้ไขข้อความต้นฉบับตามคำแนะนำที่ให้มา โดย:
1. เลือกคำที่เหมาะสมที่สุดจากตัวเลือกที่แนะนำ
2. แก้ไขเฉพาะคำที่ระบุในคำแนะนำเท่านั้น
3. คงรูปแบบและโครงสร้างประโยคเดิมไว้
4. ไม่เพิ่มหรือลดคำใดๆ นอกเหนือจากการแก้ไข
5. ตอบเฉพาะข้อความที่แก้ไขแล้วเท่านั้น ไม่ต้องอธิบาย%s

ข้อความที่แก้ไขแล้ว:`, original, suggestions, hint)
}
