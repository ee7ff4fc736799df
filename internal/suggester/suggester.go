// Package suggester asks the language service for spelling corrections of one
// sentence and decodes the `wrong,c1|c2|c3` answer format.
package suggester

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/welljustpia/proofread-api/internal/llm"
	"github.com/welljustpia/proofread-api/internal/reqlog"
)

const (
	DefaultModel = "gpt-4o"

	seed = 422
)

const systemPrompt = "คุณคือนักพิสูจน์อักษรภาษาไทยที่เชี่ยวชาญ มีหน้าที่ตรวจสอบการสะกดคำและความเหมาะสมตามบริบทให้ถูกต้องตามหลักภาษาไทย สำหรับแต่ละคำผิดให้เสนอคำแนะนำไม่เกิน 3 ตัวเลือกเท่านั้น และห้ามแก้ไขชื่อเฉพาะที่ผู้ใช้กำหนดไว้โดยเด็ดขาด"

type Config struct {
	Model  string
	Logger *slog.Logger
}

type Suggester struct {
	llm   llm.Completer
	model string
	log   *slog.Logger
}

func New(completer llm.Completer, cfg Config) *Suggester {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Suggester{
		llm:   completer,
		model: cfg.Model,
		log:   cfg.Logger.With("component", "suggester"),
	}
}

// Suggest returns the model's raw suggestion text for sentence, or "" when
// the call fails. An empty answer means nothing needs fixing.
func (s *Suggester) Suggest(ctx context.Context, sentence string, protected []string) string {
	raw, err := s.llm.Complete(ctx, llm.Request{
		Model:       s.model,
		System:      systemPrompt,
		Prompt:      buildPrompt(sentence, protected),
		Temperature: 0,
		Seed:        llm.Seed(seed),
	})
	if err != nil {
		reqlog.Logger(ctx, s.log).Warn("suggestion call failed", "reason", "call", "error", err)
		return ""
	}
	return raw
}

func buildPrompt(sentence string, protected []string) string {
	return fmt.Sprintf(`
ประโยค: %s
ตรวจหาคำผิดทั้งหมดในประโยคข้างต้นตามลำดับดังนี้
1. พิจารณาทีละคำอย่างละเอียด
2. ตรวจสอบบริบทภาพรวม
3. แสดงผลในรูปแบบ: คำผิด,คำถูก1|คำถูก2|คำถูก3 (สามารถเสนอได้สูงสุด 3 คำเท่านั้น) (ขึ้นบรรทัดใหม่เมื่อมีคำผิดหลายคำ)
กรุณาตรวจสอบทุกคำอย่างละเอียด โดยเฉพาะ:
1. คำที่สะกดผิด (พยัญชนะ / ตัวสะกด / วรรณยุกต์ผิด)
2. คำที่เขียนติดกันแต่ควรแยก
3. คำที่เขียนแยกแต่ควรติดกัน
4. คำที่ไม่เหมาะสมกับบริบท
5. คำที่คาดว่าจะพิมพ์ผิด
6. เครื่องหมาย / ให้แทนที่ด้วยคำว่า "หรือ"
ข้อสำคัญ:
- พิจารณาบริบทของประโยคก่อนแนะนำการแก้ไข
- ถ้าคำนั้นถูกต้องตามบริบทแล้ว ไม่ต้องแนะนำการแก้ไข
- ถ้ามีหลายคำที่ถูกต้องและเหมาะสมกับบริบท ให้เลือกเฉพาะ 3 คำที่ดีที่สุดเท่านั้น
- ห้ามอธิบายหรือใส่คำอื่นเพิ่มเติม
- ห้ามละเว้นคำผิดที่พบ
- 🔥 ห้ามแก้ไขชื่อเฉพาะต่อไปนี้โดยเด็ดขาด: %s
- 🔥 ถ้าพบคำใดคำหนึ่งในรายการชื่อเฉพาะ ให้ข้ามไปเลยไม่ต้องแนะนำการแก้ไข`,
		sentence, strings.Join(protected, ", "))
}
