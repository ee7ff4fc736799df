/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/welljustpia/proofread-api/internal/applier"
	"github.com/welljustpia/proofread-api/internal/config"
	"github.com/welljustpia/proofread-api/internal/detector"
	"github.com/welljustpia/proofread-api/internal/llm"
	"github.com/welljustpia/proofread-api/internal/pipeline"
	"github.com/welljustpia/proofread-api/internal/segmenter"
	"github.com/welljustpia/proofread-api/internal/splitter"
	"github.com/welljustpia/proofread-api/internal/store"
	"github.com/welljustpia/proofread-api/internal/suggester"
	"github.com/welljustpia/proofread-api/internal/validator"
)

// languageAuto selects the splitter profile per passage.
const languageAuto = "auto"

func bindFlag(key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		panic(err)
	}
}

// buildCompleter constructs the shared language model client.
func buildCompleter(c *config.Config) llm.Completer {
	switch c.Provider {
	case config.ProviderOllama:
		oc := llm.NewOllamaClient(c.Ollama.URL, c.Timeout)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := oc.IsAvailable(ctx); err != nil {
			log.Warn("ollama is not reachable, requests will use the fallback path until it is", "url", c.Ollama.URL, "error", err)
		}
		return oc
	default:
		if c.OpenAI.APIKey == "" {
			log.Warn("no OpenAI API key configured, every request will use the fallback path")
		}
		return llm.NewOpenAIClient(c.OpenAI.APIKey, c.OpenAI.BaseURL, c.Timeout)
	}
}

// app holds everything built from the configuration for one process.
type app struct {
	pipeline *pipeline.Pipeline
	db       *store.Store
}

func (a *app) Close() error {
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// buildSplitter returns the fallback splitter; det is only needed for "auto".
func buildSplitter(c *config.Config, det *detector.Detector) segmenter.Splitter {
	if c.Splitter.Terminals != "" {
		return splitter.New(c.Splitter.Terminals)
	}
	if c.Language == languageAuto {
		return splitter.NewDetecting(det, nil)
	}
	return splitter.ForLanguage(c.Language)
}

func needsDetector(c *config.Config) bool {
	return c.VerifyLanguage || (c.Language == languageAuto && c.Splitter.Terminals == "")
}

func newDetector() *detector.Detector {
	return detector.New(detector.SplitterLanguages...)
}

func buildApp(c *config.Config) (*app, error) {
	var det *detector.Detector
	if needsDetector(c) {
		det = newDetector()
	}

	completer := buildCompleter(c)

	var guard applier.LanguageGuard
	if c.VerifyLanguage {
		guard = validator.New(det)
	}

	terms := pipeline.TermSource(pipeline.StaticTerms(c.ProtectedTerms))
	a := &app{}
	if c.DB != "" {
		db, err := store.New(c.DB)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		a.db = db
		terms = store.NewTermSource(db, c.ProtectedTerms)
	}

	a.pipeline = pipeline.New(
		segmenter.New(completer, buildSplitter(c, det), segmenter.Config{Model: c.Models.Segment, Logger: log}),
		suggester.New(completer, suggester.Config{Model: c.Models.Suggest, Logger: log}),
		applier.New(completer, applier.Config{Model: c.Models.Apply, Guard: guard, Logger: log}),
		terms,
		pipeline.Config{Concurrency: c.Concurrency, Logger: log},
	)

	log.Debug("pipeline ready",
		"provider", completer.Name(),
		"language", c.Language,
		"concurrency", c.Concurrency,
		"term_store", c.DB != "",
	)
	return a, nil
}
