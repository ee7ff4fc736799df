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
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/welljustpia/proofread-api/internal/config"
)

var version = "0.1.0"

var (
	cfgFile string

	v   = viper.New()
	cfg *config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "proofread",
	Short: "Sentence-by-sentence proofreading with a language model",
	Long: `Proofread text by splitting it into sentences, asking a language model for
spelling corrections of each sentence, and applying them one sentence at a time.

Protected terms (proper names) are never changed.

Use "proofread serve" to start the HTTP API and "proofread check" for one-off text.`,
	Version:      version,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(v, cfgFile)
		if err != nil {
			return err
		}

		level, _ := config.ParseLevel(cfg.LogLevel)
		log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(log)
		return nil
	},
}

func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Config file (default ./"+config.DefaultFile+" if present)")
	pf.String("log-level", "info", "Log level: debug, info, warn, error")
	pf.String("provider", config.ProviderOpenAI, "Language model provider: openai or ollama")
	pf.String("language", "th", `Splitter language (ISO 639-1) or "auto"`)
	pf.String("db", "", "Protected-term database path (SQLite)")
	pf.Int("concurrency", 1, "Sentences processed at once per request")
	pf.Bool("verify-language", false, "Reject corrections that come back in another language")

	bindFlag("log_level", pf.Lookup("log-level"))
	bindFlag("provider", pf.Lookup("provider"))
	bindFlag("language", pf.Lookup("language"))
	bindFlag("db", pf.Lookup("db"))
	bindFlag("concurrency", pf.Lookup("concurrency"))
	bindFlag("verify_language", pf.Lookup("verify-language"))
}
