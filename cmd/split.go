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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/welljustpia/proofread-api/internal/detector"
)

var splitInput string

var splitCmd = &cobra.Command{
	Use:   "split [text]",
	Short: "Split text into sentences with the rule-based splitter",
	Long: `Run only the rule-based sentence splitter used when the language model
cannot segment a passage. No network calls are made.

Honours --language (including "auto") and splitter.terminals from the config.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readText(cmd, args, splitInput)
		if err != nil {
			return err
		}

		var det *detector.Detector
		if cfg.Language == languageAuto {
			det = newDetector()
		}
		sentences := buildSplitter(cfg, det).Split(text)

		out := cmd.OutOrStdout()
		for i, s := range sentences {
			fmt.Fprintf(out, "%d\t%s\n", i+1, s)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(splitCmd)

	splitCmd.Flags().StringVarP(&splitInput, "input", "i", "", "Input file")
}
