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
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/welljustpia/proofread-api/internal/markdown"
)

var (
	checkInput    string
	checkOutput   string
	checkMarkdown bool
	checkDiff     bool
)

var checkCmd = &cobra.Command{
	Use:   "check [text]",
	Short: "Proofread text once and print the result",
	Long: `Proofread a passage given as an argument, read from a file (-i), or from
standard input when neither is given.

Examples:
  proofread check "สวัสดีครับ ผมชื่อจอน."
  proofread check -i notes.md --markdown -o notes.txt
  echo "ผมไปเทียวเชียงใหม่" | proofread check --diff`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := readText(cmd, args, checkInput)
		if err != nil {
			return err
		}
		if checkMarkdown {
			text = markdown.ToPlainText([]byte(text))
		}

		a, err := buildApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		res := a.pipeline.Proofread(cmd.Context(), text)

		if checkOutput != "" {
			if err := os.MkdirAll(filepath.Dir(checkOutput), 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			if err := os.WriteFile(checkOutput, []byte(res.After+"\n"), 0644); err != nil {
				return fmt.Errorf("failed to write output file: %w", err)
			}
		}

		out := cmd.OutOrStdout()
		if checkDiff {
			dmp := diffmatchpatch.New()
			diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(res.Before, res.After, false))
			fmt.Fprintln(out, dmp.DiffPrettyText(diffs))
			return nil
		}
		if checkOutput == "" {
			fmt.Fprintln(out, res.After)
		}
		return nil
	},
}

// readText takes the passage from the argument, the input file, or stdin.
func readText(cmd *cobra.Command, args []string, inputFile string) (string, error) {
	switch {
	case len(args) == 1 && inputFile != "":
		return "", fmt.Errorf("give either a text argument or --input, not both")
	case len(args) == 1:
		return args[0], nil
	case inputFile != "":
		data, err := os.ReadFile(inputFile)
		if err != nil {
			return "", fmt.Errorf("failed to read input file: %w", err)
		}
		return string(data), nil
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return strings.TrimRight(string(data), "\n"), nil
	}
}

func init() {
	rootCmd.AddCommand(checkCmd)

	checkCmd.Flags().StringVarP(&checkInput, "input", "i", "", "Input file")
	checkCmd.Flags().StringVarP(&checkOutput, "output", "o", "", "Write the corrected text to this file")
	checkCmd.Flags().BoolVar(&checkMarkdown, "markdown", false, "Treat the input as Markdown and proofread its prose only")
	checkCmd.Flags().BoolVar(&checkDiff, "diff", false, "Print a coloured diff instead of the corrected text")
}
