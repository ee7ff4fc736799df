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
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/welljustpia/proofread-api/internal/store"
)

var termsCmd = &cobra.Command{
	Use:   "terms",
	Short: "Manage the protected-term list",
	Long: `Add, list, delete and import protected terms.

Protected terms (proper names, brand names) are never flagged or changed by
the proofreader. Terms in the database are merged with protected_terms from
the configuration. Requires --db or "db" in the config file.`,
}

// openTermStore opens the configured database or explains how to set one.
func openTermStore() (*store.Store, error) {
	if cfg.DB == "" {
		return nil, fmt.Errorf("no database configured: set --db or db in the config file")
	}
	db, err := store.New(cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

var termsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all protected terms",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openTermStore()
		if err != nil {
			return err
		}
		defer db.Close()

		entries, err := db.ListTerms(context.Background())
		if err != nil {
			return fmt.Errorf("failed to list terms: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No protected terms stored.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTERM\tNOTE\tCREATED")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", e.ID, e.Term, e.Note, e.CreatedAt.Format("2006-01-02"))
		}
		return w.Flush()
	},
}

var termsAddNote string

var termsAddCmd = &cobra.Command{
	Use:   "add <term>",
	Short: "Add a protected term or update its note",
	Long: `Add a term the proofreader must leave untouched.

Example:
  proofread terms add "แพทองธาร" --note "person name"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openTermStore()
		if err != nil {
			return err
		}
		defer db.Close()

		t, err := db.AddTerm(context.Background(), args[0], termsAddNote)
		if err != nil {
			return fmt.Errorf("failed to add term: %w", err)
		}
		fmt.Printf("Added: %q (%s)\n", t.Term, t.ID)
		return nil
	},
}

var termsDeleteCmd = &cobra.Command{
	Use:   "delete <id|term>",
	Short: "Delete a protected term by ID or by text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openTermStore()
		if err != nil {
			return err
		}
		defer db.Close()

		ok, err := db.DeleteTerm(context.Background(), args[0])
		if err != nil {
			return fmt.Errorf("failed to delete term: %w", err)
		}
		if !ok {
			return fmt.Errorf("term not found: %s", args[0])
		}
		fmt.Printf("Deleted: %s\n", args[0])
		return nil
	},
}

var termsImportCmd = &cobra.Command{
	Use:   "import <file.yaml>",
	Short: "Import protected terms from a YAML list",
	Long: `Import terms from a YAML list. Items are plain strings or term/note mappings:

  - แพทองธาร
  - term: เชียงใหม่
    note: city`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()

		terms, err := store.DecodeTermsYAML(f)
		if err != nil {
			return err
		}

		db, err := openTermStore()
		if err != nil {
			return err
		}
		defer db.Close()

		n, err := db.ImportTerms(context.Background(), terms)
		if err != nil {
			return fmt.Errorf("failed to import terms: %w", err)
		}
		fmt.Printf("Imported %d terms from %s\n", n, args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(termsCmd)

	termsAddCmd.Flags().StringVar(&termsAddNote, "note", "", "Free-form note shown in the list")

	termsCmd.AddCommand(termsListCmd)
	termsCmd.AddCommand(termsAddCmd)
	termsCmd.AddCommand(termsDeleteCmd)
	termsCmd.AddCommand(termsImportCmd)
}
