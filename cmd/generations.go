/*
Copyright © 2025 The ai-story-tool authors

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
)

var generationsCmd = &cobra.Command{
	Use:   "generations",
	Short: "List logged generator invocations",
	Long: `Show every content-generator call made for this database, including failed
attempts, with provider, model, and latency.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		entries, err := db.ListGenerations(context.Background())
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No generations logged.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tVERSION\tPROVIDER\tMODEL\tLATENCY\tSTATUS")
		for _, e := range entries {
			status := "ok"
			if e.Error != "" {
				status = "error: " + e.Error
			}
			fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%dms\t%s\n",
				e.CreatedAt.Format("2006-01-02 15:04:05"),
				e.Version, e.Provider, e.Model, e.LatencyMs, status)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(generationsCmd)
}
