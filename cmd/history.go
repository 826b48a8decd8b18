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

	"github.com/spf13/cobra"

	"github.com/amplerelife/ai-story-tool/internal/history"
	"github.com/amplerelife/ai-story-tool/internal/loop"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the version history with change metrics",
	Long: `Analyze all stored versions: length trend, pairwise overlap and change
rate between consecutive versions, and the feedback that drove each revision.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openStore()
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		ctx := context.Background()
		versions, err := db.ListVersions(ctx)
		if err != nil {
			return err
		}
		feedback, err := db.ListFeedback(ctx)
		if err != nil {
			return err
		}

		fmt.Println(loop.RenderReport(history.Analyze(versions, feedback)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
}
