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
	"strconv"

	"github.com/spf13/cobra"
)

var (
	annotateFeedback string
	annotateRating   int
)

var annotateCmd = &cobra.Command{
	Use:   "annotate <version>",
	Short: "Attach feedback and a rating to a stored version",
	Long: `Record your verdict on any stored version after the fact, for example on
the final version of a session, which the interactive loop never critiques.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		version, err := strconv.Atoi(args[0])
		if err != nil || version < 1 {
			return fmt.Errorf("version must be a positive integer, got %q", args[0])
		}

		db, err := openStore()
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		if err := db.Annotate(context.Background(), version, annotateFeedback, annotateRating); err != nil {
			return err
		}

		fmt.Printf("Annotated version %d.\n", version)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(annotateCmd)

	annotateCmd.Flags().StringVar(&annotateFeedback, "feedback", "", "free-text feedback for the version")
	annotateCmd.Flags().IntVar(&annotateRating, "rating", 0, "rating from 1 to 5")

	annotateCmd.MarkFlagRequired("feedback")
	annotateCmd.MarkFlagRequired("rating")
}
