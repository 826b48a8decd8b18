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
	"strings"

	"github.com/spf13/cobra"
)

var viewCmd = &cobra.Command{
	Use:   "view <version>",
	Short: "Show one stored story version",
	Args:  cobra.ExactArgs(1),
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

		rec, ok, err := db.Get(context.Background(), version)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("version %d not found", version)
		}

		fmt.Printf("Version:  %d\n", rec.Version)
		fmt.Printf("Created:  %s\n", rec.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("Theme:    %s\n", rec.Theme)
		fmt.Printf("Genre:    %s\n", rec.Genre)
		fmt.Printf("Tone:     %s\n", rec.Tone)
		fmt.Printf("Elements: %s\n", strings.Join(rec.Elements, ", "))
		if rec.Feedback != nil {
			fmt.Printf("Feedback: %s\n", *rec.Feedback)
		}
		if rec.Rating != nil {
			fmt.Printf("Rating:   %d/5\n", *rec.Rating)
		}
		fmt.Printf("\n%s\n", rec.Content)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
