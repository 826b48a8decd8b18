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

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/amplerelife/ai-story-tool/internal/langcheck"
	"github.com/amplerelife/ai-story-tool/internal/logger"
	"github.com/amplerelife/ai-story-tool/internal/loop"
	"github.com/amplerelife/ai-story-tool/internal/story"
)

var (
	theme    string
	genre    string
	tone     string
	elements []string
	language string

	provider string
	baseURL  string
	apiKey   string
	model    string

	noValidate bool
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a story and refine it interactively",
	Long: `Generate a story from your preferences, then iterate: read each version,
give free-text feedback and a 1-5 rating, and receive a revised version with
similarity metrics against its predecessor. The loop ends when you decline to
give feedback or confirm you are satisfied.

Providers:
  - openai   OpenAI-compatible chat endpoint (requires --api-key or AISTORY_API_KEY)
  - ollama   Self-hosted Ollama (default model llama3.2)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.New(viper.GetString("log_level"), os.Stderr)

		db, err := openStore()
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		gen, err := buildGenerator(provider, baseURL, apiKey, model)
		if err != nil {
			return err
		}

		var checker *langcheck.Checker
		if !noValidate {
			checker = langcheck.New()
		}

		controller := loop.New(loop.Config{
			Store:      db,
			Generator:  gen,
			Interactor: newConsoleInteractor(os.Stdin, os.Stdout),
			Checker:    checker,
			Preferences: story.Preferences{
				Theme:    theme,
				Genre:    genre,
				Tone:     tone,
				Elements: elements,
				Language: language,
			},
			Log: log,
		})

		fmt.Println(startupMessage(theme, genre, tone))
		if err := controller.Run(context.Background()); err != nil {
			return err
		}

		if current := controller.Current(); current != nil {
			fmt.Printf("Done. Final version: %d. Use \"ai-story-tool annotate %d\" to record your verdict on it.\n",
				current.Version, current.Version)
		}
		return nil
	},
}

// startupMessage renders the preferences as labeled fields; no article is
// placed before any user-supplied word.
func startupMessage(theme, genre, tone string) string {
	return fmt.Sprintf("Generating your story (theme: %s, type: %s, tone: %s)...", theme, genre, tone)
}

func init() {
	rootCmd.AddCommand(createCmd)

	createCmd.Flags().StringVar(&theme, "theme", "", "story theme (e.g. AI, climate change)")
	createCmd.Flags().StringVar(&genre, "genre", "short story", "content type (short story, dialogue, blog post)")
	createCmd.Flags().StringVar(&tone, "tone", "optimistic", "content tone (optimistic, dark, humorous, formal)")
	createCmd.Flags().StringSliceVar(&elements, "elements", nil, "key narrative elements (comma-separated)")
	createCmd.Flags().StringVar(&language, "language", "zh", "story language as an ISO 639-1 code")

	createCmd.Flags().StringVar(&provider, "provider", "", "content generator: openai or ollama")
	createCmd.Flags().StringVar(&baseURL, "base-url", "", "generator API base URL")
	createCmd.Flags().StringVar(&apiKey, "api-key", "", "generator API key")
	createCmd.Flags().StringVar(&model, "model", "", "generator model name")

	createCmd.Flags().BoolVar(&noValidate, "no-validate", false, "skip language validation of generated content")

	createCmd.MarkFlagRequired("theme")
	createCmd.MarkFlagRequired("elements")
}
