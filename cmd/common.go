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
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/amplerelife/ai-story-tool/internal/generator"
	"github.com/amplerelife/ai-story-tool/internal/store"
)

// openStore resolves the database path through viper (changed flag, then
// config file/env, then flag default), creates its directory if needed, and
// opens the store.
func openStore() (*store.Store, error) {
	path := viper.GetString("db")
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	return store.New(path)
}

// buildGenerator constructs the content generator from CLI parameters,
// falling back to config/env for anything left unset.
func buildGenerator(provider, baseURL, apiKey, model string) (generator.Generator, error) {
	if provider == "" {
		provider = viper.GetString("provider")
	}
	if provider == "" {
		provider = "openai"
	}
	if baseURL == "" {
		baseURL = viper.GetString("base_url")
	}
	if apiKey == "" {
		apiKey = viper.GetString("api_key")
	}
	if model == "" {
		model = viper.GetString("model")
	}

	return generator.New(generator.Config{
		Provider: provider,
		BaseURL:  baseURL,
		APIKey:   apiKey,
		Model:    model,
	})
}
