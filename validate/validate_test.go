package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const validYAML = `name: small
description: A 3x3 board
width: 3
height: 3
initial_tiles_min: 1
initial_tiles_max: 2
default_strategy: look_ahead_simple
search_depth: 2
messages:
  welcome: Welcome
  moved: "Moved %s, highest %d"
  no_effect: "Nothing moved %s"
  game_over: "Game over at %d"
`

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}

func TestValidateConfig_Valid(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "small.yaml", validYAML)

	result := validateConfig(path)
	if !result.Valid {
		t.Fatalf("Expected valid config, got errors: %v", result.Errors)
	}
	if result.File != "small.yaml" {
		t.Errorf("Expected file name small.yaml, got %s", result.File)
	}

	info := strings.Join(result.Info, "\n")
	for _, want := range []string{"Grid: 3x3", "Initial tiles: 1-2", "Strategy: look_ahead_simple", "Search depth: 2"} {
		if !strings.Contains(info, want) {
			t.Errorf("Expected %q in info:\n%s", want, info)
		}
	}
}

func TestValidateConfig_JSON(t *testing.T) {
	path := writeConfig(t, t.TempDir(), "tiny.json", `{
		"name": "tiny",
		"description": "Smallest board",
		"width": 2,
		"height": 2,
		"initial_tiles_min": 1,
		"initial_tiles_max": 1,
		"messages": {"welcome": "hi", "game_over": "over"}
	}`)

	result := validateConfig(path)
	if !result.Valid {
		t.Fatalf("Expected valid config, got errors: %v", result.Errors)
	}
	if !strings.Contains(strings.Join(result.Info, "\n"), "(server default)") {
		t.Errorf("Expected server default strategy, got %v", result.Info)
	}
}

func TestValidateConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
		want    string
	}{
		{
			name:    "malformed json",
			file:    "bad.json",
			content: `{"name": "broken"`,
			want:    "invalid JSON",
		},
		{
			name:    "unknown key",
			file:    "extra.yaml",
			content: validYAML + "bonus_tiles: 5\n",
			want:    "invalid YAML",
		},
		{
			name:    "width too small",
			file:    "narrow.yaml",
			content: strings.Replace(validYAML, "width: 3", "width: 1", 1),
			want:    "width must be between",
		},
		{
			name:    "depth too large",
			file:    "deep.yaml",
			content: strings.Replace(validYAML, "search_depth: 2", "search_depth: 9", 1),
			want:    "search_depth",
		},
		{
			name:    "unknown strategy",
			file:    "strategy.yaml",
			content: strings.Replace(validYAML, "look_ahead_simple", "minimax", 1),
			want:    "default_strategy",
		},
		{
			name:    "bad template",
			file:    "template.yaml",
			content: strings.Replace(validYAML, `"Game over at %d"`, `"Game over at %d with %s"`, 1),
			want:    "messages.game_over",
		},
		{
			name:    "missing welcome",
			file:    "quiet.yaml",
			content: strings.Replace(validYAML, "  welcome: Welcome\n", "", 1),
			want:    "messages.welcome is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, t.TempDir(), tt.file, tt.content)

			result := validateConfig(path)
			if result.Valid {
				t.Fatal("Expected invalid config")
			}
			if !strings.Contains(strings.Join(result.Errors, "\n"), tt.want) {
				t.Errorf("Expected error containing %q, got %v", tt.want, result.Errors)
			}
		})
	}
}

func TestValidateConfig_MissingFile(t *testing.T) {
	result := validateConfig(filepath.Join(t.TempDir(), "missing.json"))
	if result.Valid {
		t.Fatal("Expected missing file to be invalid")
	}
	if !strings.Contains(result.Errors[0], "Failed to read file") {
		t.Errorf("Unexpected error: %v", result.Errors)
	}
}

func TestConfigFiles(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "b.yaml", validYAML)
	writeConfig(t, dir, "a.json", "{}")
	writeConfig(t, dir, "c.yml", validYAML)
	writeConfig(t, dir, "notes.txt", "ignored")

	files, err := configFiles(dir)
	if err != nil {
		t.Fatalf("configFiles: %v", err)
	}
	if len(files) != 3 {
		t.Fatalf("Expected 3 config files, got %v", files)
	}
	if filepath.Base(files[0]) != "a.json" || filepath.Base(files[2]) != "c.yml" {
		t.Errorf("Expected sorted files, got %v", files)
	}
}

func TestShippedConfigs(t *testing.T) {
	files, err := configFiles(filepath.Join("..", "configs"))
	if err != nil {
		t.Fatalf("configFiles: %v", err)
	}
	if len(files) == 0 {
		t.Skip("no configs directory")
	}
	for _, file := range files {
		if result := validateConfig(file); !result.Valid {
			t.Errorf("%s: %v", result.File, result.Errors)
		}
	}
}
