package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/wricardo/g2048/game/engine"
)

func createValidConfig() *engine.GameConfig {
	config := engine.DefaultGameConfig()
	config.Name = "Test Config"
	config.Description = "Test configuration"
	return config
}

func writeConfigFile(t *testing.T, dir, name string, config *engine.GameConfig) {
	t.Helper()

	filename := name
	if filepath.Ext(filename) == "" {
		filename = name + ".json"
	}

	var (
		data []byte
		err  error
	)
	if ext := filepath.Ext(filename); ext == ".yaml" || ext == ".yml" {
		data, err = yaml.Marshal(config)
	} else {
		data, err = json.MarshalIndent(config, "", "  ")
	}
	if err != nil {
		t.Fatalf("Failed to marshal config: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, filename), data, 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
}

func TestNewManager(t *testing.T) {
	t.Run("valid directory", func(t *testing.T) {
		dir := t.TempDir()
		writeConfigFile(t, dir, "classic", createValidConfig())

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("Failed to create manager: %v", err)
		}
		if manager.GetDefault().Name != "Test Config" {
			t.Errorf("Expected classic to be default, got %q", manager.GetDefault().Name)
		}
	})

	t.Run("non-existent directory", func(t *testing.T) {
		_, err := NewManager("/non/existent/path")
		if err == nil {
			t.Error("Expected error for non-existent directory")
		}
	})

	t.Run("empty directory falls back to built-in config", func(t *testing.T) {
		manager, err := NewManager(t.TempDir())
		if err != nil {
			t.Fatalf("NewManager should succeed without config files, got: %v", err)
		}
		defaultConfig := manager.GetDefault()
		if defaultConfig == nil || defaultConfig.Name != "classic" || defaultConfig.Width != 4 {
			t.Errorf("Expected built-in classic config, got %+v", defaultConfig)
		}
	})

	t.Run("first config used without classic", func(t *testing.T) {
		dir := t.TempDir()
		other := createValidConfig()
		other.Name = "Alpha"
		writeConfigFile(t, dir, "alpha.yaml", other)

		manager, err := NewManager(dir)
		if err != nil {
			t.Fatalf("NewManager: %v", err)
		}
		if manager.GetDefault().Name != "Alpha" {
			t.Errorf("Expected Alpha as default, got %q", manager.GetDefault().Name)
		}
	})
}

func TestManager_LoadConfig(t *testing.T) {
	dir := t.TempDir()
	writeConfigFile(t, dir, "classic", createValidConfig())

	big := createValidConfig()
	big.Name = "Big"
	big.Width, big.Height = 6, 6
	writeConfigFile(t, dir, "big.yaml", big)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	t.Run("load yaml config", func(t *testing.T) {
		config, err := manager.LoadConfig("big")
		if err != nil {
			t.Fatalf("Failed to load config: %v", err)
		}
		if config.Name != "Big" || config.Width != 6 {
			t.Errorf("Unexpected config %+v", config)
		}
		if config.Messages.Welcome == "" {
			t.Error("Expected messages to survive YAML round trip")
		}
	})

	t.Run("load with extension", func(t *testing.T) {
		config, err := manager.LoadConfig("big.yaml")
		if err != nil {
			t.Fatalf("Failed to load config with extension: %v", err)
		}
		if config.Name != "Big" {
			t.Errorf("Expected config name 'Big', got '%s'", config.Name)
		}
	})

	t.Run("load from cache", func(t *testing.T) {
		config1, _ := manager.LoadConfig("big")
		config2, err := manager.LoadConfig("big")
		if err != nil {
			t.Fatalf("Failed to load config from cache: %v", err)
		}
		if config1 != config2 {
			t.Error("Expected config to be loaded from cache")
		}
	})

	t.Run("load non-existent config", func(t *testing.T) {
		_, err := manager.LoadConfig("non-existent")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("path traversal is not found", func(t *testing.T) {
		_, err := manager.LoadConfig("../classic")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("Expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("load invalid config", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(dir, "invalid.json"), []byte(`{"name": ""}`), 0644); err != nil {
			t.Fatalf("Failed to write invalid config: %v", err)
		}
		_, err := manager.LoadConfig("invalid")
		if !errors.Is(err, ErrInvalidConfig) {
			t.Errorf("Expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("load malformed YAML", func(t *testing.T) {
		if err := os.WriteFile(filepath.Join(dir, "malformed.yml"), []byte("name: [unclosed"), 0644); err != nil {
			t.Fatalf("Failed to write malformed config: %v", err)
		}
		if _, err := manager.LoadConfig("malformed"); err == nil {
			t.Error("Expected error for malformed YAML")
		}
	})
}

func TestManager_ListConfigs(t *testing.T) {
	dir := t.TempDir()

	configs := []struct {
		filename string
		name     string
	}{
		{"classic.json", "Classic"},
		{"tiny.yaml", "Tiny"},
		{"wide.yml", "Wide"},
	}
	for _, cfg := range configs {
		config := createValidConfig()
		config.Name = cfg.name
		writeConfigFile(t, dir, cfg.filename, config)
	}

	// Files that should be ignored
	os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("readme"), 0644)
	os.WriteFile(filepath.Join(dir, "broken.json"), []byte(`{}`), 0644)

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	configList, err := manager.ListConfigs()
	if err != nil {
		t.Fatalf("Failed to list configs: %v", err)
	}
	if len(configList) != 3 {
		t.Fatalf("Expected 3 configs, got %d", len(configList))
	}

	wantIDs := []string{"classic", "tiny", "wide"}
	for i, info := range configList {
		if info.ConfigID != wantIDs[i] {
			t.Errorf("configList[%d].ConfigID = %q, want %q", i, info.ConfigID, wantIDs[i])
		}
		if info.Width != 4 || info.Height != 4 {
			t.Errorf("%s: size %dx%d", info.ConfigID, info.Width, info.Height)
		}
	}
}

func TestManager_SaveAndReload(t *testing.T) {
	dir := t.TempDir()
	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	config := createValidConfig()
	config.Name = "Changeable"
	if err := manager.SaveConfig("changeable.yaml", config); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "changeable.yaml")); err != nil {
		t.Fatalf("Expected YAML file on disk: %v", err)
	}

	// Modify file behind the cache
	changed := createValidConfig()
	changed.Name = "Changeable"
	changed.Width = 5
	writeConfigFile(t, dir, "changeable.yaml", changed)

	cached, _ := manager.LoadConfig("changeable")
	if cached.Width != 4 {
		t.Errorf("Expected cached width 4, got %d", cached.Width)
	}

	if err := manager.ReloadConfig("changeable"); err != nil {
		t.Fatalf("ReloadConfig: %v", err)
	}
	reloaded, _ := manager.LoadConfig("changeable")
	if reloaded.Width != 5 {
		t.Errorf("Expected reloaded width 5, got %d", reloaded.Width)
	}

	bad := createValidConfig()
	bad.Width = 1
	if err := manager.SaveConfig("bad", bad); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}
	if err := manager.SaveConfig("../escape", createValidConfig()); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for bad name, got %v", err)
	}
}

func TestManager_ValidateConfig(t *testing.T) {
	manager, err := NewManager(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := manager.ValidateConfig(createValidConfig()); err != nil {
		t.Errorf("Expected valid config to pass validation: %v", err)
	}

	config := createValidConfig()
	config.Height = engine.MaxGridSize + 1
	if err := manager.ValidateConfig(config); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig for oversize grid, got %v", err)
	}
}

func TestManager_ConcurrentAccess(t *testing.T) {
	dir := t.TempDir()
	for i := 1; i <= 5; i++ {
		config := createValidConfig()
		config.Name = fmt.Sprintf("Config%d", i)
		writeConfigFile(t, dir, fmt.Sprintf("config%d", i), config)
	}

	manager, err := NewManager(dir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	var wg sync.WaitGroup
	errs := make(chan error, 50)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			if _, err := manager.LoadConfig(fmt.Sprintf("config%d", id%5+1)); err != nil {
				errs <- err
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("Unexpected error during concurrent access: %v", err)
	}
	if manager.Count() != 5 {
		t.Errorf("Expected 5 configs in cache, got %d", manager.Count())
	}
}
