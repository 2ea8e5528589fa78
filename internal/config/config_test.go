package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		configPathEnv, databaseDSNEnv, llmAPIKeyEnv, llmModelEnv,
		searchAPIKeyEnv, logLevelEnv, writeModeEnv, classifierModeEnv,
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaultsWithEnvCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv(databaseDSNEnv, "postgres://localhost/newshooks?sslmode=disable")
	t.Setenv(llmAPIKeyEnv, "sk-test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Classifier.Endpoint != "https://api.openai.com/v1/chat/completions" {
		t.Fatalf("unexpected default endpoint: %q", cfg.Classifier.Endpoint)
	}
	if cfg.Classifier.Mode != ModeInclusive {
		t.Fatalf("unexpected default mode: %q", cfg.Classifier.Mode)
	}
	if cfg.Store.WriteMode != WriteReplace {
		t.Fatalf("unexpected default write mode: %q", cfg.Store.WriteMode)
	}
	if cfg.Store.RetentionDays != 30 {
		t.Fatalf("unexpected default retention: %d", cfg.Store.RetentionDays)
	}
	if len(cfg.Sources) == 0 {
		t.Fatal("expected default sources")
	}
}

func TestLoadMergesFileAndEnv(t *testing.T) {
	clearEnv(t)
	path := writeConfigFile(t, `
database:
  dsn: postgres://file-host/newshooks
logging:
  level: debug
classifier:
  model: gpt-4o
  mode: strict
  maxPicks: 5
store:
  writeMode: merge
  retentionDays: 14
schedule:
  cronExpression: "0 8 * * *"
  timezone: America/Los_Angeles
sources:
  - name: tech-rss
    strategy: rss
    feeds:
      techcrunch.com: https://techcrunch.com/feed/
    windowDays: 3
    maxItems: 5
`)

	t.Setenv(configPathEnv, path)
	t.Setenv(llmAPIKeyEnv, "sk-test")
	t.Setenv(databaseDSNEnv, "postgres://env-host/newshooks")
	t.Setenv(classifierModeEnv, "ranked")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Database.DSN != "postgres://env-host/newshooks" {
		t.Fatalf("env override should beat the file, got %q", cfg.Database.DSN)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected log level: %q", cfg.Logging.Level)
	}
	if cfg.Classifier.Model != "gpt-4o" || cfg.Classifier.MaxPicks != 5 {
		t.Fatalf("file values not merged: %+v", cfg.Classifier)
	}
	if cfg.Classifier.Mode != ModeRanked {
		t.Fatalf("env mode override not applied: %q", cfg.Classifier.Mode)
	}
	if cfg.Classifier.MaxBatch != 40 {
		t.Fatalf("defaults should survive a partial file: %d", cfg.Classifier.MaxBatch)
	}
	if cfg.Store.WriteMode != WriteMerge || cfg.Store.RetentionDays != 14 {
		t.Fatalf("store config not merged: %+v", cfg.Store)
	}
	if cfg.Schedule.CronExpression != "0 8 * * *" {
		t.Fatalf("unexpected cron expression: %q", cfg.Schedule.CronExpression)
	}
	if cfg.Schedule.Location().String() != "America/Los_Angeles" {
		t.Fatalf("unexpected location: %s", cfg.Schedule.Location())
	}
	if len(cfg.Sources) != 1 || cfg.Sources[0].WindowDays != 3 {
		t.Fatalf("sources not replaced by the file: %+v", cfg.Sources)
	}
}

func TestLoadValidationFailures(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
		file string
	}{
		{
			name: "missing dsn",
			env:  map[string]string{llmAPIKeyEnv: "sk-test"},
		},
		{
			name: "missing llm key",
			env:  map[string]string{databaseDSNEnv: "postgres://localhost/x"},
		},
		{
			name: "unknown classifier mode",
			env: map[string]string{
				databaseDSNEnv:    "postgres://localhost/x",
				llmAPIKeyEnv:      "sk-test",
				classifierModeEnv: "aggressive",
			},
		},
		{
			name: "unknown write mode",
			env: map[string]string{
				databaseDSNEnv: "postgres://localhost/x",
				llmAPIKeyEnv:   "sk-test",
				writeModeEnv:   "upsert",
			},
		},
		{
			name: "rss source without feeds",
			env: map[string]string{
				databaseDSNEnv: "postgres://localhost/x",
				llmAPIKeyEnv:   "sk-test",
			},
			file: "sources:\n  - name: broken\n    strategy: rss\n",
		},
		{
			name: "search source without key",
			env: map[string]string{
				databaseDSNEnv: "postgres://localhost/x",
				llmAPIKeyEnv:   "sk-test",
			},
			file: "sources:\n  - name: broken\n    strategy: search\n    queries: [ai marketing]\n",
		},
		{
			name: "newsletter source without url",
			env: map[string]string{
				databaseDSNEnv: "postgres://localhost/x",
				llmAPIKeyEnv:   "sk-test",
			},
			file: "sources:\n  - name: broken\n    strategy: newsletter\n",
		},
		{
			name: "unknown strategy",
			env: map[string]string{
				databaseDSNEnv: "postgres://localhost/x",
				llmAPIKeyEnv:   "sk-test",
			},
			file: "sources:\n  - name: broken\n    strategy: scrape-everything\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			clearEnv(t)
			for key, value := range tc.env {
				t.Setenv(key, value)
			}
			if tc.file != "" {
				t.Setenv(configPathEnv, writeConfigFile(t, tc.file))
			}

			if _, err := Load(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestSourceWindowDefault(t *testing.T) {
	t.Parallel()

	if got := (SourceConfig{}).Window(); got != 7*24*time.Hour {
		t.Fatalf("unexpected default window: %v", got)
	}
	if got := (SourceConfig{WindowDays: 3}).Window(); got != 3*24*time.Hour {
		t.Fatalf("unexpected window: %v", got)
	}
}

func TestStoreRetention(t *testing.T) {
	t.Parallel()

	if got := (StoreConfig{RetentionDays: 30}).Retention(); got != 30*24*time.Hour {
		t.Fatalf("unexpected retention: %v", got)
	}
}
