package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(WithEnvMap(map[string]string{}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 15*time.Second {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("unexpected shutdown timeout: %s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Catalog.FeedPath != defaultFeedPath {
		t.Errorf("expected default feed path %s, got %s", defaultFeedPath, cfg.Catalog.FeedPath)
	}
	if cfg.Catalog.FeedURL != "" {
		t.Errorf("expected empty feed url, got %s", cfg.Catalog.FeedURL)
	}
	if cfg.Catalog.PlaceholderRef != defaultPlaceholderRef {
		t.Errorf("unexpected placeholder ref: %s", cfg.Catalog.PlaceholderRef)
	}
	if cfg.Interactions.CopyConfirmationTTL != defaultConfirmationTTL {
		t.Errorf("unexpected confirmation ttl: %s", cfg.Interactions.CopyConfirmationTTL)
	}
	if cfg.Interactions.LogCapacity != defaultLogCapacity {
		t.Errorf("unexpected log capacity: %d", cfg.Interactions.LogCapacity)
	}
	if !cfg.Features.EnableInteractionLog {
		t.Errorf("expected interaction log enabled by default")
	}
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"VITRINE_SERVER_PORT":               "9090",
		"VITRINE_SERVER_READ_TIMEOUT":       "20s",
		"VITRINE_SERVER_WRITE_TIMEOUT":      "25s",
		"VITRINE_SERVER_IDLE_TIMEOUT":       "2m",
		"VITRINE_SERVER_SHUTDOWN_TIMEOUT":   "5s",
		"VITRINE_CATALOG_FEED_URL":          "https://feeds.example.com/items.json",
		"VITRINE_CATALOG_FETCH_TIMEOUT":     "3s",
		"VITRINE_CATALOG_PLACEHOLDER_REF":   "assets/none.png",
		"VITRINE_COPY_CONFIRMATION_TTL":     "5s",
		"VITRINE_INTERACTIONS_LOG_CAPACITY": "512",
		"VITRINE_FEATURE_INTERACTION_LOG":   "false",
	}

	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.IdleTimeout != 2*time.Minute {
		t.Errorf("unexpected idle timeout: %s", cfg.Server.IdleTimeout)
	}
	if cfg.Catalog.FeedPath != "" {
		t.Errorf("expected feed path unset when url provided, got %s", cfg.Catalog.FeedPath)
	}
	if cfg.Catalog.FeedURL != "https://feeds.example.com/items.json" {
		t.Errorf("unexpected feed url: %s", cfg.Catalog.FeedURL)
	}
	if cfg.Catalog.FetchTimeout != 3*time.Second {
		t.Errorf("unexpected fetch timeout: %s", cfg.Catalog.FetchTimeout)
	}
	if cfg.Catalog.PlaceholderRef != "assets/none.png" {
		t.Errorf("unexpected placeholder ref: %s", cfg.Catalog.PlaceholderRef)
	}
	if cfg.Interactions.CopyConfirmationTTL != 5*time.Second {
		t.Errorf("unexpected confirmation ttl: %s", cfg.Interactions.CopyConfirmationTTL)
	}
	if cfg.Interactions.LogCapacity != 512 {
		t.Errorf("unexpected log capacity: %d", cfg.Interactions.LogCapacity)
	}
	if cfg.Features.EnableInteractionLog {
		t.Errorf("expected interaction log disabled")
	}
}

func TestLoadDotEnvFallback(t *testing.T) {
	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env.test")
	content := "VITRINE_SERVER_PORT=7070\nVITRINE_CATALOG_FEED_PATH=data/local.yaml\n"
	if err := os.WriteFile(envPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write dotenv file: %v", err)
	}

	cfg, err := Load(WithEnvFile(envPath), WithoutSystemEnv())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "7070" {
		t.Errorf("expected port from dotenv 7070, got %s", cfg.Server.Port)
	}
	if cfg.Catalog.FeedPath != "data/local.yaml" {
		t.Errorf("expected feed path from dotenv, got %s", cfg.Catalog.FeedPath)
	}
}

func TestLoadRejectsAmbiguousFeedSource(t *testing.T) {
	env := map[string]string{
		"VITRINE_CATALOG_FEED_PATH": "data/items.json",
		"VITRINE_CATALOG_FEED_URL":  "https://feeds.example.com/items.json",
	}

	_, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if _, ok := err.(*ValidationError); !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
}

func TestLoadRejectsInvalidInteractionSettings(t *testing.T) {
	env := map[string]string{
		"VITRINE_COPY_CONFIRMATION_TTL": "-1s",
	}

	_, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	validationErr, ok := err.(*ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	fields := validationErr.Fields()
	if len(fields) != 1 || fields[0] != "Interactions.CopyConfirmationTTL" {
		t.Fatalf("unexpected invalid fields %v", fields)
	}
}
