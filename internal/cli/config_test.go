package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"

	"github.com/matzehuels/waterfall/pkg/chart"
	"github.com/matzehuels/waterfall/pkg/pipeline"
)

// isolate keeps LoadConfig away from the developer's real config files.
func isolate(t *testing.T) string {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	isolate(t)

	cfg, err := LoadConfig(viper.New())
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}
	if cfg.Chart != chart.DefaultOptions() {
		t.Errorf("Chart = %+v, want defaults", cfg.Chart)
	}
	if cfg.Cache.TTL != pipeline.TTLArtifact {
		t.Errorf("Cache.TTL = %v, want %v", cfg.Cache.TTL, pipeline.TTLArtifact)
	}
	if cfg.Cache.Prefix != "waterfall:" {
		t.Errorf("Cache.Prefix = %q", cfg.Cache.Prefix)
	}
	if cfg.Server.Addr != ":8080" || cfg.Server.mergeMode() != chart.MergeShallow {
		t.Errorf("Server = %+v", cfg.Server)
	}
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := isolate(t)

	writeFile(t, filepath.Join(os.Getenv("XDG_CONFIG_HOME"), "waterfall", "config.yaml"), `
chart:
  currency: "€"
  scale: 4
cache:
  ttl: 2h
`)
	writeFile(t, filepath.Join(dir, ".waterfall", "config.yaml"), `
chart:
  scale: 5
server:
  deep_merge: true
`)
	explicit := filepath.Join(dir, "ci.yaml")
	writeFile(t, explicit, `
cache:
  redis_addr: "redis:6379"
log:
  file: /var/log/waterfall.log
`)
	t.Setenv("WATERFALL_CHART_TOTAL_LABEL", "Renewed")

	v := viper.New()
	v.Set("config", explicit)
	cfg, err := LoadConfig(v)
	if err != nil {
		t.Fatalf("LoadConfig() error: %v", err)
	}

	if cfg.Chart.Currency != "€" {
		t.Errorf("Currency = %q, want global value", cfg.Chart.Currency)
	}
	if cfg.Chart.Scale != 5 || cfg.Chart.Width != 500 {
		t.Errorf("Scale/Width = %v/%v, want project override 5/500", cfg.Chart.Scale, cfg.Chart.Width)
	}
	if cfg.Chart.TotalLabel != "Renewed" {
		t.Errorf("TotalLabel = %q, want env value", cfg.Chart.TotalLabel)
	}
	if cfg.Cache.TTL != 2*time.Hour {
		t.Errorf("TTL = %v, want 2h", cfg.Cache.TTL)
	}
	if cfg.Cache.Addr != "redis:6379" || cfg.Cache.Prefix != "waterfall:" {
		t.Errorf("Redis = %+v", cfg.Cache.RedisConfig)
	}
	if cfg.Log.File != "/var/log/waterfall.log" || cfg.Log.MaxBackups != 3 {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Server.mergeMode() != chart.MergeDeep {
		t.Error("deep_merge not applied")
	}
	if cfg.Chart.Margin != chart.DefaultMargin {
		t.Errorf("Margin = %+v, want default", cfg.Chart.Margin)
	}
}

func TestLoadConfigExplicitMissing(t *testing.T) {
	isolate(t)

	v := viper.New()
	v.Set("config", "/nonexistent/waterfall.yaml")
	if _, err := LoadConfig(v); err == nil {
		t.Error("LoadConfig() with a missing explicit file succeeded")
	}
}

func TestLoadConfigInvalidYAML(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, ".waterfall", "config.yaml"), "chart: [unclosed")

	if _, err := LoadConfig(viper.New()); err == nil {
		t.Error("LoadConfig() with invalid YAML succeeded")
	}
}
