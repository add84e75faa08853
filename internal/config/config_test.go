package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSetDefaults_EmptyConfig(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	cfg := &Config{}
	setDefaults(cfg)

	checks := []struct {
		name string
		got  interface{}
		want interface{}
	}{
		{"Language.Name", cfg.Language.Name, "fr"},
		{"Voicebank.Encoding", cfg.Voicebank.Encoding, "utf-8"},
		{"Voicebank.CacheDB", cfg.Voicebank.CacheDB, "/home/tester/.cvvc/cache.db"},
		{"Timing.TransitionMs", cfg.Timing.TransitionMs, 100},
		{"Timing.Tone", cfg.Timing.Tone, 60},
		{"Log.Level", cfg.Log.Level, "info"},
	}

	for _, c := range checks {
		switch want := c.want.(type) {
		case int:
			if c.got.(int) != want {
				t.Errorf("%s: got %v, want %v", c.name, c.got, want)
			}
		case string:
			if c.got.(string) != want {
				t.Errorf("%s: got %v, want %v", c.name, c.got, want)
			}
		}
	}
}

func TestSetDefaults_DoesNotOverride(t *testing.T) {
	cfg := &Config{
		Language:  LanguageConfig{File: "/etc/cvvc/lang.yaml"},
		Voicebank: VoicebankConfig{Encoding: "shift_jis", CacheDB: "off"},
		Timing:    TimingConfig{TransitionMs: 80, Tone: 72},
		Log:       LogConfig{Level: "debug"},
	}
	setDefaults(cfg)

	if cfg.Language.Name != "" {
		t.Errorf("Language.Name should stay empty when File is set: got %s", cfg.Language.Name)
	}
	if cfg.Voicebank.Encoding != "shift_jis" {
		t.Errorf("Encoding should not be overridden: got %s", cfg.Voicebank.Encoding)
	}
	if cfg.Voicebank.CacheEnabled() {
		t.Error("cache_db: off should disable the cache")
	}
	if cfg.Timing.TransitionMs != 80 {
		t.Errorf("TransitionMs should not be overridden: got %d", cfg.Timing.TransitionMs)
	}
	if cfg.Timing.Tone != 72 {
		t.Errorf("Tone should not be overridden: got %d", cfg.Timing.Tone)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level should not be overridden: got %s", cfg.Log.Level)
	}
}

func TestSetDefaults_ExpandsHome(t *testing.T) {
	t.Setenv("HOME", "/home/tester")
	cfg := &Config{
		Voicebank: VoicebankConfig{Dir: "~/banks/petit", CacheDB: "~/cache/cvvc.db"},
		Lexicon:   LexiconConfig{Dict: "~/dict/fr.dict"},
	}
	setDefaults(cfg)

	if cfg.Voicebank.Dir != "/home/tester/banks/petit" {
		t.Errorf("Voicebank.Dir: got %q", cfg.Voicebank.Dir)
	}
	if cfg.Voicebank.CacheDB != "/home/tester/cache/cvvc.db" {
		t.Errorf("Voicebank.CacheDB: got %q", cfg.Voicebank.CacheDB)
	}
	if cfg.Lexicon.Dict != "/home/tester/dict/fr.dict" {
		t.Errorf("Lexicon.Dict: got %q", cfg.Lexicon.Dict)
	}
	if !cfg.Voicebank.CacheEnabled() {
		t.Error("cache should be enabled")
	}
}

func TestLoad_ValidYAML(t *testing.T) {
	yamlContent := `
language:
  name: french
voicebank:
  dir: /banks/petit
  encoding: shift_jis
  cache_db: /tmp/cvvc.db
  subbanks:
    - suffix: C5
      tone_ranges: ["C5-B5"]
    - prefix: "L_"
      tone_ranges: ["C3", "D3-B3"]
lexicon:
  dict: /dict/fr.dict
timing:
  transition_ms: 120
log:
  level: debug
  format: json
  file: /tmp/cvvc.log
  file_only: true
`
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(tmpFile, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	cfg, err := Load(tmpFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Language.Name != "french" {
		t.Errorf("Language.Name: got %q", cfg.Language.Name)
	}
	if cfg.Voicebank.Dir != "/banks/petit" {
		t.Errorf("Voicebank.Dir: got %q", cfg.Voicebank.Dir)
	}
	if cfg.Voicebank.Encoding != "shift_jis" {
		t.Errorf("Voicebank.Encoding: got %q", cfg.Voicebank.Encoding)
	}
	if len(cfg.Voicebank.Subbanks) != 2 {
		t.Fatalf("Subbanks: got %d, want 2", len(cfg.Voicebank.Subbanks))
	}
	if cfg.Voicebank.Subbanks[0].Suffix != "C5" || cfg.Voicebank.Subbanks[1].Prefix != "L_" {
		t.Errorf("Subbanks: got %+v", cfg.Voicebank.Subbanks)
	}
	if len(cfg.Voicebank.Subbanks[1].ToneRanges) != 2 {
		t.Errorf("Subbanks[1].ToneRanges: got %v", cfg.Voicebank.Subbanks[1].ToneRanges)
	}
	if cfg.Timing.TransitionMs != 120 {
		t.Errorf("Timing.TransitionMs: got %d, want 120", cfg.Timing.TransitionMs)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" || cfg.Log.File != "/tmp/cvvc.log" || !cfg.Log.FileOnly {
		t.Errorf("Log: got %+v", cfg.Log)
	}
	// 未设置的字段使用默认值
	if cfg.Timing.Tone != 60 {
		t.Errorf("Timing.Tone should default to 60, got %d", cfg.Timing.Tone)
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_CVVC_BANK", "/banks/from-env")

	yamlContent := `
voicebank:
  dir: "${TEST_CVVC_BANK}"
`
	tmpDir := t.TempDir()
	tmpFile := filepath.Join(tmpDir, "config.yaml")
	if err := os.WriteFile(tmpFile, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}

	cfg, err := Load(tmpFile)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Voicebank.Dir != "/banks/from-env" {
		t.Errorf("expected env var expansion, got %q", cfg.Voicebank.Dir)
	}
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("expected error for nonexistent file")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(tmpFile, []byte("timing: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	if _, err := Load(tmpFile); err == nil {
		t.Fatal("expected error for invalid yaml")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Language.Name != "fr" || cfg.Timing.TransitionMs != 100 {
		t.Errorf("Default: got %+v", cfg)
	}
}
