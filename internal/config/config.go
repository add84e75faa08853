package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/iabetor/cvvc/internal/voicebank"
)

// Config 是 cvvc 的顶层配置结构。
type Config struct {
	Language  LanguageConfig  `yaml:"language"`
	Voicebank VoicebankConfig `yaml:"voicebank"`
	Lexicon   LexiconConfig   `yaml:"lexicon"`
	Timing    TimingConfig    `yaml:"timing"`
	Log       LogConfig       `yaml:"log"`
}

// LanguageConfig 语言配置。
// File 不为空时从 YAML 文件加载完整的语言定义，否则按 Name 使用内置语言。
type LanguageConfig struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

// VoicebankConfig 音源配置。
type VoicebankConfig struct {
	Dir      string `yaml:"dir"`
	Encoding string `yaml:"encoding"` // oto.ini 编码: utf-8, shift_jis
	// CacheDB 别名索引缓存的 sqlite 路径，设为 "off" 禁用缓存。
	CacheDB  string                      `yaml:"cache_db"`
	Subbanks []voicebank.SubbankSettings `yaml:"subbanks"`
}

// LexiconConfig 发音词典配置。
type LexiconConfig struct {
	Dict string `yaml:"dict"`
}

// TimingConfig 时值配置。
type TimingConfig struct {
	TransitionMs int `yaml:"transition_ms"`
	// Tone 未指定音高时使用的 MIDI 音高。
	Tone int `yaml:"tone"`
}

// LogConfig 日志配置。
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"` // console 或 json
	File       string `yaml:"file"`
	FileOnly   bool   `yaml:"file_only"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
}

// Default 返回只包含默认值的配置，用于没有配置文件的场景。
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// Load 读取 YAML 配置文件并返回 Config。
// 支持 ${VAR_NAME} 形式的环境变量展开。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}

	// 展开环境变量，如 ${CVVC_BANK}
	expanded := os.Expand(string(data), func(key string) string {
		return os.Getenv(key)
	})

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}

	setDefaults(cfg)
	return cfg, nil
}

// CacheEnabled 报告是否启用别名索引缓存。
func (c VoicebankConfig) CacheEnabled() bool {
	return c.CacheDB != "" && !strings.EqualFold(c.CacheDB, "off")
}

// setDefaults 为未设置的配置项填充默认值。
func setDefaults(cfg *Config) {
	if cfg.Language.Name == "" && cfg.Language.File == "" {
		cfg.Language.Name = "fr"
	}
	if cfg.Voicebank.Encoding == "" {
		cfg.Voicebank.Encoding = "utf-8"
	}
	if cfg.Timing.TransitionMs == 0 {
		cfg.Timing.TransitionMs = 100
	}
	if cfg.Timing.Tone == 0 {
		cfg.Timing.Tone = 60 // C4
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if cfg.Voicebank.CacheDB == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			cfg.Voicebank.CacheDB = home + "/.cvvc/cache.db"
		} else {
			cfg.Voicebank.CacheDB = "./.cvvc-data/cache.db"
		}
	}

	// Go 不会自动展开 ~，需要手动替换为用户主目录
	cfg.Voicebank.CacheDB = expandHome(cfg.Voicebank.CacheDB)
	cfg.Voicebank.Dir = expandHome(cfg.Voicebank.Dir)
	cfg.Lexicon.Dict = expandHome(cfg.Lexicon.Dict)
	cfg.Language.File = expandHome(cfg.Language.File)
	cfg.Log.File = expandHome(cfg.Log.File)

	// 去除路径两端可能的空白（环境变量展开后常见）
	cfg.Voicebank.Dir = strings.TrimSpace(cfg.Voicebank.Dir)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, _ := os.UserHomeDir()
	if home == "" {
		return path
	}
	return home + path[1:]
}
