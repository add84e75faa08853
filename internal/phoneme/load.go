package phoneme

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseLanguage 解析 YAML 格式的语言配置。文件需完整描述一种语言，不继承内置配置。
func ParseLanguage(data []byte) (*Language, error) {
	l := &Language{}
	if err := yaml.Unmarshal(data, l); err != nil {
		return nil, fmt.Errorf("解析语言配置失败: %w", err)
	}
	if l.Replacements == nil {
		l.Replacements = make(map[string]string)
	}
	for raw, canon := range l.Replacements {
		if raw == canon {
			delete(l.Replacements, raw)
		}
	}
	l.index()
	if err := l.Validate(); err != nil {
		return nil, err
	}
	return l, nil
}

// LoadLanguage 从文件读取语言配置。
func LoadLanguage(path string) (*Language, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取语言配置 %s 失败: %w", path, err)
	}
	return ParseLanguage(data)
}

// ByName 返回内置语言配置。
func ByName(name string) (*Language, error) {
	switch name {
	case "fr", "french", "":
		return French(), nil
	}
	return nil, fmt.Errorf("未知的内置语言: %s", name)
}
