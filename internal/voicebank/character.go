package voicebank

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Character 对应音源根目录下的 character.yaml（只读取子音源部分）。
type Character struct {
	Name     string            `yaml:"name"`
	Subbanks []SubbankSettings `yaml:"subbanks"`
}

// SubbankSettings 是 character.yaml / 配置文件中的子音源写法。
type SubbankSettings struct {
	Prefix     string   `yaml:"prefix"`
	Suffix     string   `yaml:"suffix"`
	ToneRanges []string `yaml:"tone_ranges"`
}

// Build 将音名范围转换为 Subbank。
func (s SubbankSettings) Build() (Subbank, error) {
	sb := Subbank{Prefix: s.Prefix, Suffix: s.Suffix}
	for _, tr := range s.ToneRanges {
		r, err := ParseToneRange(tr)
		if err != nil {
			return Subbank{}, fmt.Errorf("子音源 %q%q: %w", s.Prefix, s.Suffix, err)
		}
		sb.ToneRanges = append(sb.ToneRanges, r)
	}
	return sb, nil
}

// BuildSubbanks 批量转换子音源配置。
func BuildSubbanks(settings []SubbankSettings) ([]Subbank, error) {
	out := make([]Subbank, 0, len(settings))
	for _, s := range settings {
		sb, err := s.Build()
		if err != nil {
			return nil, err
		}
		out = append(out, sb)
	}
	return out, nil
}

// LoadCharacter 读取 character.yaml。文件不存在时返回 nil, nil。
func LoadCharacter(path string) (*Character, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("读取 %s 失败: %w", path, err)
	}
	c := &Character{}
	if err := yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("解析 %s 失败: %w", path, err)
	}
	return c, nil
}
