package syllable

import (
	"fmt"
	"strings"
)

// Shape 是音节的形态分类，由 Syllable 的字段一次性计算得出。
type Shape int

const (
	// StartingV: 乐句开头，无辅音。
	StartingV Shape = iota
	// VV: 前有元音，无辅音（元音连读）。
	VV
	// StartingCV: 乐句开头，一个辅音。
	StartingCV
	// StartingCCV: 乐句开头，多个辅音。
	StartingCCV
	// VCV: 前有元音，一个辅音。
	VCV
	// VCCV: 前有元音，多个辅音。
	VCCV
)

var shapeNames = [...]string{
	"StartingV",
	"VV",
	"StartingCV",
	"StartingCCV",
	"VCV",
	"VCCV",
}

func (s Shape) String() string {
	if int(s) < len(shapeNames) {
		return shapeNames[s]
	}
	return "Unknown"
}

// Syllable 是一个乐句内部的音节：前一元音 + 辅音簇 + 核心元音。
type Syllable struct {
	PrevV     string   // 前一音节的元音，乐句开头为空
	CC        []string // PrevV 与 V 之间的辅音，按顺序
	V         string   // 核心元音
	Tone      int      // 辅音别名使用的音高
	VowelTone int      // 含元音别名使用的音高
	// CanExtend 由宿主设置：该音符是前一音符的延长（如歌词 "+"），可拉伸上一个别名而不重新触发。
	CanExtend bool
}

// Shape 计算音节形态。六种形态互斥且穷尽。
func (s Syllable) Shape() Shape {
	switch {
	case s.PrevV == "" && len(s.CC) == 0:
		return StartingV
	case len(s.CC) == 0:
		return VV
	case s.PrevV == "" && len(s.CC) == 1:
		return StartingCV
	case s.PrevV == "":
		return StartingCCV
	case len(s.CC) == 1:
		return VCV
	default:
		return VCCV
	}
}

func (s Syllable) IsStartingV() bool { return s.Shape() == StartingV }
func (s Syllable) IsVV() bool        { return s.Shape() == VV }

func (s Syllable) IsStartingCVWithOneConsonant() bool { return s.Shape() == StartingCV }

func (s Syllable) IsStartingCVWithMoreThanOneConsonant() bool { return s.Shape() == StartingCCV }

func (s Syllable) IsVCVWithOneConsonant() bool { return s.Shape() == VCV }

func (s Syllable) IsVCVWithMoreThanOneConsonant() bool { return s.Shape() == VCCV }

// CanMakeAliasExtension 报告是否可以拉伸上一个别名代替新的采样。
// 仅在元音连读且重复同一元音的延长音符上成立。
func (s Syllable) CanMakeAliasExtension() bool {
	return s.Shape() == VV && s.CanExtend && s.PrevV == s.V
}

// Validate 检查上下文是否满足调用约定：核心元音非空，辅音簇中没有空元素。
// 分段器产出的音节总是合法的；这里用于测试和外部输入。
func (s Syllable) Validate() error {
	if s.V == "" {
		return fmt.Errorf("音节缺少核心元音")
	}
	for i, c := range s.CC {
		if c == "" {
			return fmt.Errorf("音节辅音簇第 %d 项为空", i)
		}
	}
	return nil
}

func (s Syllable) String() string {
	return fmt.Sprintf("[%s|%s|%s]", s.PrevV, strings.Join(s.CC, " "), s.V)
}

// Ending 是乐句末尾：最后一个元音及其后的辅音。
type Ending struct {
	PrevV string   // 最后一个音节的核心元音
	CC    []string // 尾辅音，按顺序
	Tone  int
}

// IsEndingV 报告是否没有尾辅音。
func (e Ending) IsEndingV() bool { return len(e.CC) == 0 }

// IsEndingVCWithOneConsonant 报告是否只有一个尾辅音。
func (e Ending) IsEndingVCWithOneConsonant() bool { return len(e.CC) == 1 }

// IsEndingVCWithMoreThanOneConsonant 报告是否有多个尾辅音。
func (e Ending) IsEndingVCWithMoreThanOneConsonant() bool { return len(e.CC) > 1 }

// Validate 检查乐句末尾的调用约定。
func (e Ending) Validate() error {
	if e.PrevV == "" {
		return fmt.Errorf("乐句末尾缺少元音")
	}
	for i, c := range e.CC {
		if c == "" {
			return fmt.Errorf("乐句末尾辅音第 %d 项为空", i)
		}
	}
	return nil
}

func (e Ending) String() string {
	return fmt.Sprintf("[%s|%s|-]", e.PrevV, strings.Join(e.CC, " "))
}
