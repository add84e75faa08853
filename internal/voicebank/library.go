package voicebank

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

// Library 是音源库的存在性查询。
// 对固定快照必须是确定的，对任意字符串都有定义，并且支持并发只读访问。
type Library interface {
	HasAlias(alias string, tone int) bool
}

// ToneRange 是闭区间的 MIDI 音高范围。
type ToneRange struct {
	Low  int
	High int
}

// Contains 判断音高是否落在范围内。
func (r ToneRange) Contains(tone int) bool {
	return tone >= r.Low && tone <= r.High
}

// Subbank 是按音高划分的子音源：别名前后加上 Prefix/Suffix 后查找。
type Subbank struct {
	Prefix     string
	Suffix     string
	ToneRanges []ToneRange
}

// Covers 判断子音源是否覆盖该音高。
func (s Subbank) Covers(tone int) bool {
	for _, r := range s.ToneRanges {
		if r.Contains(tone) {
			return true
		}
	}
	return false
}

// Set 是基于内存集合的 Library 实现。
type Set struct {
	mu       sync.RWMutex
	aliases  map[string]struct{}
	subbanks []Subbank
}

// NewSet 创建别名集合。
func NewSet(aliases ...string) *Set {
	s := &Set{aliases: make(map[string]struct{}, len(aliases))}
	for _, a := range aliases {
		s.aliases[a] = struct{}{}
	}
	return s
}

// NewSetFromEntries 由 oto 条目创建别名集合。
func NewSetFromEntries(entries []OtoEntry, subbanks []Subbank) *Set {
	s := NewSet()
	for _, e := range entries {
		s.aliases[e.Alias] = struct{}{}
	}
	s.subbanks = subbanks
	return s
}

// Add 添加别名。
func (s *Set) Add(aliases ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range aliases {
		s.aliases[a] = struct{}{}
	}
}

// SetSubbanks 替换子音源配置。
func (s *Set) SetSubbanks(subbanks []Subbank) {
	s.mu.Lock()
	s.subbanks = subbanks
	s.mu.Unlock()
}

// HasAlias 先按覆盖该音高的子音源映射查找，再查原始别名。
func (s *Set) HasAlias(alias string, tone int) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, sb := range s.subbanks {
		if !sb.Covers(tone) {
			continue
		}
		if _, ok := s.aliases[sb.Prefix+alias+sb.Suffix]; ok {
			return true
		}
	}
	_, ok := s.aliases[alias]
	return ok
}

// Len 返回别名数量。
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.aliases)
}

// Aliases 返回排序后的全部别名。
func (s *Set) Aliases() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.aliases))
	for a := range s.aliases {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

var noteOffsets = map[byte]int{'C': 0, 'D': 2, 'E': 4, 'F': 5, 'G': 7, 'A': 9, 'B': 11}

// ParseNote 将音名（如 "C4"、"F#3"、"Bb-1"）转换为 MIDI 音高，C4 = 60。
func ParseNote(name string) (int, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return 0, fmt.Errorf("音名为空")
	}
	base, ok := noteOffsets[strings.ToUpper(name[:1])[0]]
	if !ok {
		return 0, fmt.Errorf("无效的音名: %s", name)
	}
	rest := name[1:]
	if strings.HasPrefix(rest, "#") {
		base++
		rest = rest[1:]
	} else if strings.HasPrefix(rest, "b") {
		base--
		rest = rest[1:]
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("无效的音名: %s", name)
	}
	return (octave+1)*12 + base, nil
}

// ParseToneRange 解析 "C4-B4" 或单个音名 "C4"。
func ParseToneRange(s string) (ToneRange, error) {
	s = strings.TrimSpace(s)
	// 八度可能为负数（如 C-1），从第二个字符之后再找分隔符
	sep := -1
	for i := 1; i < len(s); i++ {
		if s[i] == '-' && i+1 < len(s) && (s[i+1] < '0' || s[i+1] > '9') {
			sep = i
			break
		}
	}
	if sep < 0 {
		n, err := ParseNote(s)
		if err != nil {
			return ToneRange{}, err
		}
		return ToneRange{Low: n, High: n}, nil
	}
	low, err := ParseNote(s[:sep])
	if err != nil {
		return ToneRange{}, err
	}
	high, err := ParseNote(s[sep+1:])
	if err != nil {
		return ToneRange{}, err
	}
	if low > high {
		return ToneRange{}, fmt.Errorf("音高范围 %s 起点高于终点", s)
	}
	return ToneRange{Low: low, High: high}, nil
}
