package lexicon

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/iabetor/cvvc/internal/phoneme"
)

// Entry 是一个单词的一种发音。
type Entry struct {
	Word     string
	Phonemes []string // 已规范化的音素
}

// Dictionary 保存单词到发音的映射。加载后只读，可并发查询。
type Dictionary struct {
	Entries map[string][]Entry // 单词 -> 备选发音
}

// NewDictionary 创建空词典。
func NewDictionary() *Dictionary {
	return &Dictionary{
		Entries: make(map[string][]Entry),
	}
}

// Add 添加一条发音。
func (d *Dictionary) Add(word string, phonemes []string) {
	word = normalizeWord(word)
	d.Entries[word] = append(d.Entries[word], Entry{
		Word:     word,
		Phonemes: phonemes,
	})
}

// Load 读取 CMU 风格的发音词典，每个音素都经过 lang 规范化。
// 格式: WORD  ph1 ph2 ph3 ...，";;;" 开头为注释，"WORD(2)" 表示备选发音。
func Load(r io.Reader, lang *phoneme.Language) (*Dictionary, error) {
	d := NewDictionary()
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, ";;;") {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("第 %d 行: 缺少发音", lineNum)
		}

		word := stripVariant(fields[0])
		phonemes := make([]string, len(fields)-1)
		for i, raw := range fields[1:] {
			p := lang.Canonicalize(raw)
			if !lang.IsVowel(p) && !lang.IsConsonant(p) {
				return nil, fmt.Errorf("第 %d 行: 单词 %s 含未知音素 %q", lineNum, word, raw)
			}
			phonemes[i] = p
		}

		d.Add(word, phonemes)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return d, nil
}

// LoadFile 打开文件并调用 Load。
func LoadFile(path string, lang *phoneme.Language) (*Dictionary, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("打开词典 %s 失败: %w", path, err)
	}
	defer f.Close()
	d, err := Load(f, lang)
	if err != nil {
		return nil, fmt.Errorf("解析词典 %s 失败: %w", path, err)
	}
	return d, nil
}

// Lookup 返回单词的全部备选发音。
func (d *Dictionary) Lookup(word string) []Entry {
	return d.Entries[normalizeWord(word)]
}

// PhonemeSequence 返回单词的第一种发音。
func (d *Dictionary) PhonemeSequence(word string) ([]string, bool) {
	entries := d.Lookup(word)
	if len(entries) == 0 {
		return nil, false
	}
	return entries[0].Phonemes, true
}

// Phrase 把一串单词的首选发音拼接为一个乐句的音素序列。
func (d *Dictionary) Phrase(words []string) ([]string, error) {
	var out []string
	for _, w := range words {
		seq, ok := d.PhonemeSequence(w)
		if !ok {
			return nil, fmt.Errorf("词典中没有单词 %q", w)
		}
		out = append(out, seq...)
	}
	return out, nil
}

// Len 返回词条数量。
func (d *Dictionary) Len() int {
	return len(d.Entries)
}

// stripVariant 去掉 "WORD(2)" 中的备选编号。
func stripVariant(word string) string {
	if i := strings.IndexByte(word, '('); i > 0 && strings.HasSuffix(word, ")") {
		return word[:i]
	}
	return word
}

func normalizeWord(word string) string {
	return cases.Lower(language.French).String(norm.NFC.String(word))
}
