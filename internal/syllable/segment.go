package syllable

import (
	"fmt"

	"github.com/iabetor/cvvc/internal/phoneme"
)

// Phrase 是一个乐句切分后的结果。
type Phrase struct {
	Syllables []Syllable
	Ending    Ending
}

// Segment 将一个乐句的规范音素序列切分为音节和结尾。
// 两个元音之间的辅音全部归入后一个音节的辅音簇，最后一个元音之后的辅音归入 Ending。
// 序列中的每个符号都必须已规范化且属于 lang 的元音表或辅音表。
func Segment(symbols []string, lang *phoneme.Language, tone int) (Phrase, error) {
	var (
		phrase Phrase
		prevV  string
		cc     []string
	)
	for i, s := range symbols {
		switch {
		case lang.IsVowel(s):
			phrase.Syllables = append(phrase.Syllables, Syllable{
				PrevV:     prevV,
				CC:        cc,
				V:         s,
				Tone:      tone,
				VowelTone: tone,
			})
			prevV = s
			cc = nil
		case lang.IsConsonant(s):
			cc = append(cc, s)
		default:
			return Phrase{}, fmt.Errorf("第 %d 个音素 %q 不在语言 %s 的音素表中", i, s, lang.Name)
		}
	}
	if len(phrase.Syllables) == 0 {
		return Phrase{}, fmt.Errorf("乐句中没有元音")
	}
	phrase.Ending = Ending{PrevV: prevV, CC: cc, Tone: tone}
	return phrase, nil
}

// MarkExtension 将第 i 个音节标记为前一音符的延长。
func (p *Phrase) MarkExtension(i int) {
	if i > 0 && i < len(p.Syllables) {
		p.Syllables[i].CanExtend = true
	}
}
