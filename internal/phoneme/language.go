package phoneme

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// IrregularCluster 描述一个不走通用拼接规则的不规则辅音。
// 例如法语的 "gn"（腭化鼻音）被拆成鼻音衔接 + 半元音两段。
type IrregularCluster struct {
	Symbol string `yaml:"symbol"` // 音素符号，如 "gn"
	Link   string `yaml:"link"`   // 与前一元音衔接时使用的辅音，如 "n"
	Glide  string `yaml:"glide"`  // 承载后续元音的半元音，如 "y"
}

// Exclusion 表示某个辅音在特定核心元音前不参与辅音簇拼接。
type Exclusion struct {
	Consonant string `yaml:"consonant"`
	Vowel     string `yaml:"vowel"`
}

// Language 是一种语言的音素配置。构造后不再修改，可在多个 Resolver 间共享。
type Language struct {
	Name            string            `yaml:"name"`
	Vowels          []string          `yaml:"vowels"`
	Consonants      []string          `yaml:"consonants"`
	Replacements    map[string]string `yaml:"replacements"`
	ShortConsonants []string          `yaml:"short_consonants"`
	LongConsonants  []string          `yaml:"long_consonants"`
	BurstConsonants []string          `yaml:"burst_consonants"`
	// NeutralVowel 是未匹配辅音后补上的中性元音。
	NeutralVowel string `yaml:"neutral_vowel"`
	// LinkVowel 在下一个辅音为 LinkTrigger 时代替 NeutralVowel。
	LinkVowel   string             `yaml:"link_vowel"`
	LinkTrigger string             `yaml:"link_trigger"`
	VowelFixes  map[string]string  `yaml:"vowel_fixes"`
	Exclusions  []Exclusion        `yaml:"exclusions"`
	Irregular   []IrregularCluster `yaml:"irregular"`

	vowelSet     map[string]bool
	consonantSet map[string]bool
	shortSet     map[string]bool
	longSet      map[string]bool
	burstSet     map[string]bool
	irregular    map[string]IrregularCluster
}

// French 返回内置的法语 CVVC 配置（兼容 Petit Mot 风格的别名）。
func French() *Language {
	l := &Language{
		Name:            "fr",
		Vowels:          split("ah,ae,eh,ee,oe,ih,oh,oo,ou,uh,en,in,on,oi,ui"),
		Consonants:      split("b,d,f,g,j,k,l,m,n,p,r,s,sh,t,v,w,y,z,gn"),
		Replacements:    parseReplacements(frenchReplacements),
		ShortConsonants: split("r"),
		LongConsonants:  split("t,k,g,p,s,sh,j"),
		BurstConsonants: split("t,k,p,b,g,d"),
		NeutralVowel:    "oe",
		LinkVowel:       "ih",
		LinkTrigger:     "y",
		VowelFixes:      map[string]string{"ui": "ih"},
		Exclusions:      []Exclusion{{Consonant: "w", Vowel: "ah"}},
		Irregular:       []IrregularCluster{{Symbol: "gn", Link: "n", Glide: "y"}},
	}
	l.index()
	return l
}

const frenchReplacements = "aa=ah;ai=ae;ei=eh;eu=ee;ee=ee;oe=oe;ii=ih;au=oh;oo=oo;ou=ou;uu=uh;an=en;in=in;un=in;on=on;uy=ui;" +
	"bb=b;dd=d;ff=f;gg=g;jj=j;kk=k;ll=l;mm=m;nn=n;pp=p;rr=r;ss=s;ch=sh;tt=t;vv=v;ww=w;yy=y;zz=z;gn=gn"

func split(s string) []string {
	return strings.Split(s, ",")
}

// parseReplacements 解析 "raw=canonical;..." 形式的替换表，丢弃恒等项。
func parseReplacements(s string) map[string]string {
	m := make(map[string]string)
	for _, entry := range strings.Split(s, ";") {
		parts := strings.Split(entry, "=")
		if len(parts) != 2 || parts[0] == parts[1] {
			continue
		}
		m[parts[0]] = parts[1]
	}
	return m
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}

// index 构建查询用的集合。
func (l *Language) index() {
	l.vowelSet = toSet(l.Vowels)
	l.consonantSet = toSet(l.Consonants)
	l.shortSet = toSet(l.ShortConsonants)
	l.longSet = toSet(l.LongConsonants)
	l.burstSet = toSet(l.BurstConsonants)
	l.irregular = make(map[string]IrregularCluster, len(l.Irregular))
	for _, ic := range l.Irregular {
		l.irregular[ic.Symbol] = ic
	}
}

// Validate 检查配置的一致性。
func (l *Language) Validate() error {
	if len(l.Vowels) == 0 {
		return fmt.Errorf("语言 %s: 元音表为空", l.Name)
	}
	if len(l.Consonants) == 0 {
		return fmt.Errorf("语言 %s: 辅音表为空", l.Name)
	}
	for _, v := range l.Vowels {
		if l.consonantSet[v] {
			return fmt.Errorf("语言 %s: %q 同时出现在元音表和辅音表中", l.Name, v)
		}
	}
	if !l.vowelSet[l.NeutralVowel] {
		return fmt.Errorf("语言 %s: 中性元音 %q 不在元音表中", l.Name, l.NeutralVowel)
	}
	if !l.vowelSet[l.LinkVowel] {
		return fmt.Errorf("语言 %s: 衔接元音 %q 不在元音表中", l.Name, l.LinkVowel)
	}
	for raw, canon := range l.Replacements {
		if !l.vowelSet[canon] && !l.consonantSet[canon] {
			return fmt.Errorf("语言 %s: 替换 %s=%s 的目标不是已知音素", l.Name, raw, canon)
		}
		// 目标本身不能再被替换，否则 Canonicalize 不幂等
		if _, chained := l.Replacements[canon]; chained {
			return fmt.Errorf("语言 %s: 替换 %s=%s 的目标仍会被替换", l.Name, raw, canon)
		}
	}
	for from, to := range l.VowelFixes {
		if !l.vowelSet[from] || !l.vowelSet[to] {
			return fmt.Errorf("语言 %s: 元音修正 %s=%s 含未知元音", l.Name, from, to)
		}
	}
	for _, ic := range l.Irregular {
		if !l.consonantSet[ic.Symbol] {
			return fmt.Errorf("语言 %s: 不规则辅音 %q 不在辅音表中", l.Name, ic.Symbol)
		}
		if ic.Link == "" || ic.Glide == "" {
			return fmt.Errorf("语言 %s: 不规则辅音 %q 缺少 link/glide", l.Name, ic.Symbol)
		}
	}
	return nil
}

// Canonicalize 将词典中的原始音素转换为规范符号。
// 先做 NFC 规范化与小写折叠，再查替换表；对规范符号重复调用结果不变。
// cases.Caser 有状态，不能跨 goroutine 共享，所以每次调用新建。
func (l *Language) Canonicalize(raw string) string {
	s := cases.Lower(language.Und).String(norm.NFC.String(strings.TrimSpace(raw)))
	if c, ok := l.Replacements[s]; ok {
		return c
	}
	return s
}

// IsVowel 判断符号是否为元音。
func (l *Language) IsVowel(s string) bool { return l.vowelSet[s] }

// IsConsonant 判断符号是否为辅音。
func (l *Language) IsConsonant(s string) bool { return l.consonantSet[s] }

// IsBurst 判断是否为爆破音（没有可持续的稳态，不单独做 -C 别名）。
func (l *Language) IsBurst(s string) bool { return l.burstSet[s] }

// IsShort 判断是否为短辅音。
func (l *Language) IsShort(s string) bool { return l.shortSet[s] }

// IsLong 判断是否为长辅音。
func (l *Language) IsLong(s string) bool { return l.longSet[s] }

// IrregularFor 查找不规则辅音表。
func (l *Language) IrregularFor(s string) (IrregularCluster, bool) {
	ic, ok := l.irregular[s]
	return ic, ok
}

// Excluded 判断辅音 c 在核心元音 v 前是否不参与成簇。
func (l *Language) Excluded(c, v string) bool {
	for _, e := range l.Exclusions {
		if e.Consonant == c && e.Vowel == v {
			return true
		}
	}
	return false
}

// HasExclusion 判断辅音是否在任意元音语境下被排除过，这类辅音在簇首后保留中性元音。
func (l *Language) HasExclusion(c string) bool {
	for _, e := range l.Exclusions {
		if e.Consonant == c {
			return true
		}
	}
	return false
}

// FixVowel 应用前元音修正（如备用词典中的 "ui" 滑音按 "ih" 处理）。
func (l *Language) FixVowel(v string) string {
	if fixed, ok := l.VowelFixes[v]; ok {
		return fixed
	}
	return v
}

// Filler 返回未匹配辅音后的衔接元音：下一个辅音为 LinkTrigger 时用 LinkVowel，否则用 NeutralVowel。
func (l *Language) Filler(next string) string {
	if next != "" && next == l.LinkTrigger {
		return l.LinkVowel
	}
	return l.NeutralVowel
}
