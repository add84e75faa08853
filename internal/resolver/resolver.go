package resolver

import (
	"strings"
	"sync"
	"time"

	"github.com/iabetor/cvvc/internal/phoneme"
	"github.com/iabetor/cvvc/internal/syllable"
	"github.com/iabetor/cvvc/internal/voicebank"
)

// DefaultBaseTransition 是过渡长度的基准值。
const DefaultBaseTransition = 100 * time.Millisecond

// Result 是一个音节的解析结果：要么是一组别名，要么表示拉伸上一个别名。
type Result struct {
	Aliases []string
	Extend  bool
}

// Emit 构造输出别名的结果。
func Emit(aliases []string) Result {
	return Result{Aliases: aliases}
}

// ExtendPrevious 表示不触发新采样，延长上一个别名。
var ExtendPrevious = Result{Extend: true}

// Base 返回承载核心元音的别名（最后一个）。延长结果返回空串。
func (r Result) Base() string {
	if r.Extend || len(r.Aliases) == 0 {
		return ""
	}
	return r.Aliases[len(r.Aliases)-1]
}

// Resolver 根据语言规则和音源内容把音节解析为别名序列。
// 除了只读的音源查询外不持有可变状态，可被多个 goroutine 同时使用。
type Resolver struct {
	lang           *phoneme.Language
	lib            voicebank.Library
	baseTransition time.Duration
}

// Option 配置 Resolver。
type Option func(*Resolver)

// WithBaseTransition 设置过渡长度基准值。
func WithBaseTransition(d time.Duration) Option {
	return func(r *Resolver) {
		if d > 0 {
			r.baseTransition = d
		}
	}
}

// New 创建 Resolver。
func New(lang *phoneme.Language, lib voicebank.Library, opts ...Option) *Resolver {
	r := &Resolver{
		lang:           lang,
		lib:            lib,
		baseTransition: DefaultBaseTransition,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Language 返回解析使用的语言配置。
func (r *Resolver) Language() *phoneme.Language {
	return r.lang
}

// PhraseResult 是整个乐句的解析结果。
type PhraseResult struct {
	Syllables []Result
	Ending    []string
}

// Aliases 按顺序展开全部别名，延长结果不产生别名。
func (p PhraseResult) Aliases() []string {
	var out []string
	for _, s := range p.Syllables {
		out = append(out, s.Aliases...)
	}
	return append(out, p.Ending...)
}

// ResolvePhrase 并发解析乐句中的每个音节和结尾，结果保持原顺序。
func (r *Resolver) ResolvePhrase(p syllable.Phrase) PhraseResult {
	res := PhraseResult{Syllables: make([]Result, len(p.Syllables))}

	var wg sync.WaitGroup
	for i, s := range p.Syllables {
		wg.Add(1)
		go func(i int, s syllable.Syllable) {
			defer wg.Done()
			res.Syllables[i] = r.ResolveSyllable(s)
		}(i, s)
	}
	res.Ending = r.ResolveEnding(p.Ending)
	wg.Wait()
	return res
}

// join 拼接一段辅音。
func join(cc []string) string {
	return strings.Join(cc, "")
}
