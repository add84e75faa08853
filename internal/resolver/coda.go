package resolver

import (
	"github.com/iabetor/cvvc/internal/logger"
	"github.com/iabetor/cvvc/internal/syllable"
)

// ResolveEnding 解析乐句末尾的尾辅音和结束别名。
// 无尾辅音时只尝试 {v}-，结果可以为空；有多个尾辅音时保证以结束别名或中性元音收尾。
func (r *Resolver) ResolveEnding(e syllable.Ending) []string {
	v := r.lang.FixVowel(e.PrevV)
	cc, tone := e.CC, e.Tone
	out := r.newList()

	switch {
	case e.IsEndingV():
		out.tryAdd(tone, v+"-")
	case e.IsEndingVCWithOneConsonant():
		r.singleCoda(out, v, cc[0], tone)
	default:
		r.clusterCoda(out, v, cc, tone)
	}

	logger.Debugf("[resolver] %v -> %v", e, out.aliases)
	return out.aliases
}

// singleCoda: {v}{c}-，否则 {v}{c} + {c}-。不规则辅音在 {v}{c}- 之后固定追加衔接和半元音。
func (r *Resolver) singleCoda(out *aliasList, v, c string, tone int) {
	final := out.tryAdd(tone, v+c+"-")
	if ic, ok := r.lang.IrregularFor(c); ok {
		out.add(v + ic.Link)
		out.add(ic.Glide + r.lang.NeutralVowel)
		return
	}
	if final {
		return
	}
	out.add(v + c)
	out.tryAdd(tone, c+"-")
}

// clusterCoda 处理多个尾辅音。
func (r *Resolver) clusterCoda(out *aliasList, v string, cc []string, tone int) {
	n := len(cc)
	vcc := v + cc[0] + cc[1]

	final := out.tryAdd(tone, vcc+"-")
	if !final && !out.tryAdd(tone, vcc) {
		out.add(v + cc[0])
	}

	// 辅音对从头检查，VCC 已带出的辅音对仍可追加
	cur := newCursor(cc, 0)
	for cur.pairsLeft() {
		c, next := cur.cur(), cur.next()
		switch {
		case out.tryAdd(tone, c+next):
		case r.lang.HasExclusion(next):
		case cur.i == 0:
			// 首辅音已由 VC 别名带出
		default:
			out.add(c + r.lang.NeutralVowel)
		}
		cur.advance(1)
	}

	hasEnding := final
	if !final {
		hasEnding = out.tryAdd(tone, cc[n-1]+"-")
	}
	// 兜底：不能以未解析的尾辅音结束
	if !hasEnding {
		out.add(cc[n-1] + r.lang.NeutralVowel)
	}
}
