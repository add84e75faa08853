package resolver

import (
	"github.com/iabetor/cvvc/internal/logger"
	"github.com/iabetor/cvvc/internal/syllable"
)

// ResolveSyllable 解析乐句内部的一个音节，返回从辅音到核心元音的别名序列。
// 核心别名总在最后；元音连读且可延长时返回 ExtendPrevious。
func (r *Resolver) ResolveSyllable(s syllable.Syllable) Result {
	shape := s.Shape()
	if shape == syllable.VV && s.CanMakeAliasExtension() {
		logger.Debugf("[resolver] %v %s -> 延长", s, shape)
		return ExtendPrevious
	}

	prevV := r.lang.FixVowel(s.PrevV)
	out := r.newList()

	var base string
	switch shape {
	case syllable.StartingV:
		base = r.pick(s.VowelTone, "-"+s.V, s.V)
	case syllable.VV:
		base = r.pick(s.VowelTone, prevV+" "+s.V, "_"+s.V, s.V)
	case syllable.StartingCV:
		base = r.startingCV(out, s)
	case syllable.StartingCCV:
		base = r.startingCCV(out, s)
	case syllable.VCV, syllable.VCCV:
		base = r.vcv(out, prevV, s)
	}
	out.add(base)

	logger.Debugf("[resolver] %v %s -> %v", s, shape, out.aliases)
	return Emit(out.aliases)
}

// startingCV: -CV，否则 CV，必要时在前面补 -C。
func (r *Resolver) startingCV(out *aliasList, s syllable.Syllable) string {
	c, v := s.CC[0], s.V
	if a := "-" + c + v; r.exists(a, s.VowelTone) {
		return a
	}
	// 爆破音没有可持续的稳态，不单独做 -C
	if !r.lang.IsBurst(c) && r.lang.IsConsonant(c) {
		out.tryAdd(s.Tone, "-"+c)
	}
	return c + v
}

// startingCCV 处理乐句开头的辅音簇。
func (r *Resolver) startingCCV(out *aliasList, s syllable.Syllable) string {
	cc, v, tone := s.CC, s.V, s.Tone
	full := join(cc)
	if a := r.pick(s.VowelTone, "-"+full+v, full+v, ""); a != "" {
		return a
	}

	last := cc[len(cc)-1]
	base := r.pick(s.VowelTone, "_"+last+v, last+v)

	if r.longestPrefix(out, tone, "-", cc) || r.longestPrefix(out, tone, "", cc) {
		return base
	}

	// 没有任何辅音簇别名：-C 或 -C + 衔接元音，然后逐对处理剩余辅音
	cur := newCursor(cc, 0)
	if !r.lang.IsBurst(cc[0]) {
		out.tryAdd(tone, "-"+cc[0])
	}
	if out.empty() && out.tryAdd(tone, "-"+cc[0]+r.lang.Filler(cc[1])) {
		cur.advance(1)
	}
	for cur.pairsLeft() {
		if out.tryAdd(tone, cur.cur()+cur.next()) {
			cur.advance(2)
			continue
		}
		out.add(cur.cur() + r.lang.Filler(cur.next()))
		cur.advance(1)
	}
	return base
}

// longestPrefix 从长到短尝试 {prefix}{C1..Ci}（i >= 2），只追加第一个命中的别名。
func (r *Resolver) longestPrefix(out *aliasList, tone int, prefix string, cc []string) bool {
	for i := len(cc); i > 1; i-- {
		if out.tryAdd(tone, prefix+join(cc[:i])) {
			return true
		}
	}
	return false
}

// vcv 处理前有元音的音节：VCV 连音，或 VC(C) + 辅音对 + CV。
func (r *Resolver) vcv(out *aliasList, prevV string, s syllable.Syllable) string {
	cc, v, tone := s.CC, s.V, s.Tone
	n := len(cc)

	if n == 1 {
		diphone := prevV + " " + cc[0] + v
		// 不规则辅音在通用规则之前处理：VC + 鼻音衔接 + 半元音 CV，有 VCV 连音时省去 VC
		if ic, ok := r.lang.IrregularFor(cc[0]); ok {
			if !r.exists(diphone, s.VowelTone) {
				r.bridge(out, prevV, cc, tone)
			}
			out.add(ic.Link + r.lang.LinkVowel)
			return ic.Glide + v
		}
		if r.exists(diphone, s.VowelTone) {
			return diphone
		}
	}

	last := cc[n-1]
	base := last + v
	if n > 1 {
		base = r.pick(s.VowelTone, "_"+last+v, last+v)
	}

	consumed, matched := r.bridge(out, prevV, cc, tone)
	start := max(0, consumed-1)
	// 命中的 VC(C) 没有覆盖整个辅音簇时，首个辅音对已由它带出，跳过一次
	skipFirst := matched && consumed < n

	// 剩余辅音与元音能合成更长的 CCV 时用它做核心别名，辅音对只处理到它之前
	cur := newCursor(cc, start)
	if n > 1 {
		for i := start; i < n-1; i++ {
			if a := join(cc[i:]) + v; r.exists(a, tone) {
				base = a
				cur.end = i
				break
			}
		}
	}

	for cur.pairsLeft() {
		c, next := cur.cur(), cur.next()
		ic, irregular := r.lang.IrregularFor(c)
		switch {
		case r.lang.Excluded(next, v):
			cur.advance(1)
		case irregular:
			out.add(ic.Link + r.lang.LinkVowel)
			out.add(ic.Glide + r.lang.NeutralVowel)
			cur.advance(1)
		case skipFirst && cur.i == 0:
			cur.advance(1)
		case out.tryAdd(tone, c+next):
			cur.advance(2)
		case cur.i == 0 && !r.lang.HasExclusion(next):
			// 首辅音已由 VC 别名带出
			cur.advance(1)
		default:
			out.add(c + r.lang.Filler(next))
			cur.advance(1)
		}
	}
	return base
}

// bridge 把辅音簇当作前一元音的尾音做最长匹配 {prevV}{C1..Ci}，返回消耗的辅音数以及是否命中。
// 没有任何匹配时无条件追加 {prevV}{C1}（不规则辅音改用其衔接辅音）。
func (r *Resolver) bridge(out *aliasList, prevV string, cc []string, tone int) (int, bool) {
	for i := len(cc); i >= 1; i-- {
		if out.tryAdd(tone, prevV+join(cc[:i])) {
			return i, true
		}
	}
	if ic, ok := r.lang.IrregularFor(cc[0]); ok {
		out.add(prevV + ic.Link)
	} else {
		out.add(prevV + cc[0])
	}
	return 1, false
}
