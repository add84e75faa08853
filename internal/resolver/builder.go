package resolver

// aliasList 收集一个音节的别名。
// tryAdd 只在音源中存在该别名时追加，失败时不产生任何副作用。
type aliasList struct {
	r       *Resolver
	aliases []string
}

func (r *Resolver) newList() *aliasList {
	return &aliasList{r: r}
}

// exists 是对音源的只读查询，用于选择分支而不写入输出。
func (r *Resolver) exists(alias string, tone int) bool {
	return r.lib.HasAlias(alias, tone)
}

// pick 返回第一个存在的候选别名；都不存在时返回最后一个作为兜底。
func (r *Resolver) pick(tone int, candidates ...string) string {
	for _, c := range candidates[:len(candidates)-1] {
		if r.exists(c, tone) {
			return c
		}
	}
	return candidates[len(candidates)-1]
}

// add 无条件追加。
func (l *aliasList) add(alias string) {
	l.aliases = append(l.aliases, alias)
}

// tryAdd 在别名存在时追加并返回 true。
func (l *aliasList) tryAdd(tone int, alias string) bool {
	if !l.r.exists(alias, tone) {
		return false
	}
	l.aliases = append(l.aliases, alias)
	return true
}

func (l *aliasList) empty() bool {
	return len(l.aliases) == 0
}

// cursor 在不可变的辅音簇上前进，每次匹配返回消耗的长度。
// end 是最后一个可作为辅音对首项的下标之后的位置。
type cursor struct {
	cc  []string
	i   int
	end int
}

func newCursor(cc []string, start int) *cursor {
	return &cursor{cc: cc, i: start, end: len(cc) - 1}
}

// pairsLeft 报告当前位置是否还有待处理的辅音对。
func (c *cursor) pairsLeft() bool {
	return c.i < c.end
}

func (c *cursor) cur() string  { return c.cc[c.i] }
func (c *cursor) next() string { return c.cc[c.i+1] }

func (c *cursor) advance(n int) {
	c.i += n
}
