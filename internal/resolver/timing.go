package resolver

import (
	"strings"
	"time"
)

// TransitionScale 根据别名末尾的音素返回过渡长度倍率：
// 短辅音 0.75，长辅音 1.5，其余（元音结尾或不在两表中的辅音）1.25。
func (r *Resolver) TransitionScale(alias string) float64 {
	for _, c := range r.lang.ShortConsonants {
		if strings.HasSuffix(alias, c) {
			return 0.75
		}
	}
	for _, c := range r.lang.LongConsonants {
		if strings.HasSuffix(alias, c) {
			return 1.5
		}
	}
	return 1.25
}

// TransitionLength 返回别名的过渡长度。
func (r *Resolver) TransitionLength(alias string) time.Duration {
	return time.Duration(float64(r.baseTransition) * r.TransitionScale(alias))
}

// BaseTransition 返回过渡长度基准值。
func (r *Resolver) BaseTransition() time.Duration {
	return r.baseTransition
}
