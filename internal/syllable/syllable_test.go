package syllable

import (
	"reflect"
	"testing"

	"github.com/iabetor/cvvc/internal/phoneme"
)

func TestShape(t *testing.T) {
	tests := []struct {
		name string
		s    Syllable
		want Shape
	}{
		{"starting v", Syllable{V: "ah"}, StartingV},
		{"vv", Syllable{PrevV: "ah", V: "ih"}, VV},
		{"starting cv", Syllable{CC: []string{"t"}, V: "ah"}, StartingCV},
		{"starting ccv", Syllable{CC: []string{"s", "t", "r"}, V: "ih"}, StartingCCV},
		{"vcv", Syllable{PrevV: "ah", CC: []string{"t"}, V: "ih"}, VCV},
		{"vccv", Syllable{PrevV: "ah", CC: []string{"s", "t"}, V: "ih"}, VCCV},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.s.Shape(); got != tt.want {
				t.Errorf("Shape() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShape_FlagsExclusive(t *testing.T) {
	samples := []Syllable{
		{V: "ah"},
		{PrevV: "ah", V: "ih"},
		{CC: []string{"t"}, V: "ah"},
		{CC: []string{"s", "t"}, V: "ah"},
		{PrevV: "oe", CC: []string{"t"}, V: "ah"},
		{PrevV: "oe", CC: []string{"s", "t", "r"}, V: "ah"},
	}
	for _, s := range samples {
		flags := []bool{
			s.IsStartingV(),
			s.IsVV(),
			s.IsStartingCVWithOneConsonant(),
			s.IsStartingCVWithMoreThanOneConsonant(),
			s.IsVCVWithOneConsonant(),
			s.IsVCVWithMoreThanOneConsonant(),
		}
		n := 0
		for _, f := range flags {
			if f {
				n++
			}
		}
		if n != 1 {
			t.Errorf("%v: %d 个形态标志为真，期望恰好 1 个", s, n)
		}
	}
}

func TestShapeString(t *testing.T) {
	if VCCV.String() != "VCCV" {
		t.Errorf("VCCV.String() = %q", VCCV.String())
	}
	if Shape(99).String() != "Unknown" {
		t.Errorf("Shape(99).String() = %q", Shape(99).String())
	}
}

func TestCanMakeAliasExtension(t *testing.T) {
	tests := []struct {
		s    Syllable
		want bool
	}{
		{Syllable{PrevV: "ah", V: "ah", CanExtend: true}, true},
		{Syllable{PrevV: "ah", V: "ah"}, false},
		{Syllable{PrevV: "ah", V: "ih", CanExtend: true}, false},
		{Syllable{PrevV: "ah", CC: []string{"t"}, V: "ah", CanExtend: true}, false},
		{Syllable{V: "ah", CanExtend: true}, false},
	}
	for _, tt := range tests {
		if got := tt.s.CanMakeAliasExtension(); got != tt.want {
			t.Errorf("%v CanMakeAliasExtension() = %v, want %v", tt.s, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	if err := (Syllable{V: "ah"}).Validate(); err != nil {
		t.Errorf("合法音节不应报错: %v", err)
	}
	if err := (Syllable{CC: []string{"t"}}).Validate(); err == nil {
		t.Error("缺少元音应报错")
	}
	if err := (Syllable{CC: []string{"s", ""}, V: "ah"}).Validate(); err == nil {
		t.Error("辅音簇含空项应报错")
	}
	if err := (Ending{PrevV: "ah", CC: []string{"s", "t"}}).Validate(); err != nil {
		t.Errorf("合法结尾不应报错: %v", err)
	}
	if err := (Ending{CC: []string{"s"}}).Validate(); err == nil {
		t.Error("结尾缺少元音应报错")
	}
	if err := (Ending{PrevV: "ah", CC: []string{""}}).Validate(); err == nil {
		t.Error("结尾辅音含空项应报错")
	}
}

func TestEndingFlags(t *testing.T) {
	e := Ending{PrevV: "ah"}
	if !e.IsEndingV() || e.IsEndingVCWithOneConsonant() || e.IsEndingVCWithMoreThanOneConsonant() {
		t.Errorf("%v 应只为 EndingV", e)
	}
	e.CC = []string{"t"}
	if e.IsEndingV() || !e.IsEndingVCWithOneConsonant() {
		t.Errorf("%v 应只为 EndingVC", e)
	}
	e.CC = []string{"s", "t"}
	if !e.IsEndingVCWithMoreThanOneConsonant() || e.IsEndingVCWithOneConsonant() {
		t.Errorf("%v 应只为 EndingVCC", e)
	}
}

func TestSegment(t *testing.T) {
	lang := phoneme.French()
	// "strip tease" 风格的序列: s t r ih p t ee z
	phrase, err := Segment([]string{"s", "t", "r", "ih", "p", "t", "ee", "z"}, lang, 60)
	if err != nil {
		t.Fatalf("Segment 失败: %v", err)
	}
	want := []Syllable{
		{PrevV: "", CC: []string{"s", "t", "r"}, V: "ih", Tone: 60, VowelTone: 60},
		{PrevV: "ih", CC: []string{"p", "t"}, V: "ee", Tone: 60, VowelTone: 60},
	}
	if !reflect.DeepEqual(phrase.Syllables, want) {
		t.Errorf("Syllables = %+v, want %+v", phrase.Syllables, want)
	}
	wantEnding := Ending{PrevV: "ee", CC: []string{"z"}, Tone: 60}
	if !reflect.DeepEqual(phrase.Ending, wantEnding) {
		t.Errorf("Ending = %+v, want %+v", phrase.Ending, wantEnding)
	}
}

func TestSegment_VowelOnly(t *testing.T) {
	phrase, err := Segment([]string{"ah", "ih"}, phoneme.French(), 0)
	if err != nil {
		t.Fatalf("Segment 失败: %v", err)
	}
	if len(phrase.Syllables) != 2 {
		t.Fatalf("len = %d, want 2", len(phrase.Syllables))
	}
	if phrase.Syllables[1].Shape() != VV {
		t.Errorf("第二个音节应为 VV，得到 %v", phrase.Syllables[1].Shape())
	}
	if !phrase.Ending.IsEndingV() {
		t.Error("结尾应无辅音")
	}

	phrase.MarkExtension(1)
	phrase.MarkExtension(0)
	phrase.MarkExtension(5)
	if phrase.Syllables[0].CanExtend {
		t.Error("首音节不能标记为延长")
	}
	if !phrase.Syllables[1].CanExtend {
		t.Error("第二个音节应被标记为延长")
	}
}

func TestSegment_Errors(t *testing.T) {
	lang := phoneme.French()
	if _, err := Segment([]string{"s", "t"}, lang, 0); err == nil {
		t.Error("没有元音应报错")
	}
	if _, err := Segment([]string{"ah", "qq"}, lang, 0); err == nil {
		t.Error("未知音素应报错")
	}
	if _, err := Segment(nil, lang, 0); err == nil {
		t.Error("空序列应报错")
	}
}
