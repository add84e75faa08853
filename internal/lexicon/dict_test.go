package lexicon

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/iabetor/cvvc/internal/phoneme"
)

const testDict = `;;; petit dictionnaire de test
BONJOUR  b on j ou r
CHAT     ch aa
CHAT(2)  sh ah t
ÉTÉ      ei t ei
STRIP    s t r ii p
`

func TestLoad(t *testing.T) {
	d, err := Load(strings.NewReader(testDict), phoneme.French())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if d.Len() != 4 {
		t.Errorf("Len() = %d, want 4", d.Len())
	}

	entries := d.Lookup("chat")
	if len(entries) != 2 {
		t.Fatalf("expected 2 pronunciations for chat, got %d", len(entries))
	}
	// 原始符号被规范化
	if !reflect.DeepEqual(entries[0].Phonemes, []string{"sh", "ah"}) {
		t.Errorf("chat[0] = %v", entries[0].Phonemes)
	}
	if !reflect.DeepEqual(entries[1].Phonemes, []string{"sh", "ah", "t"}) {
		t.Errorf("chat[1] = %v", entries[1].Phonemes)
	}
}

func TestLookup_CaseAndNormalization(t *testing.T) {
	d, err := Load(strings.NewReader(testDict), phoneme.French())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	// 分解形式的 "é" 与词典中的 "É" 等价
	for _, w := range []string{"été", "ÉTÉ", "été"} {
		seq, ok := d.PhonemeSequence(w)
		if !ok {
			t.Errorf("PhonemeSequence(%q) not found", w)
			continue
		}
		if !reflect.DeepEqual(seq, []string{"eh", "t", "eh"}) {
			t.Errorf("PhonemeSequence(%q) = %v", w, seq)
		}
	}
	if _, ok := d.PhonemeSequence("inconnu"); ok {
		t.Error("unknown word should not be found")
	}
}

func TestPhrase(t *testing.T) {
	d, err := Load(strings.NewReader(testDict), phoneme.French())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	got, err := d.Phrase([]string{"strip", "chat"})
	if err != nil {
		t.Fatalf("Phrase failed: %v", err)
	}
	want := []string{"s", "t", "r", "ih", "p", "sh", "ah"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Phrase = %v, want %v", got, want)
	}

	if _, err := d.Phrase([]string{"bonjour", "inconnu"}); err == nil {
		t.Error("expected error for unknown word")
	}
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"missing pronunciation", "BONJOUR\n"},
		{"unknown phoneme", "MOT  m xx\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.input), phoneme.French())
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), "第 1 行") {
				t.Errorf("error should carry the line number: %v", err)
			}
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fr.dict")
	if err := os.WriteFile(path, []byte(testDict), 0644); err != nil {
		t.Fatalf("failed to write dict: %v", err)
	}
	d, err := LoadFile(path, phoneme.French())
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if _, ok := d.PhonemeSequence("bonjour"); !ok {
		t.Error("bonjour not found")
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.dict"), phoneme.French()); err == nil {
		t.Error("expected error for missing file")
	}
}
