package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/iabetor/cvvc/internal/config"
	"github.com/iabetor/cvvc/internal/lexicon"
	"github.com/iabetor/cvvc/internal/logger"
	"github.com/iabetor/cvvc/internal/phoneme"
	"github.com/iabetor/cvvc/internal/resolver"
	"github.com/iabetor/cvvc/internal/syllable"
	"github.com/iabetor/cvvc/internal/voicebank"
)

// extendMark 出现在乐句中时，表示下一个音节延长上一个音符。
const extendMark = "+"

// aliasSep 分隔一个音节的多个别名。VCV 别名本身含空格，不能用空格分隔。
const aliasSep = "|"

func main() {
	configPath := flag.String("config", "", "配置文件路径（为空则使用默认配置）")
	bankDir := flag.String("bank", "", "音源目录，覆盖配置中的 voicebank.dir")
	dictPath := flag.String("dict", "", "发音词典，覆盖配置中的 lexicon.dict")
	tone := flag.Int("tone", 0, "MIDI 音高，覆盖配置中的 timing.tone")
	verbose := flag.Bool("v", false, "输出调试日志")
	flag.Parse()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "加载配置失败: %v\n", err)
			os.Exit(1)
		}
	}
	if *bankDir != "" {
		cfg.Voicebank.Dir = *bankDir
	}
	if *dictPath != "" {
		cfg.Lexicon.Dict = *dictPath
	}
	if *tone > 0 {
		cfg.Timing.Tone = *tone
	}
	if *verbose {
		cfg.Log.Level = "debug"
	}

	if err := logger.Init(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		File:       cfg.Log.File,
		FileOnly:   cfg.Log.FileOnly,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
	}); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	a, err := newApp(cfg)
	if err != nil {
		logger.Errorf("[main] 启动失败: %v", err)
		logger.Sync()
		os.Exit(1)
	}

	if err := a.run(os.Stdin, os.Stdout); err != nil {
		logger.Errorf("[main] 运行出错: %v", err)
		logger.Sync()
		os.Exit(1)
	}
}

// app 持有一次运行所需的全部只读组件。
type app struct {
	lang *phoneme.Language
	res  *resolver.Resolver
	dict *lexicon.Dictionary
	tone int
}

func newApp(cfg *config.Config) (*app, error) {
	lang, err := loadLanguage(cfg.Language)
	if err != nil {
		return nil, err
	}

	lib, err := loadLibrary(cfg.Voicebank)
	if err != nil {
		return nil, err
	}

	a := &app{
		lang: lang,
		res: resolver.New(lang, lib,
			resolver.WithBaseTransition(time.Duration(cfg.Timing.TransitionMs)*time.Millisecond)),
		tone: cfg.Timing.Tone,
	}

	if cfg.Lexicon.Dict != "" {
		a.dict, err = lexicon.LoadFile(cfg.Lexicon.Dict, lang)
		if err != nil {
			return nil, err
		}
		logger.Infof("[main] 已加载词典 %s: %d 个单词", cfg.Lexicon.Dict, a.dict.Len())
	}
	return a, nil
}

func loadLanguage(cfg config.LanguageConfig) (*phoneme.Language, error) {
	if cfg.File != "" {
		return phoneme.LoadLanguage(cfg.File)
	}
	return phoneme.ByName(cfg.Name)
}

// loadLibrary 加载音源；未配置音源目录时使用空音源，所有别名都走兜底规则。
func loadLibrary(cfg config.VoicebankConfig) (voicebank.Library, error) {
	subbanks, err := voicebank.BuildSubbanks(cfg.Subbanks)
	if err != nil {
		return nil, err
	}
	if cfg.Dir == "" {
		logger.Warn("[main] 未指定音源目录，使用空音源")
		set := voicebank.NewSet()
		set.SetSubbanks(subbanks)
		return set, nil
	}

	opts := voicebank.Options{Encoding: cfg.Encoding, Subbanks: cfg.Subbanks}
	if cfg.CacheEnabled() {
		opts.CacheDB = cfg.CacheDB
	}
	bank, err := voicebank.Load(cfg.Dir, opts)
	if err != nil {
		return nil, err
	}
	logger.Infof("[main] 音源 %s 就绪 (snapshot=%s)", bank.Name, bank.SnapshotID)
	return bank, nil
}

// run 逐行读取乐句并输出解析结果。单个乐句出错只记录日志，不中断后续处理。
func (a *app) run(in io.Reader, out io.Writer) error {
	w := bufio.NewWriter(out)
	defer w.Flush()

	scanner := bufio.NewScanner(in)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		phrase, err := a.parse(strings.Fields(line))
		if err != nil {
			logger.Warnf("[main] 第 %d 行: %v", lineNum, err)
			fmt.Fprintf(w, "! %v\n\n", err)
			continue
		}
		a.write(w, a.res.ResolvePhrase(phrase))
	}
	return scanner.Err()
}

// parse 把一行输入转换为乐句。加载了词典时按单词查找，否则每个记号都是音素。
func (a *app) parse(tokens []string) (syllable.Phrase, error) {
	var (
		symbols  []string
		vowels   int
		extended []int
	)
	for _, tok := range tokens {
		if tok == extendMark {
			extended = append(extended, vowels)
			continue
		}

		var seq []string
		if a.dict != nil {
			var ok bool
			seq, ok = a.dict.PhonemeSequence(tok)
			if !ok {
				return syllable.Phrase{}, fmt.Errorf("词典中没有单词 %q", tok)
			}
		} else {
			seq = []string{a.lang.Canonicalize(tok)}
		}
		for _, s := range seq {
			if a.lang.IsVowel(s) {
				vowels++
			}
		}
		symbols = append(symbols, seq...)
	}

	phrase, err := syllable.Segment(symbols, a.lang, a.tone)
	if err != nil {
		return syllable.Phrase{}, err
	}
	for _, i := range extended {
		phrase.MarkExtension(i)
	}
	return phrase, nil
}

func (a *app) write(w io.Writer, res resolver.PhraseResult) {
	for i, s := range res.Syllables {
		if s.Extend {
			fmt.Fprintf(w, "%d\t%s\n", i, extendMark)
			continue
		}
		fmt.Fprintf(w, "%d\t%s\t%s\n", i, strings.Join(s.Aliases, aliasSep), a.res.TransitionLength(s.Base()))
	}
	if len(res.Ending) > 0 {
		last := res.Ending[len(res.Ending)-1]
		fmt.Fprintf(w, "-\t%s\t%s\n", strings.Join(res.Ending, aliasSep), a.res.TransitionLength(last))
	}
	fmt.Fprintln(w)
}
