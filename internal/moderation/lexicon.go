package moderation

import (
	"regexp"
	"sync"
)

// Term 词库中的一个词
// Religious 为 true 的词需要结合上下文判断，而不是直接视为违规。
// WholeWord 为 true 时只匹配完整单词，用于 "am" 这类作为子串极易误伤的短词
// （"elhamdülillah"、"tamam"、"selam"）。
type Term struct {
	Word      string
	Religious bool
	WholeWord bool
}

// Lexicon 词库与规则集合，构造后只读，可被多个 goroutine 共享
type Lexicon struct {
	terms           []Term
	keys            []string // 与 terms 一一对应的匹配键
	positiveContext *regexp.Regexp
	negativeContext *regexp.Regexp
	contentPatterns []*regexp.Regexp
	threatPatterns  []*regexp.Regexp
}

// LexiconConfig 构造 Lexicon 的原始数据
type LexiconConfig struct {
	Terms           []Term
	PositiveContext string
	NegativeContext string
	ContentPatterns []string
	ThreatPatterns  []string
}

// NewLexicon 编译正则并返回只读词库
func NewLexicon(cfg LexiconConfig) (*Lexicon, error) {
	lex := &Lexicon{
		terms: append([]Term(nil), cfg.Terms...),
		keys:  make([]string, len(cfg.Terms)),
	}
	for i, term := range cfg.Terms {
		lex.keys[i] = foldTurkish(term.Word)
	}

	var err error
	if lex.positiveContext, err = compileOptional(cfg.PositiveContext); err != nil {
		return nil, err
	}
	if lex.negativeContext, err = compileOptional(cfg.NegativeContext); err != nil {
		return nil, err
	}
	if lex.contentPatterns, err = compileAll(cfg.ContentPatterns); err != nil {
		return nil, err
	}
	if lex.threatPatterns, err = compileAll(cfg.ThreatPatterns); err != nil {
		return nil, err
	}
	return lex, nil
}

// Terms 返回词表副本
func (l *Lexicon) Terms() []Term {
	return append([]Term(nil), l.terms...)
}

func compileOptional(expr string) (*regexp.Regexp, error) {
	if expr == "" {
		return nil, nil
	}
	return regexp.Compile(expr)
}

func compileAll(exprs []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(exprs))
	for _, expr := range exprs {
		re, err := regexp.Compile(expr)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}

var (
	defaultLexicon     *Lexicon
	defaultLexiconOnce sync.Once
)

// DefaultLexicon 返回内置的土耳其语词库，进程内只构造一次
func DefaultLexicon() *Lexicon {
	defaultLexiconOnce.Do(func() {
		lex, err := NewLexicon(defaultLexiconConfig)
		if err != nil {
			panic("moderation: invalid built-in lexicon: " + err.Error())
		}
		defaultLexicon = lex
	})
	return defaultLexicon
}

// defaultLexiconConfig 内置词库
// 词表默认按子串匹配，顺序决定 reasons 与 matchedTerms 的顺序。
// 正则大小写不敏感，不加结尾的 \b，让 "öldüreceğim" 这类带后缀的词也能命中词干。
var defaultLexiconConfig = LexiconConfig{
	Terms: []Term{
		// 脏话与侮辱
		{Word: "amk"}, {Word: "amınakodum"}, {Word: "aq", WholeWord: true}, {Word: "siktir"}, {Word: "orospu"},
		{Word: "piç"}, {Word: "kahpe"}, {Word: "ibne"}, {Word: "göt"}, {Word: "am", WholeWord: true},
		{Word: "sik"}, {Word: "yarrak"}, {Word: "taşak"}, {Word: "amcık"}, {Word: "fuck"},
		{Word: "shit"}, {Word: "bitch"}, {Word: "damn"},
		{Word: "aptal"}, {Word: "salak"}, {Word: "gerizekalı"}, {Word: "mal"}, {Word: "ahmak"},
		{Word: "dangalak"}, {Word: "embesil"},

		// 宗教词汇，按上下文判断
		{Word: "allah", Religious: true}, {Word: "tanrı", Religious: true},
		{Word: "peygamber", Religious: true}, {Word: "din", Religious: true},
		{Word: "imam", Religious: true}, {Word: "hoca", Religious: true},

		// 色情内容
		{Word: "porno"}, {Word: "seks"}, {Word: "cinsel"}, {Word: "nude"}, {Word: "çıplak"},
		{Word: "mastürbasyon"}, {Word: "oral"},

		// 暴力与仇恨
		{Word: "öldür"}, {Word: "gebertir"}, {Word: "katil"}, {Word: "bomba"}, {Word: "terör"},
		{Word: "savaş"}, {Word: "kan"}, {Word: "ölüm"},
	},

	PositiveContext: `(?i)\b(maşaallah|inşaallah|allahaısmarladık|allah.*rahmet|allah.*korusun|allah.*yardımcısı|elhamdülillah|subhanallah|astağfirullah|bismillah|tanrı.*şükür|peygamber.*sevgi|din.*güzel|imam.*bilgili|hoca.*iyi|dua.*et|allah.*rızası|hayırlı)`,

	NegativeContext: `(?i)\b(allah.*lanet|allah.*kötü|tanrı.*yok|din.*saçma|peygamber.*yalan)`,

	ContentPatterns: []string{
		`(?i)\b(allah.*lanet|tanrı.*kötü|din.*saçma)`,
		`(?i)\b(peygamber.*yalan|imam.*kötü)`,
		`(?i)\b(seks|porno|nude).*ara`,
		`(?i)\b(kumar|içki|alkol).*oyna`,
		`(?i)(öldür|gebertir|katil).*birine`,
	},

	ThreatPatterns: []string{
		`(?i)\b(seni.*öldür|kelleni.*kopar|canını.*çıkar)`,
		`(?i)\b(intikam.*alacağım|hesap.*göreceğin)`,
		`(?i)(dayak.*atacağım|döveceğim)`,
	},
}
