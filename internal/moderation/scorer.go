package moderation

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// 各规则的分值
const (
	weightBannedTerm        = 30
	weightNegativeReligious = 40
	weightPositiveReligious = -5
	weightContentPattern    = 40
	weightThreat            = 50
	weightShouting          = 10
	weightRepeatedChars     = 15

	shoutingRatio     = 0.6
	shoutingMinLength = 10
	repeatedRunLength = 5
)

// uppercaseLetters 计入大写比例的字母
const uppercaseLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZÇĞİÖŞÜ"

// Scorer 对文本打分，无 I/O、无共享可变状态，可并发使用
type Scorer struct {
	lex *Lexicon
}

// NewScorer 创建打分器，lex 为空时使用内置词库
func NewScorer(lex *Lexicon) *Scorer {
	if lex == nil {
		lex = DefaultLexicon()
	}
	return &Scorer{lex: lex}
}

// Score 对文本打分并给出处置动作
func (s *Scorer) Score(text string) ModerationResult {
	folded := foldTurkish(text)
	var words map[string]struct{}
	reasons := []string{}
	matched := []string{}
	confidence := 0

	// 词库子串匹配
	for i, term := range s.lex.terms {
		if term.WholeWord {
			if words == nil {
				words = wordSet(folded)
			}
			if _, ok := words[s.lex.keys[i]]; !ok {
				continue
			}
		} else if !strings.Contains(folded, s.lex.keys[i]) {
			continue
		}
		matched = append(matched, term.Word)
		confidence += weightBannedTerm

		if !term.Religious {
			reasons = append(reasons, fmt.Sprintf(reasonInappropriateWordFmt, term.Word))
			continue
		}

		// 宗教词汇：负面上下文优先，其次是正面上下文，都不命中视为中性
		// 两个正则都是对整段文本判断，与命中的是哪个词无关
		switch {
		case matches(s.lex.negativeContext, text):
			reasons = append(reasons, fmt.Sprintf(reasonReligiousDisrespectFmt, term.Word))
			confidence += weightNegativeReligious
		case matches(s.lex.positiveContext, text):
			confidence += weightPositiveReligious
		}
	}

	for _, re := range s.lex.contentPatterns {
		if re.MatchString(text) {
			reasons = append(reasons, ReasonContentPattern)
			confidence += weightContentPattern
		}
	}

	for _, re := range s.lex.threatPatterns {
		if re.MatchString(text) {
			reasons = append(reasons, ReasonThreat)
			confidence += weightThreat
		}
	}

	if isShouting(text) {
		reasons = append(reasons, ReasonShouting)
		confidence += weightShouting
	}

	if hasRepeatedRun(text, repeatedRunLength) {
		reasons = append(reasons, ReasonRepeatedChars)
		confidence += weightRepeatedChars
	}

	confidence = clamp(confidence, 0, 100)
	return ModerationResult{
		IsClean:      confidence < ThresholdReview,
		Confidence:   confidence,
		Reasons:      reasons,
		MatchedTerms: matched,
		Action:       DecideAction(confidence),
	}
}

// ScoreText 使用内置词库打分
func ScoreText(text string) ModerationResult {
	return NewScorer(nil).Score(text)
}

// foldTurkish 按土耳其语规则转小写，再把无点 ı 统一成 i
// 这样 "GERİZEKALI"、"gerizekali"、"gerizekalı" 得到相同的匹配键
func foldTurkish(s string) string {
	// Caser 有状态，不能在 goroutine 之间共享
	lower := cases.Lower(language.Turkish).String(s)
	return strings.ReplaceAll(lower, "ı", "i")
}

// wordSet 按非字母数字字符切分文本
func wordSet(text string) map[string]struct{} {
	fields := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
	set := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		set[f] = struct{}{}
	}
	return set
}

func matches(re *regexp.Regexp, text string) bool {
	if re == nil {
		return false
	}
	return re.MatchString(text)
}

// isShouting 大写字母占全文字符数的比例超过 60%，且文本长度超过 10
func isShouting(text string) bool {
	length := utf8.RuneCountInString(text)
	if length <= shoutingMinLength {
		return false
	}
	upper := 0
	for _, r := range text {
		if strings.ContainsRune(uppercaseLetters, r) {
			upper++
		}
	}
	return float64(upper)/float64(length) > shoutingRatio
}

// hasRepeatedRun 检测同一字符连续出现 n 次及以上
// RE2 不支持反向引用，这里线性扫描；换行类字符不参与计数
func hasRepeatedRun(text string, n int) bool {
	count := 0
	prev := rune(-1)
	for _, r := range text {
		if isLineTerminator(r) {
			count = 0
			prev = -1
			continue
		}
		if r == prev {
			count++
		} else {
			count = 1
			prev = r
		}
		if count >= n {
			return true
		}
	}
	return false
}

func isLineTerminator(r rune) bool {
	return r == '\n' || r == '\r' || r == '\u2028' || r == '\u2029'
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
