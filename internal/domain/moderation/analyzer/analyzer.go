// Package analyzer 自动审核规则，Analyze 为纯函数，相同输入总是得到相同结论
package analyzer

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"content_moderation/internal/domain/moderation/model"
)

const (
	keywordBaseScore    = 0.8
	keywordStepScore    = 0.05
	suspiciousScore     = 0.6
	tooShortScore       = 0.3
	cleanScore          = 0.1
	maxScore            = 1.0
	minContentLength    = 10
	reasonSuspicious    = "Content contains suspicious patterns that require manual review"
	reasonTooShort      = "Content too short, requires manual review"
	reasonPassed        = "Content passed automated moderation checks"
	reasonKeywordPrefix = "Content contains inappropriate keywords: "
)

// bannedKeywords 小写子串匹配，按此顺序收集
var bannedKeywords = []string{
	"spam",
	"scam",
	"fraud",
	"fake",
	"illegal",
	"drugs",
	"violence",
	"hate",
	"harassment",
	"abuse",
	"threat",
	"discrimination",
}

// space 空白字符集：RE2 的 \s 只含 ASCII 空白，这里补上 \v、Unicode 分隔符和 BOM
const space = `[\s\v\p{Z}\x{FEFF}]`

// suspiciousPatterns 匹配原始内容，命中第一个即返回
var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(?:contact|call|email|phone)` + space + `+(?:me|us)` + space + `+(?:at|on)\b`),
	regexp.MustCompile(`(?i)\b(?:visit|check)` + space + `+(?:my|our)` + space + `+(?:website|site)\b`),
	regexp.MustCompile(`(?i)\b(?:buy|sell|purchase)` + space + `+(?:now|today|immediately)\b`),
	regexp.MustCompile(`(?i)\$\d+|\d+` + space + `*(?:dollars?|usd|€|£)`),
}

// Verdict 自动审核结论
type Verdict struct {
	Action          model.Action
	Reason          string
	FlaggedKeywords []string
	ToxicityScore   float64
}

// BannedKeywords 返回关键词列表副本
func BannedKeywords() []string {
	out := make([]string, len(bannedKeywords))
	copy(out, bannedKeywords)
	return out
}

// Analyze 按优先级依次检查：违禁词 > 可疑模式 > 长度 > 通过
func Analyze(content string) Verdict {
	if flagged := matchKeywords(content); len(flagged) > 0 {
		return Verdict{
			Action:          model.ActionAutoRejected,
			Reason:          reasonKeywordPrefix + strings.Join(flagged, ", "),
			FlaggedKeywords: flagged,
			ToxicityScore:   keywordScore(len(flagged)),
		}
	}

	for _, p := range suspiciousPatterns {
		if p.MatchString(content) {
			return Verdict{
				Action:          model.ActionManualReview,
				Reason:          reasonSuspicious,
				FlaggedKeywords: []string{},
				ToxicityScore:   suspiciousScore,
			}
		}
	}

	if utf8.RuneCountInString(content) < minContentLength {
		return Verdict{
			Action:          model.ActionManualReview,
			Reason:          reasonTooShort,
			FlaggedKeywords: []string{},
			ToxicityScore:   tooShortScore,
		}
	}

	return Verdict{
		Action:          model.ActionAutoApproved,
		Reason:          reasonPassed,
		FlaggedKeywords: []string{},
		ToxicityScore:   cleanScore,
	}
}

func matchKeywords(content string) []string {
	lower := strings.ToLower(content)
	var flagged []string
	for _, kw := range bannedKeywords {
		if strings.Contains(lower, kw) {
			flagged = append(flagged, kw)
		}
	}
	return flagged
}

// keywordScore 随命中数递增，上限 1.0
func keywordScore(n int) float64 {
	score := keywordBaseScore + keywordStepScore*float64(n)
	if score > maxScore {
		return maxScore
	}
	return score
}

// StatusFor 根据自动审核动作得出记录状态
func StatusFor(action model.Action) model.Status {
	switch action {
	case model.ActionAutoApproved:
		return model.StatusApproved
	case model.ActionAutoRejected:
		return model.StatusRejected
	case model.ActionManualReview, model.ActionUserReported:
		return model.StatusPending
	default:
		panic(fmt.Sprintf("analyzer: unknown action %q", action))
	}
}
