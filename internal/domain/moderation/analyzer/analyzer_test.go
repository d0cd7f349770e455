package analyzer

import (
	"strings"
	"testing"

	"content_moderation/internal/domain/moderation/model"

	"github.com/stretchr/testify/assert"
)

func TestAnalyze(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		action   model.Action
		score    float64
		keywords []string
		reason   string
	}{
		{
			name:     "clean content is approved",
			content:  "This is a wonderful coworking space with great amenities.",
			action:   model.ActionAutoApproved,
			score:    0.1,
			keywords: []string{},
			reason:   "Content passed automated moderation checks",
		},
		{
			name:     "single banned keyword",
			content:  "This place is spam and terrible.",
			action:   model.ActionAutoRejected,
			score:    0.85,
			keywords: []string{"spam"},
			reason:   "Content contains inappropriate keywords: spam",
		},
		{
			name:     "keyword match is case insensitive",
			content:  "Total SCAM, do not book this desk",
			action:   model.ActionAutoRejected,
			score:    0.85,
			keywords: []string{"scam"},
		},
		{
			name:     "contact solicitation goes to manual review",
			content:  "Contact me at john@email.com for special deals!!!",
			action:   model.ActionManualReview,
			score:    0.6,
			keywords: []string{},
			reason:   "Content contains suspicious patterns that require manual review",
		},
		{
			name:    "website promotion",
			content: "Great room, please visit our website for more photos",
			action:  model.ActionManualReview,
			score:   0.6,
		},
		{
			name:    "purchase urgency",
			content: "Desks are going quickly so buy now before they are gone",
			action:  model.ActionManualReview,
			score:   0.6,
		},
		{
			name:    "currency with dollar sign",
			content: "I paid $250 for a weekly pass here",
			action:  model.ActionManualReview,
			score:   0.6,
		},
		{
			name:    "currency word",
			content: "Only 40 usd for the whole afternoon",
			action:  model.ActionManualReview,
			score:   0.6,
		},
		{
			name:    "contact solicitation with no-break space",
			content: "Contact me\u00a0at the front desk for details please",
			action:  model.ActionManualReview,
			score:   0.6,
		},
		{
			name:    "website promotion with em space",
			content: "Please visit\u2003our website for more information",
			action:  model.ActionManualReview,
			score:   0.6,
		},
		{
			name:    "purchase urgency with ideographic space",
			content: "Only three desks left, buy\u3000now while you can",
			action:  model.ActionManualReview,
			score:   0.6,
		},
		{
			name:    "contact solicitation with vertical tab and bom",
			content: "Please call\vus\ufeffon weekdays for a private tour",
			action:  model.ActionManualReview,
			score:   0.6,
		},
		{
			name:    "currency word after narrow no-break space",
			content: "Only 40\u202fdollars for the whole afternoon",
			action:  model.ActionManualReview,
			score:   0.6,
		},
		{
			name:     "too short",
			content:  "nice.",
			action:   model.ActionManualReview,
			score:    0.3,
			keywords: []string{},
			reason:   "Content too short, requires manual review",
		},
		{
			name:    "empty content is too short",
			content: "",
			action:  model.ActionManualReview,
			score:   0.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Analyze(tt.content)

			assert.Equal(t, tt.action, v.Action)
			assert.InDelta(t, tt.score, v.ToxicityScore, 1e-9)
			if tt.keywords != nil {
				assert.Equal(t, tt.keywords, v.FlaggedKeywords)
			}
			if tt.reason != "" {
				assert.Equal(t, tt.reason, v.Reason)
			}
		})
	}
}

func TestAnalyzeKeywordPrecedence(t *testing.T) {
	// 同时命中关键词和可疑模式时，关键词优先
	v := Analyze("This is a scam, contact me at the front desk for $50 off")

	assert.Equal(t, model.ActionAutoRejected, v.Action)
	assert.Equal(t, []string{"scam"}, v.FlaggedKeywords)
}

func TestAnalyzeCollectsAllKeywordsInListOrder(t *testing.T) {
	v := Analyze("threat of violence and fraud")

	assert.Equal(t, []string{"fraud", "violence", "threat"}, v.FlaggedKeywords)
	assert.Equal(t, "Content contains inappropriate keywords: fraud, violence, threat", v.Reason)
	assert.InDelta(t, 0.95, v.ToxicityScore, 1e-9)
}

func TestAnalyzeScoreMonotonicAndClamped(t *testing.T) {
	one := Analyze("this listing is fake")
	two := Analyze("this listing is fake and a scam")
	assert.Greater(t, two.ToxicityScore, one.ToxicityScore)

	many := Analyze(strings.Join(BannedKeywords(), " "))
	assert.Len(t, many.FlaggedKeywords, 12)
	assert.Equal(t, 1.0, many.ToxicityScore)
}

func TestAnalyzeDeterministic(t *testing.T) {
	inputs := []string{
		"This place is spam and terrible.",
		"Contact me at john@email.com for special deals!!!",
		"nice.",
		"Quiet meeting rooms and friendly staff.",
	}
	for _, in := range inputs {
		first := Analyze(in)
		for i := 0; i < 5; i++ {
			assert.Equal(t, first, Analyze(in))
		}
	}
}

func TestAnalyzeLengthCountsRunes(t *testing.T) {
	// 9 个汉字，字节数远大于 10，但字符数不足
	v := Analyze("这里的环境非常好的")
	assert.Equal(t, model.ActionManualReview, v.Action)
	assert.InDelta(t, 0.3, v.ToxicityScore, 1e-9)
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, model.StatusApproved, StatusFor(model.ActionAutoApproved))
	assert.Equal(t, model.StatusRejected, StatusFor(model.ActionAutoRejected))
	assert.Equal(t, model.StatusPending, StatusFor(model.ActionManualReview))
	assert.Equal(t, model.StatusPending, StatusFor(model.ActionUserReported))
	assert.Panics(t, func() { StatusFor(model.Action("bogus")) })
}
