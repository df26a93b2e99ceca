package news

import (
	"context"
	"math"
	"regexp"
	"sort"
	"strings"

	"invest-sentinel/internal/interfaces"
	"invest-sentinel/internal/types"
)

// Analyzer scores headline text into a [-1,1] sentiment scalar using a
// small bilingual finance lexicon. It is pure and deterministic: the same
// texts always score the same.
type Analyzer struct{}

var _ interfaces.SentimentScorer = (*Analyzer)(nil)

func NewAnalyzer() *Analyzer { return &Analyzer{} }

var (
	cleanRe  = regexp.MustCompile(`[^\p{L}\p{N}_\s\-\.\!\?\,\:;"']`)
	wordRe   = regexp.MustCompile(`[a-zA-Z]{3,}`)
	spacesRe = regexp.MustCompile(`\s+`)
)

// english polarity words, the subset that shows up in finance headlines
var (
	englishPositive = map[string]bool{
		"gain": true, "gains": true, "growth": true, "strong": true, "beat": true,
		"beats": true, "surge": true, "rally": true, "record": true, "upgrade": true,
		"positive": true, "rise": true, "rises": true, "bullish": true, "profit": true,
		"breakthrough": true, "buyback": true, "confidence": true, "soar": true,
	}
	englishNegative = map[string]bool{
		"loss": true, "losses": true, "drop": true, "drops": true, "fall": true,
		"falls": true, "weak": true, "miss": true, "misses": true, "downgrade": true,
		"negative": true, "decline": true, "bearish": true, "concern": true,
		"concerns": true, "plunge": true, "slump": true, "pressure": true, "risk": true,
	}
	chinesePositive = []string{"增长", "上涨", "利好", "超预期", "强劲", "突破", "积极", "信心", "提升"}
	chineseNegative = []string{"下降", "下跌", "担忧", "承压", "挑战", "压力", "谨慎", "波动", "放缓"}
)

// CleanText strips everything except letters, digits and basic punctuation
// and collapses whitespace.
func CleanText(text string) string {
	text = cleanRe.ReplaceAllString(text, "")
	return strings.TrimSpace(spacesRe.ReplaceAllString(text, " "))
}

// Score averages per-text sentiment over the given texts. Empty input is
// neutral 0.0. Extreme averages are damped: headline batches that all read
// maximally one-sided usually reflect lexicon quirks, not the market.
func (a *Analyzer) Score(ctx context.Context, texts []string) float64 {
	var scores []float64
	for _, text := range texts {
		if text == "" {
			continue
		}
		cleaned := CleanText(text)
		if cleaned == "" {
			continue
		}
		scores = append(scores, scoreOne(cleaned))
	}
	if len(scores) == 0 {
		return 0.0
	}

	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	avg := sum / float64(len(scores))

	if avg > 0.8 {
		avg = 0.6
	} else if avg < -0.8 {
		avg = -0.6
	}
	return round3(avg)
}

// scoreOne scores a single cleaned text.
func scoreOne(text string) float64 {
	lower := strings.ToLower(text)

	var pos, neg int
	for _, w := range wordRe.FindAllString(lower, -1) {
		if englishPositive[w] {
			pos++
		} else if englishNegative[w] {
			neg++
		}
	}

	var score float64
	if pos+neg > 0 {
		score = float64(pos-neg) / float64(pos+neg)
	}

	for _, w := range chinesePositive {
		if strings.Contains(text, w) {
			score += 0.1
		}
	}
	for _, w := range chineseNegative {
		if strings.Contains(text, w) {
			score -= 0.1
		}
	}

	return clamp(score, -1, 1)
}

// Report scores each headline individually and aggregates counts.
func (a *Analyzer) Report(ctx context.Context, headlines []types.Headline) types.SentimentReport {
	report := types.SentimentReport{Headlines: headlines}
	if len(headlines) == 0 {
		report.Label = SentimentLabel(0)
		return report
	}

	var sum float64
	for _, h := range headlines {
		score := a.Score(ctx, []string{h.Title})
		report.PerItem = append(report.PerItem, score)
		sum += score
		switch {
		case score >= 0.1:
			report.Positive++
		case score <= -0.1:
			report.Negative++
		default:
			report.Neutral++
		}
	}

	report.Score = round3(sum / float64(len(report.PerItem)))
	report.Label = SentimentLabel(report.Score)
	return report
}

// SentimentLabel maps a score to a display label.
func SentimentLabel(score float64) string {
	switch {
	case score >= 0.5:
		return "positive"
	case score >= 0.1:
		return "slightly positive"
	case score >= -0.1:
		return "neutral"
	case score >= -0.5:
		return "slightly negative"
	default:
		return "negative"
	}
}

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "that": true,
	"this": true, "are": true, "was": true, "has": true, "have": true,
	"will": true, "its": true, "but": true, "not": true, "from": true,
}

// KeywordCounts returns the most frequent non-stopword terms across texts
// with their frequencies, for the keyword chart. Ties break alphabetically
// so output is stable.
func KeywordCounts(texts []string, topN int) (words []string, counts []int) {
	freq := map[string]int{}
	for _, text := range texts {
		for _, w := range wordRe.FindAllString(strings.ToLower(text), -1) {
			if !stopWords[w] {
				freq[w]++
			}
		}
	}
	words = make([]string, 0, len(freq))
	for w := range freq {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) > topN {
		words = words[:topN]
	}
	counts = make([]int, len(words))
	for i, w := range words {
		counts[i] = freq[w]
	}
	return words, counts
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
