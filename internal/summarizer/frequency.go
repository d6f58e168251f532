package summarizer

import (
	"math"
	"regexp"
	"sort"
	"strings"
)

// FrequencySummarizer ranks sentences by normalized token frequency and is
// used to build the corpus overview shown by the status endpoint and the
// chat client banner.
type FrequencySummarizer struct {
	tokenRe    *regexp.Regexp
	sentenceRe *regexp.Regexp
	stopwords  map[string]struct{}
}

func NewFrequencySummarizer() *FrequencySummarizer {
	return &FrequencySummarizer{
		tokenRe:    regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		sentenceRe: regexp.MustCompile(`(?m)(?U)([^.!?]+[.!?])`),
		stopwords:  stopwords(),
	}
}

// Summarize returns up to maxSentences of the highest-scoring sentences in
// their original order.
func (s *FrequencySummarizer) Summarize(text string, maxSentences int) (string, error) {
	if maxSentences <= 0 {
		maxSentences = 3
	}
	sentences := s.sentenceRe.FindAllString(text, -1)
	if len(sentences) == 0 {
		return strings.TrimSpace(text), nil
	}

	freq := map[string]float64{}
	for _, sent := range sentences {
		for _, tok := range s.tokens(sent) {
			freq[tok]++
		}
	}
	maxFreq := 0.0
	for _, v := range freq {
		if v > maxFreq {
			maxFreq = v
		}
	}
	if maxFreq > 0 {
		for k := range freq {
			freq[k] /= maxFreq
		}
	}

	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, len(sentences))
	for i, sent := range sentences {
		toks := s.tokens(sent)
		total := 0.0
		for _, tok := range toks {
			total += freq[tok]
		}
		if len(toks) > 0 {
			total /= math.Sqrt(float64(len(toks)))
		}
		ranked[i] = scored{i, total}
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if maxSentences > len(ranked) {
		maxSentences = len(ranked)
	}
	picked := make([]int, maxSentences)
	for i := range picked {
		picked[i] = ranked[i].idx
	}
	sort.Ints(picked)

	out := make([]string, len(picked))
	for i, idx := range picked {
		out[i] = strings.TrimSpace(sentences[idx])
	}
	return strings.Join(out, " "), nil
}

func (s *FrequencySummarizer) tokens(text string) []string {
	raw := s.tokenRe.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, t := range raw {
		if _, ok := s.stopwords[t]; ok {
			continue
		}
		out = append(out, t)
	}
	return out
}

func stopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for", "to", "of", "in", "on", "at", "by", "with", "as", "is", "are", "was", "were", "be", "been", "being", "it", "this", "that", "these", "those", "from", "up", "down", "over", "under", "than", "so", "such", "into", "about", "between", "through", "during", "before", "after", "out", "off", "own", "same", "too", "very", "can", "will", "just", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
