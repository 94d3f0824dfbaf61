package domain

import (
	"math"
	"strings"
)

const maxLanguageCandidates = 10

// BuildResult assembles the stored result from drained engine output:
// segment texts joined with a single space, probabilities rounded to 4
// decimal places, segment timestamps to 2, and at most the top 10 language
// candidates in engine order.
func BuildResult(t Transcription) Result {
	segments := make([]Segment, len(t.Segments))
	texts := make([]string, len(t.Segments))
	for i, s := range t.Segments {
		segments[i] = Segment{
			Index: i,
			Start: round2(s.Start),
			End:   round2(s.End),
			Text:  s.Text,
		}
		texts[i] = s.Text
	}

	var candidates []LanguageCandidate
	if len(t.Info.Candidates) > 0 {
		n := len(t.Info.Candidates)
		if n > maxLanguageCandidates {
			n = maxLanguageCandidates
		}
		candidates = make([]LanguageCandidate, n)
		for i, c := range t.Info.Candidates[:n] {
			candidates[i] = LanguageCandidate{
				Language:    c.Language,
				Probability: round4(c.Probability),
			}
		}
	}

	return Result{
		Transcript:          strings.Join(texts, " "),
		Language:            t.Info.Language,
		LanguageProbability: round4(t.Info.Probability),
		Segments:            segments,
		Candidates:          candidates,
	}
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }

func round4(x float64) float64 { return math.Round(x*10000) / 10000 }
