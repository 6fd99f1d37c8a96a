// Package analyzer scores a single URL against the heuristic rule table in
// package detect. Evaluation is pure: no I/O, no shared mutable state.
package analyzer

import (
	"errors"
	"strings"
	"time"

	"github.com/selimozcann/urlrisk/internal/detect"
	"github.com/selimozcann/urlrisk/internal/model"
)

// Validation failures. Their text is shown to users as-is.
var (
	ErrInvalidInput  = errors.New("Please enter a valid URL.")
	ErrInvalidScheme = errors.New("Invalid URL format. Please include http:// or https://")
	ErrMalformedURL  = errors.New("Invalid URL structure.")
)

// Validate checks that input is a non-empty string carrying an http:// or
// https:// prefix and returns it trimmed.
func Validate(input any) (string, error) {
	s, ok := input.(string)
	if !ok {
		return "", ErrInvalidInput
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrInvalidInput
	}
	if !strings.HasPrefix(s, "http://") && !strings.HasPrefix(s, "https://") {
		return "", ErrInvalidScheme
	}
	return s, nil
}

// Analyze evaluates input and stamps the verdict with the current time.
func Analyze(input any) model.Verdict {
	return AnalyzeAt(input, time.Now())
}

// AnalyzeAt evaluates input and stamps the verdict with at. It never
// panics; every failure is reported through Verdict.Error.
func AnalyzeAt(input any, at time.Time) model.Verdict {
	raw, err := Validate(input)
	if err != nil {
		return model.FailedVerdict(err.Error(), at)
	}
	p, err := Parse(raw)
	if err != nil {
		return model.FailedVerdict(ErrMalformedURL.Error(), at)
	}
	return Score(p, at)
}

// Score runs the rule table over an already parsed URL.
func Score(p *model.ParsedURL, at time.Time) model.Verdict {
	evidence := detect.Evaluate(p)

	score := 0
	reasons := make([]string, 0, len(evidence))
	breakdown := make([]string, 0, len(evidence))
	for _, e := range evidence {
		score += e.Weight
		reasons = append(reasons, e.Reason)
		breakdown = append(breakdown, e.Breakdown)
	}
	level, class := model.ClassifyScore(score)

	return model.Verdict{
		Score:          score,
		RiskLevel:      level,
		Classification: class,
		Reasons:        reasons,
		Breakdown:      breakdown,
		DomainInfo: model.DomainInfo{
			Protocol:   p.Protocol,
			Hostname:   p.Hostname,
			Subdomains: p.SubdomainCount,
			TLD:        p.TLD(),
			URLLength:  len(p.FullURL),
		},
		AnalyzedAt: at,
	}
}
