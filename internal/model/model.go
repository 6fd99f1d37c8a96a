package model

import "time"

// RiskLevel is the coarse tier derived from a score.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Classification co-varies 1:1 with RiskLevel.
type Classification string

const (
	ClassSafe       Classification = "Safe"
	ClassSuspicious Classification = "Suspicious"
	ClassDangerous  Classification = "Dangerous"
)

// Score thresholds, evaluated high to low.
const (
	DangerousThreshold  = 60
	SuspiciousThreshold = 30
)

// ParsedURL is the structural view of a validated URL that rules inspect.
// It is built once per evaluation and never modified afterwards.
type ParsedURL struct {
	Protocol       string
	Hostname       string
	Pathname       string
	FullURL        string
	Labels         []string
	SubdomainCount int
	HyphenCount    int
}

// TLD returns "." followed by the last hostname label.
func (p *ParsedURL) TLD() string {
	if len(p.Labels) == 0 {
		return "." + p.Hostname
	}
	return "." + p.Labels[len(p.Labels)-1]
}

// Evidence is what a triggered rule contributes to a verdict.
type Evidence struct {
	Weight    int
	Reason    string
	Breakdown string
}

// DomainInfo summarises the parsed host for display.
type DomainInfo struct {
	Protocol   string `json:"protocol" yaml:"protocol"`
	Hostname   string `json:"hostname" yaml:"hostname"`
	Subdomains int    `json:"subdomains" yaml:"subdomains"`
	TLD        string `json:"tld" yaml:"tld"`
	URLLength  int    `json:"urlLength" yaml:"urlLength"`
}

// Verdict is the outcome of evaluating one input. A non-nil Error means no
// scoring happened and every other field holds its default value.
type Verdict struct {
	Error          *string        `json:"error" yaml:"error"`
	Score          int            `json:"score" yaml:"score"`
	RiskLevel      RiskLevel      `json:"riskLevel" yaml:"riskLevel"`
	Classification Classification `json:"classification" yaml:"classification"`
	Reasons        []string       `json:"reasons" yaml:"reasons"`
	Breakdown      []string       `json:"breakdown" yaml:"breakdown"`
	DomainInfo     DomainInfo     `json:"domainInfo" yaml:"domainInfo"`
	AnalyzedAt     time.Time      `json:"analyzedAt" yaml:"analyzedAt"`
}

// Failed reports whether the verdict carries a validation error.
func (v Verdict) Failed() bool {
	return v.Error != nil
}

// ErrorMessage returns the validation error text or "".
func (v Verdict) ErrorMessage() string {
	if v.Error == nil {
		return ""
	}
	return *v.Error
}

// FailedVerdict returns the default-shaped verdict used for every
// validation failure.
func FailedVerdict(msg string, at time.Time) Verdict {
	return Verdict{
		Error:          &msg,
		Score:          0,
		RiskLevel:      RiskLow,
		Classification: ClassSafe,
		Reasons:        []string{},
		Breakdown:      []string{},
		DomainInfo:     DomainInfo{},
		AnalyzedAt:     at,
	}
}

// ClassifyScore maps an aggregate score to its tier and classification.
func ClassifyScore(score int) (RiskLevel, Classification) {
	switch {
	case score >= DangerousThreshold:
		return RiskHigh, ClassDangerous
	case score >= SuspiciousThreshold:
		return RiskMedium, ClassSuspicious
	default:
		return RiskLow, ClassSafe
	}
}
