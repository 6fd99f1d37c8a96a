package detect

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/selimozcann/urlrisk/internal/model"
)

// Rule is one heuristic check over a parsed URL. Check returns the evidence
// the rule contributes, or nil when it does not trigger.
type Rule struct {
	Name  string
	Check func(p *model.ParsedURL) []model.Evidence
}

// Weights.
const (
	WeightNoHTTPS       = 25
	WeightIPHost        = 40
	WeightExcessLength  = 20
	WeightLongURL       = 10
	WeightKeyword       = 12
	WeightAtSymbol      = 25
	WeightSubdomains    = 15
	WeightHyphens       = 15
	WeightSuspiciousTLD = 20
)

// Limits.
const (
	ExcessiveLength = 100
	LongLength      = 75
	MaxSubdomains   = 3
	MaxHyphens      = 3
)

// Keywords commonly found in credential-harvesting URLs, in evaluation order.
var Keywords = []string{
	"login",
	"verify",
	"update",
	"bank",
	"secure",
	"account",
	"signin",
	"confirm",
	"password",
	"wallet",
	"support",
}

// SuspiciousTLDs are free-registration TLDs frequently abused for phishing.
var SuspiciousTLDs = []string{".tk", ".ml", ".ga", ".cf", ".gq"}

// Dotted-quad shape only; octets are not range checked, so 999.999.999.999
// matches too.
var ipHostRe = regexp.MustCompile(`^(\d{1,3}\.){3}\d{1,3}$`)

// Rules is the fixed battery, in evaluation order.
var Rules = []Rule{
	{Name: "no-https", Check: NoHTTPS},
	{Name: "ip-host", Check: IPHost},
	{Name: "length", Check: Length},
	{Name: "keyword", Check: Keyword},
	{Name: "at-symbol", Check: AtSymbol},
	{Name: "subdomains", Check: Subdomains},
	{Name: "hyphens", Check: Hyphens},
	{Name: "suspicious-tld", Check: SuspiciousTLD},
}

// Evaluate runs every rule in order and concatenates their evidence.
func Evaluate(p *model.ParsedURL) []model.Evidence {
	var out []model.Evidence
	for _, r := range Rules {
		out = append(out, r.Check(p)...)
	}
	return out
}

func hit(weight int, reason, label string) []model.Evidence {
	return []model.Evidence{{
		Weight:    weight,
		Reason:    reason,
		Breakdown: fmt.Sprintf("+%d %s", weight, label),
	}}
}

// DottedQuad reports whether host has the four-group numeric shape of an
// IPv4 literal. Octets are not range checked.
func DottedQuad(host string) bool {
	return ipHostRe.MatchString(host)
}

// NoHTTPS flags anything not served over https.
func NoHTTPS(p *model.ParsedURL) []model.Evidence {
	if p.Protocol != "https:" {
		return hit(WeightNoHTTPS, "URL is not using HTTPS (unsecured connection)", "No HTTPS")
	}
	return nil
}

// IPHost flags hosts written as a dotted quad.
func IPHost(p *model.ParsedURL) []model.Evidence {
	if DottedQuad(p.Hostname) {
		return hit(WeightIPHost, "IP address used instead of domain name", "IP Address used")
	}
	return nil
}

// Length reports at most one of the two length tiers.
func Length(p *model.ParsedURL) []model.Evidence {
	switch n := len(p.FullURL); {
	case n > ExcessiveLength:
		return hit(WeightExcessLength, "URL is excessively long", "Excessive length")
	case n > LongLength:
		return hit(WeightLongURL, "URL is unusually long", "Long URL")
	}
	return nil
}

// Keyword emits one entry per keyword found in the hostname or path.
func Keyword(p *model.ParsedURL) []model.Evidence {
	var out []model.Evidence
	for _, kw := range Keywords {
		if strings.Contains(p.Hostname, kw) || strings.Contains(p.Pathname, kw) {
			out = append(out, hit(WeightKeyword, "Suspicious keyword detected: "+kw, "Keyword: "+kw)...)
		}
	}
	return out
}

// AtSymbol flags URLs containing "@" anywhere, e.g. userinfo masking.
func AtSymbol(p *model.ParsedURL) []model.Evidence {
	if strings.Contains(p.FullURL, "@") {
		return hit(WeightAtSymbol, "Contains @ symbol (possible masking)", "@ Symbol used")
	}
	return nil
}

// Subdomains flags deeply nested hostnames.
func Subdomains(p *model.ParsedURL) []model.Evidence {
	if p.SubdomainCount >= MaxSubdomains {
		return hit(WeightSubdomains, "Too many subdomains", "Too many subdomains")
	}
	return nil
}

// Hyphens flags hostnames with many hyphens.
func Hyphens(p *model.ParsedURL) []model.Evidence {
	if p.HyphenCount >= MaxHyphens {
		return hit(WeightHyphens, "Too many hyphens in domain name", "Excessive hyphens")
	}
	return nil
}

// SuspiciousTLD flags hostnames under one of SuspiciousTLDs.
func SuspiciousTLD(p *model.ParsedURL) []model.Evidence {
	for _, tld := range SuspiciousTLDs {
		if strings.HasSuffix(p.Hostname, tld) {
			return hit(WeightSuspiciousTLD, "Suspicious top-level domain", "Suspicious TLD")
		}
	}
	return nil
}
