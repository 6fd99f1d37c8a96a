package analyzer

import (
	"errors"
	"fmt"
	neturl "net/url"
	"strings"

	urlerrors "github.com/nlnwa/whatwg-url/errors"
	"github.com/nlnwa/whatwg-url/url"
	"golang.org/x/net/idna"

	"github.com/selimozcann/urlrisk/internal/detect"
	"github.com/selimozcann/urlrisk/internal/model"
)

// placeholderIPv4 stands in for a dotted quad the URL parser rejects as out
// of range, so the rest of the URL still gets parsed.
const placeholderIPv4 = "0.0.0.0"

var parser = url.NewParser()

// browserIDNA maps hosts the way browsers do, without STD3 rules, so
// labels such as "my_bänk" survive conversion.
var browserIDNA = idna.New(
	idna.MapForLookup(),
	idna.BidiRule(),
	idna.VerifyDNSLength(false),
	idna.StrictDomainName(false),
	idna.CheckHyphens(false),
	idna.CheckJoiners(true),
	idna.Transitional(false),
)

// Parse turns a validated, prefixed URL string into its structural view,
// using browser URL parsing rules: hosts are lowercased, IDNA mapped and
// numeric IPv4 forms rewritten to dotted decimal. It returns ErrMalformedURL
// when the string is not an absolute URL with a usable host.
func Parse(raw string) (*model.ParsedURL, error) {
	u, err := parser.Parse(raw)
	if err == nil {
		return fromURL(u, u.Hostname(), u.Href(false))
	}
	var verr *urlerrors.ValidationError
	if errors.As(err, &verr) && verr.Type() == urlerrors.DomainToASCII {
		if p, ok := parseUnicodeHost(raw); ok {
			return p, nil
		}
	}
	if p, ok := parseDottedQuad(raw); ok {
		return p, nil
	}
	return nil, fmt.Errorf("%w: %w", ErrMalformedURL, err)
}

// parseUnicodeHost retries hosts rejected only by STD3 label rules,
// converting them with browserIDNA before the URL parser sees them.
func parseUnicodeHost(raw string) (*model.ParsedURL, bool) {
	ok := true
	p := url.NewParser(url.WithLaxHostParsing(), url.WithPreParseHostFunc(func(_ *url.Url, h string) string {
		decoded, err := neturl.PathUnescape(h)
		if err != nil {
			ok = false
			return h
		}
		ascii, err := browserIDNA.ToASCII(decoded)
		if err != nil || ascii == "" {
			ok = false
			return h
		}
		for i := 0; i < len(ascii); i++ {
			if url.ForbiddenDomainCodePoint.Test(uint(ascii[i])) {
				ok = false
				return h
			}
		}
		return ascii
	}))
	u, err := p.Parse(raw)
	if err != nil || !ok {
		return nil, false
	}
	parsed, err := fromURL(u, u.Hostname(), u.Href(false))
	return parsed, err == nil
}

// parseDottedQuad accepts hosts shaped like a dotted quad whose octets are
// out of range (999.999.999.999), keeping them verbatim.
func parseDottedQuad(raw string) (*model.ParsedURL, bool) {
	var host string
	p := url.NewParser(url.WithPreParseHostFunc(func(_ *url.Url, h string) string {
		if detect.DottedQuad(h) {
			host = h
			return placeholderIPv4
		}
		return h
	}))
	u, err := p.Parse(raw)
	if err != nil || host == "" {
		return nil, false
	}

	prefix := u.Protocol() + "//"
	if u.Username() != "" || u.Password() != "" {
		prefix += u.Username()
		if u.Password() != "" {
			prefix += ":" + u.Password()
		}
		prefix += "@"
	}
	href := u.Href(false)
	if !strings.HasPrefix(href, prefix+placeholderIPv4) {
		return nil, false
	}
	href = prefix + host + strings.TrimPrefix(href, prefix+placeholderIPv4)

	parsed, err := fromURL(u, host, href)
	return parsed, err == nil
}

func fromURL(u *url.Url, hostname, href string) (*model.ParsedURL, error) {
	if u.Scheme() != "http" && u.Scheme() != "https" {
		return nil, ErrMalformedURL
	}
	host := strings.ToLower(hostname)
	if host == "" {
		return nil, fmt.Errorf("%w: empty host", ErrMalformedURL)
	}

	labels := strings.Split(host, ".")
	subdomains := 0
	if len(labels) > 2 {
		subdomains = len(labels) - 2
	}

	return &model.ParsedURL{
		Protocol:       u.Protocol(),
		Hostname:       host,
		Pathname:       strings.ToLower(u.Pathname()),
		FullURL:        strings.ToLower(href),
		Labels:         labels,
		SubdomainCount: subdomains,
		HyphenCount:    strings.Count(host, "-"),
	}, nil
}
