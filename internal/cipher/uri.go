package cipher

import (
	"net"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// MatchStrategy - способ сравнения сохранённого URI с адресом страницы.
type MatchStrategy int

const (
	MatchDomain MatchStrategy = iota
	MatchHost
	MatchStartsWith
	MatchExact
	MatchRegularExpression
	MatchNever
)

func (m MatchStrategy) String() string {
	switch m {
	case MatchDomain:
		return "domain"
	case MatchHost:
		return "host"
	case MatchStartsWith:
		return "starts_with"
	case MatchExact:
		return "exact"
	case MatchRegularExpression:
		return "regex"
	case MatchNever:
		return "never"
	default:
		return "unknown"
	}
}

// ParseMatchStrategy разбирает имя стратегии. Неизвестное имя - Domain.
func ParseMatchStrategy(s string) MatchStrategy {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "host":
		return MatchHost
	case "starts_with", "startswith":
		return MatchStartsWith
	case "exact":
		return MatchExact
	case "regex", "regular_expression":
		return MatchRegularExpression
	case "never":
		return MatchNever
	default:
		return MatchDomain
	}
}

// domainMatchBlacklist - хосты, которые не совпадают со своим доменом по стратегии Domain.
var domainMatchBlacklist = map[string]map[string]struct{}{
	"google.com": {"script.google.com": {}},
}

// LoginURI - сохранённый адрес записи. Match nil - стратегия по умолчанию.
type LoginURI struct {
	URI   string         `json:"uri"`
	Match *MatchStrategy `json:"match,omitempty"`
}

// SavedURLs - адреса записи, кроме помеченных Never.
func (l *Login) SavedURLs() []string {
	if l == nil {
		return nil
	}
	var out []string
	for _, u := range l.URIs {
		if u.Match != nil && *u.Match == MatchNever {
			continue
		}
		if u.URI != "" {
			out = append(out, u.URI)
		}
	}
	return out
}

// MatchesURI - совпадает ли хотя бы один сохранённый адрес с target.
func (l *Login) MatchesURI(target string, equivalent map[string]struct{}, defaultMatch MatchStrategy) bool {
	if l == nil || target == "" {
		return false
	}
	for _, u := range l.URIs {
		if u.Matches(target, equivalent, defaultMatch) {
			return true
		}
	}
	return false
}

// Matches сравнивает один сохранённый адрес с target. Домен target всегда
// входит в набор эквивалентных доменов.
func (u LoginURI) Matches(target string, equivalent map[string]struct{}, defaultMatch MatchStrategy) bool {
	if u.URI == "" || target == "" {
		return false
	}
	strategy := defaultMatch
	if u.Match != nil {
		strategy = *u.Match
	}

	switch strategy {
	case MatchDomain:
		domains := map[string]struct{}{}
		for d := range equivalent {
			domains[d] = struct{}{}
		}
		if d := GetDomain(target); d != "" {
			domains[d] = struct{}{}
		}
		own := GetDomain(u.URI)
		if own == "" {
			return false
		}
		if _, ok := domains[own]; !ok {
			return false
		}
		if hosts, ok := domainMatchBlacklist[own]; ok {
			_, blocked := hosts[GetHost(target)]
			return !blocked
		}
		return true
	case MatchHost:
		host := GetHost(target)
		return host != "" && host == GetHost(u.URI)
	case MatchExact:
		return target == u.URI
	case MatchStartsWith:
		return strings.HasPrefix(target, u.URI)
	case MatchRegularExpression:
		re, err := regexp.Compile("(?i)" + u.URI)
		if err != nil {
			return false
		}
		return re.MatchString(target)
	default:
		return false
	}
}

// GetHost возвращает хост с портом в нижнем регистре. Адрес без схемы считается http.
func GetHost(raw string) string {
	u := parse(raw)
	if u == nil {
		return ""
	}
	return strings.ToLower(u.Host)
}

// GetDomain возвращает регистрируемый домен (example.co.uk для a.b.example.co.uk).
// Для IP и localhost возвращается сам хост.
func GetDomain(raw string) string {
	u := parse(raw)
	if u == nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return ""
	}
	if host == "localhost" || net.ParseIP(host) != nil {
		return host
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return domain
}

func parse(raw string) *url.URL {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return nil
	}
	return u
}

// EquivalentDomains - группы доменов, считающихся одним сайтом.
type EquivalentDomains [][]string

// For возвращает все домены из групп, в которые входит домен адреса.
func (e EquivalentDomains) For(raw string) map[string]struct{} {
	out := map[string]struct{}{}
	domain := GetDomain(raw)
	if domain == "" {
		return out
	}
	for _, group := range e {
		in := false
		for _, d := range group {
			if strings.EqualFold(d, domain) {
				in = true
				break
			}
		}
		if !in {
			continue
		}
		for _, d := range group {
			out[strings.ToLower(d)] = struct{}{}
		}
	}
	return out
}
