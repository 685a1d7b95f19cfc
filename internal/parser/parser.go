package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/atikulmunna/loglens/internal/model"
)

// Parser extracts the address, endpoint and status fields from a raw access log line.
// A line that lacks any of them yields a *MalformedLineError.
type Parser interface {
	Parse(raw string) (model.LogLine, error)
}

// Parser names accepted by New.
const (
	NameFields = "fields"
	NameCLF    = "clf"
	NameRegex  = "regex"
)

// New returns the parser registered under name. pattern is only used by the regex parser.
func New(name, pattern string) (Parser, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", NameFields:
		return NewFieldsParser(), nil
	case NameCLF:
		return NewCLFParser(), nil
	case NameRegex:
		p, err := NewRegexParser(pattern)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("unknown parser %q (want %s, %s or %s)", name, NameFields, NameCLF, NameRegex)
	}
}

// ---------------------------------------------------------------------------
// Fields Parser (positional tokens)
// ---------------------------------------------------------------------------

// Token positions of the fixed access log layout:
//
//	clientIP - - [date zone] "METHOD /path PROTO" status bytes
const (
	AddressToken  = 0
	EndpointToken = 6
	StatusToken   = 8

	// MinTokens is the shortest token count that carries every field.
	MinTokens = StatusToken + 1
)

// FieldsParser splits a line on whitespace and reads fields by position.
type FieldsParser struct{}

func NewFieldsParser() *FieldsParser { return &FieldsParser{} }

func (p *FieldsParser) Parse(raw string) (model.LogLine, error) {
	tokens := strings.Fields(raw)
	if len(tokens) < MinTokens {
		return model.LogLine{}, &MalformedLineError{
			Tokens: len(tokens),
			Reason: fmt.Sprintf("expected at least %d tokens, got %d", MinTokens, len(tokens)),
			Raw:    raw,
		}
	}

	return model.LogLine{
		Address:  tokens[AddressToken],
		Endpoint: tokens[EndpointToken],
		Status:   tokens[StatusToken],
	}, nil
}

// ---------------------------------------------------------------------------
// CLF Parser (Common Log Format, named captures)
// ---------------------------------------------------------------------------

// CLFParser matches Apache/Nginx Common Log Format lines.
// Format: host ident authuser [date] "METHOD path proto" status bytes
type CLFParser struct {
	re *regexp.Regexp
}

func NewCLFParser() *CLFParser {
	return &CLFParser{
		re: regexp.MustCompile(`^(?P<address>\S+) \S+ \S+ \[[^\]]*\] "\S+ (?P<endpoint>\S+)[^"]*" (?P<status>\S+)`),
	}
}

func (p *CLFParser) Parse(raw string) (model.LogLine, error) {
	line, ok := matchNamed(p.re, raw)
	if !ok {
		return model.LogLine{}, &MalformedLineError{Reason: "line does not match common log format", Raw: raw}
	}
	return line, nil
}

// ---------------------------------------------------------------------------
// Regex Parser (user-defined patterns)
// ---------------------------------------------------------------------------

// RegexParser uses a user-supplied regex with named capture groups.
// Required groups: address, endpoint, status.
type RegexParser struct {
	re *regexp.Regexp
}

var requiredGroups = []string{"address", "endpoint", "status"}

func NewRegexParser(pattern string) (*RegexParser, error) {
	if pattern == "" {
		return nil, fmt.Errorf("regex parser needs a pattern")
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid regex pattern: %w", err)
	}
	for _, g := range requiredGroups {
		if re.SubexpIndex(g) < 0 {
			return nil, fmt.Errorf("regex pattern is missing named group %q", g)
		}
	}
	return &RegexParser{re: re}, nil
}

func (p *RegexParser) Parse(raw string) (model.LogLine, error) {
	line, ok := matchNamed(p.re, raw)
	if !ok {
		return model.LogLine{}, &MalformedLineError{Reason: "line does not match pattern", Raw: raw}
	}
	return line, nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// matchNamed fills a LogLine from the address/endpoint/status groups of re.
// Empty captures count as a miss.
func matchNamed(re *regexp.Regexp, raw string) (model.LogLine, bool) {
	m := re.FindStringSubmatch(raw)
	if m == nil {
		return model.LogLine{}, false
	}
	line := model.LogLine{
		Address:  m[re.SubexpIndex("address")],
		Endpoint: m[re.SubexpIndex("endpoint")],
		Status:   m[re.SubexpIndex("status")],
	}
	if line.Address == "" || line.Endpoint == "" || line.Status == "" {
		return model.LogLine{}, false
	}
	return line, true
}
