package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	// "! Key : value" with whitespace tolerated around key and value.
	metadataRegexp = regexp.MustCompile(`^!\s*(\w+)\s*:\s*(.*?)\s*$`)
	// "[Adblock Plus <version>]", nothing else. The captured version
	// keeps the full bracket interior.
	headerRegexp = regexp.MustCompile(`^\[(Adblock Plus .+)\]$`)
	// Element hiding marker split: domain prefix, marker variant
	// ("@" or "?" between the hashes), selector. A prefix containing
	// one of / * | @ " ! cannot be a domain list, so such lines stay
	// URL patterns with a literal "#".
	hidingRegexp = regexp.MustCompile(`^([^/*|@"!]*?)#([@?])?#(.+)$`)
	// Trailing option block: the last "$" whose comma-split tail
	// consists entirely of option-shaped tokens. A "$" followed by
	// anything else is a literal part of the pattern.
	optionsRegexp = regexp.MustCompile(`\$(~?[\w-]+(?:=[^,\s]+)?(?:,~?[\w-]+(?:=[^,\s]+)?)*)$`)
)

// ParseLine classifies one line of filter list text.
//
// The returned Line is one of EmptyLine, Comment, Metadata,
// Instruction, Header or Filter. Lines that look like a recognized
// construct but are malformed produce a *ParseError; arbitrary text
// falls back to a URL pattern Filter, which never fails except for an
// unknown option token.
func ParseLine(text string) (Line, error) {
	t := strings.TrimSpace(text)
	switch {
	case t == "":
		return EmptyLine{Raw: t}, nil
	case strings.HasPrefix(t, "!"):
		return parseComment(t), nil
	case len(t) >= 2 && strings.HasPrefix(t, "%") && strings.HasSuffix(t, "%"):
		return parseInstruction(t)
	case len(t) >= 2 && strings.HasPrefix(t, "[") && strings.HasSuffix(t, "]"):
		return parseHeader(t)
	default:
		return ParseFilter(t)
	}
}

// ParseLineBytes decodes raw line bytes as UTF-8 and classifies them.
func ParseLineBytes(line []byte) (Line, error) {
	if !utf8.Valid(line) {
		return nil, &ParseError{Line: string(line), Err: ErrInvalidUTF8}
	}
	return ParseLine(string(line))
}

func parseComment(t string) Line {
	if m := metadataRegexp.FindStringSubmatch(t); m != nil {
		if _, ok := MetadataKeys[m[1]]; ok {
			return Metadata{Raw: t, Key: m[1], Value: m[2]}
		}
	}
	return Comment{Raw: t, Body: strings.TrimPrefix(t[1:], " ")}
}

func parseInstruction(t string) (Line, error) {
	inner := t[1 : len(t)-1]
	kind, target := inner, ""
	if i := strings.IndexAny(inner, " \t"); i >= 0 {
		kind = inner[:i]
		target = strings.TrimLeft(inner[i:], " \t")
	}
	if _, ok := InstructionKinds[kind]; !ok || target == "" {
		return nil, &ParseError{Line: t, Err: ErrMalformedInstruction, Detail: kind}
	}
	return Instruction{Raw: t, Kind: kind, Target: target}, nil
}

func parseHeader(t string) (Line, error) {
	m := headerRegexp.FindStringSubmatch(t)
	if m == nil {
		return nil, &ParseError{Line: t, Err: ErrMalformedHeader}
	}
	return Header{Raw: t, Version: m[1]}, nil
}

// ParseFilter parses one filter rule. It fails only on an unknown
// option token; any other text is a legal URL pattern.
func ParseFilter(text string) (Filter, error) {
	body := text
	exception := false
	if strings.HasPrefix(body, "@@") {
		exception = true
		body = body[2:]
	}

	if strings.Contains(body, "#") {
		if m := hidingRegexp.FindStringSubmatch(body); m != nil {
			return parseHidingFilter(text, exception, m[1], m[2], m[3]), nil
		}
	}
	return parseBlockingFilter(text, exception, body)
}

func parseHidingFilter(raw string, exception bool, prefix, marker, selector string) Filter {
	f := Filter{
		Raw:      raw,
		Selector: Selector{Type: CSS, Value: selector},
		Action:   ActionHide,
	}
	if marker == "?" {
		f.Selector.Type = ExtendedCSS
	}
	if exception || marker == "@" {
		f.Action = ActionShow
	}
	if prefix != "" {
		f.Options = []Option{{Kind: OptionDomain, Domains: parseDomains(prefix, ",")}}
	}
	return f
}

func parseBlockingFilter(raw string, exception bool, body string) (Filter, error) {
	f := Filter{Raw: raw, Action: ActionBlock}
	if exception {
		f.Action = ActionAllow
	}

	if strings.Contains(body, "$") {
		if loc := optionsRegexp.FindStringSubmatchIndex(body); loc != nil {
			for _, token := range strings.Split(body[loc[2]:loc[3]], ",") {
				opt, err := parseOption(strings.TrimSpace(token))
				if err != nil {
					return Filter{}, &ParseError{Line: raw, Err: ErrUnknownOption, Detail: token}
				}
				f.Options = append(f.Options, opt)
			}
			body = body[:loc[0]]
		}
	}

	if len(body) > 1 && strings.HasPrefix(body, "/") && strings.HasSuffix(body, "/") {
		f.Selector = Selector{Type: URLRegexp, Value: body[1 : len(body)-1]}
	} else {
		f.Selector = Selector{Type: URLPattern, Value: body}
	}
	return f, nil
}

func parseOption(token string) (Option, error) {
	if name, value, ok := strings.Cut(token, "="); ok {
		switch OptionKind(name) {
		case OptionDomain:
			return Option{Kind: OptionDomain, Domains: parseDomains(value, "|")}, nil
		case OptionSitekey:
			return Option{Kind: OptionSitekey, Sitekeys: strings.Split(value, "|")}, nil
		}
		return Option{}, ErrUnknownOption
	}

	enabled := true
	name := token
	if strings.HasPrefix(name, "~") {
		enabled = false
		name = name[1:]
	}
	kind := OptionKind(name)
	if _, ok := flagOptions[kind]; !ok {
		return Option{}, ErrUnknownOption
	}
	return Option{Kind: kind, Enabled: enabled}, nil
}

// parseDomains splits a domain list on sep, keeping source order.
// A "~" prefix marks the entry as excluded.
func parseDomains(list, sep string) []Domain {
	parts := strings.Split(list, sep)
	domains := make([]Domain, 0, len(parts))
	for _, d := range parts {
		if strings.HasPrefix(d, "~") {
			domains = append(domains, Domain{Name: d[1:], Included: false})
		} else {
			domains = append(domains, Domain{Name: d, Included: true})
		}
	}
	return domains
}
