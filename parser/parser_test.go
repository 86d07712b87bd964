package parser

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseEmpty(t *testing.T) {
	for _, text := range []string{"", "    ", "\t \t"} {
		line, err := ParseLine(text)
		if err != nil {
			t.Fatalf("ParseLine(%q): %v", text, err)
		}
		if _, ok := line.(EmptyLine); !ok {
			t.Fatalf("ParseLine(%q) = %T, want EmptyLine", text, line)
		}
		if line.Text() != "" {
			t.Errorf("Text() = %q, want empty", line.Text())
		}
	}
}

func TestParseFilters(t *testing.T) {
	tests := []struct {
		text string
		want Filter
	}{
		{
			// Blocking filters with patterns and regexps and
			// blocking exceptions.
			text: "*asdf*d**dd*",
			want: Filter{
				Raw:      "*asdf*d**dd*",
				Selector: Selector{Type: URLPattern, Value: "*asdf*d**dd*"},
				Action:   ActionBlock,
			},
		},
		{
			text: "@@|*asd|f*d**dd*|",
			want: Filter{
				Raw:      "@@|*asd|f*d**dd*|",
				Selector: Selector{Type: URLPattern, Value: "|*asd|f*d**dd*|"},
				Action:   ActionAllow,
			},
		},
		{
			text: "/ddd|f?a[s]d/",
			want: Filter{
				Raw:      "/ddd|f?a[s]d/",
				Selector: Selector{Type: URLRegexp, Value: "ddd|f?a[s]d"},
				Action:   ActionBlock,
			},
		},
		{
			text: "@@/ddd|f?a[s]d/",
			want: Filter{
				Raw:      "@@/ddd|f?a[s]d/",
				Selector: Selector{Type: URLRegexp, Value: "ddd|f?a[s]d"},
				Action:   ActionAllow,
			},
		},
		{
			// Blocking filters with some options.
			text: "bla$match-case,~script,domain=foo.com|~bar.com,sitekey=foo",
			want: Filter{
				Raw:      "bla$match-case,~script,domain=foo.com|~bar.com,sitekey=foo",
				Selector: Selector{Type: URLPattern, Value: "bla"},
				Action:   ActionBlock,
				Options: []Option{
					{Kind: OptionMatchCase, Enabled: true},
					{Kind: OptionScript, Enabled: false},
					{Kind: OptionDomain, Domains: []Domain{
						{Name: "foo.com", Included: true},
						{Name: "bar.com", Included: false},
					}},
					{Kind: OptionSitekey, Sitekeys: []string{"foo"}},
				},
			},
		},
		{
			text: "@@http://bla$~script,~other,sitekey=foo|bar",
			want: Filter{
				Raw:      "@@http://bla$~script,~other,sitekey=foo|bar",
				Selector: Selector{Type: URLPattern, Value: "http://bla"},
				Action:   ActionAllow,
				Options: []Option{
					{Kind: OptionScript, Enabled: false},
					{Kind: OptionOther, Enabled: false},
					{Kind: OptionSitekey, Sitekeys: []string{"foo", "bar"}},
				},
			},
		},
		{
			// Element hiding filters and exceptions.
			text: "##ddd",
			want: Filter{
				Raw:      "##ddd",
				Selector: Selector{Type: CSS, Value: "ddd"},
				Action:   ActionHide,
			},
		},
		{
			text: "#@#body > div:first-child",
			want: Filter{
				Raw:      "#@#body > div:first-child",
				Selector: Selector{Type: CSS, Value: "body > div:first-child"},
				Action:   ActionShow,
			},
		},
		{
			text: "foo,~bar##ddd",
			want: Filter{
				Raw:      "foo,~bar##ddd",
				Selector: Selector{Type: CSS, Value: "ddd"},
				Action:   ActionHide,
				Options: []Option{
					{Kind: OptionDomain, Domains: []Domain{
						{Name: "foo", Included: true},
						{Name: "bar", Included: false},
					}},
				},
			},
		},
		{
			// Element hiding emulation filters (extended CSS).
			text: "foo,~bar#?#:-abp-properties(abc)",
			want: Filter{
				Raw:      "foo,~bar#?#:-abp-properties(abc)",
				Selector: Selector{Type: ExtendedCSS, Value: ":-abp-properties(abc)"},
				Action:   ActionHide,
				Options: []Option{
					{Kind: OptionDomain, Domains: []Domain{
						{Name: "foo", Included: true},
						{Name: "bar", Included: false},
					}},
				},
			},
		},
		{
			text: "foo.com#?#aaa :-abp-properties(abc) bbb",
			want: Filter{
				Raw:      "foo.com#?#aaa :-abp-properties(abc) bbb",
				Selector: Selector{Type: ExtendedCSS, Value: "aaa :-abp-properties(abc) bbb"},
				Action:   ActionHide,
				Options: []Option{
					{Kind: OptionDomain, Domains: []Domain{
						{Name: "foo.com", Included: true},
					}},
				},
			},
		},
		{
			text: "#?#:-abp-properties(|background-image: url(data:*))",
			want: Filter{
				Raw:      "#?#:-abp-properties(|background-image: url(data:*))",
				Selector: Selector{Type: ExtendedCSS, Value: ":-abp-properties(|background-image: url(data:*))"},
				Action:   ActionHide,
			},
		},
		{
			// Exception element hiding via the exception marker.
			text: "@@foo.com##ddd",
			want: Filter{
				Raw:      "@@foo.com##ddd",
				Selector: Selector{Type: CSS, Value: "ddd"},
				Action:   ActionShow,
				Options: []Option{
					{Kind: OptionDomain, Domains: []Domain{
						{Name: "foo.com", Included: true},
					}},
				},
			},
		},
		{
			// A "$" that does not start a valid option block stays in
			// the pattern.
			text: "bla$$",
			want: Filter{
				Raw:      "bla$$",
				Selector: Selector{Type: URLPattern, Value: "bla$$"},
				Action:   ActionBlock,
			},
		},
		{
			text: "search?price=$1.5",
			want: Filter{
				Raw:      "search?price=$1.5",
				Selector: Selector{Type: URLPattern, Value: "search?price=$1.5"},
				Action:   ActionBlock,
			},
		},
		{
			// Only the last "$" with an all-valid tail splits.
			text: "bla$script$script",
			want: Filter{
				Raw:      "bla$script$script",
				Selector: Selector{Type: URLPattern, Value: "bla$script"},
				Action:   ActionBlock,
				Options:  []Option{{Kind: OptionScript, Enabled: true}},
			},
		},
		{
			// A "#" without a valid hiding marker is pattern text.
			text: "http://foo.com/#anchor",
			want: Filter{
				Raw:      "http://foo.com/#anchor",
				Selector: Selector{Type: URLPattern, Value: "http://foo.com/#anchor"},
				Action:   ActionBlock,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			line, err := ParseLine(tt.text)
			if err != nil {
				t.Fatalf("ParseLine(%q): %v", tt.text, err)
			}
			got, ok := line.(Filter)
			if !ok {
				t.Fatalf("ParseLine(%q) = %T, want Filter", tt.text, line)
			}
			if got.Text() != tt.text {
				t.Errorf("Text() = %q, want %q", got.Text(), tt.text)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseLine(%q) =\n%+v\nwant\n%+v", tt.text, got, tt.want)
			}
		})
	}
}

func TestParseUnknownOption(t *testing.T) {
	_, err := ParseLine("bla$fancyoption")
	if !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("err = %v, want ErrUnknownOption", err)
	}
	var perr *ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("err = %T, want *ParseError", err)
	}
	if perr.Line != "bla$fancyoption" {
		t.Errorf("ParseError.Line = %q", perr.Line)
	}
	if perr.Detail != "fancyoption" {
		t.Errorf("ParseError.Detail = %q", perr.Detail)
	}
}

func TestParseComment(t *testing.T) {
	line, err := ParseLine("! Block foo")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	c, ok := line.(Comment)
	if !ok {
		t.Fatalf("got %T, want Comment", line)
	}
	if c.Body != "Block foo" {
		t.Errorf("Body = %q, want %q", c.Body, "Block foo")
	}
	if c.Text() != "! Block foo" {
		t.Errorf("Text() = %q", c.Text())
	}
}

func TestParseMetadata(t *testing.T) {
	line, err := ParseLine("! Homepage  :  http://aaa.com/b")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	m, ok := line.(Metadata)
	if !ok {
		t.Fatalf("got %T, want Metadata", line)
	}
	if m.Key != "Homepage" || m.Value != "http://aaa.com/b" {
		t.Errorf("Metadata = %+v", m)
	}
	if m.Text() != "! Homepage  :  http://aaa.com/b" {
		t.Errorf("Text() = %q", m.Text())
	}
}

func TestParseNonMetadata(t *testing.T) {
	// Unrecognized key stays a comment.
	line, err := ParseLine("! WrongHeader: something")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if _, ok := line.(Comment); !ok {
		t.Fatalf("got %T, want Comment", line)
	}
}

func TestParseInstruction(t *testing.T) {
	line, err := ParseLine("%include foo:bar/baz.txt%")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	in, ok := line.(Instruction)
	if !ok {
		t.Fatalf("got %T, want Instruction", line)
	}
	if in.Kind != "include" || in.Target != "foo:bar/baz.txt" {
		t.Errorf("Instruction = %+v", in)
	}
}

func TestParseBadInstruction(t *testing.T) {
	for _, text := range []string{"%foo bar%", "%include%"} {
		_, err := ParseLine(text)
		if !errors.Is(err, ErrMalformedInstruction) {
			t.Errorf("ParseLine(%q) err = %v, want ErrMalformedInstruction", text, err)
		}
	}
}

func TestParseHeader(t *testing.T) {
	line, err := ParseLine("[Adblock Plus 1.1]")
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	h, ok := line.(Header)
	if !ok {
		t.Fatalf("got %T, want Header", line)
	}
	if h.Version != "Adblock Plus 1.1" {
		t.Errorf("Version = %q", h.Version)
	}
}

func TestParseBadHeader(t *testing.T) {
	for _, text := range []string{"[Adblock 1.1]", "[Adblock Plus]", "[Anything else]"} {
		_, err := ParseLine(text)
		if !errors.Is(err, ErrMalformedHeader) {
			t.Errorf("ParseLine(%q) err = %v, want ErrMalformedHeader", text, err)
		}
	}
}

func TestParseLineBytes(t *testing.T) {
	line, err := ParseLineBytes([]byte("! \xc3\xbc"))
	if err != nil {
		t.Fatalf("ParseLineBytes: %v", err)
	}
	c, ok := line.(Comment)
	if !ok {
		t.Fatalf("got %T, want Comment", line)
	}
	if c.Body != "ü" {
		t.Errorf("Body = %q, want %q", c.Body, "ü")
	}

	if _, err := ParseLineBytes([]byte{'!', ' ', 0xff, 0xfe}); !errors.Is(err, ErrInvalidUTF8) {
		t.Errorf("err = %v, want ErrInvalidUTF8", err)
	}
}

func BenchmarkParseLine(b *testing.B) {
	lines := []string{
		"&ad_keyword=",
		"@@||adservice.google.com/adsid/integrator.js$script,domain=example.com",
		"example.com,~mail.example.com##.banner-ad",
		"/banner[0-9]+\\.gif/",
	}
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		if _, err := ParseLine(lines[i%len(lines)]); err != nil {
			b.Fatal(err)
		}
	}
}
