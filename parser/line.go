// Package parser parses Adblock Plus filter list syntax line by line.
//
// Each input line is classified into one of six variants (EmptyLine,
// Comment, Metadata, Instruction, Header, Filter) and decomposed into
// typed fields. Classification of one line is a pure computation with
// no shared state, so lines may be parsed concurrently.
package parser

// Line is one classified line of a filter list.
// The concrete type is one of EmptyLine, Comment, Metadata,
// Instruction, Header or Filter; callers dispatch with a type switch.
type Line interface {
	// Text returns the original line text, with surrounding
	// whitespace trimmed. It is never the re-serialized form.
	Text() string
}

// EmptyLine is a line that is empty or contains only whitespace.
type EmptyLine struct {
	Raw string
}

func (l EmptyLine) Text() string { return l.Raw }

// Comment is a remark line starting with "!" whose content is not a
// recognized metadata key.
type Comment struct {
	Raw  string
	Body string // content after "!", one leading space removed
}

func (l Comment) Text() string { return l.Raw }

// Metadata is a "! Key: value" line with a key from MetadataKeys.
type Metadata struct {
	Raw   string
	Key   string
	Value string
}

func (l Metadata) Text() string { return l.Raw }

// Instruction is a preprocessor directive of the form "%word target%".
type Instruction struct {
	Raw    string
	Kind   string // currently always "include"
	Target string
}

func (l Instruction) Text() string { return l.Raw }

// Header is the list version header "[Adblock Plus <version>]".
type Header struct {
	Raw     string
	Version string // full bracket interior, e.g. "Adblock Plus 2.0"
}

func (l Header) Text() string { return l.Raw }

// Filter is a single filtering rule.
type Filter struct {
	Raw      string
	Selector Selector
	Action   Action
	Options  []Option // source order
}

func (l Filter) Text() string { return l.Raw }

// SelectorType distinguishes what kind of expression a filter matches with.
type SelectorType int

const (
	// URLPattern is a URL match pattern with *, | and ^ wildcards,
	// kept literally (not interpreted here).
	URLPattern SelectorType = iota
	// URLRegexp is a regular expression, "/.../" delimiters stripped.
	URLRegexp
	// CSS is an element hiding CSS selector ("##" or "#@#").
	CSS
	// ExtendedCSS is an element hiding emulation selector ("#?#").
	ExtendedCSS
)

func (t SelectorType) String() string {
	switch t {
	case URLPattern:
		return "url-pattern"
	case URLRegexp:
		return "url-regexp"
	case CSS:
		return "css"
	case ExtendedCSS:
		return "extended-css"
	}
	return "unknown"
}

// Selector is the matching expression of a filter, with delimiters and
// prefix markers stripped from Value.
type Selector struct {
	Type  SelectorType
	Value string
}

// Action is what a matching filter does.
type Action int

const (
	ActionBlock Action = iota // block the request
	ActionAllow               // exception: allow the request
	ActionHide                // hide the matched element
	ActionShow                // exception: show the matched element
)

func (a Action) String() string {
	switch a {
	case ActionBlock:
		return "block"
	case ActionAllow:
		return "allow"
	case ActionHide:
		return "hide"
	case ActionShow:
		return "show"
	}
	return "unknown"
}

// OptionKind names a recognized filter option. The catalog of kinds is
// fixed: flag options carry a boolean, OptionDomain carries a domain
// list and OptionSitekey carries a key list.
type OptionKind string

const (
	OptionOther            OptionKind = "other"
	OptionScript           OptionKind = "script"
	OptionImage            OptionKind = "image"
	OptionStylesheet       OptionKind = "stylesheet"
	OptionObject           OptionKind = "object"
	OptionSubdocument      OptionKind = "subdocument"
	OptionDocument         OptionKind = "document"
	OptionWebsocket        OptionKind = "websocket"
	OptionWebRTC           OptionKind = "webrtc"
	OptionPing             OptionKind = "ping"
	OptionXMLHTTPRequest   OptionKind = "xmlhttprequest"
	OptionObjectSubrequest OptionKind = "object-subrequest"
	OptionMedia            OptionKind = "media"
	OptionFont             OptionKind = "font"
	OptionPopup            OptionKind = "popup"
	OptionGenericBlock     OptionKind = "genericblock"
	OptionElemHide         OptionKind = "elemhide"
	OptionGenericHide      OptionKind = "generichide"
	OptionThirdParty       OptionKind = "third-party"
	OptionMatchCase        OptionKind = "match-case"
	OptionCollapse         OptionKind = "collapse"
	OptionDoNotTrack       OptionKind = "donottrack"
	OptionDomain           OptionKind = "domain"
	OptionSitekey          OptionKind = "sitekey"
)

// flagOptions is the catalog of simple negatable flag options.
var flagOptions = map[OptionKind]struct{}{
	OptionOther:            {},
	OptionScript:           {},
	OptionImage:            {},
	OptionStylesheet:       {},
	OptionObject:           {},
	OptionSubdocument:      {},
	OptionDocument:         {},
	OptionWebsocket:        {},
	OptionWebRTC:           {},
	OptionPing:             {},
	OptionXMLHTTPRequest:   {},
	OptionObjectSubrequest: {},
	OptionMedia:            {},
	OptionFont:             {},
	OptionPopup:            {},
	OptionGenericBlock:     {},
	OptionElemHide:         {},
	OptionGenericHide:      {},
	OptionThirdParty:       {},
	OptionMatchCase:        {},
	OptionCollapse:         {},
	OptionDoNotTrack:       {},
}

// Option is one parsed filter option. Exactly one of the value fields
// is meaningful for a given Kind: Enabled for flag options, Domains
// for OptionDomain, Sitekeys for OptionSitekey.
type Option struct {
	Kind     OptionKind
	Enabled  bool
	Domains  []Domain
	Sitekeys []string
}

// Domain is one entry of a domain list, in source order.
type Domain struct {
	Name     string
	Included bool // false when the entry was prefixed with "~"
}

// MetadataKeys is the catalog of recognized metadata keys.
// Comparison is case-sensitive; "! Other: x" stays a comment.
var MetadataKeys = map[string]struct{}{
	"Homepage": {},
	"Title":    {},
	"Expires":  {},
	"Checksum": {},
	"Redirect": {},
	"Version":  {},
}

// InstructionKinds is the catalog of recognized "%word arg%" keywords.
var InstructionKinds = map[string]struct{}{
	"include": {},
}
