/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package log

import (
	"regexp"
	"strings"

	"github.com/cloudflare/ahocorasick"
)

// FieldMaskFormat is a textual format in which a secret field may appear.
type FieldMaskFormat string

// Field mask formats.
const (
	FieldMaskFormatHTTPHeader FieldMaskFormat = "http_header"
	FieldMaskFormatJSON       FieldMaskFormat = "json"
	FieldMaskFormatURLEncoded FieldMaskFormat = "urlencoded"
)

// MaskingRuleConfig describes how a single secret field is masked.
type MaskingRuleConfig struct {
	Field   string            `mapstructure:"field" yaml:"field" json:"field"`
	Formats []FieldMaskFormat `mapstructure:"formats" yaml:"formats" json:"formats"`
	Masks   []MaskConfig      `mapstructure:"masks" yaml:"masks" json:"masks"`
}

// MaskConfig is a custom regular expression and its replacement.
type MaskConfig struct {
	RegExp string `mapstructure:"regexp" yaml:"regexp" json:"regexp"`
	Mask   string `mapstructure:"mask" yaml:"mask" json:"mask"`
}

// DefaultMaskingRules hide registry credentials and signed document content.
var DefaultMaskingRules = []MaskingRuleConfig{
	{Field: "Authorization", Formats: []FieldMaskFormat{FieldMaskFormatHTTPHeader}},
	{Field: "signature", Formats: []FieldMaskFormat{FieldMaskFormatJSON, FieldMaskFormatURLEncoded}},
	{Field: "product_document", Formats: []FieldMaskFormat{FieldMaskFormatJSON}},
	{Field: "token", Formats: []FieldMaskFormat{FieldMaskFormatJSON, FieldMaskFormatURLEncoded}},
	{Field: "access_token", Formats: []FieldMaskFormat{FieldMaskFormatJSON, FieldMaskFormatURLEncoded}},
}

type mask struct {
	re          *regexp.Regexp
	replacement string
}

func formatMasks(field string, format FieldMaskFormat) []mask {
	quoted := regexp.QuoteMeta(field)
	switch format {
	case FieldMaskFormatHTTPHeader:
		return []mask{{regexp.MustCompile(`(?i)` + quoted + `: .+?\r\n`), field + ": ***\r\n"}}
	case FieldMaskFormatJSON:
		return []mask{{regexp.MustCompile(`(?i)"` + quoted + `"\s*:\s*".*?[^\\]"`), `"` + field + `": "***"`}}
	case FieldMaskFormatURLEncoded:
		return []mask{{regexp.MustCompile(`(?i)` + quoted + `\s*=\s*[^&\s]+`), field + "=***"}}
	}
	return nil
}

// Masker replaces secrets in strings according to masking rules.
// The rules are only evaluated for strings that mention the field name,
// which is detected in a single pass with an Aho-Corasick matcher.
type Masker struct {
	matcher *ahocorasick.Matcher
	masks   [][]mask // indexed the same way as the matcher dictionary
}

// NewMasker creates a Masker. It panics if a custom regular expression does not compile.
func NewMasker(rules []MaskingRuleConfig) *Masker {
	dictionary := make([]string, 0, len(rules))
	masks := make([][]mask, 0, len(rules))
	for _, rule := range rules {
		var fieldMasks []mask
		for _, custom := range rule.Masks {
			fieldMasks = append(fieldMasks, mask{regexp.MustCompile(custom.RegExp), custom.Mask})
		}
		for _, format := range rule.Formats {
			fieldMasks = append(fieldMasks, formatMasks(rule.Field, format)...)
		}
		dictionary = append(dictionary, strings.ToLower(rule.Field))
		masks = append(masks, fieldMasks)
	}
	return &Masker{matcher: ahocorasick.NewStringMatcher(dictionary), masks: masks}
}

// Mask returns s with all known secrets replaced.
func (m *Masker) Mask(s string) string {
	if s == "" || len(m.masks) == 0 {
		return s
	}
	for _, idx := range m.matcher.MatchThreadSafe([]byte(strings.ToLower(s))) {
		for _, fm := range m.masks[idx] {
			s = fm.re.ReplaceAllString(s, fm.replacement)
		}
	}
	return s
}
