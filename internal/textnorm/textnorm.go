// Package textnorm rewrites raw text through an ordered chain of
// normalization rules: Unicode canonical composition, invisible-character
// removal, space and dash normalization, and optional expansion of Latin
// abbreviations. Normalize is pure and never fails.
package textnorm

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/dgallion1/textwash/internal/options"
)

// IsZeroWidth reports whether r is a zero-width character: zero width
// space, non-joiner, joiner, or a BOM read as zero width no-break space.
func IsZeroWidth(r rune) bool {
	switch r {
	case 0x200B, // ZERO WIDTH SPACE
		0x200C, // ZERO WIDTH NON-JOINER
		0x200D, // ZERO WIDTH JOINER
		0xFEFF: // ZERO WIDTH NO-BREAK SPACE / BOM
		return true
	}
	return false
}

// IsBidiControl reports whether r is an explicit directional formatting
// character (U+202A-U+202E) or a directional isolate (U+2066-U+2069).
func IsBidiControl(r rune) bool {
	return (r >= 0x202A && r <= 0x202E) || (r >= 0x2066 && r <= 0x2069)
}

// IsNoBreakSpace reports whether r is a no-break space variant.
func IsNoBreakSpace(r rune) bool {
	return r == 0x00A0 || r == 0x202F
}

// EmDash is the only dash that gets rewritten to "; " rather than "-".
const EmDash = '—'

// IsDashLike reports whether r is one of the dash glyphs rewritten to an
// ASCII hyphen. The em dash is handled separately and is excluded here.
func IsDashLike(r rune) bool {
	switch r {
	case 0x2010, // HYPHEN
		0x2011, // NON-BREAKING HYPHEN
		0x2012, // FIGURE DASH
		0x2013, // EN DASH
		0x2015, // HORIZONTAL BAR
		0x2212, // MINUS SIGN
		0xFE63, // SMALL HYPHEN-MINUS
		0xFF0D, // FULLWIDTH HYPHEN-MINUS
		0x30FC: // KATAKANA-HIRAGANA PROLONGED SOUND MARK
		return true
	}
	return false
}

var (
	emDashRe    = regexp.MustCompile(`\s*` + string(EmDash) + `\s*`)
	semiSpaceRe = regexp.MustCompile(`; {2,}`)
)

// abbreviation is a single whole-token replacement. Entries run in slice
// order; case sensitivity is baked into each pattern.
type abbreviation struct {
	re   *regexp.Regexp
	repl string
}

var abbreviations = []abbreviation{
	{regexp.MustCompile(`(?i)\be\.g\.`), "for example"},
	{regexp.MustCompile(`(?i)\bi\.e\.`), "that is"},
	{regexp.MustCompile(`\betc\.`), "and so on"},
	{regexp.MustCompile(`(?i)\bvs\.`), "versus"},
	{regexp.MustCompile(`(?i)\bcf\.`), "compare"},
	{regexp.MustCompile(`\bet al\.`), "and others"},
}

// Normalize runs text through the rule chain gated by opts. It is total:
// any input yields some output, and an empty string maps to itself.
func Normalize(text string, opts options.Options) string {
	if text == "" {
		return ""
	}

	text = norm.NFC.String(text)

	if opts.RemoveZeroWidth {
		text = strings.Map(func(r rune) rune {
			if IsZeroWidth(r) {
				return -1
			}
			return r
		}, text)
	}

	if opts.RemoveBidi {
		text = strings.Map(func(r rune) rune {
			if IsBidiControl(r) {
				return -1
			}
			return r
		}, text)
	}

	if opts.NormalizeSpaces {
		text = strings.Map(func(r rune) rune {
			if IsNoBreakSpace(r) {
				return ' '
			}
			return r
		}, text)
	}

	// Em dashes become "; " with surrounding whitespace absorbed. The
	// generic dash rule below must not see em dashes, so this runs first.
	if strings.ContainsRune(text, EmDash) {
		text = emDashRe.ReplaceAllString(text, "; ")
	}
	text = semiSpaceRe.ReplaceAllString(text, "; ")

	text = strings.Map(func(r rune) rune {
		if IsDashLike(r) {
			return '-'
		}
		return r
	}, text)

	if opts.ExpandLatinAbbrev {
		for _, a := range abbreviations {
			text = a.re.ReplaceAllString(text, a.repl)
		}
	}

	return text
}
