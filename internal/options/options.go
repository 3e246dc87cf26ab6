// Package options holds the per-pass sanitization flags. An Options value
// is an immutable snapshot: every pass receives one by value and never
// re-reads shared state mid-traversal.
package options

// Options gates individual normalization rules. Zero value disables
// everything; use Defaults for the standard configuration.
type Options struct {
	RemoveZeroWidth    bool `json:"removeZeroWidth"`
	RemoveBidi         bool `json:"removeBidi"`
	NormalizeSpaces    bool `json:"normalizeSpaces"`
	CollapseBlankLines bool `json:"collapseBlankLines"`
	ExpandLatinAbbrev  bool `json:"expandLatinAbbrev"`
}

// Defaults returns the standard option set with all rules enabled.
func Defaults() Options {
	return Options{
		RemoveZeroWidth:    true,
		RemoveBidi:         true,
		NormalizeSpaces:    true,
		CollapseBlankLines: true,
		ExpandLatinAbbrev:  true,
	}
}

// Fingerprint returns a compact stable encoding of the flag state,
// suitable as part of a cache key.
func (o Options) Fingerprint() string {
	b := [5]byte{'0', '0', '0', '0', '0'}
	if o.RemoveZeroWidth {
		b[0] = '1'
	}
	if o.RemoveBidi {
		b[1] = '1'
	}
	if o.NormalizeSpaces {
		b[2] = '1'
	}
	if o.CollapseBlankLines {
		b[3] = '1'
	}
	if o.ExpandLatinAbbrev {
		b[4] = '1'
	}
	return string(b[:])
}
