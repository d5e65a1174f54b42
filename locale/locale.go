// Package locale reconciles locale identifiers between the support platform
// (Desk) and the translation platform (Transifex), and decides which locales
// a sync run is allowed to touch.
//
// Desk uses lowercase codes with either separator ("fr-ca", "en_us");
// Transifex uses underscore codes with an uppercase region ("fr_CA"). A small
// table covers the codes that differ beyond case and separator.
package locale

import "strings"

// Mode selects how ShouldProcess treats English locales.
type Mode int

const (
	// Translated accepts non-English locales only.
	Translated Mode = iota
	// EnglishSource accepts English locales only.
	EnglishSource
)

func (m Mode) String() string {
	switch m {
	case Translated:
		return "translated"
	case EnglishSource:
		return "english-source"
	default:
		return "unknown"
	}
}

// DefaultVendorMap is used when no vendor map is configured.
var DefaultVendorMap = map[string]string{"en_us": "en"}

// Mapper converts locales between the two conventions and filters them
// against the enabled set of a run. A Mapper is immutable after New.
type Mapper struct {
	vendor  map[string]string // vendor -> canonical
	reverse map[string]string // canonical -> vendor

	enabled      []string
	lowerEnabled []string
}

// New returns a Mapper for the given enabled locales. A nil or empty
// vendorMap falls back to DefaultVendorMap.
func New(enabled []string, vendorMap map[string]string) *Mapper {
	if len(vendorMap) == 0 {
		vendorMap = DefaultVendorMap
	}

	m := &Mapper{
		vendor:       make(map[string]string, len(vendorMap)),
		reverse:      make(map[string]string, len(vendorMap)),
		enabled:      make([]string, 0, len(enabled)),
		lowerEnabled: make([]string, 0, len(enabled)),
	}
	for k, v := range vendorMap {
		m.vendor[k] = v
		m.reverse[v] = k
	}
	for _, l := range enabled {
		l = strings.TrimSpace(l)
		if l == "" {
			continue
		}
		m.enabled = append(m.enabled, l)
		m.lowerEnabled = append(m.lowerEnabled, strings.ToLower(l))
	}
	return m
}

// Enabled returns the enabled locales in the order they were given.
func (m *Mapper) Enabled() []string {
	out := make([]string, len(m.enabled))
	copy(out, m.enabled)
	return out
}

// normalize lowercases and switches to underscore separators.
func normalize(l string) string {
	return strings.ReplaceAll(strings.ToLower(l), "-", "_")
}

// ToCanonical normalizes a Desk locale and maps it through the vendor table.
// Unmapped locales come back normalized.
func (m *Mapper) ToCanonical(vendorLocale string) string {
	l := normalize(vendorLocale)
	if mapped, ok := m.vendor[l]; ok {
		return mapped
	}
	return l
}

// ToVendor is the reverse lookup of ToCanonical. Unmapped locales are
// returned unchanged.
func (m *Mapper) ToVendor(canonicalLocale string) string {
	if mapped, ok := m.reverse[canonicalLocale]; ok {
		return mapped
	}
	return canonicalLocale
}

// ReformatCanonical uppercases every subtag after the first, so "fr_ca"
// becomes "fr_CA".
func ReformatCanonical(l string) string {
	pieces := strings.Split(l, "_")
	for i := 1; i < len(pieces); i++ {
		pieces[i] = strings.ToUpper(pieces[i])
	}
	return strings.Join(pieces, "_")
}

// TransifexLocale converts a Desk translation locale to the code used for
// Transifex projects.
func (m *Mapper) TransifexLocale(deskLocale string) string {
	return ReformatCanonical(m.ToVendor(deskLocale))
}

func isEnglish(l string) bool {
	return strings.HasPrefix(strings.ToLower(l), "en")
}

func contains(set []string, l string) bool {
	for _, s := range set {
		if s == l {
			return true
		}
	}
	return false
}

// ShouldProcess reports whether locale l belongs to this run.
//
// In EnglishSource mode only English locales whose lowercase form is enabled
// pass. In Translated mode English never passes; any other locale passes when
// it, or its reverse-mapped counterpart, is in the enabled set, compared both
// as given and lowercased. Locale strings from the two platforms disagree on
// case and format, so all four checks are needed.
func (m *Mapper) ShouldProcess(l string, mode Mode) bool {
	lower := strings.ToLower(l)

	if mode == EnglishSource {
		return isEnglish(l) && contains(m.lowerEnabled, lower)
	}

	if isEnglish(l) {
		return false
	}

	mapped, hasMapped := m.reverse[lower]
	return contains(m.enabled, l) ||
		(hasMapped && contains(m.enabled, mapped)) ||
		contains(m.lowerEnabled, l) ||
		(hasMapped && contains(m.lowerEnabled, mapped))
}
