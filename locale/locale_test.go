package locale

import (
	"reflect"
	"testing"
)

func TestToCanonicalUnmappedNormalizes(t *testing.T) {
	m := New(nil, nil)
	tests := []struct {
		in   string
		want string
	}{
		{"fr-CA", "fr_ca"},
		{"es_ES", "es_es"},
		{"pt-br", "pt_br"},
		{"de", "de"},
		{"", ""},
		{"EN-US", "en"},
	}
	for _, tc := range tests {
		if got := m.ToCanonical(tc.in); got != tc.want {
			t.Fatalf("ToCanonical(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestVendorRoundTrip(t *testing.T) {
	table := map[string]string{"en_us": "en", "zh_tw": "zh_Hant", "pt_pt": "pt"}
	m := New(nil, table)
	for v := range table {
		if got := m.ToVendor(m.ToCanonical(v)); got != v {
			t.Fatalf("ToVendor(ToCanonical(%q)) = %q, want %q", v, got, v)
		}
	}
	if got := m.ToVendor("fr_CA"); got != "fr_CA" {
		t.Fatalf("ToVendor(unmapped) = %q, want fr_CA", got)
	}
}

func TestReformatCanonical(t *testing.T) {
	tests := map[string]string{
		"fr_ca":      "fr_CA",
		"fr_CA":      "fr_CA",
		"zh_hant_tw": "zh_HANT_TW",
		"de":         "de",
		"":           "",
	}
	for in, want := range tests {
		if got := ReformatCanonical(in); got != want {
			t.Fatalf("ReformatCanonical(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTransifexLocale(t *testing.T) {
	m := New(nil, nil)
	if got := m.TransifexLocale("fr_ca"); got != "fr_CA" {
		t.Fatalf("TransifexLocale(fr_ca) = %q, want fr_CA", got)
	}
	if got := m.TransifexLocale("en"); got != "en_US" {
		t.Fatalf("TransifexLocale(en) = %q, want en_US", got)
	}
}

func TestShouldProcessEnglishSource(t *testing.T) {
	m := New([]string{"en_us"}, nil)
	tests := []struct {
		locale string
		want   bool
	}{
		{"EN_US", true},
		{"en_us", true},
		{"en_gb", false},
		{"fr_CA", false},
	}
	for _, tc := range tests {
		if got := m.ShouldProcess(tc.locale, EnglishSource); got != tc.want {
			t.Fatalf("ShouldProcess(%q, EnglishSource) = %v, want %v", tc.locale, got, tc.want)
		}
	}
}

func TestShouldProcessTranslatedNeverEnglish(t *testing.T) {
	m := New([]string{"en", "EN_US", "en_gb"}, nil)
	for _, l := range []string{"en", "EN_US", "en_gb", "En-Au"} {
		if m.ShouldProcess(l, Translated) {
			t.Fatalf("ShouldProcess(%q, Translated) = true, want false", l)
		}
	}
}

func TestShouldProcessTranslatedFourChecks(t *testing.T) {
	tests := []struct {
		name    string
		enabled []string
		vendor  map[string]string
		locale  string
		want    bool
	}{
		{"raw membership", []string{"fr_CA"}, nil, "fr_CA", true},
		{"raw lowercased membership", []string{"FR_CA"}, nil, "fr_ca", true},
		{"mapped membership", []string{"pt_pt"}, map[string]string{"pt_pt": "pt"}, "pt", true},
		{"mapped lowercased membership", []string{"PT_PT"}, map[string]string{"pt_pt": "pt"}, "PT", true},
		{"mixed case not enabled", []string{"fr_ca"}, nil, "fr_CA", false},
		{"unrelated", []string{"es_ES"}, nil, "fr_CA", false},
		{"empty enabled", nil, nil, "fr_CA", false},
	}
	for _, tc := range tests {
		m := New(tc.enabled, tc.vendor)
		if got := m.ShouldProcess(tc.locale, Translated); got != tc.want {
			t.Fatalf("%s: ShouldProcess(%q) = %v, want %v", tc.name, tc.locale, got, tc.want)
		}
	}
}

func TestShouldProcessDeterministic(t *testing.T) {
	m := New([]string{"fr_CA", "es_ES"}, nil)
	first := m.ShouldProcess("fr_CA", Translated)
	second := m.ShouldProcess("fr_CA", Translated)
	if first != second {
		t.Fatalf("ShouldProcess changed between calls: %v then %v", first, second)
	}
	if !reflect.DeepEqual(m.Enabled(), []string{"fr_CA", "es_ES"}) {
		t.Fatalf("Enabled() = %v, want [fr_CA es_ES]", m.Enabled())
	}
}

func TestNewSkipsBlankLocales(t *testing.T) {
	m := New([]string{" fr_CA ", "", "  "}, nil)
	if got := m.Enabled(); !reflect.DeepEqual(got, []string{"fr_CA"}) {
		t.Fatalf("Enabled() = %v, want [fr_CA]", got)
	}
}
