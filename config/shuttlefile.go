// Package config loads .shuttle.yaml, the per-deployment configuration of
// shuttle: connection settings for Desk and Transifex, project slugs, and
// the locales a run may touch.
//
// Secrets may be left out of the file. Empty credentials are filled from
// SHUTTLE_* environment variables and then from the user credential store.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/minios-linux/shuttle/settings"
)

// FileName is the default config file name.
const FileName = ".shuttle.yaml"

// Defaults applied by Load.
const (
	DefaultSourceLanguage = "en_US"
	DefaultTimeout        = 60 * time.Second
	DefaultMaxRetries     = 3
)

// Environment variables consulted for empty fields.
const (
	EnvDeskSitename      = "SHUTTLE_DESK_SITENAME"
	EnvDeskUser          = "SHUTTLE_DESK_USER"
	EnvDeskPassword      = "SHUTTLE_DESK_PASSWORD"
	EnvTransifexUsername = "SHUTTLE_TRANSIFEX_USERNAME"
	EnvTransifexPassword = "SHUTTLE_TRANSIFEX_PASSWORD"
)

func init() {
	validation.ErrorTag = "yaml"
}

// File is the top-level .shuttle.yaml structure.
type File struct {
	Desk      Desk      `yaml:"desk"`
	Transifex Transifex `yaml:"transifex"`

	// TopicsProjectSlug is the Transifex project holding the topics catalog.
	TopicsProjectSlug string `yaml:"topics_project_slug,omitempty"`
	// TutorialsProjectSlug prefixes the per-locale tutorial projects.
	TutorialsProjectSlug string `yaml:"tutorials_project_slug,omitempty"`

	// Locales is the default enabled locale set; --locales overrides it.
	Locales []string `yaml:"locales,omitempty"`
	// SourceLanguage is the Transifex source language (default en_US).
	SourceLanguage string `yaml:"source_language,omitempty"`
	// VendorLocaleMap maps Transifex-side locales to Desk locales that
	// differ beyond case and separator (default {en_us: en}).
	VendorLocaleMap map[string]string `yaml:"vendor_locale_map,omitempty"`

	Timeout    time.Duration `yaml:"timeout,omitempty"`
	MaxRetries int           `yaml:"max_retries,omitempty"`
	Proxy      string        `yaml:"proxy,omitempty"`
}

// Desk holds the support-platform connection.
type Desk struct {
	Sitename string `yaml:"sitename,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	// BaseURL replaces https://<sitename>.desk.com.
	BaseURL string `yaml:"base_url,omitempty"`
}

// Transifex holds the translation-platform connection.
type Transifex struct {
	Host     string `yaml:"host,omitempty"`
	Username string `yaml:"username,omitempty"`
	Password string `yaml:"password,omitempty"`
}

// Load reads path and applies defaults. A missing file is not an error:
// it yields a File holding only defaults and found == false.
func Load(path string) (f *File, found bool, err error) {
	f = &File{}
	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		f.applyDefaults()
		return f, false, nil
	case err != nil:
		return nil, false, fmt.Errorf("reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, false, fmt.Errorf("parsing %s: %w", path, err)
	}
	f.applyDefaults()
	return f, true, nil
}

func (f *File) applyDefaults() {
	if f.SourceLanguage == "" {
		f.SourceLanguage = DefaultSourceLanguage
	}
	if f.Timeout == 0 {
		f.Timeout = DefaultTimeout
	}
	if f.MaxRetries == 0 {
		f.MaxRetries = DefaultMaxRetries
	}
	if len(f.VendorLocaleMap) == 0 {
		f.VendorLocaleMap = map[string]string{"en_us": "en"}
	}
	f.Locales = SplitList(strings.Join(f.Locales, ","))
}

func fill(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// ApplyEnv fills empty connection fields from SHUTTLE_* variables read
// through getenv.
func (f *File) ApplyEnv(getenv func(string) string) {
	fill(&f.Desk.Sitename, getenv(EnvDeskSitename))
	fill(&f.Desk.User, getenv(EnvDeskUser))
	fill(&f.Desk.Password, getenv(EnvDeskPassword))
	fill(&f.Transifex.Username, getenv(EnvTransifexUsername))
	fill(&f.Transifex.Password, getenv(EnvTransifexPassword))
}

// ApplyCredentials fills fields still empty from the credential store.
func (f *File) ApplyCredentials(store settings.Store) {
	if d := store[settings.ServiceDesk]; d != nil && d.IsBasic() {
		fill(&f.Desk.User, d.Username)
		fill(&f.Desk.Password, d.Password)
		fill(&f.Desk.Sitename, d.Site)
	}
	if t := store[settings.ServiceTransifex]; t != nil && t.IsBasic() {
		fill(&f.Transifex.Username, t.Username)
		fill(&f.Transifex.Password, t.Password)
		fill(&f.Transifex.Host, t.Site)
	}
}

var slugRE = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// Needs tells Validate which project slugs the run depends on.
type Needs struct {
	Topics    bool
	Tutorials bool
	// Desk is false for commands that only read Transifex.
	Desk bool
}

// Validate checks the settings a run with needs depends on.
func (f *File) Validate(needs Needs) error {
	fields := []*validation.FieldRules{
		validation.Field(&f.Transifex),
		validation.Field(&f.TopicsProjectSlug,
			validation.When(needs.Topics, validation.Required),
			validation.Match(slugRE)),
		validation.Field(&f.TutorialsProjectSlug,
			validation.When(needs.Tutorials, validation.Required),
			validation.Match(slugRE)),
		validation.Field(&f.Locales, validation.Required),
		validation.Field(&f.MaxRetries, validation.Min(-1)),
		validation.Field(&f.Timeout, validation.Min(time.Duration(0))),
	}
	if needs.Desk {
		fields = append(fields, validation.Field(&f.Desk))
	}
	return validation.ValidateStruct(f, fields...)
}

// Validate implements validation.Validatable.
func (d Desk) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Sitename, validation.When(d.BaseURL == "", validation.Required)),
		validation.Field(&d.User, validation.Required),
		validation.Field(&d.Password, validation.Required),
	)
}

// Validate implements validation.Validatable.
func (t Transifex) Validate() error {
	return validation.ValidateStruct(&t,
		validation.Field(&t.Username, validation.Required),
		validation.Field(&t.Password, validation.Required),
		validation.Field(&t.Host, validation.By(func(value any) error {
			h, _ := value.(string)
			if h != "" && !strings.HasPrefix(h, "http://") && !strings.HasPrefix(h, "https://") {
				return validation.NewError("shuttle.transifex.host_scheme", "must start with http:// or https://")
			}
			return nil
		})),
	)
}

// LocaleWarnings lists enabled locales that are not valid BCP 47 tags.
// They are still used as given.
func (f *File) LocaleWarnings() []string {
	var warnings []string
	for _, l := range f.Locales {
		if _, err := language.Parse(strings.ReplaceAll(l, "_", "-")); err != nil {
			warnings = append(warnings, fmt.Sprintf("locale %q is not a recognized language tag", l))
		}
	}
	return warnings
}

// SplitList splits a comma-separated list, trimming blanks.
func SplitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

const exampleFile = `# shuttle configuration
desk:
  sitename: example
  user: ops@example.com
  # password: set SHUTTLE_DESK_PASSWORD or run "shuttle auth set desk"

transifex:
  host: https://www.transifex.com
  username: example
  # password: set SHUTTLE_TRANSIFEX_PASSWORD or run "shuttle auth set transifex"

topics_project_slug: help-center-topics
tutorials_project_slug: help-center

locales:
  - es
  - fr_CA
  - en_GB

source_language: en_US
vendor_locale_map:
  en_us: en

timeout: 60s
max_retries: 3
`

// WriteExample writes a commented example config to path. It refuses to
// overwrite an existing file.
func WriteExample(path string) error {
	fh, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if _, err := fh.WriteString(exampleFile); err != nil {
		fh.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return fh.Close()
}
