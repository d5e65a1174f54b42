// Package settings stores shuttle's user-level credentials.
//
// Credentials live in the XDG data directory:
//
//	$XDG_DATA_HOME/shuttle/auth.json  (default: ~/.local/share/shuttle/auth.json)
//
// The file is a JSON object keyed by service ("desk", "transifex"). Each
// value carries HTTP basic-auth credentials and, optionally, the site or
// host they belong to. File permissions are 0600.
//
// Lookup order for a credential:
//  1. .shuttle.yaml
//  2. SHUTTLE_* environment variables
//  3. This store
package settings

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

const (
	dataDirName = "shuttle"
	fileName    = "auth.json"
)

// Services with credentials.
const (
	ServiceDesk      = "desk"
	ServiceTransifex = "transifex"
)

// Services lists the services shuttle authenticates against.
var Services = []string{ServiceDesk, ServiceTransifex}

// Info is the entry stored per service in auth.json.
type Info struct {
	// Type is always "basic" today.
	Type     string `json:"type"`
	Username string `json:"username"`
	Password string `json:"password"`

	// Site is the Desk sitename or the Transifex host.
	Site string `json:"site,omitempty"`
}

// IsBasic returns true if this is a basic-auth entry.
func (i *Info) IsBasic() bool {
	return i.Type == "basic"
}

// Store holds all credentials, keyed by service.
type Store map[string]*Info

// Services returns the stored service names in sorted order.
func (s Store) Services() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// dataDir returns the XDG data directory for shuttle.
func dataDir() (string, error) {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, dataDirName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".local", "share", dataDirName), nil
}

func filePath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fileName), nil
}

// FilePath returns the auth.json file path for display purposes.
func FilePath() string {
	p, err := filePath()
	if err != nil {
		return ""
	}
	return p
}

// Load reads the credential store from disk.
// Returns an empty store if the file doesn't exist or is invalid.
func Load() Store {
	path, err := filePath()
	if err != nil {
		return make(Store)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return make(Store)
	}

	var store Store
	if err := json.Unmarshal(data, &store); err != nil || store == nil {
		return make(Store)
	}
	return store
}

// Save writes the credential store to disk with 0600 permissions.
func Save(store Store) error {
	path, err := filePath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling credentials: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing auth file: %w", err)
	}
	return nil
}

// Get returns the entry for a service, or nil if not found.
func Get(service string) *Info {
	return Load()[service]
}

// Set stores an entry for a service (upsert).
func Set(service string, info *Info) error {
	store := Load()
	store[service] = info
	return Save(store)
}

// SetBasic stores basic-auth credentials for a service.
func SetBasic(service, username, password, site string) error {
	return Set(service, &Info{
		Type:     "basic",
		Username: username,
		Password: password,
		Site:     site,
	})
}

// Remove deletes credentials for a service.
func Remove(service string) error {
	store := Load()
	if _, ok := store[service]; !ok {
		return nil
	}
	delete(store, service)
	return Save(store)
}

// RemoveAll removes all stored credentials.
func RemoveAll() error {
	path, err := filePath()
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("removing auth file: %w", err)
	}
	return nil
}

// MaskKey returns a masked version of a secret for display.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
