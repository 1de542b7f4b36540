// SPDX-License-Identifier: MPL-2.0

package ledger

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// DefaultFileName is the ledger file name used by the CLI.
const DefaultFileName = "patches.lock.toml"

type (
	// Entry records one applied patch.
	Entry struct {
		Package     string    `toml:"package"`
		Specifier   string    `toml:"specifier"`
		Level       int       `toml:"level"`
		Fingerprint string    `toml:"fingerprint"`
		AppliedAt   time.Time `toml:"applied_at"`
	}

	// Ledger is the in-memory view of a ledger file. It is not safe for
	// concurrent use.
	Ledger struct {
		path    string
		Entries []Entry
	}

	// document is the TOML wire format of the ledger file.
	document struct {
		Entries []Entry `toml:"entries"`
	}
)

// Load reads the ledger at path. A missing file yields an empty ledger bound
// to that path.
func Load(path string) (*Ledger, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Ledger{path: path}, nil
		}
		return nil, fmt.Errorf("reading ledger %s: %w", path, err)
	}

	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing ledger %s: %w", path, err)
	}
	return &Ledger{path: path, Entries: doc.Entries}, nil
}

// Path returns the file path the ledger was loaded from.
func (l *Ledger) Path() string { return l.path }

// Record appends an entry unless an identical application (same package,
// fingerprint, and level) is already present. It reports whether the entry
// was added.
func (l *Ledger) Record(e Entry) bool {
	for _, have := range l.Entries {
		if have.Package == e.Package && have.Fingerprint == e.Fingerprint && have.Level == e.Level {
			return false
		}
	}
	l.Entries = append(l.Entries, e)
	return true
}

// Save writes the ledger back to its path. The write goes through a temp file
// in the same directory followed by a rename, so a crash never truncates an
// existing ledger.
func (l *Ledger) Save() error {
	data, err := toml.Marshal(document{Entries: l.Entries})
	if err != nil {
		return fmt.Errorf("encoding ledger: %w", err)
	}

	dir := filepath.Dir(l.path)
	tmp, err := os.CreateTemp(dir, ".ledger-*")
	if err != nil {
		return fmt.Errorf("creating temp ledger: %w", err)
	}
	tmpName := tmp.Name()

	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing ledger: %w", err)
	}

	if err := os.Rename(tmpName, l.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing ledger %s: %w", l.path, err)
	}
	return nil
}
