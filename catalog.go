package budscan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

// ErrEmptyCatalog is returned when a catalog source holds no usable entries.
var ErrEmptyCatalog = errors.New("budscan: catalog has no entries")

// Catalog is an immutable snapshot of the strain catalog.
type Catalog struct {
	Entries  []CatalogEntry
	Version  uint64
	LoadedAt time.Time
}

// catalogRecord is the on-disk shape of one entry. Type is free text.
type catalogRecord struct {
	Name        string   `yaml:"name"`
	Type        string   `yaml:"type"`
	Description string   `yaml:"description"`
	Effects     []string `yaml:"effects"`
	Flavors     []string `yaml:"flavors"`
	THC         *float64 `yaml:"thc"`
	CBD         *float64 `yaml:"cbd"`
	Lineage     string   `yaml:"lineage"`
}

// catalogFile accepts either a bare list or a {strains: [...]} document.
type catalogFile struct {
	Strains []catalogRecord `yaml:"strains"`
}

// LoadCatalog decodes a YAML or JSON catalog. Records without a name are skipped.
func LoadCatalog(r io.Reader) ([]CatalogEntry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var records []catalogRecord
	if err := yaml.Unmarshal(data, &records); err != nil {
		var doc catalogFile
		if docErr := yaml.Unmarshal(data, &doc); docErr != nil {
			return nil, fmt.Errorf("decode catalog: %w", err)
		}
		records = doc.Strains
	}

	entries := make([]CatalogEntry, 0, len(records))
	for _, rec := range records {
		name := strings.TrimSpace(rec.Name)
		if name == "" {
			continue
		}
		entries = append(entries, CatalogEntry{
			Name:        name,
			Type:        ParseProductType(rec.Type),
			Description: strings.TrimSpace(rec.Description),
			Effects:     trimAll(rec.Effects),
			Flavors:     trimAll(rec.Flavors),
			THC:         rec.THC,
			CBD:         rec.CBD,
			Lineage:     strings.TrimSpace(rec.Lineage),
		})
	}
	if len(entries) == 0 {
		return nil, ErrEmptyCatalog
	}
	return entries, nil
}

// LoadCatalogFile reads a catalog from path.
func LoadCatalogFile(path string) ([]CatalogEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer f.Close()

	entries, err := LoadCatalog(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// CatalogStore publishes catalog snapshots through an atomic pointer. Readers
// get a consistent snapshot without locking; replacements never touch a
// published snapshot.
type CatalogStore struct {
	path    string
	current atomic.Pointer[Catalog]
	version atomic.Uint64
	mu      sync.Mutex // serializes reloads

	// OnReload is called after every reload attempt from Watch.
	OnReload func(Catalog, error)
}

// NewCatalogStore returns a store publishing entries. path may be empty when
// the store is never reloaded from disk.
func NewCatalogStore(path string, entries []CatalogEntry) *CatalogStore {
	s := &CatalogStore{path: path}
	s.Replace(entries)
	return s
}

// OpenCatalogStore loads path and returns a store backed by it.
func OpenCatalogStore(path string) (*CatalogStore, error) {
	entries, err := LoadCatalogFile(path)
	if err != nil {
		return nil, err
	}
	return NewCatalogStore(path, entries), nil
}

// Snapshot returns the current catalog.
func (s *CatalogStore) Snapshot() Catalog {
	if c := s.current.Load(); c != nil {
		return *c
	}
	return Catalog{}
}

// Replace publishes a copy of entries as the new snapshot.
func (s *CatalogStore) Replace(entries []CatalogEntry) Catalog {
	c := &Catalog{
		Entries:  append([]CatalogEntry(nil), entries...),
		Version:  s.version.Add(1),
		LoadedAt: time.Now(),
	}
	s.current.Store(c)
	return *c
}

// Reload re-reads the backing file. On failure the current snapshot stays published.
func (s *CatalogStore) Reload() (Catalog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.path == "" {
		return s.Snapshot(), errors.New("budscan: catalog store has no backing file")
	}
	entries, err := LoadCatalogFile(s.path)
	if err != nil {
		return s.Snapshot(), err
	}
	return s.Replace(entries), nil
}

// Watch reloads the catalog whenever its file is written, created or renamed
// into place. It blocks until ctx is done.
func (s *CatalogStore) Watch(ctx context.Context) error {
	if s.path == "" {
		return errors.New("budscan: catalog store has no backing file")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("catalog watcher: %w", err)
	}
	defer w.Close()

	// Watch the directory: editors and deploy tools replace files by rename.
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("catalog watcher: %w", err)
	}
	target := filepath.Clean(s.path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			c, err := s.Reload()
			if err != nil {
				slog.Warn("budscan: catalog reload failed", "path", s.path, "error", err.Error())
			} else {
				slog.Debug("budscan: catalog reloaded", "path", s.path, "entries", len(c.Entries), "version", c.Version)
			}
			if s.OnReload != nil {
				s.OnReload(c, err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.Warn("budscan: catalog watcher error", "error", err.Error())
		}
	}
}
