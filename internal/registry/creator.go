package registry

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/openledger/ledgerlens/internal/metrics"
	"github.com/openledger/ledgerlens/internal/models"
	"github.com/openledger/ledgerlens/pkg/slug"
)

// Creator appends records to registry documents on behalf of
// collaborators that auto-create entries for unresolved text. Writes are
// insert-if-absent: the document is re-read under an exclusive file lock
// before deciding, so concurrent creations of the same text yield
// exactly one record.
type Creator struct {
	dir    string
	logger *slog.Logger
}

// NewCreator creates a Creator over the same directory a Catalog reads.
func NewCreator(dir string, logger *slog.Logger) *Creator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Creator{dir: dir, logger: logger}
}

// EnsureRecord guarantees a record exists for text in the given entity
// type's registry. If an entry already has text as its canonical name or
// one of its variations, its id is returned with created=false.
// Otherwise a new record with canonical_name=text is appended and its
// minted id returned. Only YAML registry documents are writable.
func (c *Creator) EnsureRecord(entityType, text string) (string, bool, error) {
	if text == "" {
		return "", false, fmt.Errorf("ensure record: empty text")
	}

	path := filepath.Join(c.dir, entityType+".yaml")
	if _, err := os.Stat(path); err != nil {
		alt := filepath.Join(c.dir, entityType+".yml")
		if _, altErr := os.Stat(alt); altErr == nil {
			path = alt
		} else if !os.IsNotExist(err) {
			return "", false, fmt.Errorf("ensure record: %w", err)
		}
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return "", false, fmt.Errorf("locking registry %s: %w", entityType, err)
	}
	defer func() { _ = lock.Unlock() }()

	reg := &Registry{entityType: entityType, byID: map[string]int{}}
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		reg, err = Parse(entityType, data)
		if err != nil {
			return "", false, fmt.Errorf("ensure record: %w", err)
		}
	case os.IsNotExist(err):
		// First record for this entity type creates the document.
	default:
		return "", false, fmt.Errorf("ensure record: %w", err)
	}

	// Compare step of compare-and-create.
	for _, e := range reg.entries {
		if e.Record.CanonicalName == text {
			return e.ID, false, nil
		}
		for _, v := range e.Record.Variations {
			if v == text {
				return e.ID, false, nil
			}
		}
	}

	id := slug.Make(text)
	if id == "" {
		id = uuid.NewString()
	} else if _, taken := reg.byID[id]; taken {
		id = id + "-" + uuid.NewString()[:8]
	}

	entries := append(append([]Entry(nil), reg.entries...), Entry{
		ID:     id,
		Record: models.EntityRecord{CanonicalName: text},
	})
	if err := writeDocument(path, entries); err != nil {
		return "", false, fmt.Errorf("ensure record: %w", err)
	}

	metrics.Inc(metrics.AutoCreated)
	c.logger.Info("auto-created registry entry", "type", entityType, "id", id, "text", text)
	return id, true, nil
}

// writeDocument serializes entries as an ordered YAML mapping and
// replaces the document atomically via rename.
func writeDocument(path string, entries []Entry) error {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, e := range entries {
		key := &yaml.Node{Kind: yaml.ScalarNode, Value: e.ID}
		val := &yaml.Node{}
		if err := val.Encode(e.Record); err != nil {
			return fmt.Errorf("encoding entry %q: %w", e.ID, err)
		}
		root.Content = append(root.Content, key, val)
	}

	out, err := yaml.Marshal(root)
	if err != nil {
		return fmt.Errorf("encoding registry document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".registry-*.yaml")
	if err != nil {
		return fmt.Errorf("writing registry document: %w", err)
	}
	if _, err := tmp.Write(out); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing registry document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("writing registry document: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replacing registry document: %w", err)
	}
	return nil
}
