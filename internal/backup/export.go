// Package backup handles taking the whole dataset out of and back into the
// store: a portable JSON export/import, and timestamped database snapshots.
package backup

import (
	"encoding/json"
	"fmt"
	"io"

	apperrors "github.com/lichiahui/lifelog/internal/errors"
	"github.com/lichiahui/lifelog/internal/storage"
)

// FormatVersion is written into every export. Imports treat a missing
// version field as version 1.
const FormatVersion = 1

// Export writes every collection as a single JSON document. Records pass
// through untouched so an export/import round trip preserves them exactly.
func Export(store storage.Provider, w io.Writer) error {
	doc := make(map[string]any, len(storage.Collections)+1)
	doc["version"] = FormatVersion

	for _, spec := range storage.Collections {
		records, err := store.GetAll(spec.Name)
		if err != nil {
			return fmt.Errorf("exporting %s: %w", spec.Name, err)
		}
		raw := make([]json.RawMessage, len(records))
		for i, r := range records {
			raw[i] = json.RawMessage(r)
		}
		doc[spec.Name] = raw
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Import replaces the contents of every collection present in the document.
// Collections absent from the document are left alone. Each collection is
// swapped atomically; a record that fails key extraction aborts that
// collection's swap and leaves its previous contents in place.
func Import(store storage.Provider, r io.Reader) error {
	var doc map[string]json.RawMessage
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return fmt.Errorf("%w: parsing import document: %v", apperrors.ErrValidation, err)
	}

	version := 1
	if rawVersion, ok := doc["version"]; ok {
		if err := json.Unmarshal(rawVersion, &version); err != nil {
			return fmt.Errorf("%w: invalid version field", apperrors.ErrValidation)
		}
	}
	if version > FormatVersion {
		return fmt.Errorf("%w: unsupported export version %d", apperrors.ErrValidation, version)
	}

	for _, spec := range storage.Collections {
		rawList, ok := doc[spec.Name]
		if !ok {
			continue
		}
		var records []json.RawMessage
		if err := json.Unmarshal(rawList, &records); err != nil {
			return fmt.Errorf("%w: collection %s is not an array", apperrors.ErrValidation, spec.Name)
		}
		byteRecords := make([][]byte, len(records))
		for i, r := range records {
			byteRecords[i] = []byte(r)
		}
		if err := store.ReplaceAll(spec.Name, byteRecords); err != nil {
			return fmt.Errorf("importing %s: %w", spec.Name, err)
		}
	}

	return nil
}
