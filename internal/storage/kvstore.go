package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	apperrors "github.com/lichiahui/lifelog/internal/errors"
)

// CollectionSpec names one collection and how it is keyed. An empty KeyField
// marks an auto-keyed collection: the store assigns a surrogate key on insert.
type CollectionSpec struct {
	Name     string
	KeyField string
}

// Collections is the fixed schema. Collection names map one-to-one onto
// tables declared by the migrations.
var Collections = []CollectionSpec{
	{Name: "moods", KeyField: "id"},
	{Name: "habits", KeyField: "id"},
	{Name: "tasks", KeyField: "id"},
	{Name: "chatHistory"},
	{Name: "appState", KeyField: "key"},
	{Name: "punchRecords"},
	{Name: "workTimeRecords"},
}

func collectionSpec(name string) (CollectionSpec, error) {
	for _, c := range Collections {
		if c.Name == name {
			return c, nil
		}
	}
	return CollectionSpec{}, fmt.Errorf("unknown collection: %s", name)
}

// keyFromRecord extracts the key field from a JSON record. Numeric keys keep
// their literal form (habit ids are unix-millisecond integers).
func keyFromRecord(keyField string, record []byte) (string, error) {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(record, &doc); err != nil {
		return "", fmt.Errorf("record is not a JSON object: %w", err)
	}

	raw, ok := doc[keyField]
	if !ok {
		return "", fmt.Errorf("record has no %q field", keyField)
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString, nil
	}

	var asNumber json.Number
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return asNumber.String(), nil
	}

	return "", fmt.Errorf("unsupported key type in field %q", keyField)
}

// Put inserts or replaces a record and returns the effective key. For
// explicit-keyed collections the key is read from the record; for auto-keyed
// collections a fresh surrogate key is generated.
func (s *Store) Put(collection string, record []byte) (string, error) {
	spec, err := collectionSpec(collection)
	if err != nil {
		return "", err
	}

	if spec.KeyField == "" {
		res, err := s.db.Exec(fmt.Sprintf("INSERT INTO %s (record) VALUES (?)", spec.Name), string(record))
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", apperrors.ErrWriteFailed, collection, err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			return "", fmt.Errorf("%w: %s: %v", apperrors.ErrWriteFailed, collection, err)
		}
		return strconv.FormatInt(id, 10), nil
	}

	key, err := keyFromRecord(spec.KeyField, record)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", apperrors.ErrValidation, collection, err)
	}

	_, err = s.db.Exec(fmt.Sprintf("INSERT OR REPLACE INTO %s (key, record) VALUES (?, ?)", spec.Name), key, string(record))
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", apperrors.ErrWriteFailed, collection, err)
	}
	return key, nil
}

// Get returns the raw record for key, or ErrNotFound. Absence is a normal
// result, never a panic or a generic failure.
func (s *Store) Get(collection, key string) ([]byte, error) {
	spec, err := collectionSpec(collection)
	if err != nil {
		return nil, err
	}

	var record string
	err = s.db.QueryRow(fmt.Sprintf("SELECT record FROM %s WHERE key = ?", spec.Name), key).Scan(&record)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s/%s", apperrors.ErrNotFound, collection, key)
		}
		return nil, fmt.Errorf("failed to read %s/%s: %w", collection, key, err)
	}
	return []byte(record), nil
}

// GetAll returns every record in storage (insertion) order. The order is not
// guaranteed sorted by any business key.
func (s *Store) GetAll(collection string) ([][]byte, error) {
	spec, err := collectionSpec(collection)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.Query(fmt.Sprintf("SELECT record FROM %s ORDER BY rowid", spec.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", collection, err)
	}
	defer rows.Close()

	var records [][]byte
	for rows.Next() {
		var record string
		if err := rows.Scan(&record); err != nil {
			return nil, fmt.Errorf("failed to scan %s record: %w", collection, err)
		}
		records = append(records, []byte(record))
	}
	return records, rows.Err()
}

// Delete removes the record under key; a no-op when absent.
func (s *Store) Delete(collection, key string) error {
	spec, err := collectionSpec(collection)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s WHERE key = ?", spec.Name), key); err != nil {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrWriteFailed, collection, err)
	}
	return nil
}

// Clear removes all records in the collection.
func (s *Store) Clear(collection string) error {
	spec, err := collectionSpec(collection)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec(fmt.Sprintf("DELETE FROM %s", spec.Name)); err != nil {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrWriteFailed, collection, err)
	}
	return nil
}

// ReplaceAll atomically clears the collection and bulk-inserts records in one
// transaction, so a failed import cannot leave a collection half-populated.
func (s *Store) ReplaceAll(collection string, records [][]byte) error {
	spec, err := collectionSpec(collection)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrWriteFailed, collection, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(fmt.Sprintf("DELETE FROM %s", spec.Name)); err != nil {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrWriteFailed, collection, err)
	}

	for _, record := range records {
		if spec.KeyField == "" {
			if _, err := tx.Exec(fmt.Sprintf("INSERT INTO %s (record) VALUES (?)", spec.Name), string(record)); err != nil {
				return fmt.Errorf("%w: %s: %v", apperrors.ErrWriteFailed, collection, err)
			}
			continue
		}

		key, err := keyFromRecord(spec.KeyField, record)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", apperrors.ErrValidation, collection, err)
		}
		if _, err := tx.Exec(fmt.Sprintf("INSERT OR REPLACE INTO %s (key, record) VALUES (?, ?)", spec.Name), key, string(record)); err != nil {
			return fmt.Errorf("%w: %s: %v", apperrors.ErrWriteFailed, collection, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %s: %v", apperrors.ErrWriteFailed, collection, err)
	}
	return nil
}

// putJSON marshals v and stores it in the collection.
func putJSON(s *Store, collection string, v any) error {
	record, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s record: %w", collection, err)
	}
	_, err = s.Put(collection, record)
	return err
}

// getJSON reads one record into out.
func getJSON(s *Store, collection, key string, out any) error {
	record, err := s.Get(collection, key)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(record, out); err != nil {
		return fmt.Errorf("failed to decode %s/%s: %w", collection, key, err)
	}
	return nil
}

// getAllJSON decodes every record in the collection. Malformed records are
// skipped rather than failing the whole read; derived displays must degrade
// to empty, not crash.
func getAllJSON[T any](s *Store, collection string) ([]T, error) {
	records, err := s.GetAll(collection)
	if err != nil {
		return nil, err
	}

	out := make([]T, 0, len(records))
	for _, record := range records {
		var v T
		if err := json.Unmarshal(record, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, nil
}

// replaceAllJSON marshals records and atomically replaces the collection.
func replaceAllJSON[T any](s *Store, collection string, records []T) error {
	raw := make([][]byte, 0, len(records))
	for _, r := range records {
		b, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to encode %s record: %w", collection, err)
		}
		raw = append(raw, b)
	}
	return s.ReplaceAll(collection, raw)
}
