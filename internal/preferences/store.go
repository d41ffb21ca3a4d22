// Package preferences keeps per-user display preferences in a bbolt file.
package preferences

import (
	"encoding/json"
	"fmt"
	"strconv"

	bolt "go.etcd.io/bbolt"
)

const bucketPreferences = "preferences"

// Known preference keys
const (
	KeyCurrency   = "preferred_currency"
	KeyDollarType = "preferred_dollar_type"
	KeyTheme      = "theme"
)

var allowedKeys = map[string]bool{
	KeyCurrency:   true,
	KeyDollarType: true,
	KeyTheme:      true,
}

// AllowedKey reports whether key can be stored
func AllowedKey(key string) bool {
	return allowedKeys[key]
}

// Store represents the bbolt database wrapper
type Store struct {
	db *bolt.DB
}

// Open creates or opens the preferences file
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open preferences: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketPreferences))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns all preferences of a user; missing users get an empty map
func (s *Store) Get(userID int64) (map[string]string, error) {
	prefs := map[string]string{}
	err := s.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket([]byte(bucketPreferences)).Get(userKey(userID))
		if data == nil {
			return nil
		}
		return json.Unmarshal(data, &prefs)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read preferences: %w", err)
	}
	return prefs, nil
}

// Update merges values into the stored preferences and returns the result.
// An empty value removes the key.
func (s *Store) Update(userID int64, values map[string]string) (map[string]string, error) {
	for k := range values {
		if !AllowedKey(k) {
			return nil, fmt.Errorf("unknown preference %q", k)
		}
	}

	prefs := map[string]string{}
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketPreferences))
		if data := b.Get(userKey(userID)); data != nil {
			if err := json.Unmarshal(data, &prefs); err != nil {
				return err
			}
		}
		for k, v := range values {
			if v == "" {
				delete(prefs, k)
				continue
			}
			prefs[k] = v
		}
		data, err := json.Marshal(prefs)
		if err != nil {
			return err
		}
		return b.Put(userKey(userID), data)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update preferences: %w", err)
	}
	return prefs, nil
}

func userKey(userID int64) []byte {
	return []byte(strconv.FormatInt(userID, 10))
}
