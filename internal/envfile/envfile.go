// Package envfile upserts KEY=value pairs into a dotenv file so other tooling
// can pick up deployed contract addresses.
package envfile

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/joho/godotenv"
)

// FileName is the dotenv file written inside the base path
const FileName = ".env"

// Store writes into <basePath>/.env
type Store struct{}

// NewStore returns a dotenv backed store
func NewStore() *Store {
	return &Store{}
}

// SetValue implements the store contract used by migrations
func (s *Store) SetValue(basePath, key, value string) error {
	return SetValue(basePath, key, value)
}

// Path returns the dotenv file location for a base path
func Path(basePath string) string {
	return filepath.Join(basePath, FileName)
}

// SetValue creates or overwrites key in <basePath>/.env, keeping every other entry.
// Comments and ordering are not preserved: the file is rewritten sorted by key.
func SetValue(basePath, key, value string) error {
	if key == "" {
		return errors.New("env key must not be empty")
	}

	path := Path(basePath)
	values, err := read(path)
	if err != nil {
		return err
	}

	values[key] = value
	if err := godotenv.Write(values, path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// GetValue reads key from <basePath>/.env; ok is false when the file or key is missing
func GetValue(basePath, key string) (string, bool, error) {
	values, err := read(Path(basePath))
	if err != nil {
		return "", false, err
	}
	value, ok := values[key]
	return value, ok, nil
}

func read(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return values, nil
}
