// Package file keeps the credential store and every vendor ledger as JSON files
// under a data directory:
//
//	credentials.json
//	<vendor>/offices.json
//	<vendor>/entries.json
//	<vendor>/paid_status.json
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/MrJamesThe3rd/chaibook/internal/account"
)

const (
	credentialsFile = "credentials.json"
	officesFile     = "offices.json"
	entriesFile     = "entries.json"
	paidFile        = "paid_status.json"
)

// Store is safe for concurrent use within one process. Writers of a vendor's
// ledger are serialised per vendor; credential writes share one lock. Lock
// order is vendor before credentials.
type Store struct {
	dir string

	credMu sync.RWMutex

	mu      sync.Mutex
	vendors map[string]*sync.Mutex
}

func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	s := &Store{dir: dir, vendors: make(map[string]*sync.Mutex)}

	path := filepath.Join(dir, credentialsFile)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if err := writeJSON(path, map[string]accountRecord{}); err != nil {
			return nil, err
		}
	}

	return s, nil
}

func (s *Store) Close() error {
	return nil
}

func (s *Store) vendorLock(id string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, ok := s.vendors[id]
	if !ok {
		m = &sync.Mutex{}
		s.vendors[id] = m
	}

	return m
}

func (s *Store) vendorDir(id string) (string, error) {
	if !account.ValidIdentifier(id) {
		return "", fmt.Errorf("%q: %w", id, account.ErrNotFound)
	}

	return filepath.Join(s.dir, id), nil
}

// withVendor runs fn holding the vendor's write lock, after checking that the
// vendor still exists so that a deleted vendor's directory is not recreated.
func (s *Store) withVendor(ctx context.Context, id string, fn func(dir string) error) error {
	dir, err := s.vendorDir(id)
	if err != nil {
		return err
	}

	m := s.vendorLock(id)
	m.Lock()
	defer m.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}

	creds, err := s.readCredentials()
	if err != nil {
		return err
	}

	if rec, ok := creds[id]; !ok || rec.Role != account.RoleVendor {
		return fmt.Errorf("vendor %s: %w", id, account.ErrNotFound)
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating vendor dir: %w", err)
	}

	return fn(dir)
}

// readJSON decodes path into v. A missing file leaves v untouched.
func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}

	if err != nil {
		return fmt.Errorf("reading %s: %w", filepath.Base(path), err)
	}

	if len(data) == 0 {
		return nil
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}

	return nil
}

// writeJSON replaces path atomically: readers see the old or the new file,
// never a partial one.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		return fmt.Errorf("encoding %s: %w", filepath.Base(path), err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}

	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing %s: %w", filepath.Base(path), err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", filepath.Base(path), err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}

	return nil
}

func tombstone(dir string) string {
	return filepath.Join(filepath.Dir(dir), "."+filepath.Base(dir)+".deleted-"+strconv.FormatInt(time.Now().UnixNano(), 10))
}
