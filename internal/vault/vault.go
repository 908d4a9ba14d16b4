// Package vault stores named signing keys encrypted at rest.
package vault

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/vinayprograms/agentkit/logging"

	"github.com/suitools/suicli/internal/keys"
)

var (
	ErrDuplicateName   = errors.New("vault: a key with that name already exists")
	ErrNotFound        = errors.New("vault: key not found")
	ErrInvalidPassword = errors.New("vault: invalid password or corrupted record")
	ErrEmptyName       = errors.New("vault: name must not be empty")
)

// Record is one stored credential. Binary fields are hex-encoded so the
// vault file stays a plain JSON document.
type Record struct {
	Name         string `json:"name"`
	Address      string `json:"address"`
	EncryptedKey string `json:"encrypted_private_key"`
	Salt         string `json:"salt"`
	Nonce        string `json:"nonce"`
}

type vaultFile struct {
	Records []Record `json:"wallets"`
}

// Store is a file-backed credential vault. Every mutation rewrites the
// whole file atomically, so a crash never leaves a half-written vault.
type Store struct {
	mu     sync.Mutex
	path   string
	logger *logging.Logger
}

// Open returns a store for the vault file at path. The file is created
// lazily on the first Add.
func Open(path string) *Store {
	return &Store{
		path:   path,
		logger: logging.New().WithComponent("vault"),
	}
}

// Path returns the vault file location.
func (s *Store) Path() string { return s.path }

// Add validates the private key, derives its address, encrypts the key
// string exactly as entered, and appends the record. Validation happens
// before any write: a malformed key never touches the file.
func (s *Store) Add(name, privateKey, password string) (*Record, error) {
	if name == "" {
		return nil, ErrEmptyName
	}

	dk, err := keys.Parse(privateKey)
	if err != nil {
		return nil, err
	}
	defer dk.Wipe()

	s.mu.Lock()
	defer s.mu.Unlock()

	vf, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, r := range vf.Records {
		if r.Name == name {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateName, name)
		}
	}

	ciphertext, salt, nonce, err := encrypt([]byte(privateKey), password)
	if err != nil {
		return nil, err
	}

	rec := Record{
		Name:         name,
		Address:      dk.Address(),
		EncryptedKey: hex.EncodeToString(ciphertext),
		Salt:         hex.EncodeToString(salt),
		Nonce:        hex.EncodeToString(nonce),
	}
	vf.Records = append(vf.Records, rec)
	if err := s.save(vf); err != nil {
		return nil, err
	}
	s.logger.Info("key added", map[string]interface{}{"name": name, "address": rec.Address})
	return &rec, nil
}

// List returns all records in insertion order.
func (s *Store) List() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vf, err := s.load()
	if err != nil {
		return nil, err
	}
	return vf.Records, nil
}

// Get returns the record with the given name.
func (s *Store) Get(name string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	vf, err := s.load()
	if err != nil {
		return nil, err
	}
	for i := range vf.Records {
		if vf.Records[i].Name == name {
			return &vf.Records[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrNotFound, name)
}

// Decrypt recovers the private key string for name. A wrong password is
// reported identically to a corrupted record.
func (s *Store) Decrypt(name, password string) (string, error) {
	rec, err := s.Get(name)
	if err != nil {
		return "", err
	}
	return decryptRecord(rec, password)
}

// Remove deletes a record, but only after the caller proves possession
// of the vault password by decrypting it.
func (s *Store) Remove(name, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	vf, err := s.load()
	if err != nil {
		return err
	}
	idx := -1
	for i := range vf.Records {
		if vf.Records[i].Name == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if _, err := decryptRecord(&vf.Records[idx], password); err != nil {
		return err
	}

	vf.Records = append(vf.Records[:idx], vf.Records[idx+1:]...)
	if err := s.save(vf); err != nil {
		return err
	}
	s.logger.Info("key removed", map[string]interface{}{"name": name})
	return nil
}

func decryptRecord(rec *Record, password string) (string, error) {
	ciphertext, err := hex.DecodeString(rec.EncryptedKey)
	if err != nil {
		return "", ErrInvalidPassword
	}
	salt, err := hex.DecodeString(rec.Salt)
	if err != nil {
		return "", ErrInvalidPassword
	}
	nonce, err := hex.DecodeString(rec.Nonce)
	if err != nil {
		return "", ErrInvalidPassword
	}
	plaintext, err := decrypt(ciphertext, password, salt, nonce)
	if err != nil {
		return "", ErrInvalidPassword
	}
	return string(plaintext), nil
}

func (s *Store) load() (*vaultFile, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return &vaultFile{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("vault: read %s: %w", s.path, err)
	}
	var vf vaultFile
	if err := json.Unmarshal(data, &vf); err != nil {
		return nil, fmt.Errorf("vault: parse %s: %w", s.path, err)
	}
	return &vf, nil
}

func (s *Store) save(vf *vaultFile) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("vault: create dir: %w", err)
	}
	data, err := json.MarshalIndent(vf, "", "  ")
	if err != nil {
		return err
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("vault: write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("vault: replace %s: %w", s.path, err)
	}
	return nil
}
