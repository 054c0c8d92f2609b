package credstore

import (
	"context"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/hkdf"
)

// payload is the on-disk layout. The whole blob is encrypted, so the mode
// and the pair live in one file without leaking either.
type payload struct {
	Credentials *Credentials `json:"credentials,omitempty"`
	Mode        string       `json:"mode,omitempty"`
}

// FileStore keeps credentials encrypted at rest in a single file.
//
// The blob is sealed with ChaCha20-Poly1305 under a key derived from the
// device secret via HKDF-SHA256. Writes go through a temp file and rename,
// so a crash mid-write never leaves a half-written pair observable.
type FileStore struct {
	aead cipher.AEAD
	path string
	mu   sync.Mutex
}

// NewFileStore creates a FileStore at path using the given secret.
// The secret must be at least 32 bytes.
func NewFileStore(path string, secret []byte) (*FileStore, error) {
	if len(secret) < 32 {
		return nil, ErrBadSecret
	}

	key := make([]byte, chacha20poly1305.KeySize)
	kdf := hkdf.New(sha256.New, secret, nil, []byte("campus/credstore/v1"))
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, errors.Join(ErrUnavailable, fmt.Errorf("derive key: %w", err))
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, errors.Join(ErrUnavailable, fmt.Errorf("init cipher: %w", err))
	}

	return &FileStore{path: path, aead: aead}, nil
}

// Save overwrites the stored pair atomically.
func (fs *FileStore) Save(ctx context.Context, creds Credentials) error {
	if creds.Username == "" || creds.Password == "" {
		return ErrIncomplete
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	p, err := fs.read()
	if err != nil {
		return err
	}
	p.Credentials = &creds
	return fs.write(p)
}

// Load returns the stored pair or ErrNotFound.
func (fs *FileStore) Load(ctx context.Context) (Credentials, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	p, err := fs.read()
	if err != nil {
		return Credentials{}, err
	}
	if p.Credentials == nil {
		return Credentials{}, ErrNotFound
	}
	return *p.Credentials, nil
}

// Clear removes the stored pair. Idempotent.
func (fs *FileStore) Clear(ctx context.Context) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	p, err := fs.read()
	if err != nil {
		return err
	}
	if p.Credentials == nil && p.Mode == "" {
		// Nothing persisted at all; removing the file keeps the store
		// indistinguishable from a fresh install.
		if err := os.Remove(fs.path); err != nil && !os.IsNotExist(err) {
			return errors.Join(ErrUnavailable, fmt.Errorf("remove %s: %w", fs.path, err))
		}
		return nil
	}
	p.Credentials = nil
	return fs.write(p)
}

// SaveMode persists the last known session mode.
func (fs *FileStore) SaveMode(ctx context.Context, mode string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	p, err := fs.read()
	if err != nil {
		return err
	}
	p.Mode = mode
	return fs.write(p)
}

// LoadMode returns the persisted mode or ErrNotFound.
func (fs *FileStore) LoadMode(ctx context.Context) (string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	p, err := fs.read()
	if err != nil {
		return "", err
	}
	if p.Mode == "" {
		return "", ErrNotFound
	}
	return p.Mode, nil
}

func (fs *FileStore) read() (payload, error) {
	var p payload

	blob, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return p, nil
		}
		return p, errors.Join(ErrUnavailable, fmt.Errorf("read %s: %w", fs.path, err))
	}

	nonceSize := chacha20poly1305.NonceSizeX
	if len(blob) < nonceSize {
		return p, errors.Join(ErrUnavailable, errors.New("blob too short"))
	}

	plain, err := fs.aead.Open(nil, blob[:nonceSize], blob[nonceSize:], nil)
	if err != nil {
		// Wrong secret or corrupted file. Surfaced as unavailable rather
		// than "no credentials" so the caller knows storage is degraded.
		return p, errors.Join(ErrUnavailable, fmt.Errorf("decrypt: %w", err))
	}

	if err := json.Unmarshal(plain, &p); err != nil {
		return p, errors.Join(ErrUnavailable, fmt.Errorf("decode: %w", err))
	}
	return p, nil
}

func (fs *FileStore) write(p payload) error {
	plain, err := json.Marshal(p)
	if err != nil {
		return errors.Join(ErrUnavailable, fmt.Errorf("encode: %w", err))
	}

	nonce := make([]byte, chacha20poly1305.NonceSizeX)
	if _, err := rand.Read(nonce); err != nil {
		return errors.Join(ErrUnavailable, fmt.Errorf("nonce: %w", err))
	}
	blob := fs.aead.Seal(nonce, nonce, plain, nil)

	dir := filepath.Dir(fs.path)
	tmp, err := os.CreateTemp(dir, ".credstore-*")
	if err != nil {
		return errors.Join(ErrUnavailable, fmt.Errorf("create temp: %w", err))
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(blob); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Join(ErrUnavailable, fmt.Errorf("write temp: %w", err))
	}
	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.Join(ErrUnavailable, fmt.Errorf("chmod temp: %w", err))
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.Join(ErrUnavailable, fmt.Errorf("close temp: %w", err))
	}
	if err := os.Rename(tmpName, fs.path); err != nil {
		os.Remove(tmpName)
		return errors.Join(ErrUnavailable, fmt.Errorf("rename: %w", err))
	}
	return nil
}
