package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"golang.org/x/crypto/argon2"
)

// File layout: [magic (4)] [version (1)] [salt (16)] [nonce (12)] [ciphertext].
// The header up to and including the nonce is authenticated as additional data.
const (
	magicHeader   = "REEL"
	formatVersion = byte(0x01)
	saltLength    = 16
	nonceLength   = 12
	headerLength  = len(magicHeader) + 1 + saltLength + nonceLength
)

// Argon2id parameters (OWASP recommended)
const (
	argon2Time    = 3
	argon2Memory  = 64 * 1024
	argon2Threads = 4
	argon2KeyLen  = 32
)

// ErrCorrupt is returned when the keystore file is not a readable keystore.
var ErrCorrupt = errors.New("keystore: file is corrupt or was written with a different master key")

// FileKeystore implements Keystore as a JSON map encrypted with AES-256-GCM
// under a key derived from the master key with Argon2id.
type FileKeystore struct {
	path      string
	masterKey []byte
	mu        sync.RWMutex
}

// NewFileKeystoreWithSource opens the keystore at path using the key from source.
// The file is created on first Set.
func NewFileKeystoreWithSource(path string, source MasterKeySource) (*FileKeystore, error) {
	masterKey, err := source.GetMasterKey()
	if err != nil {
		return nil, err
	}
	return &FileKeystore{path: path, masterKey: masterKey}, nil
}

// Path returns the file backing the keystore.
func (f *FileKeystore) Path() string { return f.path }

func (f *FileKeystore) Set(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}
	data[name] = value
	return f.save(data)
}

func (f *FileKeystore) Get(name string) (string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := f.load()
	if err != nil {
		return "", err
	}
	value, ok := data[name]
	if !ok {
		return "", &ErrKeyNotFound{Name: name}
	}
	return value, nil
}

func (f *FileKeystore) Delete(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := data[name]; !ok {
		return &ErrKeyNotFound{Name: name}
	}
	delete(data, name)
	return f.save(data)
}

func (f *FileKeystore) List() ([]string, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	data, err := f.load()
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (f *FileKeystore) load() (map[string]string, error) {
	data := make(map[string]string)

	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return data, nil
		}
		return nil, err
	}
	if len(raw) == 0 {
		return data, nil
	}

	plaintext, err := f.decrypt(raw)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(plaintext, &data); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	return data, nil
}

// save writes to a temp file in the same directory and renames it over the
// keystore so a crash never leaves a truncated file.
func (f *FileKeystore) save(data map[string]string) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	plaintext, err := json.Marshal(data)
	if err != nil {
		return err
	}
	sealed, err := f.encrypt(plaintext)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".keys-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return err
	}
	if _, err := tmp.Write(sealed); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmpName, f.path)
}

func (f *FileKeystore) gcm(salt []byte) (cipher.AEAD, error) {
	key := argon2.IDKey(f.masterKey, salt, argon2Time, argon2Memory, argon2Threads, argon2KeyLen)
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func (f *FileKeystore) encrypt(plaintext []byte) ([]byte, error) {
	header := make([]byte, headerLength)
	copy(header, magicHeader)
	header[len(magicHeader)] = formatVersion
	salt := header[len(magicHeader)+1 : len(magicHeader)+1+saltLength]
	nonce := header[len(magicHeader)+1+saltLength:]
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, err
	}

	aead, err := f.gcm(salt)
	if err != nil {
		return nil, err
	}
	return append(header, aead.Seal(nil, nonce, plaintext, header)...), nil
}

func (f *FileKeystore) decrypt(raw []byte) ([]byte, error) {
	if len(raw) < headerLength || string(raw[:len(magicHeader)]) != magicHeader {
		return nil, ErrCorrupt
	}
	if v := raw[len(magicHeader)]; v != formatVersion {
		return nil, fmt.Errorf("keystore: unsupported format version %d", v)
	}

	header := raw[:headerLength]
	salt := header[len(magicHeader)+1 : len(magicHeader)+1+saltLength]
	nonce := header[len(magicHeader)+1+saltLength:]

	aead, err := f.gcm(salt)
	if err != nil {
		return nil, err
	}
	plaintext, err := aead.Open(nil, nonce, raw[headerLength:], header)
	if err != nil {
		return nil, ErrCorrupt
	}
	return plaintext, nil
}

var _ Keystore = (*FileKeystore)(nil)
