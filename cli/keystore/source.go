package keystore

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"os"
)

// MasterKeyEnv overrides the machine-derived master key.
const MasterKeyEnv = "REEL_MASTER_KEY"

// ErrNoMasterKey is returned when a source has no key to offer.
var ErrNoMasterKey = errors.New("keystore: no master key available")

// MasterKeySource supplies the secret that file encryption keys are derived from.
type MasterKeySource interface {
	GetMasterKey() ([]byte, error)
}

// EnvSource reads the master key from an environment variable.
// A 64-character hex value is decoded; anything else is used as a passphrase.
type EnvSource struct {
	Var string
}

func (s EnvSource) GetMasterKey() ([]byte, error) {
	name := s.Var
	if name == "" {
		name = MasterKeyEnv
	}
	v := os.Getenv(name)
	if v == "" {
		return nil, ErrNoMasterKey
	}
	if len(v) == 64 {
		if b, err := hex.DecodeString(v); err == nil {
			return b, nil
		}
	}
	return []byte(v), nil
}

// StaticSource returns a fixed key.
type StaticSource []byte

func (s StaticSource) GetMasterKey() ([]byte, error) {
	if len(s) == 0 {
		return nil, ErrNoMasterKey
	}
	return []byte(s), nil
}

// MachineSource derives a key from the hostname and user name. It keeps keys
// off disk in plaintext but anyone on the same account can reproduce it;
// set REEL_MASTER_KEY for stronger protection.
type MachineSource struct{}

func (MachineSource) GetMasterKey() ([]byte, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	username := os.Getenv("USER")
	if username == "" {
		username = os.Getenv("USERNAME")
	}
	sum := sha256.Sum256([]byte(hostname + ":" + username + ":reel-keystore"))
	return sum[:], nil
}

// ChainSource returns the first key any of its sources provides.
type ChainSource []MasterKeySource

func (c ChainSource) GetMasterKey() ([]byte, error) {
	for _, s := range c {
		key, err := s.GetMasterKey()
		if errors.Is(err, ErrNoMasterKey) {
			continue
		}
		return key, err
	}
	return nil, ErrNoMasterKey
}

// DefaultMasterKeySource prefers REEL_MASTER_KEY and falls back to MachineSource.
func DefaultMasterKeySource() MasterKeySource {
	return ChainSource{EnvSource{Var: MasterKeyEnv}, MachineSource{}}
}
