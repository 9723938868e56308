package keystore

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

func newTestKeystore(t *testing.T) *FileKeystore {
	t.Helper()
	ks, err := NewFileKeystoreWithSource(filepath.Join(t.TempDir(), "keys.enc"), StaticSource("test-master-key"))
	if err != nil {
		t.Fatalf("NewFileKeystoreWithSource() error = %v", err)
	}
	return ks
}

func TestFileKeystoreSetAndGet(t *testing.T) {
	ks := newTestKeystore(t)

	if err := ks.Set("synthesia", "sk-test-key-12345"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	value, err := ks.Get("synthesia")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if value != "sk-test-key-12345" {
		t.Errorf("Get() = %q, want sk-test-key-12345", value)
	}
}

func TestFileKeystoreGetNotFound(t *testing.T) {
	ks := newTestKeystore(t)

	_, err := ks.Get("nonexistent")

	var notFound *ErrKeyNotFound
	if !errors.As(err, &notFound) {
		t.Fatalf("Get() error = %v, want *ErrKeyNotFound", err)
	}
	if notFound.Name != "nonexistent" {
		t.Errorf("Name = %q", notFound.Name)
	}
}

func TestFileKeystoreDelete(t *testing.T) {
	ks := newTestKeystore(t)

	if err := ks.Set("staging", "sk-staging"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := ks.Delete("staging"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var notFound *ErrKeyNotFound
	if _, err := ks.Get("staging"); !errors.As(err, &notFound) {
		t.Error("Get() should return ErrKeyNotFound after Delete()")
	}
	if err := ks.Delete("staging"); !errors.As(err, &notFound) {
		t.Error("second Delete() should return ErrKeyNotFound")
	}
}

func TestFileKeystoreList(t *testing.T) {
	ks := newTestKeystore(t)

	names, err := ks.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(names) != 0 {
		t.Errorf("List() on new keystore = %v, want empty", names)
	}

	for _, name := range []string{"prod", "dev", "staging"} {
		if err := ks.Set(name, "sk-"+name); err != nil {
			t.Fatalf("Set(%s) error = %v", name, err)
		}
	}

	names, err = ks.List()
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if strings.Join(names, ",") != "dev,prod,staging" {
		t.Errorf("List() = %v, want sorted [dev prod staging]", names)
	}
}

func TestFileKeystorePersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.enc")
	source := StaticSource("shared")

	ks1, _ := NewFileKeystoreWithSource(path, source)
	if err := ks1.Set("synthesia", "sk-persisted"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	ks2, _ := NewFileKeystoreWithSource(path, source)
	value, err := ks2.Get("synthesia")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if value != "sk-persisted" {
		t.Errorf("Get() = %q, want sk-persisted", value)
	}
}

func TestFileKeystoreWrongMasterKey(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keys.enc")

	ks1, _ := NewFileKeystoreWithSource(path, StaticSource("right"))
	if err := ks1.Set("synthesia", "sk-secret"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	ks2, _ := NewFileKeystoreWithSource(path, StaticSource("wrong"))
	if _, err := ks2.Get("synthesia"); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Get() error = %v, want ErrCorrupt", err)
	}
}

func TestFileKeystoreRejectsForeignFile(t *testing.T) {
	ks := newTestKeystore(t)
	if err := os.WriteFile(ks.Path(), []byte("ABCD\x02not-a-reel-keystore-at-all-padding"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := ks.List(); !errors.Is(err, ErrCorrupt) {
		t.Errorf("List() error = %v, want ErrCorrupt", err)
	}
}

func TestFileKeystoreTamperedHeader(t *testing.T) {
	ks := newTestKeystore(t)
	if err := ks.Set("synthesia", "sk-secret"); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(ks.Path())
	if err != nil {
		t.Fatal(err)
	}
	raw[len(magicHeader)+1] ^= 0xff // flip a salt byte
	if err := os.WriteFile(ks.Path(), raw, 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := ks.Get("synthesia"); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Get() error = %v, want ErrCorrupt", err)
	}
}

func TestFileKeystoreEncrypted(t *testing.T) {
	ks := newTestKeystore(t)
	if err := ks.Set("synthesia", "sk-plaintext-marker"); err != nil {
		t.Fatal(err)
	}

	raw, err := os.ReadFile(ks.Path())
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(raw, []byte(magicHeader)) {
		t.Errorf("file does not start with %q", magicHeader)
	}
	if bytes.Contains(raw, []byte("sk-plaintext-marker")) {
		t.Error("keystore file contains plaintext secret")
	}
}

func TestFileKeystoreFilePermissions(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("file permissions differ on Windows")
	}
	ks := newTestKeystore(t)
	if err := ks.Set("synthesia", "sk"); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(ks.Path())
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0600 {
		t.Errorf("file permissions = %o, want 0600", perm)
	}

	entries, _ := os.ReadDir(filepath.Dir(ks.Path()))
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the keystore", len(entries))
	}
}

func TestFileKeystoreCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "keys.enc")
	ks, _ := NewFileKeystoreWithSource(path, StaticSource("k"))

	if err := ks.Set("synthesia", "sk"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("keystore file not created: %v", err)
	}
}

func TestMasterKeySources(t *testing.T) {
	t.Run("env passphrase", func(t *testing.T) {
		t.Setenv(MasterKeyEnv, "correct horse")
		key, err := EnvSource{}.GetMasterKey()
		if err != nil || string(key) != "correct horse" {
			t.Errorf("GetMasterKey() = %q, %v", key, err)
		}
	})

	t.Run("env hex", func(t *testing.T) {
		t.Setenv(MasterKeyEnv, strings.Repeat("ab", 32))
		key, err := EnvSource{}.GetMasterKey()
		if err != nil || len(key) != 32 || key[0] != 0xab {
			t.Errorf("GetMasterKey() = %x, %v", key, err)
		}
	})

	t.Run("env unset", func(t *testing.T) {
		t.Setenv(MasterKeyEnv, "")
		if _, err := (EnvSource{}).GetMasterKey(); !errors.Is(err, ErrNoMasterKey) {
			t.Errorf("err = %v, want ErrNoMasterKey", err)
		}
	})

	t.Run("static empty", func(t *testing.T) {
		if _, err := StaticSource(nil).GetMasterKey(); !errors.Is(err, ErrNoMasterKey) {
			t.Errorf("err = %v, want ErrNoMasterKey", err)
		}
	})

	t.Run("machine is stable", func(t *testing.T) {
		a, _ := MachineSource{}.GetMasterKey()
		b, _ := MachineSource{}.GetMasterKey()
		if len(a) != 32 || !bytes.Equal(a, b) {
			t.Errorf("machine keys differ or wrong length: %x %x", a, b)
		}
	})

	t.Run("chain prefers env", func(t *testing.T) {
		t.Setenv(MasterKeyEnv, "from-env")
		key, err := DefaultMasterKeySource().GetMasterKey()
		if err != nil || string(key) != "from-env" {
			t.Errorf("GetMasterKey() = %q, %v", key, err)
		}
	})

	t.Run("chain falls back", func(t *testing.T) {
		t.Setenv(MasterKeyEnv, "")
		key, err := DefaultMasterKeySource().GetMasterKey()
		machine, _ := MachineSource{}.GetMasterKey()
		if err != nil || !bytes.Equal(key, machine) {
			t.Errorf("GetMasterKey() = %x, %v", key, err)
		}
	})

	t.Run("chain exhausted", func(t *testing.T) {
		if _, err := (ChainSource{StaticSource(nil)}).GetMasterKey(); !errors.Is(err, ErrNoMasterKey) {
			t.Errorf("err = %v, want ErrNoMasterKey", err)
		}
	})
}

func TestDefaultKeystorePath(t *testing.T) {
	t.Setenv("HOME", "/home/reel")

	path := DefaultKeystorePath()
	if filepath.Base(path) != "keys.enc" || filepath.Base(filepath.Dir(path)) != ".reel" {
		t.Errorf("DefaultKeystorePath() = %q, want ~/.reel/keys.enc", path)
	}
}

func TestMemoryKeystore(t *testing.T) {
	ks := NewMemoryKeystore()
	_ = ks.Set("b", "2")
	_ = ks.Set("a", "1")

	if v, err := ks.Get("a"); err != nil || v != "1" {
		t.Errorf("Get(a) = %q, %v", v, err)
	}
	names, _ := ks.List()
	if strings.Join(names, ",") != "a,b" {
		t.Errorf("List() = %v", names)
	}
	if err := ks.Delete("a"); err != nil {
		t.Errorf("Delete(a) error = %v", err)
	}
	var notFound *ErrKeyNotFound
	if err := ks.Delete("a"); !errors.As(err, &notFound) {
		t.Errorf("Delete(a) again = %v", err)
	}
}

func TestErrKeyNotFoundError(t *testing.T) {
	err := &ErrKeyNotFound{Name: "synthesia"}
	if err.Error() != "key not found: synthesia" {
		t.Errorf("Error() = %q", err.Error())
	}
}
