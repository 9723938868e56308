package core

// Secret wraps an API key or signing secret so it cannot leak through
// fmt, JSON, YAML or structured loggers.
//
//	key := NewSecret("8f3c...e1a9")
//	fmt.Println(key)        // [REDACTED]
//	fmt.Printf("%#v", key)  // core.Secret{[REDACTED]}
//	key.Masked()            // ****e1a9
//	key.Expose()            // 8f3c...e1a9
type Secret struct {
	value string
}

// NewSecret creates a new Secret from a string value.
func NewSecret(value string) Secret {
	return Secret{value: value}
}

// String implements fmt.Stringer with a redacted placeholder.
func (s Secret) String() string {
	return "[REDACTED]"
}

// GoString implements fmt.GoStringer with a redacted placeholder.
func (s Secret) GoString() string {
	return "core.Secret{[REDACTED]}"
}

// MarshalJSON returns a redacted JSON string.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"[REDACTED]"`), nil
}

// MarshalText implements encoding.TextMarshaler with a redacted value.
func (s Secret) MarshalText() ([]byte, error) {
	return []byte("[REDACTED]"), nil
}

// Masked returns the last four characters prefixed with asterisks,
// for display in CLI listings. Values of four characters or fewer are fully masked.
func (s Secret) Masked() string {
	if len(s.value) <= 4 {
		return "****"
	}
	return "****" + s.value[len(s.value)-4:]
}

// Expose returns the actual secret value.
// Only call it where the raw value is required, such as the Authorization header.
func (s Secret) Expose() string {
	return s.value
}

// IsEmpty returns true if the secret value is empty.
func (s Secret) IsEmpty() bool {
	return s.value == ""
}
