package enums

import "fmt"

// StorageType tags a shared cart token with where its identity lives.
type StorageType string

const (
	// StorageCookie identities only exist in the issuing browser's cookie jar.
	StorageCookie StorageType = "cookie"
	// StorageDatabase identities were promoted and survive without the issuing session.
	StorageDatabase StorageType = "database"
)

var validStorageTypes = []StorageType{
	StorageCookie,
	StorageDatabase,
}

// String implements fmt.Stringer.
func (s StorageType) String() string {
	return string(s)
}

// IsValid reports whether the value is a known StorageType.
func (s StorageType) IsValid() bool {
	for _, candidate := range validStorageTypes {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseStorageType converts raw input into a StorageType.
func ParseStorageType(value string) (StorageType, error) {
	for _, candidate := range validStorageTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid storage type %q", value)
}
