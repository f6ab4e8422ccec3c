package identity

import "github.com/glazeworks/window-storefront/pkg/enums"

// Source records how an identity was obtained.
type Source string

const (
	SourceCookie   Source = "cookie"
	SourceSession  Source = "session"
	SourceShared   Source = "shared"
	SourceFallback Source = "fallback"
)

// Identity is the cart identifier active for one page load.
type Identity struct {
	ID          string
	Source      Source
	StorageType enums.StorageType
}

// Durable reports whether the cart can be reopened without the issuing
// session: cookie-backed identities and database-tagged shares.
func (i Identity) Durable() bool {
	switch i.Source {
	case SourceCookie:
		return true
	case SourceShared:
		return i.StorageType == enums.StorageDatabase
	default:
		return false
	}
}

// NeedsPromotion reports whether the cart must be saved server-side before
// it can be shared.
func (i Identity) NeedsPromotion() bool {
	return i.Source == SourceSession || i.Source == SourceFallback
}

// ShareStorageType is the tag a share link for this identity carries when
// no promotion happens.
func (i Identity) ShareStorageType() enums.StorageType {
	if i.Source == SourceShared && i.StorageType.IsValid() {
		return i.StorageType
	}
	return enums.StorageCookie
}
