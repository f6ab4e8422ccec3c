package sharetoken

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/glazeworks/window-storefront/pkg/enums"
)

// QueryParam is the page query parameter carrying an encoded token.
const QueryParam = "cart"

var (
	ErrEmpty         = errors.New("share token is empty")
	ErrMissingCartID = errors.New("share token has no cart id")
)

// Token bundles a cart identity with when it was shared and where it lives.
type Token struct {
	CartID      string            `json:"cartId"`
	Timestamp   int64             `json:"timestamp"`
	StorageType enums.StorageType `json:"storageType"`
}

// New builds a token stamped with now in unix milliseconds.
func New(cartID string, storage enums.StorageType, now time.Time) Token {
	return Token{
		CartID:      cartID,
		Timestamp:   now.UnixMilli(),
		StorageType: storage,
	}
}

// Durable reports whether the referenced cart survives without the issuing session.
func (t Token) Durable() bool {
	return t.StorageType == enums.StorageDatabase
}

// Encode returns the standard-alphabet base64 of the token's JSON form. The
// result still needs query escaping before it goes into a URL.
func Encode(t Token) (string, error) {
	if strings.TrimSpace(t.CartID) == "" {
		return "", ErrMissingCartID
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return "", fmt.Errorf("marshal share token: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// Decode parses an encoded token. Standard and URL-safe alphabets are
// accepted, with or without padding.
func Decode(value string) (Token, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return Token{}, ErrEmpty
	}

	raw, err := decodeBase64(value)
	if err != nil {
		return Token{}, fmt.Errorf("decode share token: %w", err)
	}

	var tok Token
	if err := json.Unmarshal(raw, &tok); err != nil {
		return Token{}, fmt.Errorf("parse share token: %w", err)
	}
	if strings.TrimSpace(tok.CartID) == "" {
		return Token{}, ErrMissingCartID
	}
	// unknown tags are treated as single-browser shares
	if !tok.StorageType.IsValid() {
		tok.StorageType = enums.StorageCookie
	}
	return tok, nil
}

func decodeBase64(value string) ([]byte, error) {
	// a "+" that went through query decoding arrives as a space
	value = strings.ReplaceAll(value, " ", "+")
	trimmed := strings.TrimRight(value, "=")

	encodings := []*base64.Encoding{
		base64.RawStdEncoding,
		base64.RawURLEncoding,
	}
	var lastErr error
	for _, enc := range encodings {
		raw, err := enc.DecodeString(trimmed)
		if err == nil {
			return raw, nil
		}
		lastErr = err
	}
	return nil, lastErr
}
