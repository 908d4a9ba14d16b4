// Package keys derives canonical Sui addresses from ed25519 private keys.
package keys

import (
	"crypto/ed25519"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/bech32"
	"golang.org/x/crypto/blake2b"
)

// Bech32HRP is the human-readable prefix of encoded Sui private keys.
const Bech32HRP = "suiprivkey"

// SchemeED25519 is the signature scheme flag byte for ed25519 keys.
const SchemeED25519 byte = 0x00

const seedLen = 32

var (
	ErrMalformedKey      = errors.New("keys: malformed private key")
	ErrUnsupportedScheme = errors.New("keys: unsupported signature scheme")
)

// DerivedKey is a decoded private key together with its derived identity.
type DerivedKey struct {
	scheme byte
	seed   []byte
	public ed25519.PublicKey
}

// Parse decodes a private key given either as a bech32 string with the
// "suiprivkey" prefix or as 32 hex-encoded bytes (with or without "0x").
// Only the ed25519 scheme is accepted.
func Parse(input string) (*DerivedKey, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return nil, fmt.Errorf("%w: empty input", ErrMalformedKey)
	}

	var scheme byte
	var seed []byte
	switch {
	case strings.HasPrefix(raw, Bech32HRP):
		hrp, words, err := bech32.Decode(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
		}
		if hrp != Bech32HRP {
			return nil, fmt.Errorf("%w: unexpected prefix %q", ErrMalformedKey, hrp)
		}
		data, err := bech32.ConvertBits(words, 5, 8, false)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
		}
		if len(data) != 1+seedLen {
			return nil, fmt.Errorf("%w: expected %d payload bytes, got %d", ErrMalformedKey, 1+seedLen, len(data))
		}
		scheme = data[0]
		seed = data[1:]
	default:
		data, err := hex.DecodeString(strings.TrimPrefix(raw, "0x"))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedKey, err)
		}
		if len(data) != seedLen {
			return nil, fmt.Errorf("%w: expected %d key bytes, got %d", ErrMalformedKey, seedLen, len(data))
		}
		scheme = SchemeED25519
		seed = data
	}

	if scheme != SchemeED25519 {
		return nil, fmt.Errorf("%w: flag 0x%02x", ErrUnsupportedScheme, scheme)
	}

	priv := ed25519.NewKeyFromSeed(seed)
	return &DerivedKey{
		scheme: scheme,
		seed:   seed,
		public: priv.Public().(ed25519.PublicKey),
	}, nil
}

// Address returns the canonical account address: blake2b-256 over the
// scheme flag byte followed by the public key, as 0x-prefixed hex.
func (k *DerivedKey) Address() string {
	h, _ := blake2b.New256(nil)
	h.Write([]byte{k.scheme})
	h.Write(k.public)
	return "0x" + hex.EncodeToString(h.Sum(nil))
}

// PublicKey returns the derived ed25519 public key.
func (k *DerivedKey) PublicKey() ed25519.PublicKey {
	return k.public
}

// Scheme returns the signature scheme flag byte.
func (k *DerivedKey) Scheme() byte {
	return k.scheme
}

// Wipe zeroes the decoded seed material.
func (k *DerivedKey) Wipe() {
	for i := range k.seed {
		k.seed[i] = 0
	}
}
