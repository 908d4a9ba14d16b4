package vault

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	// KeyIterations is the PBKDF2 round count for the vault key.
	KeyIterations = 100_000

	saltLen  = 16
	nonceLen = 12
	keyLen   = 32
)

var errDecryptFailed = errors.New("vault: decryption failed")

func deriveKey(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, KeyIterations, keyLen, sha256.New)
}

// encrypt seals plaintext under a key derived from password. Salt and
// nonce are freshly random for every call.
func encrypt(plaintext []byte, password string) (ciphertext, salt, nonce []byte, err error) {
	salt = make([]byte, saltLen)
	if _, err = rand.Read(salt); err != nil {
		return nil, nil, nil, fmt.Errorf("vault: salt: %w", err)
	}
	nonce = make([]byte, nonceLen)
	if _, err = rand.Read(nonce); err != nil {
		return nil, nil, nil, fmt.Errorf("vault: nonce: %w", err)
	}

	block, err := aes.NewCipher(deriveKey(password, salt))
	if err != nil {
		return nil, nil, nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, nil, nil, err
	}
	return gcm.Seal(nil, nonce, plaintext, nil), salt, nonce, nil
}

// decrypt reverses encrypt. A wrong password and a corrupted record are
// indistinguishable: both return errDecryptFailed.
func decrypt(ciphertext []byte, password string, salt, nonce []byte) ([]byte, error) {
	// gcm.Open panics on a wrong-sized nonce, so a truncated record must
	// be rejected here, not handed to the cipher.
	if len(salt) != saltLen || len(nonce) != nonceLen {
		return nil, errDecryptFailed
	}
	block, err := aes.NewCipher(deriveKey(password, salt))
	if err != nil {
		return nil, err
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	plaintext, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, errDecryptFailed
	}
	return plaintext, nil
}
