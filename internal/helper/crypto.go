package helper

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"log"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const ivLength = aes.BlockSize

// Crypto encrypts resident registration numbers at rest and handles
// password hashing. Encrypt and Decrypt never fail outward: on any error
// they return the input unchanged, so legacy unencrypted rows keep working
// next to encrypted ones.
type Crypto struct {
	secret string
}

func SetupCrypto(secret string) Crypto {
	return Crypto{secret: secret}
}

// key derives a fixed 32-byte AES key from the configured secret:
// the first 32 characters of base64(sha256(secret)).
func (c Crypto) key() []byte {
	sum := sha256.Sum256([]byte(c.secret))
	return []byte(base64.StdEncoding.EncodeToString(sum[:])[:32])
}

// Encrypt returns "hexIV:hexCiphertext" with a fresh random IV per call.
// Empty input is returned as-is.
func (c Crypto) Encrypt(plaintext string) string {
	if plaintext == "" {
		return plaintext
	}

	block, err := aes.NewCipher(c.key())
	if err != nil {
		log.Printf("encrypt error: %v", err)
		return plaintext
	}

	iv := make([]byte, ivLength)
	if _, err := rand.Read(iv); err != nil {
		log.Printf("encrypt error: %v", err)
		return plaintext
	}

	padded := pkcs7Pad([]byte(plaintext), aes.BlockSize)
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(out, padded)

	return hex.EncodeToString(iv) + ":" + hex.EncodeToString(out)
}

// Decrypt reverses Encrypt. Values without the IV delimiter, or values
// that fail to decode or decrypt, are returned unchanged so that plain
// legacy data passes through.
func (c Crypto) Decrypt(text string) string {
	if text == "" {
		return text
	}

	idx := strings.Index(text, ":")
	if idx < 0 {
		return text
	}

	iv, err := hex.DecodeString(text[:idx])
	if err != nil || len(iv) != ivLength {
		return text
	}
	ct, err := hex.DecodeString(text[idx+1:])
	if err != nil || len(ct) == 0 || len(ct)%aes.BlockSize != 0 {
		return text
	}

	block, err := aes.NewCipher(c.key())
	if err != nil {
		return text
	}

	out := make([]byte, len(ct))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(out, ct)

	plain, err := pkcs7Unpad(out, aes.BlockSize)
	if err != nil {
		return text
	}
	return string(plain)
}

func pkcs7Pad(b []byte, blockSize int) []byte {
	pad := blockSize - len(b)%blockSize
	return append(b, bytes.Repeat([]byte{byte(pad)}, pad)...)
}

func pkcs7Unpad(b []byte, blockSize int) ([]byte, error) {
	if len(b) == 0 || len(b)%blockSize != 0 {
		return nil, errors.New("invalid padded length")
	}
	pad := int(b[len(b)-1])
	if pad == 0 || pad > blockSize || pad > len(b) {
		return nil, errors.New("invalid padding")
	}
	for _, v := range b[len(b)-pad:] {
		if int(v) != pad {
			return nil, errors.New("invalid padding")
		}
	}
	return b[:len(b)-pad], nil
}

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", errors.New("failed to hash password")
	}
	return string(hashed), nil
}

// IsHashed reports whether a stored credential is a bcrypt hash rather
// than a legacy plaintext value.
func IsHashed(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") || strings.HasPrefix(stored, "$2b$")
}

// VerifyPassword checks plain against a stored credential. legacy is true
// when the stored value was plaintext and matched; the caller must then
// re-store a hashed credential at its next persistence opportunity.
func VerifyPassword(plain, stored string) (ok bool, legacy bool) {
	if IsHashed(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil, false
	}
	if stored != "" && stored == plain {
		return true, true
	}
	return false, false
}
