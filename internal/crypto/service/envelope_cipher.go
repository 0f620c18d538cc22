package service

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"fmt"
	"net/url"
	"strings"

	cryptoDomain "github.com/allisson/wemakepass/internal/crypto/domain"
)

// EnvelopeCipher encrypts short strings (refresh tokens, user ids, passwords) for wire
// transport using AES in CBC mode with PKCS#5 padding.
//
// The IV is static: it comes from configuration and is reused for every message, so
// Encrypt is deterministic and equal plaintexts produce equal ciphertexts. This keeps
// compatibility with existing clients that encrypt with the same fixed key and IV.
//
// Wire format:
//   - Encrypt output is base64 with the URL-safe alphabet and padding.
//   - Decrypt input is first URL-decoded, then accepted in either base64 alphabet,
//     with or without padding.
//
// Thread safety: the cipher holds only immutable state and is safe for concurrent use.
type EnvelopeCipher struct {
	block cipher.Block
	iv    []byte
}

// NewEnvelopeCipher creates an EnvelopeCipher from the process key material.
func NewEnvelopeCipher(keys *cryptoDomain.KeyMaterial) (*EnvelopeCipher, error) {
	key := keys.CipherKey()
	defer cryptoDomain.Zero(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", cryptoDomain.ErrEncryption, err)
	}

	iv := keys.CipherIV()
	if len(iv) != block.BlockSize() {
		return nil, cryptoDomain.ErrInvalidIVSize
	}

	return &EnvelopeCipher{block: block, iv: iv}, nil
}

// Encrypt returns the URL-safe base64 ciphertext of plaintext.
func (e *EnvelopeCipher) Encrypt(plaintext string) (string, error) {
	if e == nil || e.block == nil {
		return "", cryptoDomain.ErrEncryption
	}

	padded := pkcs5Pad([]byte(plaintext), e.block.BlockSize())
	out := make([]byte, len(padded))
	cipher.NewCBCEncrypter(e.block, e.iv).CryptBlocks(out, padded)

	return base64.URLEncoding.EncodeToString(out), nil
}

// Decrypt reverses Encrypt. Any malformed input fails with ErrDecryption.
func (e *EnvelopeCipher) Decrypt(ciphertext string) (string, error) {
	if e == nil || e.block == nil {
		return "", cryptoDomain.ErrDecryption
	}

	raw, err := decodeTransport(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", cryptoDomain.ErrDecryption, err)
	}

	blockSize := e.block.BlockSize()
	if len(raw) == 0 || len(raw)%blockSize != 0 {
		return "", fmt.Errorf("%w: ciphertext is not a whole number of blocks", cryptoDomain.ErrDecryption)
	}

	out := make([]byte, len(raw))
	cipher.NewCBCDecrypter(e.block, e.iv).CryptBlocks(out, raw)

	plaintext, err := pkcs5Unpad(out, blockSize)
	if err != nil {
		return "", fmt.Errorf("%w: %v", cryptoDomain.ErrDecryption, err)
	}

	return string(plaintext), nil
}

// decodeTransport undoes URL encoding and base64 in either alphabet.
func decodeTransport(s string) ([]byte, error) {
	unescaped, err := url.QueryUnescape(s)
	if err != nil {
		return nil, err
	}

	// Query unescaping turns a literal '+' into a space, and base64 never contains spaces.
	unescaped = strings.ReplaceAll(unescaped, " ", "+")
	unescaped = strings.NewReplacer("-", "+", "_", "/").Replace(unescaped)

	if strings.HasSuffix(unescaped, "=") {
		return base64.StdEncoding.DecodeString(unescaped)
	}
	return base64.RawStdEncoding.DecodeString(unescaped)
}

func pkcs5Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(bytes.Clone(data), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs5Unpad(data []byte, blockSize int) ([]byte, error) {
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, fmt.Errorf("invalid padding")
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, fmt.Errorf("invalid padding")
		}
	}
	return data[:len(data)-n], nil
}
