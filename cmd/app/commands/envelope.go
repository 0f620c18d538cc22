package commands

import (
	"fmt"
	"io"

	cryptoService "github.com/allisson/wemakepass/internal/crypto/service"
)

// EnvelopeMode selects the direction of RunEnvelope.
type EnvelopeMode string

const (
	EnvelopeEncrypt EnvelopeMode = "encrypt"
	EnvelopeDecrypt EnvelopeMode = "decrypt"
)

// RunEnvelope encrypts or decrypts value with the configured envelope cipher and writes
// the result. Clients use the same transform for login ids, passwords and profile fields.
func RunEnvelope(cipher cryptoService.Cipher, writer io.Writer, mode EnvelopeMode, value string) error {
	if value == "" {
		return fmt.Errorf("a value is required")
	}

	var (
		out string
		err error
	)
	switch mode {
	case EnvelopeEncrypt:
		out, err = cipher.Encrypt(value)
	case EnvelopeDecrypt:
		out, err = cipher.Decrypt(value)
	default:
		return fmt.Errorf("invalid envelope mode: %s", mode)
	}
	if err != nil {
		return fmt.Errorf("failed to %s value: %w", mode, err)
	}

	_, err = fmt.Fprintln(writer, out)
	return err
}
