package saveslot

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"fmt"
	"io"

	"golang.org/x/crypto/pbkdf2"
)

// Encrypted save files are AES-256-CBC with PKCS#7 padding. With a
// non-empty password the key and IV are derived via PBKDF2-SHA256 from the
// password and a fresh random salt; the salt is prepended to the
// ciphertext so the payload is self-describing:
//
//	<16-byte salt><ciphertext>
//
// With an empty password a fixed key and IV are used and no salt is
// written. That fallback is deliberately weak and exists only so archives
// written without a password remain readable; anything worth protecting
// needs a real password.
const (
	cipherSaltSize   = 16
	cipherKeySize    = 32
	cipherIterations = 10_000
	// cipherChunkSize bounds memory while streaming; must be a multiple
	// of the AES block size.
	cipherChunkSize = 4096
)

// Fixed key material for the empty-password fallback. Compatibility shim,
// not a secret.
var (
	fallbackKey = []byte("saveslot.fallback.aes.key.v1...!")
	fallbackIV  = []byte("saveslot.iv.v1.!")
)

// deriveKeyIV produces the AES key and CBC IV for a password and salt.
// An empty password selects the fixed fallback material and ignores salt.
func deriveKeyIV(password string, salt []byte) (key, iv []byte, err error) {
	if password == "" {
		return fallbackKey, fallbackIV, nil
	}

	// One derivation covers both key and IV.
	material := pbkdf2.Key([]byte(password), salt, cipherIterations, cipherKeySize+aes.BlockSize, sha256.New)

	return material[:cipherKeySize], material[cipherKeySize:], nil
}

// encryptStream encrypts src to dst in fixed-size chunks.
//
// When password is non-empty a fresh salt is generated and written first.
func encryptStream(dst io.Writer, src io.Reader, password string) error {
	var salt []byte

	if password != "" {
		salt = make([]byte, cipherSaltSize)
		if _, err := rand.Read(salt); err != nil {
			return fmt.Errorf("generate salt: %w", err)
		}

		if _, err := dst.Write(salt); err != nil {
			return fmt.Errorf("write salt: %w", err)
		}
	}

	key, iv, err := deriveKeyIV(password, salt)
	if err != nil {
		return err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("init cipher: %w", err)
	}

	mode := cipher.NewCBCEncrypter(block, iv)

	buf := make([]byte, cipherChunkSize)

	// rem carries the sub-block tail of each chunk into the next one.
	rem := make([]byte, 0, aes.BlockSize)

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			data := append(rem, buf[:n]...) //nolint:gocritic // rem is rebuilt below
			whole := len(data) - len(data)%aes.BlockSize

			if whole > 0 {
				mode.CryptBlocks(data[:whole], data[:whole])

				if _, err := dst.Write(data[:whole]); err != nil {
					return fmt.Errorf("write ciphertext: %w", err)
				}
			}

			rem = append(rem[:0], data[whole:]...)
		}

		if readErr == io.EOF {
			break
		}

		if readErr != nil {
			return fmt.Errorf("read plaintext: %w", readErr)
		}
	}

	// Final block always exists: PKCS#7 pads empty input to one block.
	final := pkcs7Pad(rem, aes.BlockSize)
	mode.CryptBlocks(final, final)

	if _, err := dst.Write(final); err != nil {
		return fmt.Errorf("write ciphertext: %w", err)
	}

	return nil
}

// decryptStream decrypts src to dst in fixed-size chunks.
//
// When password is non-empty the fixed-length salt is read first and the
// key re-derived from it. Truncated or misaligned payloads and bad padding
// all surface as [ErrDecrypt].
func decryptStream(dst io.Writer, src io.Reader, password string) error {
	var salt []byte

	if password != "" {
		salt = make([]byte, cipherSaltSize)
		if _, err := io.ReadFull(src, salt); err != nil {
			return fmt.Errorf("%w: payload shorter than salt", ErrDecrypt)
		}
	}

	key, iv, err := deriveKeyIV(password, salt)
	if err != nil {
		return err
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return fmt.Errorf("init cipher: %w", err)
	}

	mode := cipher.NewCBCDecrypter(block, iv)

	buf := make([]byte, cipherChunkSize)

	// hold retains at least one trailing block until EOF so the padding
	// block is never flushed early.
	hold := make([]byte, 0, cipherChunkSize+aes.BlockSize)

	for {
		n, readErr := src.Read(buf)
		if n > 0 {
			hold = append(hold, buf[:n]...)

			if keep := len(hold) - aes.BlockSize; keep > 0 {
				whole := keep - keep%aes.BlockSize
				if whole > 0 {
					mode.CryptBlocks(hold[:whole], hold[:whole])

					if _, err := dst.Write(hold[:whole]); err != nil {
						return fmt.Errorf("write plaintext: %w", err)
					}

					hold = append(hold[:0], hold[whole:]...)
				}
			}
		}

		if readErr == io.EOF {
			break
		}

		if readErr != nil {
			return fmt.Errorf("read ciphertext: %w", readErr)
		}
	}

	if len(hold) == 0 || len(hold)%aes.BlockSize != 0 {
		return fmt.Errorf("%w: ciphertext not block-aligned", ErrDecrypt)
	}

	mode.CryptBlocks(hold, hold)

	tail, err := pkcs7Unpad(hold, aes.BlockSize)
	if err != nil {
		return err
	}

	if _, err := dst.Write(tail); err != nil {
		return fmt.Errorf("write plaintext: %w", err)
	}

	return nil
}

// encrypt is the whole-payload convenience wrapper over [encryptStream].
func encrypt(plaintext []byte, password string) ([]byte, error) {
	var out bytes.Buffer

	if err := encryptStream(&out, bytes.NewReader(plaintext), password); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// decrypt is the whole-payload convenience wrapper over [decryptStream].
func decrypt(payload []byte, password string) ([]byte, error) {
	var out bytes.Buffer

	if err := decryptStream(&out, bytes.NewReader(payload), password); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

// pkcs7Pad returns data padded to a multiple of blockSize.
// Always appends at least one byte.
func pkcs7Pad(data []byte, blockSize int) []byte {
	pad := blockSize - len(data)%blockSize

	out := make([]byte, len(data)+pad)
	copy(out, data)

	for i := len(data); i < len(out); i++ {
		out[i] = byte(pad)
	}

	return out
}

// pkcs7Unpad strips and validates PKCS#7 padding.
// Invalid padding means the wrong key was used or the data was mangled,
// so it surfaces as [ErrDecrypt].
func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, fmt.Errorf("%w: bad padded length", ErrDecrypt)
	}

	pad := int(data[len(data)-1])
	if pad == 0 || pad > blockSize {
		return nil, fmt.Errorf("%w: bad padding", ErrDecrypt)
	}

	for _, b := range data[len(data)-pad:] {
		if int(b) != pad {
			return nil, fmt.Errorf("%w: bad padding", ErrDecrypt)
		}
	}

	return data[:len(data)-pad], nil
}
