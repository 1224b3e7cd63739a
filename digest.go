package saveslot

import (
	"bytes"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// Save files carry an optional integrity line ahead of the JSON body:
//
//	<hex-sha256-of-body>\n<json-body>
//
// The digest is computed over the plaintext body, before encryption, and is
// stored hex-encoded so the payload stays valid text for every possible
// hash value.

const digestSep = byte('\n')

// digestSize is the length of the hex-encoded SHA-256 line.
const digestSize = sha256.Size * 2

// digestSum returns the lowercase hex SHA-256 of body.
func digestSum(body []byte) string {
	sum := sha256.Sum256(body)

	return hex.EncodeToString(sum[:])
}

// digestVerify recomputes the digest of body and compares it to want in
// constant time.
func digestVerify(body []byte, want string) bool {
	got := digestSum(body)
	if len(got) != len(want) {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(got), []byte(want)) == 1
}

// attachDigest prepends the digest line to body.
func attachDigest(body []byte) []byte {
	out := make([]byte, 0, digestSize+1+len(body))
	out = append(out, digestSum(body)...)
	out = append(out, digestSep)
	out = append(out, body...)

	return out
}

// splitDigest separates the digest line from the body of a hashed payload.
func splitDigest(payload []byte) (digest string, body []byte, err error) {
	idx := bytes.IndexByte(payload, digestSep)
	if idx != digestSize {
		return "", nil, fmt.Errorf("%w: missing digest line", ErrCorrupt)
	}

	return string(payload[:idx]), payload[idx+1:], nil
}
