package saveslot

// Internal hooks for external tests.
var (
	TestDigestSum    = digestSum
	TestDigestVerify = digestVerify
	TestAttachDigest = attachDigest
	TestSplitDigest  = splitDigest

	TestEncrypt = encrypt
	TestDecrypt = decrypt

	TestPkcs7Pad   = pkcs7Pad
	TestPkcs7Unpad = pkcs7Unpad
)

const (
	TestCipherSaltSize = cipherSaltSize
	TestDigestSize     = digestSize
)

// SnapshotDefaultForTest copies the default bucket for comparisons.
func SnapshotDefaultForTest(s *Store) map[string]string {
	return s.snapshotDefault()
}

// SnapshotSlotFileForTest copies a slot file bucket for comparisons.
func SnapshotSlotFileForTest(s *Store, slot, file string) map[string]string {
	return s.snapshotSlotFile(slot, file)
}
