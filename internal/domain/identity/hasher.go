package identity

// RecoveryCodeHasher produces and checks the slow, salted hash that proves
// possession of a recovery code. The fingerprint only locates the candidate
// row; this hash gates success.
type RecoveryCodeHasher interface {
	// Hash derives a self-describing hash string from a normalized code
	Hash(normalizedCode string) (string, error)

	// Verify checks a normalized code against a stored hash.
	// A mismatch is (false, nil); errors are reserved for malformed
	// hashes and internal failures.
	Verify(normalizedCode, storedHash string) (bool, error)
}
