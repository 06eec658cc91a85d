package utils

// MaskRecoveryCode masks a recovery code for safe logging.
// Example: "AB3DE-FGH4J-KLMN5-PQRS6" -> "AB3**-*****-*****-*****"
func MaskRecoveryCode(code string) string {
	if len(code) <= 3 {
		return "***"
	}
	masked := []byte(code)
	for i := 3; i < len(masked); i++ {
		if masked[i] != '-' {
			masked[i] = '*'
		}
	}
	return string(masked)
}

// MaskFingerprint keeps the first 8 hex characters of a fingerprint so
// related log lines can still be correlated.
func MaskFingerprint(fp string) string {
	if len(fp) <= 8 {
		return fp
	}
	return fp[:8] + "..."
}
