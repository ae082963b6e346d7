package badger

import (
	"github.com/fieldside/playvault/core"
)

// Key prefixes for different data types
const (
	transferPrefix    = "asset"
	fingerprintPrefix = "fp"
)

// makeTransferKey generates a key for a transfer record by source URL.
// The URL is used verbatim; transfer lookups are exact-match only.
func makeTransferKey(sourceURL string) []byte {
	return []byte(transferPrefix + ":" + sourceURL)
}

// makeFingerprintKey generates a key for a markup fingerprint by identity.
func makeFingerprintKey(identity core.Identity) []byte {
	return []byte(fingerprintPrefix + ":" + identity.String())
}
