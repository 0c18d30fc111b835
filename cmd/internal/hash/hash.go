package hash

import (
	"fmt"
	"github.com/zeebo/xxh3"
)

// Fingerprint returns a short, stable identifier for a document. It is used to correlate
// log lines for the same template or snapshot across runs, not for security.
func Fingerprint(contents []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(contents))
}
