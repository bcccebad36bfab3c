package document

import (
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

// paragraphID derives a stable, content-addressed paragraph id from its
// session and index, rather than relying on a central counter (see
// SPEC_FULL.md "Paragraph id scheme"). This keeps paragraph ids
// reproducible across a rebuild of the same session without needing to
// persist a separate id sequence.
func paragraphID(sessionID string, index int) string {
	sum := blake2b.Sum256([]byte(fmt.Sprintf("%s:%d", sessionID, index)))
	return hex.EncodeToString(sum[:16])
}
