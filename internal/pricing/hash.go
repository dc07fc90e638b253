package pricing

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/feastly-app/feastly-backend/pkg/types"
)

// ContentHash returns a hex SHA-256 over the summary's canonical JSON form.
// The hash field itself is excluded, so hashing is idempotent: a summary and
// a copy that already carries its hash produce the same digest. Lines are
// assumed to be in their canonical sort order (PriceCart guarantees this).
func ContentHash(summary *types.CartSummary) (string, error) {
	if summary == nil {
		return "", fmt.Errorf("summary is required")
	}
	clone := *summary
	clone.ContentHash = ""
	payload, err := json.Marshal(clone)
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}
	digest := sha256.Sum256(payload)
	return hex.EncodeToString(digest[:]), nil
}
