// Package idempotency provides the request-hash utility for
// idempotency-keyed mutations; Payments' Authorize is its one caller.
// The ledger row (or authorization row) itself
// is the idempotent record here — there is no separate key-value store
// the way the teacher's postgres_idempotency_repository.go keeps one,
// since every entity in this domain already carries its own unique
// idempotency-key column (client_request_id, idempotency_key).
package idempotency

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// RequestHash computes a stable SHA-256 hash of a request body, for
// services that want to detect a key reused with a different body
// (spec.md §4.1 explicitly does not require this for Edge — "body
// mismatch is not detected" — but Payments' per-call idempotency keys
// benefit from it since a gateway replay must return the identical
// prior result byte-for-byte).
func RequestHash(request interface{}) (string, error) {
	data, err := json.Marshal(request)
	if err != nil {
		return "", fmt.Errorf("marshal request for hashing: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
