// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package index

import (
	"encoding/json"
	"fmt"

	"github.com/minio/highwayhash"

	"github.com/pdiddy/outline-engine/pkg/types"
)

// fingerprintKey is the fixed 32-byte HighwayHash key. Changing it
// invalidates every stored fingerprint and forces a full re-index.
var fingerprintKey = []byte("outline-engine-section-index-key")

// Fingerprint returns a stable 64-bit content hash of doc, hex encoded.
func Fingerprint(doc types.StructuredDocument) (string, error) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("marshaling document: %w", err)
	}
	h, err := highwayhash.New64(fingerprintKey)
	if err != nil {
		return "", fmt.Errorf("creating hash: %w", err)
	}
	if _, err := h.Write(data); err != nil {
		return "", fmt.Errorf("hashing document: %w", err)
	}
	return fmt.Sprintf("%016x", h.Sum64()), nil
}
