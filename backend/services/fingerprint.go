// ABOUTME: Stable fingerprint of an analysis request
// ABOUTME: Used as the result cache key so identical payloads share one computation

package services

import (
	"fmt"

	"github.com/mitchellh/hashstructure/v2"

	"github.com/markalston/cluster-efficiency-analyzer/backend/models"
)

// Fingerprint hashes every field of the request, including which optional
// fields are present, into a 16-digit hex key.
func Fingerprint(req models.AnalyzeRequest) (string, error) {
	h, err := hashstructure.Hash(req, hashstructure.FormatV2, nil)
	if err != nil {
		return "", fmt.Errorf("fingerprinting request: %w", err)
	}
	return fmt.Sprintf("%016x", h), nil
}
