// Package models fetches the OpenRouter model catalog, caches it on disk and
// formats it for listing.
package models

import (
	"encoding/json"
	"fmt"
)

// Pricing carries OpenRouter's per-token prices, which arrive as decimal
// strings.
type Pricing struct {
	Prompt     string `json:"prompt"`
	Completion string `json:"completion"`
}

// Model is one catalog entry.
type Model struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	ContextLength int     `json:"context_length"`
	Pricing       Pricing `json:"pricing"`
	Description   string  `json:"description"`
}

// parseCatalog accepts both the {"data": [...]} envelope and a bare array.
func parseCatalog(raw []byte) ([]Model, error) {
	var envelope struct {
		Data []Model `json:"data"`
	}
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Data != nil {
		return envelope.Data, nil
	}

	var list []Model
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("parsing model catalog: %w", err)
	}

	return list, nil
}
