package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// EncodeDocument serialises the document as indented JSON, keeping non-ASCII text as-is.
func EncodeDocument(doc *Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeDocument parses a persisted document. Missing link lists load as empty
// and a missing promo section loads as defaultPromo, so files written before the
// campaign existed keep working.
func DecodeDocument(data []byte, defaultPromo PromoConfig) (*Document, error) {
	var raw struct {
		Quick    []Link       `json:"quick"`
		Channels []Link       `json:"channels"`
		Sites    []Link       `json:"sites"`
		Promo    *PromoConfig `json:"promo"`
		Users    []int64      `json:"users"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}

	doc := &Document{
		Quick:    raw.Quick,
		Channels: raw.Channels,
		Sites:    raw.Sites,
		Users:    raw.Users,
		Promo:    defaultPromo,
	}
	if raw.Promo != nil {
		doc.Promo = *raw.Promo
	}
	doc.Normalize()
	return doc, nil
}
