package model

import (
	"encoding/json"
	"fmt"
)

// Category names a list of links in the document.
type Category string

// Link categories, matching the document keys.
const (
	CategoryQuick    Category = "quick"
	CategoryChannels Category = "channels"
	CategorySites    Category = "sites"
)

// Categories lists every category in display order.
var Categories = []Category{CategoryQuick, CategoryChannels, CategorySites}

// ParseCategory maps a document key to a Category.
func ParseCategory(s string) (Category, bool) {
	for _, c := range Categories {
		if string(c) == s {
			return c, true
		}
	}
	return "", false
}

// Link is a titled URL shown as a menu button.
// It is persisted as a two-element JSON array: ["title", "url"].
type Link struct {
	Title string `bson:"title"`
	URL   string `bson:"url"`
}

// MarshalJSON encodes the link as [title, url].
func (l Link) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{l.Title, l.URL})
}

// UnmarshalJSON decodes a [title, url] pair.
func (l *Link) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("link must be a [title, url] pair: %w", err)
	}
	if len(pair) != 2 {
		return fmt.Errorf("link must have exactly 2 elements, got %d", len(pair))
	}
	l.Title, l.URL = pair[0], pair[1]
	return nil
}

// PromoConfig is the persisted state of the promo code campaign.
type PromoConfig struct {
	Enabled bool              `json:"enabled" bson:"enabled"`
	Limit   int               `json:"limit" bson:"limit"`
	Prefix  string            `json:"prefix" bson:"prefix"`
	Winners map[string]string `json:"winners" bson:"winners"`
}

// Remaining returns how many codes can still be issued.
func (p *PromoConfig) Remaining() int {
	return max(0, p.Limit-len(p.Winners))
}

// CodeInUse reports whether code has already been issued to someone.
func (p *PromoConfig) CodeInUse(code string) bool {
	for _, c := range p.Winners {
		if c == code {
			return true
		}
	}
	return false
}

// Document is the whole persisted bot state. It is always read and written as a unit.
type Document struct {
	Quick    []Link      `json:"quick" bson:"quick"`
	Channels []Link      `json:"channels" bson:"channels"`
	Sites    []Link      `json:"sites" bson:"sites"`
	Promo    PromoConfig `json:"promo" bson:"promo"`
	Users    []int64     `json:"users" bson:"users"`
}

// Links returns the links of the given category.
func (d *Document) Links(c Category) []Link {
	switch c {
	case CategoryQuick:
		return d.Quick
	case CategoryChannels:
		return d.Channels
	case CategorySites:
		return d.Sites
	}
	return nil
}

// SetLinks replaces the links of the given category.
func (d *Document) SetLinks(c Category, links []Link) {
	switch c {
	case CategoryQuick:
		d.Quick = links
	case CategoryChannels:
		d.Channels = links
	case CategorySites:
		d.Sites = links
	}
}

// Normalize fills missing collections so a partially written document behaves
// like a complete one.
func (d *Document) Normalize() {
	if d.Quick == nil {
		d.Quick = []Link{}
	}
	if d.Channels == nil {
		d.Channels = []Link{}
	}
	if d.Sites == nil {
		d.Sites = []Link{}
	}
	if d.Users == nil {
		d.Users = []int64{}
	}
	if d.Promo.Winners == nil {
		d.Promo.Winners = map[string]string{}
	}
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := &Document{
		Quick:    append([]Link{}, d.Quick...),
		Channels: append([]Link{}, d.Channels...),
		Sites:    append([]Link{}, d.Sites...),
		Users:    append([]int64{}, d.Users...),
		Promo: PromoConfig{
			Enabled: d.Promo.Enabled,
			Limit:   d.Promo.Limit,
			Prefix:  d.Promo.Prefix,
			Winners: make(map[string]string, len(d.Promo.Winners)),
		},
	}
	for k, v := range d.Promo.Winners {
		c.Promo.Winners[k] = v
	}
	return c
}

// Defaults used when no document has been persisted yet.
var (
	DefaultChannels = []Link{
		{Title: "🔥 Lotus Private", URL: "https://t.me/lotusprivate"},
		{Title: "🎥 Lotus Private Live", URL: "https://t.me/lotusprivatelive"},
		{Title: "🤖 Lotus Private Bot", URL: "https://t.me/LotusPrivateBot"},
	}

	DefaultSites = []Link{
		{Title: "🌐 bio.site/lotusprivate.com", URL: "https://bio.site/lotusprivate.com"},
		{Title: "🌐 bio.site/lotussiteler.com", URL: "https://bio.site/lotussiteler.com"},
	}
)

// Promo campaign defaults.
const (
	DefaultPromoLimit  = 100
	DefaultPromoPrefix = "LP"
)

// NewDefaultDocument builds the first-run document with the given promo settings.
func NewDefaultDocument(promo PromoConfig) *Document {
	doc := &Document{
		Quick:    []Link{},
		Channels: append([]Link{}, DefaultChannels...),
		Sites:    append([]Link{}, DefaultSites...),
		Promo:    promo,
		Users:    []int64{},
	}
	doc.Normalize()
	return doc
}
