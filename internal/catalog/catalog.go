// Package catalog defines the demo data sets served and browsed by lister:
// a storefront product catalog and a contacts book.
package catalog

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Kind selects a data set.
type Kind string

const (
	KindProducts Kind = "products"
	KindContacts Kind = "contacts"
)

// Kinds lists every data set in display order.
var Kinds = []Kind{KindProducts, KindContacts}

// ParseKind accepts a data set name, case-insensitively.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindProducts:
		return KindProducts, nil
	case KindContacts:
		return KindContacts, nil
	}
	return "", fmt.Errorf("unknown list %q (want products or contacts)", s)
}

// Product is a storefront catalog entry.
type Product struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category"`
	PriceCents int64  `json:"priceCents"`
}

// ItemID implements pager.Item.
func (p Product) ItemID() string { return p.ID }

// Price formats PriceCents as dollars.
func (p Product) Price() string {
	return fmt.Sprintf("$%d.%02d", p.PriceCents/100, p.PriceCents%100)
}

// Contact is an address book entry.
type Contact struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// ItemID implements pager.Item.
func (c Contact) ItemID() string { return c.ID }

// Initial is the section key for the contact: its uppercased first letter,
// or "#" when the name does not start with an ASCII letter.
func (c Contact) Initial() string {
	name := strings.TrimSpace(c.Name)
	if name == "" {
		return "#"
	}
	r := name[0]
	if r >= 'a' && r <= 'z' {
		r -= 'a' - 'A'
	}
	if r < 'A' || r > 'Z' {
		return "#"
	}
	return string(r)
}

// Section is a run of contacts sharing an initial.
type Section struct {
	Title    string
	Contacts []Contact
}

// Sections groups contacts by Initial. Sections appear in order of first
// occurrence and contacts keep their relative order.
func Sections(contacts []Contact) []Section {
	if len(contacts) == 0 {
		return nil
	}
	var out []Section
	pos := make(map[string]int)
	for _, c := range contacts {
		key := c.Initial()
		i, ok := pos[key]
		if !ok {
			i = len(out)
			pos[key] = i
			out = append(out, Section{Title: key})
		}
		out[i].Contacts = append(out[i].Contacts, c)
	}
	return out
}

var namespace = uuid.MustParse("6f1c2b9e-3d4a-4f0e-9c61-2a7b5d8e0f13")

// StableID derives a deterministic id for the n-th record of a data set.
func StableID(kind Kind, n int) string {
	return uuid.NewSHA1(namespace, []byte(fmt.Sprintf("%s/%d", kind, n))).String()
}
