package catalog

import (
	"fmt"
	"sort"
	"strings"
)

var (
	categories = []string{"Road", "Trail", "Track", "Apparel", "Accessories"}
	models     = []string{"Glide", "Tempo", "Summit", "Stride", "Pacer", "Ridge", "Vapor", "Drift"}
	firstNames = []string{
		"Ada", "Ben", "Chloe", "Dev", "Elena", "Farid", "Grace", "Hugo", "Ines",
		"Jonah", "Kira", "Luis", "Maya", "Noor", "Otto", "Priya", "Quinn", "Rosa",
		"Sami", "Tariq", "Uma", "Vik", "Wren", "Yara", "Zane",
	}
	lastNames = []string{"Abbott", "Brooks", "Chen", "Diaz", "Evans", "Fischer", "Gupta", "Hale", "Ito"}
)

// SeedProducts returns n deterministic products ordered by name.
func SeedProducts(n int) []Product {
	out := make([]Product, 0, max(n, 0))
	for i := range max(n, 0) {
		model := models[i%len(models)]
		category := categories[(i/len(models))%len(categories)]
		out = append(out, Product{
			ID:         StableID(KindProducts, i),
			Name:       fmt.Sprintf("%s %s %d", model, category, i/(len(models)*len(categories))+1),
			Category:   category,
			PriceCents: int64(4999 + (i*731)%15000),
		})
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}

// SeedContacts returns n deterministic contacts ordered by name.
func SeedContacts(n int) []Contact {
	out := make([]Contact, 0, max(n, 0))
	for i := range max(n, 0) {
		first := firstNames[i%len(firstNames)]
		last := lastNames[(i/len(firstNames))%len(lastNames)]
		name := first + " " + last
		if i >= len(firstNames)*len(lastNames) {
			name = fmt.Sprintf("%s %d", name, i/(len(firstNames)*len(lastNames))+1)
		}
		out = append(out, Contact{
			ID:    StableID(KindContacts, i),
			Name:  name,
			Email: fmt.Sprintf("%s.%s%d@example.com", strings.ToLower(first), strings.ToLower(last), i),
		})
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Name < out[b].Name })
	return out
}
