package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	k, err := ParseKind("  Products ")
	require.NoError(t, err)
	assert.Equal(t, KindProducts, k)

	k, err = ParseKind("contacts")
	require.NoError(t, err)
	assert.Equal(t, KindContacts, k)

	_, err = ParseKind("orders")
	assert.ErrorContains(t, err, "unknown list")
}

func TestContactInitial(t *testing.T) {
	cases := map[string]string{
		"ada":    "A",
		"Zane":   "Z",
		" maya ": "M",
		"42 Bot": "#",
		"":       "#",
		"élodie": "#",
	}
	for name, want := range cases {
		assert.Equal(t, want, Contact{Name: name}.Initial(), "Initial(%q)", name)
	}
}

func TestSections_GroupsInFirstSeenOrder(t *testing.T) {
	contacts := []Contact{
		{ID: "1", Name: "Ada"},
		{ID: "2", Name: "alan"},
		{ID: "3", Name: "Ben"},
		{ID: "4", Name: "007"},
		{ID: "5", Name: "Bea"},
	}

	got := Sections(contacts)
	require.Len(t, got, 3)
	assert.Equal(t, "A", got[0].Title)
	assert.Equal(t, []Contact{contacts[0], contacts[1]}, got[0].Contacts)
	assert.Equal(t, "B", got[1].Title)
	assert.Equal(t, []Contact{contacts[2], contacts[4]}, got[1].Contacts)
	assert.Equal(t, "#", got[2].Title)

	assert.Nil(t, Sections(nil))
}

func TestSeed_DeterministicAndUnique(t *testing.T) {
	a := SeedProducts(120)
	b := SeedProducts(120)
	require.Equal(t, a, b)

	seen := make(map[string]bool)
	for _, p := range a {
		assert.False(t, seen[p.ID], "duplicate product id %s", p.ID)
		seen[p.ID] = true
		assert.GreaterOrEqual(t, p.PriceCents, int64(4999))
	}

	contacts := SeedContacts(300)
	require.Len(t, contacts, 300)
	names := make(map[string]bool)
	for i, c := range contacts {
		assert.False(t, names[c.Name], "duplicate contact name %s", c.Name)
		names[c.Name] = true
		if i > 0 {
			assert.LessOrEqual(t, contacts[i-1].Name, c.Name)
		}
	}

	assert.Empty(t, SeedContacts(-1))
}

func TestStableID(t *testing.T) {
	assert.Equal(t, StableID(KindContacts, 7), StableID(KindContacts, 7))
	assert.NotEqual(t, StableID(KindContacts, 7), StableID(KindProducts, 7))
}

func TestProductPrice(t *testing.T) {
	assert.Equal(t, "$49.99", Product{PriceCents: 4999}.Price())
	assert.Equal(t, "$120.05", Product{PriceCents: 12005}.Price())
}
