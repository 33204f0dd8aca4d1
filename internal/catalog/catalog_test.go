package catalog

import (
	"strings"
	"testing"

	"salesbot-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testProducts() []models.Product {
	return []models.Product{
		{SKU: "FARO-LOUNGE-SET", Name: "Faro Lounge Set", Category: "Lounge sets", Material: "rattan", Seats: 9, EmbeddedStock: 12},
		{SKU: "FARO-COVER", Name: "Faro Protective Cover", Category: "Covers", Material: "polyester", EmbeddedStock: 0},
		{SKU: "", Name: "Nameless", Category: "Lounge sets"},           // missing SKU
		{SKU: "NO-CATEGORY", Name: "Orphan", Category: ""},             // missing category
		{SKU: "FARO-LOUNGE-SET", Name: "Duplicate", Category: "Other"}, // duplicate SKU
	}
}

func TestBuildIndexSkipsMalformedEntries(t *testing.T) {
	idx := BuildIndex(testProducts(), zap.NewNop())

	assert.Equal(t, 2, idx.Len())
	assert.Nil(t, idx.BySKU("NO-CATEGORY"))
	assert.Nil(t, idx.BySKU(""))

	// first occurrence wins on duplicate SKU
	p := idx.BySKU("FARO-LOUNGE-SET")
	require.NotNil(t, p)
	assert.Equal(t, "Faro Lounge Set", p.Name)
}

func TestIndexLookups(t *testing.T) {
	idx := BuildIndex(testProducts(), zap.NewNop())

	assert.Len(t, idx.ByCategory("lounge sets"), 1)
	assert.Len(t, idx.ByCategory("Lounge Sets"), 1)
	assert.Len(t, idx.ByMaterial("RATTAN"), 1)
	assert.Len(t, idx.BySeats(9), 1)
	assert.Empty(t, idx.BySeats(4))
}

func TestBuildIndexEmptyCatalog(t *testing.T) {
	idx := BuildIndex(nil, zap.NewNop())

	assert.Equal(t, 0, idx.Len())
	assert.Nil(t, idx.BySKU("ANY"))
	assert.Empty(t, idx.All())
}

func TestLoadJSON(t *testing.T) {
	data := `[
		{"sku":"FARO-LOUNGE-SET","name":"Faro Lounge Set","category":"Lounge sets","seats":9},
		{"sku":"FARO-COVER","name":"Faro Cover","category":"Covers"}
	]`

	products, err := LoadJSON(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, 9, products[0].Seats)
}

func TestLoadJSONMalformed(t *testing.T) {
	_, err := LoadJSON(strings.NewReader(`{"not":"a list"}`))
	assert.Error(t, err)
}
