package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openledger/ledgerlens/internal/models"
)

const linkedDoc = `
starbucks:
  canonical_name: Starbucks
  attributes:
    category: coffee
    mcc: 5814
  same_as: [sbux-legacy]
sbux-legacy:
  canonical_name: SBUX (legacy)
  same_as: ["bank:boa"]
parentco:
  canonical_name: Parent Co
  attributes:
    owns: starbucks
`

func TestExportTriples(t *testing.T) {
	reg := testRegistry(t, "merchant", linkedDoc)

	triples := ExportTriples(reg)
	expected := []models.Triple{
		{Subject: "merchant:starbucks", Predicate: "has_category", Object: "coffee"},
		{Subject: "merchant:starbucks", Predicate: "has_mcc", Object: "5814"},
		{Subject: "merchant:starbucks", Predicate: "same_as", Object: "merchant:sbux-legacy"},
		{Subject: "merchant:sbux-legacy", Predicate: "same_as", Object: "bank:boa"},
		{Subject: "merchant:parentco", Predicate: "has_owns", Object: "starbucks"},
	}
	assert.Equal(t, expected, triples)
}

func TestExportTriples_EmptyRegistry(t *testing.T) {
	reg := testRegistry(t, "merchant", "")
	assert.Empty(t, ExportTriples(reg))
}

func TestFindByProperty(t *testing.T) {
	reg := testRegistry(t, "merchant", shopsDoc)

	entries := FindByProperty(reg, "category", "coffee")
	require.Len(t, entries, 2)
	assert.Equal(t, "starbucks", entries[0].ID)
	assert.Equal(t, "peets", entries[1].ID)

	assert.Empty(t, FindByProperty(reg, "category", "gas"))
	assert.Empty(t, FindByProperty(reg, "no_such_property", "x"))

	// Numeric attributes compare by string form.
	byCount := FindByProperty(reg, "locations", "3200")
	require.Len(t, byCount, 1)
	assert.Equal(t, "chipotle", byCount[0].ID)
}

func TestSubgraph(t *testing.T) {
	reg := testRegistry(t, "merchant", linkedDoc)

	sg := Subgraph(reg, "starbucks")
	assert.Equal(t, "merchant:starbucks", sg.CenterID)
	require.NotNil(t, sg.Center)
	assert.Equal(t, "Starbucks", sg.Center.CanonicalName)

	assert.Equal(t, []models.Triple{
		{Subject: "merchant:starbucks", Predicate: "has_category", Object: "coffee"},
		{Subject: "merchant:starbucks", Predicate: "has_mcc", Object: "5814"},
		{Subject: "merchant:starbucks", Predicate: "same_as", Object: "merchant:sbux-legacy"},
	}, sg.Outgoing)

	// parentco references starbucks via an attribute; nothing same_as-es
	// into it in this document.
	assert.Equal(t, []models.Triple{
		{Subject: "merchant:parentco", Predicate: "has_owns", Object: "starbucks"},
	}, sg.Incoming)
}

func TestSubgraph_IncomingSameAs(t *testing.T) {
	reg := testRegistry(t, "merchant", linkedDoc)

	sg := Subgraph(reg, "sbux-legacy")
	assert.Equal(t, []models.Triple{
		{Subject: "merchant:starbucks", Predicate: "same_as", Object: "merchant:sbux-legacy"},
	}, sg.Incoming)
	assert.Equal(t, []models.Triple{
		{Subject: "merchant:sbux-legacy", Predicate: "same_as", Object: "bank:boa"},
	}, sg.Outgoing)
}

func TestSubgraph_UnknownCenter(t *testing.T) {
	reg := testRegistry(t, "merchant", linkedDoc)

	sg := Subgraph(reg, "ghost")
	assert.Nil(t, sg.Center)
	assert.Empty(t, sg.Outgoing)
	assert.Empty(t, sg.Incoming)
}
