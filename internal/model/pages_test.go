package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePages_Expansion(t *testing.T) {
	ds := LabelDataset{
		Records:    []LabelRecord{{Code: "X1", Quantity: 3}, {Code: "Y2", Quantity: 1}},
		TotalCount: 4,
	}
	live := DefaultLayout()
	pages := GeneratePages(ds, live)

	require.Len(t, pages, 4)
	codes := make([]string, len(pages))
	for i, p := range pages {
		codes[i] = p.Code
		assert.Equal(t, i, p.Index)
		assert.Equal(t, live, p.Layout)
	}
	assert.Equal(t, []string{"X1", "X1", "X1", "Y2"}, codes)

	// Editing the live layout after generation leaves snapshots alone.
	live.Set(KeyLargeTop, 5)
	for _, p := range pages {
		assert.Equal(t, 70.0, p.Layout.LargeTop)
	}

	// Pages do not share layout storage with each other either.
	pages[0].Layout.Set(KeyTitleSize, 40)
	assert.Equal(t, 24.0, pages[1].Layout.TitleSize)
}

func TestGeneratePages_Deterministic(t *testing.T) {
	ds, err := NewLabelDataset([][]string{{"", "A", "2"}, {"", "B", "3"}})
	require.NoError(t, err)
	first := GeneratePages(ds, DefaultLayout())
	second := GeneratePages(ds, DefaultLayout())
	assert.Equal(t, first, second)
	assert.Len(t, first, ds.TotalCount)
}

func TestGeneratePages_Empty(t *testing.T) {
	assert.Empty(t, GeneratePages(LabelDataset{}, DefaultLayout()))
}

func TestGeneratePages_HandBuiltDatasetIsBounded(t *testing.T) {
	ds := LabelDataset{
		Records:    []LabelRecord{{Code: "A1", Quantity: math.MaxInt}, {Code: "B2", Quantity: math.MaxInt}},
		TotalCount: -2,
	}
	pages := GeneratePages(ds, DefaultLayout())
	assert.Len(t, pages, MaxTotalLabels)
	assert.Equal(t, "A1", pages[len(pages)-1].Code)
}
