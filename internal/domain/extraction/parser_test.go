package extraction

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bulgarianTestVocab() wordSet {
	return testVocab("работен", "час", "часа", "брой", "бр", "кг", "парче")
}

func TestParser_WorkedExample(t *testing.T) {
	p := NewParser(bulgarianTestVocab())

	lines := []string{
		"50421200", "-4",
		"Николет", "Работен", "час",
		"1,00", "2.000,00", "2.000,00", "360,00", "2.360,00",
	}

	bid, err := p.Parse(lines, LotContext{})
	require.NoError(t, err)
	require.Len(t, bid.Items, 1)
	assert.Empty(t, bid.Warnings)

	item := bid.Items[0]
	assert.Equal(t, "50421200-4", item.CPVCode)
	assert.Equal(t, 1, item.ItemNumber)
	assert.Equal(t, "Николет", item.Name)
	require.NotNil(t, item.Unit)
	assert.Equal(t, "Работен час", *item.Unit)

	require.NotNil(t, item.Quantity)
	assert.Equal(t, "1.00", item.Quantity.StringFixed(2))
	require.NotNil(t, item.UnitPrice)
	assert.Equal(t, "2000.00", item.UnitPrice.StringFixed(2))
	require.NotNil(t, item.TotalPrice)
	assert.Equal(t, "2000.00", item.TotalPrice.StringFixed(2))
	require.NotNil(t, item.VATAmount)
	assert.Equal(t, "360.00", item.VATAmount.StringFixed(2))
	require.NotNil(t, item.TotalWithVAT)
	assert.Equal(t, "2360.00", item.TotalWithVAT.StringFixed(2))
}

func TestParser_FatalErrors(t *testing.T) {
	p := NewParser(bulgarianTestVocab())

	t.Run("nil input", func(t *testing.T) {
		_, err := p.Parse(nil, LotContext{})
		assert.ErrorIs(t, err, ErrNilInput)
	})

	t.Run("control character", func(t *testing.T) {
		_, err := p.Parse([]string{"50421200", "bad\x00line"}, LotContext{})
		assert.ErrorIs(t, err, ErrControlCharacter)
	})

	t.Run("empty slice is a valid empty document", func(t *testing.T) {
		bid, err := p.Parse([]string{}, LotContext{})
		require.NoError(t, err)
		assert.Empty(t, bid.Items)
		assert.Empty(t, bid.Warnings)
	})
}

func TestParser_CodeWithoutSuffix(t *testing.T) {
	p := NewParser(bulgarianTestVocab())

	bid, err := p.Parse([]string{"50421200", "Услуга", "1,00"}, LotContext{})
	require.NoError(t, err)
	require.Len(t, bid.Items, 1)
	assert.Equal(t, "50421200", bid.Items[0].CPVCode)
	assert.Equal(t, "Услуга", bid.Items[0].Name)
	assert.Nil(t, bid.Items[0].Unit)
}

func TestParser_LeadingTextDiscarded(t *testing.T) {
	p := NewParser(bulgarianTestVocab())

	bid, err := p.Parse([]string{"Ценова", "оферта", "50421200", "-4", "Услуга"}, LotContext{})
	require.NoError(t, err)
	require.Len(t, bid.Items, 1)

	require.NotEmpty(t, bid.Warnings)
	assert.Equal(t, WarnNoLeadingCode, bid.Warnings[0].Kind)
	assert.Equal(t, "Ценова\nоферта", bid.Warnings[0].RawText)
}

func TestParser_EmptyNameFallback(t *testing.T) {
	p := NewParser(bulgarianTestVocab())

	bid, err := p.Parse([]string{"50421200", "-4", "Работен", "час"}, LotContext{})
	require.NoError(t, err)
	require.Len(t, bid.Items, 1)

	item := bid.Items[0]
	assert.Equal(t, "Item 50421200-4", item.Name)
	require.NotNil(t, item.Unit)
	assert.Equal(t, "Работен час", *item.Unit)

	kinds := warningKinds(bid)
	assert.Contains(t, kinds, WarnEmptyName)
}

func TestParser_EmptySegmentDropped(t *testing.T) {
	p := NewParser(bulgarianTestVocab())

	// The first boundary collects nothing before the next one starts.
	bid, err := p.Parse([]string{
		"50421200", "-4",
		"33111000", "-9", "Профилактика", "брой", "2,00",
	}, LotContext{})
	require.NoError(t, err)

	require.Len(t, bid.Items, 1)
	assert.Equal(t, "33111000-9", bid.Items[0].CPVCode)
	assert.Equal(t, 1, bid.Items[0].ItemNumber)

	require.NotEmpty(t, bid.Warnings)
	assert.Equal(t, WarnEmptySegment, bid.Warnings[0].Kind)
	assert.Equal(t, "50421200\n-4", bid.Warnings[0].RawText)
}

func TestParser_NumericPolicies(t *testing.T) {
	p := NewParser(bulgarianTestVocab())

	t.Run("short sequence leaves trailing fields nil", func(t *testing.T) {
		bid, err := p.Parse([]string{"50421200", "Услуга", "2,00", "150,00"}, LotContext{})
		require.NoError(t, err)
		require.Len(t, bid.Items, 1)

		item := bid.Items[0]
		require.NotNil(t, item.Quantity)
		assert.Equal(t, "2.00", item.Quantity.StringFixed(2))
		require.NotNil(t, item.UnitPrice)
		assert.Equal(t, "150.00", item.UnitPrice.StringFixed(2))
		assert.Nil(t, item.TotalPrice)
		assert.Nil(t, item.VATAmount)
		assert.Nil(t, item.TotalWithVAT)
		assert.Contains(t, warningKinds(bid), WarnIncompleteNumericValues)
	})

	t.Run("extra values ignored with warning", func(t *testing.T) {
		bid, err := p.Parse([]string{
			"50421200", "Услуга",
			"1,00", "2,00", "3,00", "4,00", "5,00", "6,00",
		}, LotContext{})
		require.NoError(t, err)
		require.Len(t, bid.Items, 1)

		item := bid.Items[0]
		require.NotNil(t, item.TotalWithVAT)
		assert.Equal(t, "5.00", item.TotalWithVAT.StringFixed(2))
		assert.Contains(t, warningKinds(bid), WarnExtraNumericValues)
	})

	t.Run("zero numeric values is not an error", func(t *testing.T) {
		bid, err := p.Parse([]string{"50421200", "Услуга", "брой"}, LotContext{})
		require.NoError(t, err)
		require.Len(t, bid.Items, 1)

		item := bid.Items[0]
		assert.Nil(t, item.Quantity)
		assert.Nil(t, item.TotalWithVAT)
		assert.NotContains(t, warningKinds(bid), WarnIncompleteNumericValues)
	})
}

func TestParser_UnattachedSuffixSkipped(t *testing.T) {
	p := NewParser(bulgarianTestVocab())

	bid, err := p.Parse([]string{"50421200", "Услуга", "-9"}, LotContext{})
	require.NoError(t, err)
	require.Len(t, bid.Items, 1)
	assert.Equal(t, "50421200", bid.Items[0].CPVCode)
	assert.Contains(t, warningKinds(bid), WarnSkippedLine)
}

func TestParser_MultipleItems(t *testing.T) {
	p := NewParser(bulgarianTestVocab())

	lines := []string{
		"50421200", "-4", "Поддръжка", "час", "1,00", "100,00", "100,00", "20,00", "120,00",
		"33100000", "Апаратура", "брой", "2,00", "50,00", "100,00", "20,00", "120,00",
		"45000000", "-7", "Строителство",
	}

	bid, err := p.Parse(lines, LotContext{})
	require.NoError(t, err)
	require.Len(t, bid.Items, 3)

	assert.Equal(t, "50421200-4", bid.Items[0].CPVCode)
	assert.Equal(t, "33100000", bid.Items[1].CPVCode)
	assert.Equal(t, "45000000-7", bid.Items[2].CPVCode)

	for i, item := range bid.Items {
		assert.Equal(t, i+1, item.ItemNumber)
	}
}

func TestParser_RawTextPreserved(t *testing.T) {
	p := NewParser(bulgarianTestVocab())

	bid, err := p.Parse([]string{"50421200", "-4", "Услуга", "1,00"}, LotContext{})
	require.NoError(t, err)
	require.Len(t, bid.Items, 1)
	assert.Equal(t, "50421200\n-4\nУслуга\n1,00", bid.Items[0].RawText)
}

func TestParser_LotContextCarriedThrough(t *testing.T) {
	p := NewParser(bulgarianTestVocab())

	lotNum := "2"
	lotDesc := "Обособена позиция 2"
	bid, err := p.Parse([]string{"50421200", "Услуга"}, LotContext{Number: &lotNum, Description: &lotDesc})
	require.NoError(t, err)
	require.Len(t, bid.Items, 1)

	require.NotNil(t, bid.Items[0].LotNumber)
	assert.Equal(t, "2", *bid.Items[0].LotNumber)
	require.NotNil(t, bid.Items[0].LotDescription)
	assert.Equal(t, "Обособена позиция 2", *bid.Items[0].LotDescription)
}

// Parsing the same input twice yields structurally equal Bids, warnings
// ordering included.
func TestParser_Idempotence(t *testing.T) {
	p := NewParser(bulgarianTestVocab())

	lines := []string{
		"преамбюл",
		"50421200", "-4", "Поддръжка", "час", "1,00", "100,00",
		"33100000", "Работен", "час",
	}

	first, err := p.Parse(lines, LotContext{})
	require.NoError(t, err)
	second, err := p.Parse(lines, LotContext{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParser_MonotonicItemNumbers(t *testing.T) {
	p := NewParser(bulgarianTestVocab())

	// Vary segment shapes; numbering must stay 1..n with no gaps.
	var lines []string
	for i := 0; i < 6; i++ {
		lines = append(lines, fmt.Sprintf("5042120%d", i))
		if i%2 == 0 {
			lines = append(lines, "Услуга")
		}
		if i%3 == 0 {
			lines = append(lines, "1,00")
		}
	}

	bid, err := p.Parse(lines, LotContext{})
	require.NoError(t, err)
	for i, item := range bid.Items {
		assert.Equal(t, i+1, item.ItemNumber)
	}
}

func warningKinds(bid *Bid) []WarningKind {
	kinds := make([]WarningKind, 0, len(bid.Warnings))
	for _, w := range bid.Warnings {
		kinds = append(kinds, w.Kind)
	}
	return kinds
}
