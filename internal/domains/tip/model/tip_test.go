package model

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToPublicFallsBackToAnonymous(t *testing.T) {
	tip := &Tip{Amount: decimal.NewFromInt(5), Currency: "usd"}
	assert.Equal(t, "Anonymous", tip.ToPublic().ReaderName)

	empty := ""
	tip.ReaderName = &empty
	assert.Equal(t, "Anonymous", tip.ToPublic().ReaderName)

	name := "A grateful reader"
	tip.ReaderName = &name
	assert.Equal(t, "A grateful reader", tip.ToPublic().ReaderName)
}

func TestTipJSONHidesReaderIdentity(t *testing.T) {
	email := "reader@example.com"
	session := "cs_test_1"
	tip := &Tip{
		VisitorID:       "visitor-1",
		ReaderEmail:     &email,
		StripeSessionID: &session,
		Amount:          decimal.NewFromInt(5),
	}

	data, err := json.Marshal(tip)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "visitor-1")
	assert.NotContains(t, string(data), "reader@example.com")
	assert.NotContains(t, string(data), "cs_test_1")
}

func TestHistoryFilterNormalize(t *testing.T) {
	f := &HistoryFilter{Page: 0, Limit: 500}
	f.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 20, f.Limit)
	assert.Equal(t, 0, f.Offset())

	f = &HistoryFilter{Page: 3, Limit: 10}
	f.Normalize()
	assert.Equal(t, 20, f.Offset())
}
