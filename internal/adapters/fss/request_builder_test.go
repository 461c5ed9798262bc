package fss

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequest(t *testing.T) {
	fields := FieldBuilder{}.
		With("amt", "1.00").
		With("member", "Tom & Jerry <Cartoons>").
		With("udf2", "").
		Build()

	doc, err := BuildRequest(fields)
	require.NoError(t, err)

	want := `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
		"<amt>1.00</amt>\n" +
		"<member>Tom &amp; Jerry &lt;Cartoons&gt;</member>\n" +
		"<udf2></udf2>\n"
	assert.Equal(t, want, string(doc))
}

func TestBuildRequest_Empty(t *testing.T) {
	doc, err := BuildRequest(Fields{})
	require.NoError(t, err)
	assert.Equal(t, `<?xml version="1.0" encoding="UTF-8"?>`+"\n", string(doc))
}

func TestBuildRequest_RoundTripsThroughParser(t *testing.T) {
	fields, err := EncodeTransaction(TransactionRequest{
		Action:      ActionPurchase,
		Amount:      decimal.RequireFromString("1.00"),
		OrderID:     "1",
		Description: "Store Purchase",
		Card:        testCard(),
	}, testCreds)
	require.NoError(t, err)

	doc, err := BuildRequest(fields)
	require.NoError(t, err)

	parsed, err := ParseResponse(doc)
	require.NoError(t, err)
	for _, f := range fields.All() {
		assert.Equal(t, f.Value, parsed.Get(strings.ToLower(f.Key)), f.Key)
	}
}
