package importer_test

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/chaibook/internal/importer"
	"github.com/MrJamesThe3rd/chaibook/internal/ledger"
)

func TestParser_Comma(t *testing.T) {
	csv := `date,office,tea,coffee,tea_price,coffee_price
2024-01-01,Acme,2,0,10,15
05-01-2024, Acme ,1,1,10,15.50

`

	params, err := importer.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 2)

	assert.Equal(t, "2024-01-01", params[0].Date)
	assert.Equal(t, "Acme", params[0].OfficeName)
	assert.Equal(t, 2, params[0].Tea)
	assert.True(t, decimal.NewFromInt(10).Equal(params[0].TeaPrice))

	assert.Equal(t, "2024-01-05", params[1].Date)
	assert.Equal(t, "Acme", params[1].OfficeName)
	assert.True(t, decimal.RequireFromString("15.5").Equal(params[1].CoffeePrice))
}

func TestParser_SemicolonWithDecimalComma(t *testing.T) {
	csv := "Date;Office Name;Tea Cups;Coffee Cups;Tea Price;Coffee Price\n" +
		"01/02/2024;Globex;3;0;12,50;1.000,00\n"

	params, err := importer.NewParser().Parse(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, params, 1)

	p := params[0]
	assert.Equal(t, "2024-02-01", p.Date)
	assert.Equal(t, "Globex", p.OfficeName)
	assert.Equal(t, 3, p.Tea)
	assert.Equal(t, 0, p.Coffee)
	assert.True(t, decimal.RequireFromString("12.5").Equal(p.TeaPrice))
	assert.True(t, decimal.NewFromInt(1000).Equal(p.CoffeePrice))
}

func TestParser_Windows1252(t *testing.T) {
	csv := "date;office;tea;coffee;tea_price;coffee_price\n2024-01-01;Café Sol;1;0;10;0\n"

	encoded, err := charmap.Windows1252.NewEncoder().String(csv)
	require.NoError(t, err)

	params, err := importer.NewParser().Parse(strings.NewReader(encoded))
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, "Café Sol", params[0].OfficeName)
}

func TestParser_MissingFieldsAreMalformed(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantMsg string
	}{
		{
			name:    "EmptyPrices",
			csv:     "date,office,tea,coffee,tea_price,coffee_price\n2024-01-01,Acme,2,0,,15\n",
			wantMsg: "tea price",
		},
		{
			name:    "EmptyQuantity",
			csv:     "date,office,tea,coffee,tea_price,coffee_price\n2024-01-01,Acme,2,,10,15\n",
			wantMsg: "coffee",
		},
		{
			name:    "TruncatedRow",
			csv:     "date,office,tea,coffee,tea_price,coffee_price\n2024-01-01,Acme,2,0,10,15\n2024-01-02,Acme,3\n",
			wantMsg: "row 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params, err := importer.NewParser().Parse(strings.NewReader(tt.csv))

			require.ErrorIs(t, err, importer.ErrInvalidCSV)
			assert.ErrorIs(t, err, ledger.ErrMalformedEntry)
			assert.Contains(t, err.Error(), tt.wantMsg)
			assert.Nil(t, params)
		})
	}
}

func TestParser_Errors(t *testing.T) {
	tests := []struct {
		name    string
		csv     string
		wantMsg string
	}{
		{
			name:    "Empty",
			csv:     "",
			wantMsg: "empty",
		},
		{
			name:    "MissingColumns",
			csv:     "date,office,tea\n2024-01-01,Acme,1\n",
			wantMsg: "missing columns coffee, tea_price, coffee_price",
		},
		{
			name:    "BadDate",
			csv:     "date,office,tea,coffee,tea_price,coffee_price\n2024/13/01,Acme,1,0,10,0\n",
			wantMsg: "row 2",
		},
		{
			name:    "BadQuantity",
			csv:     "date,office,tea,coffee,tea_price,coffee_price\n2024-01-01,Acme,lots,0,10,0\n",
			wantMsg: "tea",
		},
		{
			name:    "MissingOffice",
			csv:     "date,office,tea,coffee,tea_price,coffee_price\n2024-01-01,,1,0,10,0\n",
			wantMsg: "missing office",
		},
		{
			name:    "HeaderOnly",
			csv:     "date,office,tea,coffee,tea_price,coffee_price\n",
			wantMsg: "no entries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := importer.NewParser().Parse(strings.NewReader(tt.csv))

			require.ErrorIs(t, err, importer.ErrInvalidCSV)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}
