package banking_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rechnung/invoicing-core/internal/core/banking"
)

func TestParseIBAN(t *testing.T) {
	valid := []string{
		"DE89370400440532013000",
		"AT611904300234573201",
		"GB29NWBK60161331926819",
		"NL91ABNA0417164300",
		"FR1420041010050500013M02606",
		"CH9300762011623852957",
	}
	for _, s := range valid {
		iban, err := banking.ParseIBAN(s)
		require.NoError(t, err, s)
		assert.Equal(t, s, iban.String())
	}
}

func TestParseIBANNormalizesSpacesAndCase(t *testing.T) {
	iban, err := banking.ParseIBAN("de89 3704 0044 0532 0130 00")
	require.NoError(t, err)
	assert.Equal(t, "DE89370400440532013000", iban.String())
}

func TestParseIBANRejectsBadInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"too short", "DE8"},
		{"bad character", "DE8937040044053201300!"},
		{"digits as country", "1289370400440532013000"},
		{"letters as check digits", "DEXX370400440532013000"},
		{"unknown country", "XX89370400440532013000"},
		{"wrong length", "DE8937040044053201300"},
		{"checksum failure", "DE89370400440532013001"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := banking.ParseIBAN(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, banking.ErrInvalidIBAN)
		})
	}
}

func TestIBANAccessors(t *testing.T) {
	iban, err := banking.ParseIBAN("DE89370400440532013000")
	require.NoError(t, err)

	assert.Equal(t, "DE", iban.CountryCode())
	assert.Equal(t, "370400440532013000", iban.BBAN())

	code, ok := iban.BankCode()
	require.True(t, ok)
	assert.Equal(t, "37040044", code)
}

func TestIBANDerivedBIC(t *testing.T) {
	tests := []struct {
		iban    string
		bic     string
		derived bool
	}{
		{"DE89370400440532013000", "COBADEFFXXX", true},
		{"NL91ABNA0417164300", "ABNANL2A", true},
		// Bank code outside the curated registry.
		{"AT611904300234573201", "", false},
		// Country without a registered bank code layout.
		{"GB29NWBK60161331926819", "", false},
		{"CH9300762011623852957", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.iban, func(t *testing.T) {
			iban, err := banking.ParseIBAN(tt.iban)
			require.NoError(t, err)
			bic, ok := iban.BIC()
			assert.Equal(t, tt.derived, ok)
			assert.Equal(t, tt.bic, bic.String())
		})
	}
}

func TestIBANZeroValue(t *testing.T) {
	var iban banking.IBAN
	assert.True(t, iban.IsZero())
	assert.Equal(t, "", iban.CountryCode())
	assert.Equal(t, "", iban.BBAN())
	_, ok := iban.BankCode()
	assert.False(t, ok)
}
