package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rechnung/invoicing-core/internal/core/banking"
	"github.com/rechnung/invoicing-core/internal/core/domain"
)

func mustIBAN(t *testing.T, s string) banking.IBAN {
	t.Helper()
	iban, err := banking.ParseIBAN(s)
	require.NoError(t, err)
	return iban
}

func TestBankAccountNormalize(t *testing.T) {
	acct := domain.BankAccount{
		Owner: "  Erika Musterfrau  ",
		IBAN:  mustIBAN(t, "DE89370400440532013000"),
	}
	require.NoError(t, acct.Normalize())
	assert.Equal(t, "Erika Musterfrau", acct.Owner)
	assert.Equal(t, "COBADEFFXXX", acct.BIC.String())
}

// A supplied BIC is replaced when the IBAN's bank code resolves to a
// registered one.
func TestBankAccountNormalizeOverwritesSuppliedBIC(t *testing.T) {
	wrong, err := banking.ParseBIC("MARKDEF1100")
	require.NoError(t, err)

	acct := domain.BankAccount{
		Owner: "Erika Musterfrau",
		IBAN:  mustIBAN(t, "DE89370400440532013000"),
		BIC:   wrong,
	}
	require.NoError(t, acct.Normalize())
	assert.Equal(t, "COBADEFFXXX", acct.BIC.String())
}

func TestBankAccountNormalizeKeepsSuppliedBICWhenNotDerivable(t *testing.T) {
	supplied, err := banking.ParseBIC("NWBKGB2LXXX")
	require.NoError(t, err)

	acct := domain.BankAccount{
		Owner: "Erika Musterfrau",
		IBAN:  mustIBAN(t, "GB29NWBK60161331926819"),
		BIC:   supplied,
	}
	require.NoError(t, acct.Normalize())
	assert.Equal(t, "NWBKGB2LXXX", acct.BIC.String())
}

func TestBankAccountNormalizeErrors(t *testing.T) {
	t.Run("missing owner", func(t *testing.T) {
		acct := domain.BankAccount{Owner: "   ", IBAN: mustIBAN(t, "DE89370400440532013000")}
		err := acct.Normalize()
		require.Error(t, err)
		assert.Equal(t, domain.ErrCodeMissingOwner, domain.ErrorCode(err))
	})

	t.Run("missing iban", func(t *testing.T) {
		acct := domain.BankAccount{Owner: "Erika"}
		err := acct.Normalize()
		require.Error(t, err)
		assert.Equal(t, domain.ErrCodeInvalidBankAccount, domain.ErrorCode(err))
	})
}
