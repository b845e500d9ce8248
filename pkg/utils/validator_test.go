package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmail(t *testing.T) {
	assert.NoError(t, ValidateEmail("employee@example.com"))
	assert.Error(t, ValidateEmail("not-an-email"))
	assert.Error(t, ValidateEmail("missing@tld"))
}

func TestParseReportMonth(t *testing.T) {
	month, err := ParseReportMonth("2026-03")
	require.NoError(t, err)
	assert.Equal(t, 2026, month.Year())

	_, err = ParseReportMonth("March 2026")
	assert.Error(t, err)
}

func TestParseLineDate(t *testing.T) {
	_, err := ParseLineDate("2026-03-17")
	require.NoError(t, err)

	_, err = ParseLineDate("17/03/2026")
	assert.Error(t, err)
}

func TestParseAmount(t *testing.T) {
	amount, err := ParseAmount("12.50")
	require.NoError(t, err)
	assert.Equal(t, "12.50", amount.StringFixed(2))

	_, err = ParseAmount("twelve")
	assert.Error(t, err)

	_, err = ParseAmount("-1.00")
	assert.Error(t, err)
}
