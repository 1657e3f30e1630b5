package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromFloat(t *testing.T) {
	assert.Equal(t, Amount(1050), FromFloat(10.5))
	assert.Equal(t, Amount(1620), FromFloat(16.2))
	assert.Equal(t, Amount(0), FromFloat(0))
	assert.Equal(t, Amount(-250), FromFloat(-2.5))
}

func TestParse(t *testing.T) {
	got, err := Parse("12.345")
	require.NoError(t, err)
	assert.Equal(t, Amount(1235), got)

	_, err = Parse("twelve")
	require.Error(t, err)
}

func TestAmount_MulBasisPoints(t *testing.T) {
	assert.Equal(t, Amount(18000), Amount(90000).MulBasisPoints(2000))
	assert.Equal(t, Amount(1620), Amount(90000).MulBasisPoints(180))
	assert.Equal(t, Amount(1), Amount(7).MulBasisPoints(2000))
}

func TestAmount_String(t *testing.T) {
	assert.Equal(t, "16.20", Amount(1620).String())
	assert.Equal(t, "0.00", Amount(0).String())
	assert.Equal(t, "0.00", Amount(-5).NonNegative().String())
}
