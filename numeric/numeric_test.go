package numeric

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntegerAddition(t *testing.T) {
	cases := []struct {
		a, b, want int64
	}{
		{2, 3, 5},
		{-1, 1, 0},
		{0, 0, 0},
	}
	for _, tc := range cases {
		v := Int(tc.a)
		require.NoError(t, v.Increment(Int(tc.b)))
		assert.Equal(t, KindInt, v.Kind())
		assert.Equal(t, Int(tc.want), v)
	}
}

func TestDoubleWinsPromotion(t *testing.T) {
	v := Int(3)
	require.NoError(t, v.Increment(Double(2)))
	assert.Equal(t, KindDouble, v.Kind())
	assert.Equal(t, 5.0, v.d)
}

func TestDivideByTinyMagnitudeFails(t *testing.T) {
	v := Int(10)
	err := v.Divide(Double(1e-21))
	assert.ErrorIs(t, err, ErrDivByZero)
}

func TestDivideBoundaryIsNotZero(t *testing.T) {
	v := Int(10)
	err := v.Divide(Double(-1e-19))
	assert.NoError(t, err)
}

func TestNullWrapperReadsAsIntegerZero(t *testing.T) {
	var v Value
	require.NoError(t, v.Increment(Int(5)))
	assert.Equal(t, Int(5), v)
}

func TestCompareSignMatchesSubtraction(t *testing.T) {
	c, err := Compare(Int(5), Int(3))
	require.NoError(t, err)
	assert.Greater(t, c, 0)

	c, err = Compare(Int(3), Int(5))
	require.NoError(t, err)
	assert.Less(t, c, 0)

	c, err = Compare(Int(3), Int(3))
	require.NoError(t, err)
	assert.Equal(t, 0, c)
}

func TestStringCoercionIntegerFirst(t *testing.T) {
	v := String("42")
	require.NoError(t, v.Increment(Int(1)))
	assert.Equal(t, Int(43), v)
}

func TestStringCoercionDoubleSecond(t *testing.T) {
	v := String("3.5")
	require.NoError(t, v.Increment(Int(0)))
	assert.Equal(t, Double(3.5), v)
}

func TestUnparseableStringFails(t *testing.T) {
	v := String("not-a-number")
	err := v.Increment(Int(1))
	assert.ErrorIs(t, err, ErrBadNumber)
}

func TestIntegerDivisionTruncates(t *testing.T) {
	v := Int(3)
	require.NoError(t, v.Divide(Int(2)))
	assert.Equal(t, Int(1), v)
}

func TestDoubleDivisionKeepsFraction(t *testing.T) {
	v := Double(3.0)
	require.NoError(t, v.Divide(Int(2)))
	assert.Equal(t, Double(1.5), v)
}

func TestFormatString(t *testing.T) {
	assert.Equal(t, "5", Int(5).FormatString())
	assert.Equal(t, "1.5", Double(1.5).FormatString())
	assert.Equal(t, "hi", String("hi").FormatString())
}
