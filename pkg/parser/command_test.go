package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"swap-supply/pkg/types"
)

func TestParseAmountArg(t *testing.T) {
	tests := []struct {
		args     []string
		expected AmountArg
	}{
		{[]string{"1"}, AmountArg{Amount: "1"}},
		{[]string{"0.5", "dai"}, AmountArg{Amount: "0.5", Symbol: "DAI"}},
		{[]string{" 100 DAI "}, AmountArg{Amount: "100", Symbol: "DAI"}},
		// left for the codec to reject
		{[]string{"-1"}, AmountArg{Amount: "-1"}},
	}

	for _, tt := range tests {
		arg, err := ParseAmountArg(tt.args)
		require.NoError(t, err)
		require.Equal(t, tt.expected, *arg)
	}
}

func TestParseAmountArg_Invalid(t *testing.T) {
	for _, args := range [][]string{{}, {"1", "DAI", "to", "LINK"}, {"1", "D-AI"}} {
		_, err := ParseAmountArg(args)
		require.Error(t, err, args)
	}
}

func TestCheckAsset(t *testing.T) {
	dai := types.Asset{Symbol: "DAI"}

	require.NoError(t, (&AmountArg{Amount: "1"}).CheckAsset(dai))
	require.NoError(t, (&AmountArg{Amount: "1", Symbol: "DAI"}).CheckAsset(dai))
	require.ErrorContains(t, (&AmountArg{Amount: "1", Symbol: "LINK"}).CheckAsset(dai), "swaps DAI")
}

func TestNegativeAmount(t *testing.T) {
	tests := []struct {
		args     []string
		expected string
		found    bool
	}{
		{[]string{"run", "-1"}, "-1", true},
		{[]string{"run", "-0.5", "DAI", "--yes"}, "-0.5", true},
		{[]string{"run", "--json", "-.5"}, "-.5", true},
		{[]string{"run", "1", "-y"}, "", false},
		{[]string{"run", "-v", "2"}, "", false},
		{[]string{"run", "--", "-1"}, "", false},
	}

	for _, tt := range tests {
		arg, found := NegativeAmount(tt.args)
		require.Equal(t, tt.found, found, "%v", tt.args)
		require.Equal(t, tt.expected, arg)
	}
}
