package cmd

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"swap-supply/pkg/types"
)

func TestRunFlagError_NegativeAmount(t *testing.T) {
	args := os.Args
	t.Cleanup(func() { os.Args = args })

	flagErr := errors.New("unknown shorthand flag: '1' in -1")

	os.Args = []string{"swap-supply", "run", "-1"}
	err := runCmd.FlagErrorFunc()(runCmd, flagErr)
	require.ErrorIs(t, err, types.ErrInvalidAmount)

	os.Args = []string{"swap-supply", "run", "1", "-x"}
	err = runCmd.FlagErrorFunc()(runCmd, flagErr)
	require.Equal(t, flagErr, err)
}
