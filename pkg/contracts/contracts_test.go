package contracts

import (
	"encoding/hex"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/require"
)

var (
	dai    = common.HexToAddress("0xFF34B3d4Aee8ddCd6F9AFFFB6Fe49bD371b8a357")
	link   = common.HexToAddress("0xf8Fb3713D459D7C1018BD0A49D19b4C44290EBE5")
	router = common.HexToAddress("0x3bFA4769FB09eefC5a80d6E87c3B9C650f7Ae48E")
)

func word(b []byte) []byte {
	return common.LeftPadBytes(b, 32)
}

func TestSelectors(t *testing.T) {
	approve, err := PackApprove(router, big.NewInt(1))
	require.NoError(t, err)
	require.Equal(t, "095ea7b3", hex.EncodeToString(approve[:4]))

	balanceOf, err := PackBalanceOf(dai)
	require.NoError(t, err)
	require.Equal(t, "70a08231", hex.EncodeToString(balanceOf[:4]))

	getPool, err := PackGetPool(dai, link, 3000)
	require.NoError(t, err)
	require.Equal(t, "1698ee82", hex.EncodeToString(getPool[:4]))

	swap, err := PackExactInputSingle(ExactInputSingleParams{
		TokenIn:           dai,
		TokenOut:          link,
		Fee:               big.NewInt(3000),
		Recipient:         dai,
		AmountIn:          big.NewInt(1),
		AmountOutMinimum:  big.NewInt(0),
		SqrtPriceLimitX96: big.NewInt(0),
	})
	require.NoError(t, err)
	require.Equal(t, "04e45aaf", hex.EncodeToString(swap[:4]))

	supply, err := PackSupply(link, big.NewInt(1), dai, 0)
	require.NoError(t, err)
	require.Equal(t, "617ba037", hex.EncodeToString(supply[:4]))
}

func TestPackApprove_EncodesSpenderAndAmount(t *testing.T) {
	amount, _ := new(big.Int).SetString("1000000000000000000", 10)

	data, err := PackApprove(router, amount)
	require.NoError(t, err)
	require.Len(t, data, 4+2*32)
	require.Equal(t, word(router.Bytes()), data[4:36])
	require.Equal(t, word(amount.Bytes()), data[36:68])
}

func TestPackExactInputSingle_Layout(t *testing.T) {
	recipient := common.HexToAddress("0x1111111111111111111111111111111111111111")
	data, err := PackExactInputSingle(ExactInputSingleParams{
		TokenIn:           dai,
		TokenOut:          link,
		Fee:               big.NewInt(3000),
		Recipient:         recipient,
		AmountIn:          big.NewInt(42),
		AmountOutMinimum:  big.NewInt(7),
		SqrtPriceLimitX96: big.NewInt(0),
	})
	require.NoError(t, err)
	// static tuple: seven inline words
	require.Len(t, data, 4+7*32)
	require.Equal(t, word(dai.Bytes()), data[4:36])
	require.Equal(t, word(link.Bytes()), data[36:68])
	require.Equal(t, word(big.NewInt(3000).Bytes()), data[68:100])
	require.Equal(t, word(recipient.Bytes()), data[100:132])
	require.Equal(t, word(big.NewInt(42).Bytes()), data[132:164])
	require.Equal(t, word(big.NewInt(7).Bytes()), data[164:196])
}

func TestPackSupply_ReferralCode(t *testing.T) {
	data, err := PackSupply(link, big.NewInt(25), dai, 0)
	require.NoError(t, err)
	require.Len(t, data, 4+4*32)
	require.Equal(t, word(link.Bytes()), data[4:36])
	require.Equal(t, word(big.NewInt(25).Bytes()), data[36:68])
	require.Equal(t, word(dai.Bytes()), data[68:100])
	require.Equal(t, make([]byte, 32), data[100:132])
}

func TestUnpack(t *testing.T) {
	balance, err := UnpackBalanceOf(word(big.NewInt(150).Bytes()))
	require.NoError(t, err)
	require.Equal(t, int64(150), balance.Int64())

	pool, err := UnpackGetPool(word(router.Bytes()))
	require.NoError(t, err)
	require.Equal(t, router, pool)

	fee, err := UnpackFee(word(big.NewInt(3000).Bytes()))
	require.NoError(t, err)
	require.Equal(t, uint32(3000), fee)

	token0, err := UnpackToken0(word(dai.Bytes()))
	require.NoError(t, err)
	require.Equal(t, dai, token0)

	decimals, err := UnpackDecimals(word([]byte{18}))
	require.NoError(t, err)
	require.Equal(t, uint8(18), decimals)

	_, err = UnpackBalanceOf(nil)
	require.Error(t, err)
}
