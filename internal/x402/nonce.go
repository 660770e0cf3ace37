package x402

import (
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/google/uuid"
)

// EncodeNonce renders a counter value as the 32-byte big-endian bytes32
// nonce included in the signed message. Distinct counters always yield
// distinct nonces, so replay protection reduces to counter monotonicity.
func EncodeNonce(counter int64) string {
	return hexutil.Encode(common.LeftPadBytes(big.NewInt(counter).Bytes(), 32))
}

// DecodeNonce parses a bytes32 nonce back into its counter value.
func DecodeNonce(nonce string) (int64, error) {
	raw, err := hexutil.Decode(nonce)
	if err != nil || len(raw) != 32 {
		return 0, NewValidationError("nonce %q is not a 32-byte hex value", nonce)
	}
	value := new(big.Int).SetBytes(raw)
	if !value.IsInt64() {
		return 0, NewValidationError("nonce %q exceeds the counter range", nonce)
	}
	return value.Int64(), nil
}

// NewAuthorizationID generates an external authorization identifier.
func NewAuthorizationID() string {
	return "x402_" + strings.ReplaceAll(uuid.New().String(), "-", "")
}
