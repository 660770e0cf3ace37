package x402

import (
	"regexp"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"
)

// PrimaryType is the EIP-712 primary type for ERC-3009 transfers.
const PrimaryType = "TransferWithAuthorization"

// Types is the EIP-712 type definition signed by the payer's wallet.
var Types = apitypes.Types{
	"EIP712Domain": {
		{Name: "name", Type: "string"},
		{Name: "version", Type: "string"},
		{Name: "chainId", Type: "uint256"},
		{Name: "verifyingContract", Type: "address"},
	},
	PrimaryType: {
		{Name: "from", Type: "address"},
		{Name: "to", Type: "address"},
		{Name: "value", Type: "uint256"},
		{Name: "validAfter", Type: "uint256"},
		{Name: "validBefore", Type: "uint256"},
		{Name: "nonce", Type: "bytes32"},
	},
}

var txHashPattern = regexp.MustCompile(`^0x[0-9a-fA-F]{64}$`)

// Domain is the EIP-712 domain bound to the token contract being
// authorized. VerifyingContract must equal the token address; a signature
// over any other domain is unverifiable on-chain.
type Domain struct {
	Name              string `json:"name"`
	Version           string `json:"version"`
	ChainID           int64  `json:"chainId"`
	VerifyingContract string `json:"verifyingContract"`
}

// Message is the transferWithAuthorization message the wallet signs.
// Value is in token base units.
type Message struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Value       string `json:"value"`
	ValidAfter  int64  `json:"validAfter"`
	ValidBefore int64  `json:"validBefore"`
	Nonce       string `json:"nonce"`
}

// BuildDomain constructs the EIP-712 domain. The verifying contract is a
// required argument so the token binding cannot be defaulted away.
func BuildDomain(name, version string, chainID int64, verifyingContract string) (Domain, error) {
	if name == "" {
		return Domain{}, NewValidationError("domain name is required")
	}
	if version == "" {
		return Domain{}, NewValidationError("domain version is required")
	}
	if chainID <= 0 {
		return Domain{}, NewValidationError("chain id must be positive, got %d", chainID)
	}
	if !common.IsHexAddress(verifyingContract) {
		return Domain{}, NewValidationError("verifying contract %q is not a valid address", verifyingContract)
	}

	return Domain{
		Name:              name,
		Version:           version,
		ChainID:           chainID,
		VerifyingContract: common.HexToAddress(verifyingContract).Hex(),
	}, nil
}

// BuildMessage constructs the transfer message. All fields are required;
// the nonce must already be a 32-byte hex value.
func BuildMessage(from, to, value string, validAfter, validBefore int64, nonce string) (Message, error) {
	if !common.IsHexAddress(from) {
		return Message{}, NewValidationError("from %q is not a valid address", from)
	}
	if !common.IsHexAddress(to) {
		return Message{}, NewValidationError("to %q is not a valid address", to)
	}
	if _, ok := math.ParseBig256(value); !ok || value == "" {
		return Message{}, NewValidationError("value %q is not a valid uint256", value)
	}
	if validBefore <= validAfter {
		return Message{}, NewValidationError("validBefore %d must be after validAfter %d", validBefore, validAfter)
	}
	raw, err := hexutil.Decode(nonce)
	if err != nil || len(raw) != 32 {
		return Message{}, NewValidationError("nonce %q is not a 32-byte hex value", nonce)
	}

	return Message{
		From:        common.HexToAddress(from).Hex(),
		To:          common.HexToAddress(to).Hex(),
		Value:       value,
		ValidAfter:  validAfter,
		ValidBefore: validBefore,
		Nonce:       nonce,
	}, nil
}

// TypedData assembles the full EIP-712 payload for a domain and message.
func TypedData(d Domain, m Message) apitypes.TypedData {
	return apitypes.TypedData{
		Types:       Types,
		PrimaryType: PrimaryType,
		Domain: apitypes.TypedDataDomain{
			Name:              d.Name,
			Version:           d.Version,
			ChainId:           math.NewHexOrDecimal256(d.ChainID),
			VerifyingContract: d.VerifyingContract,
		},
		Message: apitypes.TypedDataMessage{
			"from":        m.From,
			"to":          m.To,
			"value":       m.Value,
			"validAfter":  math.NewHexOrDecimal256(m.ValidAfter),
			"validBefore": math.NewHexOrDecimal256(m.ValidBefore),
			"nonce":       m.Nonce,
		},
	}
}

// HashTypedData computes the EIP-712 signing hash
// keccak256(0x1901 || domainSeparator || hashStruct(message)).
func HashTypedData(td apitypes.TypedData) (common.Hash, error) {
	domainSeparator, err := td.HashStruct("EIP712Domain", td.Domain.Map())
	if err != nil {
		return common.Hash{}, err
	}
	messageHash, err := td.HashStruct(td.PrimaryType, td.Message)
	if err != nil {
		return common.Hash{}, err
	}

	raw := make([]byte, 0, 2+len(domainSeparator)+len(messageHash))
	raw = append(raw, 0x19, 0x01)
	raw = append(raw, domainSeparator...)
	raw = append(raw, messageHash...)
	return crypto.Keccak256Hash(raw), nil
}

// RecoverSigner recovers the address that produced signature over the
// typed data. The caller compares the result against the message's from
// address before accepting the signature.
func RecoverSigner(td apitypes.TypedData, signature string) (common.Address, error) {
	if !IsValidSignatureFormat(signature) {
		return common.Address{}, NewValidationError("signature is not a 65-byte hex value")
	}

	sig, err := hexutil.Decode(signature)
	if err != nil {
		return common.Address{}, NewValidationError("signature is not valid hex: %v", err)
	}

	// Wallets produce v as 27/28; go-ethereum expects 0/1.
	if sig[64] >= 27 {
		sig[64] -= 27
	}

	hash, err := HashTypedData(td)
	if err != nil {
		return common.Address{}, err
	}

	pubKey, err := crypto.SigToPub(hash.Bytes(), sig)
	if err != nil {
		return common.Address{}, NewValidationError("signature recovery failed: %v", err)
	}

	return crypto.PubkeyToAddress(*pubKey), nil
}

// IsValidSignatureFormat reports whether s looks like a 65-byte 0x-prefixed
// hex signature (130 hex chars).
func IsValidSignatureFormat(s string) bool {
	if len(s) != 132 || !strings.HasPrefix(s, "0x") {
		return false
	}
	for _, c := range s[2:] {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

// IsValidTxHash reports whether s is a 32-byte 0x-prefixed hex hash.
func IsValidTxHash(s string) bool {
	return txHashPattern.MatchString(s)
}
