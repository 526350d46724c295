package chain

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
)

// Keypair is a freshly generated account. PrivateKey is 0x-prefixed hex,
// Address is EIP-55 checksummed.
type Keypair struct {
	Address    string
	PrivateKey string
}

func NewKeypair() (Keypair, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return Keypair{}, fmt.Errorf("chain.NewKeypair: %w", err)
	}

	return Keypair{
		Address:    crypto.PubkeyToAddress(key.PublicKey).Hex(),
		PrivateKey: hexutil.Encode(crypto.FromECDSA(key)),
	}, nil
}

// AddressFromPrivateKey derives the checksummed address for a hex private
// key, with or without the 0x prefix.
func AddressFromPrivateKey(privateKey string) (string, error) {
	key, err := crypto.HexToECDSA(strip0x(strings.TrimSpace(privateKey)))
	if err != nil {
		return "", fmt.Errorf("chain.AddressFromPrivateKey: %w", err)
	}

	return crypto.PubkeyToAddress(key.PublicKey).Hex(), nil
}

// IsValidAddress accepts 40 hex digits with optional lowercase 0x prefix.
// Mixed-case input must carry a correct EIP-55 checksum.
func IsValidAddress(address string) bool {
	if strings.HasPrefix(address, "0X") || !common.IsHexAddress(address) {
		return false
	}

	body := strip0x(address)
	if body == strings.ToLower(body) || body == strings.ToUpper(body) {
		return true
	}

	return common.HexToAddress(address).Hex() == "0x"+body
}

func strip0x(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}
