package chain

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
)

// Ethereum is the JSON-RPC backed blockchain collaborator.
type Ethereum struct {
	client *ethclient.Client
}

func Dial(ctx context.Context, rpcURL string) (*Ethereum, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("chain.Dial: %w", err)
	}
	return &Ethereum{client: client}, nil
}

func (e *Ethereum) NewKeypair() (Keypair, error) {
	return NewKeypair()
}

func (e *Ethereum) AddressFromPrivateKey(privateKey string) (string, error) {
	return AddressFromPrivateKey(privateKey)
}

func (e *Ethereum) IsValidAddress(address string) bool {
	return IsValidAddress(address)
}

// BalanceAt returns the latest balance of address in wei.
func (e *Ethereum) BalanceAt(ctx context.Context, address string) (*big.Int, error) {
	balance, err := e.client.BalanceAt(ctx, common.HexToAddress(address), nil)
	if err != nil {
		return nil, fmt.Errorf("chain.Ethereum.BalanceAt: %w", err)
	}
	return balance, nil
}

func (e *Ethereum) ChainID(ctx context.Context) (*big.Int, error) {
	id, err := e.client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("chain.Ethereum.ChainID: %w", err)
	}
	return id, nil
}

func (e *Ethereum) Close() {
	e.client.Close()
}
