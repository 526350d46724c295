package testutil

import (
	"context"
	"math/big"
	"strings"
	"sync"

	"github.com/dom/wallet-custody-api/internal/chain"
	"github.com/dom/wallet-custody-api/internal/events"
)

// FakeChain generates and derives keys for real but answers balance and
// chain id queries from memory.
type FakeChain struct {
	mu sync.Mutex

	// FixedKeypair, when set, is returned by every NewKeypair call.
	FixedKeypair *chain.Keypair
	balances     map[string]*big.Int
	BalanceErr   error
	ID           *big.Int
	ChainIDErr   error

	BalanceCalls int
}

func NewFakeChain() *FakeChain {
	return &FakeChain{
		balances: make(map[string]*big.Int),
		ID:       big.NewInt(1337),
	}
}

func (f *FakeChain) NewKeypair() (chain.Keypair, error) {
	if f.FixedKeypair != nil {
		return *f.FixedKeypair, nil
	}
	return chain.NewKeypair()
}

func (f *FakeChain) AddressFromPrivateKey(privateKey string) (string, error) {
	return chain.AddressFromPrivateKey(privateKey)
}

func (f *FakeChain) IsValidAddress(address string) bool {
	return chain.IsValidAddress(address)
}

// SetBalance records the wei balance returned for address.
func (f *FakeChain) SetBalance(address string, wei *big.Int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.balances[strings.ToLower(address)] = wei
}

func (f *FakeChain) BalanceAt(_ context.Context, address string) (*big.Int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.BalanceCalls++
	if f.BalanceErr != nil {
		return nil, f.BalanceErr
	}
	if wei, ok := f.balances[strings.ToLower(address)]; ok {
		return new(big.Int).Set(wei), nil
	}
	return new(big.Int), nil
}

func (f *FakeChain) ChainID(context.Context) (*big.Int, error) {
	if f.ChainIDErr != nil {
		return nil, f.ChainIDErr
	}
	return f.ID, nil
}

// RecordingPublisher keeps every published event in memory.
type RecordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
	Err    error
}

func (p *RecordingPublisher) Publish(_ context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.Err != nil {
		return p.Err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *RecordingPublisher) Events() []events.Event {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := make([]events.Event, len(p.events))
	copy(out, p.events)
	return out
}
