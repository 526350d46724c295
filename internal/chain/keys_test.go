package chain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	keyOne     = "0x0000000000000000000000000000000000000000000000000000000000000001"
	keyOneAddr = "0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf"
)

func TestNewKeypair_AddressMatchesKey(t *testing.T) {
	kp, err := NewKeypair()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(kp.PrivateKey, "0x"))
	assert.Len(t, kp.PrivateKey, 66)
	assert.True(t, IsValidAddress(kp.Address))

	derived, err := AddressFromPrivateKey(kp.PrivateKey)
	require.NoError(t, err)
	assert.Equal(t, kp.Address, derived)
}

func TestNewKeypair_Unique(t *testing.T) {
	a, err := NewKeypair()
	require.NoError(t, err)
	b, err := NewKeypair()
	require.NoError(t, err)

	assert.NotEqual(t, a.Address, b.Address)
}

func TestAddressFromPrivateKey(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		want    string
		wantErr bool
	}{
		{name: "with prefix", key: keyOne, want: keyOneAddr},
		{name: "without prefix", key: strings.TrimPrefix(keyOne, "0x"), want: keyOneAddr},
		{name: "upper prefix", key: "0X" + strings.TrimPrefix(keyOne, "0x"), want: keyOneAddr},
		{name: "not hex", key: "0xzz", wantErr: true},
		{name: "too short", key: "0x01", wantErr: true},
		{name: "empty", key: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AddressFromPrivateKey(tt.key)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsValidAddress(t *testing.T) {
	tests := []struct {
		name    string
		address string
		want    bool
	}{
		{"checksummed", keyOneAddr, true},
		{"lowercase", strings.ToLower(keyOneAddr), true},
		{"uppercase body", "0x" + strings.ToUpper(keyOneAddr[2:]), true},
		{"no prefix", strings.ToLower(keyOneAddr[2:]), true},
		{"uppercase prefix", "0X" + keyOneAddr[2:], false},
		{"bad checksum", "0x7E5F4552091A69125d5DfCb7b8C2659029395BDF", false},
		{"too short", "0x7E5F4552091A69125d5D", false},
		{"not hex", "0xZZ5F4552091A69125d5DfCb7b8C2659029395Bdf", false},
		{"garbage", "not-an-address", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidAddress(tt.address))
		})
	}
}
