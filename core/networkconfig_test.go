package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNetworkConfigRoundTrip(t *testing.T) {
	cfg, err := ParseNetworkConfig("autonomi:config:mainnet?rpc_url=https%3A%2F%2Frpc.example&network_id=42")
	require.NoError(t, err)
	assert.Equal(t, NetworkMainnet, cfg.Network)
	assert.Equal(t, "https://rpc.example", cfg.RPCURL)
	assert.Equal(t, "42", cfg.NetworkID)

	reparsed, err := ParseNetworkConfig(cfg.String())
	require.NoError(t, err)
	assert.Equal(t, cfg, reparsed)
}

func TestParseNetworkConfigLocalAllowsContractAddresses(t *testing.T) {
	cfg, err := ParseNetworkConfig("autonomi:config:local?payment_token_address=0xabc&data_payment_contract_address=0xdef")
	require.NoError(t, err)
	assert.Equal(t, "0xabc", cfg.PaymentTokenAddress)
	assert.Equal(t, "0xdef", cfg.DataPaymentContractAddress)
}

func TestParseNetworkConfigRejectsContractAddressesOnNonLocal(t *testing.T) {
	_, err := ParseNetworkConfig("autonomi:config:mainnet?payment_token_address=0xabc")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindBadEncoding))
}

func TestParseNetworkConfigRejectsUnknownNetwork(t *testing.T) {
	_, err := ParseNetworkConfig("autonomi:config:moonnet")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindBadEncoding))
}

func TestParseNetworkConfigRejectsWrongScheme(t *testing.T) {
	_, err := ParseNetworkConfig("http:config:mainnet")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindBadEncoding))
}

func TestParseNetworkConfigBootstrapPeersRepeat(t *testing.T) {
	cfg, err := ParseNetworkConfig("autonomi:config:testnet?bootstrap_peer=a&bootstrap_peer=b")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, cfg.BootstrapPeers)
}
