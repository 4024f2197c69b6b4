package core

import (
	"net/url"
	"strings"
)

// Network identifies which Autonomi deployment a NetworkConfig targets.
type Network string

const (
	NetworkMainnet  Network = "mainnet"
	NetworkAlphanet Network = "alphanet"
	NetworkTestnet  Network = "testnet"
	NetworkLocal    Network = "local"
)

func (n Network) valid() bool {
	switch n {
	case NetworkMainnet, NetworkAlphanet, NetworkTestnet, NetworkLocal:
		return true
	default:
		return false
	}
}

// NetworkConfig is the Network-Config Descriptor (C11): everything a
// transport implementation needs to connect to a specific Autonomi
// deployment, round-trippable to and from the URI form
// `autonomi:config:<network>[?params]` (spec.md §4.10).
type NetworkConfig struct {
	Network Network

	RPCURL                     string
	PaymentTokenAddress        string // local only
	DataPaymentContractAddress string // local only
	NetworkID                  string
	BootstrapPeers             []string
	BootstrapURL               string
	IgnoreCache                bool
	BootstrapCacheDir          string
}

const networkConfigScheme = "autonomi"
const networkConfigOpaquePrefix = "config:"

// ParseNetworkConfig parses the URI form into a NetworkConfig.
func ParseNetworkConfig(s string) (*NetworkConfig, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, NewError(KindBadEncoding, "parse network config", err)
	}
	if u.Scheme != networkConfigScheme {
		return nil, NewError(KindBadEncoding, "scheme must be "+networkConfigScheme, nil)
	}
	if !strings.HasPrefix(u.Opaque, networkConfigOpaquePrefix) {
		return nil, NewError(KindBadEncoding, "missing config: segment", nil)
	}
	network := Network(strings.TrimPrefix(u.Opaque, networkConfigOpaquePrefix))
	if !network.valid() {
		return nil, NewError(KindBadEncoding, "unknown network "+string(network), nil)
	}

	q := u.Query()
	cfg := &NetworkConfig{
		Network:                     network,
		RPCURL:                      q.Get("rpc_url"),
		PaymentTokenAddress:         q.Get("payment_token_address"),
		DataPaymentContractAddress:  q.Get("data_payment_contract_address"),
		NetworkID:                   q.Get("network_id"),
		BootstrapPeers:              q["bootstrap_peer"],
		BootstrapURL:                q.Get("bootstrap_url"),
		IgnoreCache:                 q.Get("ignore_cache") == "true",
		BootstrapCacheDir:           q.Get("bootstrap_cache_dir"),
	}
	if network != NetworkLocal && (cfg.PaymentTokenAddress != "" || cfg.DataPaymentContractAddress != "") {
		return nil, NewError(KindBadEncoding, "payment/data-payment contract addresses are local-only", nil)
	}
	return cfg, nil
}

// ToURL renders c back into its *url.URL form.
func (c *NetworkConfig) ToURL() *url.URL {
	q := url.Values{}
	if c.RPCURL != "" {
		q.Set("rpc_url", c.RPCURL)
	}
	if c.PaymentTokenAddress != "" {
		q.Set("payment_token_address", c.PaymentTokenAddress)
	}
	if c.DataPaymentContractAddress != "" {
		q.Set("data_payment_contract_address", c.DataPaymentContractAddress)
	}
	if c.NetworkID != "" {
		q.Set("network_id", c.NetworkID)
	}
	for _, p := range c.BootstrapPeers {
		q.Add("bootstrap_peer", p)
	}
	if c.BootstrapURL != "" {
		q.Set("bootstrap_url", c.BootstrapURL)
	}
	if c.IgnoreCache {
		q.Set("ignore_cache", "true")
	}
	if c.BootstrapCacheDir != "" {
		q.Set("bootstrap_cache_dir", c.BootstrapCacheDir)
	}
	return &url.URL{
		Scheme:   networkConfigScheme,
		Opaque:   networkConfigOpaquePrefix + string(c.Network),
		RawQuery: q.Encode(),
	}
}

// String renders c as the canonical URI form.
func (c *NetworkConfig) String() string { return c.ToURL().String() }
