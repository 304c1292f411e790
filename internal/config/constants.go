package config

import "time"

// Provider lifecycle event channels. networkChanged is the legacy alias
// older wallets emit instead of chainChanged.
const (
	EventChainChanged    = "chainChanged"
	EventAccountsChanged = "accountsChanged"
	EventClose           = "close"
	EventNetworkChanged  = "networkChanged"
)

// Provider RPC methods.
const (
	MethodRequestAccounts = "eth_requestAccounts"
	MethodAccounts        = "eth_accounts"
	MethodChainID         = "eth_chainId"
	MethodNetVersion      = "net_version"
)

// CodeUserRejectedRequest is the EIP-1193 error code wallets return when the
// user declines the account-access prompt.
const CodeUserRejectedRequest = 4001

// StaticChainFieldPriority lists the ad-hoc chain-identifier fields some
// wallets attach to their provider object, in lookup order.
var StaticChainFieldPriority = [...]string{"chainId", "netVersion", "networkVersion", "_chainId"}

// Server
const (
	ServerReadTimeout    = 30 * time.Second
	ServerWriteTimeout   = 60 * time.Second
	ServerIdleTimeout    = 120 * time.Second
	ServerMaxHeaderBytes = 1 << 20
	ShutdownTimeout      = 15 * time.Second
)

// SSE
const (
	SSEHubBuffer         = 16
	SSEKeepAliveInterval = 15 * time.Second
)

// Journal
const (
	JournalDefaultPageSize = 50
	JournalMaxPageSize     = 500
)

// Logging
const LogMaxAgeDays = 14

// Bridge
const BridgeDialTimeout = 10 * time.Second
