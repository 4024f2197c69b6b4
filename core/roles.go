package core

// Role is a compile-time-only tag distinguishing which authority a key
// belongs to. Role implementations carry no state; they exist purely so
// SecretKey[R] and PublicKey[R] for different R are different Go types even
// though both wrap the same 32/48-byte BLS scalar representation. This is
// the Go equivalent of the source design's phantom type parameter <K>.
type Role interface {
	// RoleName is used in error messages and log fields.
	RoleName() string
	// SecretHRP is the bech32m human-readable prefix for this role's secret
	// key, or "" if the role's secret is never bech32-exported.
	SecretHRP() string
	// PublicHRP is the bech32m human-readable prefix for this role's public
	// key, or "" if the role's public key is never bech32-exported (e.g.
	// because it is only ever exchanged as a hex string inside an envelope
	// stanza).
	PublicHRP() string
}

// ArkRole tags the Ark's own master identity. Its secret (the ArkSeed) is
// never bech32-encoded directly -- it is recovered from a BIP-39 mnemonic --
// but its public key (the ArkAddress) is the "arkaddr" bech32m form.
type ArkRole struct{}

func (ArkRole) RoleName() string  { return "ark" }
func (ArkRole) SecretHRP() string { return "" }
func (ArkRole) PublicHRP() string { return "arkaddr" }

// HelmRole tags the manifest-write authority.
type HelmRole struct{}

func (HelmRole) RoleName() string  { return "helm" }
func (HelmRole) SecretHRP() string { return "arkhelmsec" }
func (HelmRole) PublicHRP() string { return "" }

// DataRole tags the data-envelope read authority (its public twin is the
// SealKey).
type DataRole struct{}

func (DataRole) RoleName() string  { return "data" }
func (DataRole) SecretHRP() string { return "arkdatasec" }
func (DataRole) PublicHRP() string { return "" }

// WorkerRole tags the runtime-identity authority recorded in the manifest.
type WorkerRole struct{}

func (WorkerRole) RoleName() string  { return "worker" }
func (WorkerRole) SecretHRP() string { return "arkworkersec" }
func (WorkerRole) PublicHRP() string { return "arkworkerpub" }

// BridgeRole tags a Vault's optional bridge key.
type BridgeRole struct{}

func (BridgeRole) RoleName() string  { return "bridge" }
func (BridgeRole) SecretHRP() string { return "arkbridgesec" }
func (BridgeRole) PublicHRP() string { return "arkbridgepub" }

// VaultRole tags a Vault's identity key. Its secret half is generated and
// discarded immediately after deriving the ark-pointer address (see
// VaultAccessor), so it carries no SecretHRP.
type VaultRole struct{}

func (VaultRole) RoleName() string  { return "vault" }
func (VaultRole) SecretHRP() string { return "" }
func (VaultRole) PublicHRP() string { return "arkvaultaddr" }

// zero returns the zero value of a Role type, used to call its (stateless)
// methods without requiring callers to construct one.
func zero[R Role]() R {
	var r R
	return r
}
