package core

// Owner-role tags for the fixed derivation spine of spec.md §4.4. Each of
// these exists only so DeriveChildSecret/DerivePublicChild can produce a
// distinctly-typed key for "the thing that owns this register/scratchpad",
// as opposed to the role key (Helm/Data/...) the register's *value* points
// at.
type (
	HelmRegisterOwnerRole   struct{}
	DataRegisterOwnerRole   struct{}
	DataKeyRingOwnerRole    struct{}
	ManifestOwnerRole       struct{}
	VaultArkPointerRole     struct{}
)

func (HelmRegisterOwnerRole) RoleName() string  { return "helm-register-owner" }
func (HelmRegisterOwnerRole) SecretHRP() string { return "" }
func (HelmRegisterOwnerRole) PublicHRP() string { return "" }

func (DataRegisterOwnerRole) RoleName() string  { return "data-register-owner" }
func (DataRegisterOwnerRole) SecretHRP() string { return "" }
func (DataRegisterOwnerRole) PublicHRP() string { return "" }

func (DataKeyRingOwnerRole) RoleName() string  { return "data-keyring-owner" }
func (DataKeyRingOwnerRole) SecretHRP() string { return "" }
func (DataKeyRingOwnerRole) PublicHRP() string { return "" }

func (ManifestOwnerRole) RoleName() string  { return "manifest-owner" }
func (ManifestOwnerRole) SecretHRP() string { return "" }
func (ManifestOwnerRole) PublicHRP() string { return "" }

func (VaultArkPointerRole) RoleName() string  { return "vault-ark-pointer" }
func (VaultArkPointerRole) SecretHRP() string { return "" }
func (VaultArkPointerRole) PublicHRP() string { return "" }

// Fixed ASCII derivation paths, spec.md §4.4. Each is hashed once, at
// package init, into the DerivationIndex its owner role derives with.
const (
	pathHelmRegister   = "/ark/v0/helm/register"
	pathDataRegister   = "/ark/v0/data/register"
	pathDataKeyRing    = "/ark/v0/data/keyring/scratchpad"
	pathManifest       = "/ark/v0/manifest/scratchpad"
	pathVaultArkPointer = "/ark/v0/vault/ark/pointer"
)

var (
	helmRegisterIndex    = DerivationIndexFromPath[HelmRegisterOwnerRole](pathHelmRegister)
	dataRegisterIndex    = DerivationIndexFromPath[DataRegisterOwnerRole](pathDataRegister)
	dataKeyRingIndex     = DerivationIndexFromPath[DataKeyRingOwnerRole](pathDataKeyRing)
	manifestIndex        = DerivationIndexFromPath[ManifestOwnerRole](pathManifest)
	vaultArkPointerIndex = DerivationIndexFromPath[VaultArkPointerRole](pathVaultArkPointer)
)
