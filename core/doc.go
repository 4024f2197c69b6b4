// Package core implements the cryptographic lifecycle of an Ark: key
// derivation, encrypted manifests, key rotation, Vault accessors, and the
// per-kind cache layer sitting on top of four storage-network primitives
// (chunk, register, pointer, scratchpad). See StorageNetwork in
// capability.go for the boundary this package depends on but does not
// implement.
package core
