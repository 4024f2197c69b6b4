package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rrauch/ark/core"
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Decrypt and print the current manifest for an Ark",
	RunE:  runShow,
}

func runShow(cmd *cobra.Command, args []string) error {
	sess, err := newSession(cmd)
	if err != nil {
		return err
	}

	mnemonic, err := readMnemonic(cmd)
	if err != nil {
		return err
	}
	seed, err := core.ArkSeedFromMnemonic(mnemonic)
	if err != nil {
		return err
	}
	defer seed.Zeroize()

	h := sess.hierarchy(seed)
	manifest, err := h.GetManifest(cmd.Context(), core.AsDecryptor(seed.Secret()))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	arkAddr, err := core.EncodePublicBech32(manifest.ArkAddress)
	if err != nil {
		return err
	}
	workerAddr, err := core.EncodePublicBech32(manifest.AuthorizedWorker)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "ark address:      %s\n", arkAddr)
	fmt.Fprintf(out, "name:             %s\n", manifest.Name)
	if manifest.Description != nil {
		fmt.Fprintf(out, "description:      %s\n", *manifest.Description)
	}
	fmt.Fprintf(out, "created:          %s\n", manifest.Created.Format("2006-01-02T15:04:05Z07:00"))
	fmt.Fprintf(out, "last modified:    %s\n", manifest.LastModified.Format("2006-01-02T15:04:05Z07:00"))
	fmt.Fprintf(out, "authorized worker: %s\n", workerAddr)
	fmt.Fprintf(out, "retired workers:  %d\n", len(manifest.RetiredWorkers))
	fmt.Fprintf(out, "vaults:           %d\n", len(manifest.Vaults))
	for _, v := range manifest.Vaults {
		vaultAddr, err := core.EncodePublicBech32(v.VaultAddress)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  - %s %q active=%v\n", vaultAddr, v.Name, v.Active)
	}
	return nil
}
