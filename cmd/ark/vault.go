package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rrauch/ark/core"
)

var vaultCmd = &cobra.Command{
	Use:   "vault",
	Short: "Create and inspect Vaults registered under an Ark",
}

var vaultCreateCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Create a new Vault and its ark-pointer trust anchor",
	Args:  cobra.ExactArgs(1),
	RunE:  runVaultCreate,
}

var vaultCheckCmd = &cobra.Command{
	Use:   "check <vault-address>",
	Short: "Resolve the Ark owning a VaultAddress using only public information",
	Args:  cobra.ExactArgs(1),
	RunE:  runVaultCheck,
}

func init() {
	vaultCreateCmd.Flags().String("description", "", "optional vault description")
	vaultCmd.AddCommand(vaultCreateCmd, vaultCheckCmd)
}

func runVaultCreate(cmd *cobra.Command, args []string) error {
	name := args[0]
	description, _ := cmd.Flags().GetString("description")

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

	ctx := cmd.Context()
	h := sess.hierarchy(seed)
	helmKey, err := h.CurrentHelmKey(ctx)
	if err != nil {
		return err
	}
	pay, err := sess.payOption(ctx, 0)
	if err != nil {
		return err
	}

	progress, task := core.NewProgress(2, "create vault "+name)
	defer progress.Close()
	watchProgress(cmd, progress)

	vault, _, err := core.WithReceipt(func(r *core.Receipt) (*core.VaultConfig, error) {
		return h.CreateVault(ctx, helmKey, name, description, pay, task, r)
	})
	if err != nil {
		return err
	}

	vaultAddr, err := core.EncodePublicBech32(vault.VaultAddress)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "vault address: %s\n", vaultAddr)
	return nil
}

func runVaultCheck(cmd *cobra.Command, args []string) error {
	vaultAddr, err := core.DecodePublicBech32[core.VaultRole](args[0])
	if err != nil {
		return err
	}
	sess, err := newSession(cmd)
	if err != nil {
		return err
	}
	ark, err := core.ArkFromVaultAddress(cmd.Context(), sess.net, sess.cache, vaultAddr)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if ark == nil {
		fmt.Fprintln(out, "no ark-pointer found for this vault address")
		return nil
	}
	arkAddr, err := core.EncodePublicBech32(*ark)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "ark address: %s\n", arkAddr)
	return nil
}
