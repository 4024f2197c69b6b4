package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rrauch/ark/core"
)

var createCmd = &cobra.Command{
	Use:   "create <name>",
	Short: "Generate a fresh ArkSeed and write its initial manifest",
	Args:  cobra.ExactArgs(1),
	RunE:  runCreate,
}

func init() {
	createCmd.Flags().String("description", "", "optional description stored in the manifest")
}

func runCreate(cmd *cobra.Command, args []string) error {
	name := args[0]
	description, _ := cmd.Flags().GetString("description")

	sess, err := newSession(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	pay, err := sess.payOption(ctx, 0)
	if err != nil {
		return err
	}

	progress, task := core.NewProgress(5, "create ark "+name)
	defer progress.Close()
	watchProgress(cmd, progress)

	var desc *string
	if description != "" {
		desc = &description
	}

	result, receipt, err := core.WithReceipt(func(r *core.Receipt) (*core.ArkCreationResult, error) {
		return core.CreateArk(ctx, sess.net, sess.cache, name, desc, pay, task, r)
	})
	if err != nil {
		return err
	}

	arkAddr, err := core.EncodePublicBech32(result.Seed.Address())
	if err != nil {
		return err
	}
	workerSecret, err := core.EncodeSecretBech32(result.WorkerSecret)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ark address:   %s\n", arkAddr)
	fmt.Fprintf(out, "seed mnemonic: %s\n", result.Mnemonic)
	fmt.Fprintf(out, "worker secret: %s\n", workerSecret)
	fmt.Fprintf(out, "total cost:    %d\n", receipt.TotalCost())
	return nil
}
