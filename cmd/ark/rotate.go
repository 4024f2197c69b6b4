package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rrauch/ark/core"
)

var rotateCmd = &cobra.Command{
	Use:   "rotate {data|helm|worker|all}",
	Short: "Rotate one or all of an Ark's role keys",
	Args:  cobra.ExactArgs(1),
	RunE:  runRotate,
}

func runRotate(cmd *cobra.Command, args []string) error {
	which := args[0]
	switch which {
	case "data", "helm", "worker", "all":
	default:
		return fmt.Errorf("unknown rotation target %q: want data, helm, worker, or all", which)
	}

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
	pay, err := sess.payOption(ctx, 0)
	if err != nil {
		return err
	}

	progress, task := core.NewProgress(4, "rotate "+which)
	defer progress.Close()
	watchProgress(cmd, progress)

	out := cmd.OutOrStdout()
	switch which {
	case "data":
		key, receipt, err := core.WithReceipt(func(r *core.Receipt) (core.SecretKey[core.DataRole], error) {
			return h.RotateData(ctx, task, pay, r)
		})
		if err != nil {
			return err
		}
		enc, err := core.EncodeSecretBech32(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "new data key: %s\n", enc)
		fmt.Fprintf(out, "total cost:   %d\n", receipt.TotalCost())
	case "helm":
		key, receipt, err := core.WithReceipt(func(r *core.Receipt) (core.SecretKey[core.HelmRole], error) {
			return h.RotateHelm(ctx, task, pay, r)
		})
		if err != nil {
			return err
		}
		enc, err := core.EncodeSecretBech32(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "new helm key: %s\n", enc)
		fmt.Fprintf(out, "total cost:   %d\n", receipt.TotalCost())
	case "worker":
		key, receipt, err := core.WithReceipt(func(r *core.Receipt) (core.SecretKey[core.WorkerRole], error) {
			return h.RotateWorker(ctx, task, nil, nil, pay, r)
		})
		if err != nil {
			return err
		}
		enc, err := core.EncodeSecretBech32(key)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "new worker key: %s\n", enc)
		fmt.Fprintf(out, "total cost:     %d\n", receipt.TotalCost())
	case "all":
		result, receipt, err := core.WithReceipt(func(r *core.Receipt) (*core.RotationResult, error) {
			return h.RotateAll(ctx, task, pay, r)
		})
		if err != nil {
			return err
		}
		helmEnc, err := core.EncodeSecretBech32(result.HelmKey)
		if err != nil {
			return err
		}
		workerEnc, err := core.EncodeSecretBech32(result.WorkerSecret)
		if err != nil {
			return err
		}
		dataEnc, err := core.EncodeSecretBech32(result.DataKey)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "new helm key:   %s\n", helmEnc)
		fmt.Fprintf(out, "new worker key: %s\n", workerEnc)
		fmt.Fprintf(out, "new data key:   %s\n", dataEnc)
		fmt.Fprintf(out, "total cost:     %d\n", receipt.TotalCost())
	}
	return nil
}
