package main

// cmd/ark/root.go — root command wiring and the shared session helper every
// subcommand builds its core.Hierarchy from.
// ---------------------------------------------------------------------------
// Pattern:
//   • cobra.Command vars at the TOP.
//   • init() wires persistent flags and subcommands.
//   • session construction (config + network/payment capability) at the
//     BOTTOM, shared by create.go/show.go/vault.go/rotate.go.
// ---------------------------------------------------------------------------

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rrauch/ark/core"
	"github.com/rrauch/ark/internal/testutil"
	"github.com/rrauch/ark/pkg/config"
)

var rootCmd = &cobra.Command{
	Use:   "ark",
	Short: "Manage an Ark's cryptographic key hierarchy and manifest on Autonomi",
}

func init() {
	rootCmd.PersistentFlags().String("mnemonic-file", "", "path to a file holding the 24-word Ark seed mnemonic (reads stdin if unset)")
	keyCmd := &cobra.Command{Use: "key", Short: "Manage an Ark's role keys"}
	keyCmd.AddCommand(rotateCmd)
	rootCmd.AddCommand(createCmd, showCmd, vaultCmd, keyCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		logrus.WithError(err).Error("ark command failed")
		os.Exit(1)
	}
}

// session bundles everything a subcommand needs to build a core.Hierarchy:
// the loaded config, a shared cache, and the network/payment capabilities.
type session struct {
	cfg     *config.Config
	net     core.StorageNetwork
	payment core.PaymentCapability
	cache   *core.CacheSet
}

// newSession loads configuration and wires the network/payment
// capabilities. Real StorageNetwork/PaymentCapability implementations are
// external collaborators this module does not ship (spec.md §1 Non-goals);
// the CLI always runs against the same in-memory fake its own tests use. That fake is empty and process-local, so it exercises a
// single command's core operations end-to-end but cannot carry state
// between invocations -- "ark show" run after a separate "ark create"
// process sees nothing, since each cobra command is its own os.Exit.

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, err
	}
	if cfg.Network.ConfigURL != "" {
		if _, err := core.ParseNetworkConfig(cfg.Network.ConfigURL); err != nil {
			return nil, err
		}
	}
	return &session{
		cfg:     cfg,
		net:     testutil.NewNetwork(),
		payment: testutil.Payment{},
		cache:   cfg.NewCacheSet(),
	}, nil
}

func (s *session) hierarchy(seed core.ArkSeed) *core.Hierarchy {
	return core.NewHierarchy(s.net, s.cache, seed)
}

func (s *session) payOption(ctx context.Context, estimate core.Cost) (core.PaymentOption, error) {
	return s.payment.Payment(ctx, estimate)
}

// readMnemonic reads the 24-word Ark seed mnemonic from --mnemonic-file if
// set, otherwise from stdin (spec.md §6: "the CLI prompts for secrets on
// stdin").
func readMnemonic(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("mnemonic-file")
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read mnemonic file: %w", err)
		}
		return string(data), nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), "enter 24-word ark seed mnemonic:")
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read mnemonic: %w", err)
	}
	return line, nil
}

// watchProgress prints each snapshot of p as an indented tree, a minimal
// stand-in for the "live hierarchical progress view" the spec defers to an
// external renderer -- this module owns only snapshot production.
func watchProgress(cmd *cobra.Command, p *core.Progress) {
	go func() {
		for snap := range p.Watch() {
			printReport(cmd.OutOrStdout(), snap, 0)
		}
	}()
}

func printReport(w io.Writer, r core.Report, depth int) {
	indent := ""
	for i := 0; i < depth; i++ {
		indent += "  "
	}
	fmt.Fprintf(w, "%s[%s] %s (%d/%d)\n", indent, r.Status, r.Label, r.Completed, r.Total)
	for _, c := range r.Children {
		printReport(w, c, depth+1)
	}
}
