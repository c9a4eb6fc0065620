package cmd

import (
	"fmt"
	"os"

	"condi-loader/core/storage"
	"condi-loader/feature/manifests"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// manifestCmd groups the manifest storage commands
var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Manage manifests stored in the bucket",
}

var manifestPushCmd = &cobra.Command{
	Use:   "push <name> <file>",
	Short: "Validate a manifest file and store it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, e, err := manifestStore(cmd, true)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("failed to read manifest: %w", err)
		}
		m, err := store.Put(cmd.Context(), args[0], data)
		if err != nil {
			return err
		}
		e.logger.Info("Manifest pushed", zap.String("manifest", args[0]), zap.String("key", store.Key(args[0])), zap.Int("items", len(m.Items)))
		return nil
	},
}

var manifestShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Print a stored manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := manifestStore(cmd, false)
		if err != nil {
			return err
		}
		m, err := store.Get(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		return m.Encode(os.Stdout)
	},
}

var manifestListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored manifests",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, _, err := manifestStore(cmd, false)
		if err != nil {
			return err
		}
		names, err := store.List(cmd.Context())
		if err != nil {
			return err
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return nil
	},
}

var manifestDeleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Remove a stored manifest",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, e, err := manifestStore(cmd, false)
		if err != nil {
			return err
		}
		if err := store.Delete(cmd.Context(), args[0]); err != nil {
			return err
		}
		e.logger.Info("Manifest deleted", zap.String("manifest", args[0]))
		return nil
	},
}

var (
	syncPrune  bool
	syncDryRun bool
	syncYes    bool
)

var manifestSyncCmd = &cobra.Command{
	Use:   "sync <dir>",
	Short: "Make the stored manifests match a directory",
	Long: `Compares the .yaml, .yml and .json manifests of a directory with the stored
ones, then uploads new manifests and updates changed ones. With --prune, stored
manifests without a local file are deleted. Changes are only applied with --yes.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, e, err := manifestStore(cmd, true)
		if err != nil {
			return err
		}
		local, err := manifests.ReadDir(args[0])
		if err != nil {
			return err
		}

		opts := manifests.SyncOptions{Prune: syncPrune, DryRun: syncDryRun, Confirmed: syncYes}
		plan, err := store.PlanSync(cmd.Context(), local, opts)
		if err != nil {
			return err
		}

		for _, a := range plan.Actions {
			fmt.Printf("%-7s %s (%s)\n", a.Type, a.Name, a.Reason)
		}
		fmt.Printf("local %d, stored %d, unchanged %d, uploads %d, updates %d, deletes %d\n",
			plan.Summary.Local, plan.Summary.Stored, plan.Summary.Unchanged,
			plan.Summary.Uploads, plan.Summary.Updates, plan.Summary.Deletes)

		if len(plan.Actions) == 0 {
			return nil
		}
		if syncDryRun || !syncYes {
			e.logger.Info("Sync not applied, pass --yes to execute")
			return nil
		}
		n, err := store.ApplySyncPlan(cmd.Context(), plan, opts)
		e.logger.Info("Manifests synced", zap.Int("executed", n), zap.Int("planned", len(plan.Actions)))
		return err
	},
}

// manifestStore opens the store. Writers pass create so a fresh bucket is
// made on first use.
func manifestStore(cmd *cobra.Command, create bool) (*manifests.Store, *env, error) {
	e, err := loadEnv(true)
	if err != nil {
		return nil, nil, err
	}
	client, err := e.storage()
	if err != nil {
		return nil, nil, err
	}
	if create {
		made, err := storage.EnsureBucket(cmd.Context(), client, e.cfg.Storage.Bucket, e.cfg.Storage.Region)
		if err != nil {
			return nil, nil, err
		}
		if made {
			e.logger.Info("Created bucket", zap.String("bucket", e.cfg.Storage.Bucket))
		}
	}
	return manifests.NewStore(client, e.cfg.Storage.Bucket, e.cfg.Storage.ManifestPrefix, 0, e.logger), e, nil
}

func init() {
	manifestSyncCmd.Flags().BoolVar(&syncPrune, "prune", false, "delete stored manifests with no local file")
	manifestSyncCmd.Flags().BoolVar(&syncDryRun, "dry-run", false, "print the plan only")
	manifestSyncCmd.Flags().BoolVarP(&syncYes, "yes", "y", false, "apply the plan")
	manifestCmd.AddCommand(manifestPushCmd, manifestShowCmd, manifestListCmd, manifestDeleteCmd, manifestSyncCmd)
	RootCmd.AddCommand(manifestCmd)
}
