package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"condi-loader/feature/integrity"
	"condi-loader/feature/integrity/checks"
	"condi-loader/feature/manifests"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	fixFlag       bool
	integrityJSON bool
)

// integrityCmd represents the integrity command
var integrityCmd = &cobra.Command{
	Use:   "integrity [manifest...]",
	Short: "Check storage structure and manifest assets",
	Long: `Checks that the bucket holds the manifest prefix and bucket-served base paths,
then that every stylesheet and script of the given manifests (all stored
manifests when none is given) exists in the bucket.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		startTime := time.Now()

		e, err := loadEnv(true)
		if err != nil {
			return err
		}
		logg := e.logger
		cfg := e.cfg

		client, err := e.storage()
		if err != nil {
			return err
		}
		store := manifests.NewStore(client, cfg.Storage.Bucket, cfg.Storage.ManifestPrefix, 0, logg)
		svc := integrity.NewService(client, cfg.Storage.Bucket,
			integrity.RequiredFolders(cfg.Storage, cfg.Loader),
			store, e.history(), cfg.Loader, logg)

		structure, err := svc.Structure(ctx, fixFlag)
		if err != nil {
			return fmt.Errorf("structure check failed: %w", err)
		}
		if len(structure.Fixed) > 0 {
			logg.Info("Created missing folders", zap.Strings("folders", structure.Fixed))
		}

		var reports []*checks.AssetReport
		if len(args) == 0 {
			reports, err = svc.CheckAllManifests(ctx)
			if err != nil {
				return err
			}
		}
		for _, name := range args {
			report, err := svc.CheckManifest(ctx, name)
			if err != nil {
				return err
			}
			reports = append(reports, report)
		}

		if integrityJSON {
			data, err := json.MarshalIndent(reports, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			fmt.Println(string(data))
		}

		unhealthy := 0
		fmt.Println("\n=== Structure ===")
		fmt.Printf("folders %d, missing %d, fixed %d\n", len(structure.Folders), len(structure.Missing), len(structure.Fixed))
		if !structure.Healthy() {
			unhealthy++
		}

		fmt.Println("\n=== Manifest Integrity ===")
		for _, r := range reports {
			fmt.Printf("%s: checked %d, missing %d, errors %d, remote %d\n", r.Manifest, r.Checked, r.Missing, r.Errors, len(r.Remote))
			for _, a := range r.Assets {
				if a.Status != checks.StatusOK {
					fmt.Printf("  %-7s %s/%s (%s, item %s)\n", a.Status, a.Bucket, a.Key, a.Kind, a.Item)
				}
			}
			if !r.Healthy() {
				unhealthy++
			}
		}
		fmt.Printf("Execution Time: %s\n", time.Since(startTime).String())

		if unhealthy > 0 {
			return fmt.Errorf("%d integrity check(s) failed", unhealthy)
		}
		return nil
	},
}

func init() {
	integrityCmd.Flags().BoolVar(&fixFlag, "fix", false, "create missing folders")
	integrityCmd.Flags().BoolVar(&integrityJSON, "json", false, "print the reports as JSON")
	RootCmd.AddCommand(integrityCmd)
}
