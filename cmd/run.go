package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"condi-loader/core/condiloader"
	"condi-loader/core/fetch"
	"condi-loader/core/storage"
	"condi-loader/feature/manifests"
	"condi-loader/feature/pages"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	runPage     string
	runManifest string
	runStored   string
	runOut      string
	runRoot     string
	runStorage  bool
	runJSON     bool
	runStrict   bool
)

// runCmd processes a local page
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Process a local HTML page",
	Long: `Evaluates the items of a manifest against a local HTML page, loads the
resources of every satisfied item and prints the per-item results.
Relative URLs are read from --root (the page's directory by default), or from
the bucket with --storage.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if runManifest == "" && runStored == "" {
			return fmt.Errorf("one of --manifest or --stored is required")
		}

		e, err := loadEnv(true)
		if err != nil {
			return err
		}
		defer e.logger.Sync()

		page, err := os.ReadFile(runPage)
		if err != nil {
			return fmt.Errorf("failed to read page: %w", err)
		}

		var items []condiloader.Item
		if runManifest != "" {
			f, err := os.Open(runManifest)
			if err != nil {
				return fmt.Errorf("failed to open manifest: %w", err)
			}
			m, err := condiloader.DecodeManifest(f)
			f.Close()
			if err != nil {
				return err
			}
			items = m.Items
		}

		root := runRoot
		if root == "" {
			root = filepath.Dir(runPage)
		}
		fetchTimeout := time.Duration(e.cfg.Loader.FetchTimeoutSeconds) * time.Second
		transport := fetch.NewDefaultTransport(fetch.NewHTTPClient(fetchTimeout), nil, "")
		files := fetch.NewFileTransport(root)
		transport.Handle("file", files).HandleRelative(files)

		var source pages.ManifestSource
		if runStorage || runStored != "" {
			client, err := e.storage()
			if err != nil {
				return err
			}
			st := fetch.NewStorageTransport(client, e.cfg.Storage.Bucket)
			transport.Handle(storage.Scheme, st)
			if runStorage {
				transport.HandleRelative(st)
			}
			source = manifests.NewStore(client, e.cfg.Storage.Bucket, e.cfg.Storage.ManifestPrefix, e.cfg.Storage.ManifestCacheTTL(), e.logger)
		}

		svc := pages.NewService(transport, source, nil, e.cfg.Loader, e.logger)
		resp, err := svc.Process(cmd.Context(), pages.Request{
			HTML:     string(page),
			Manifest: runStored,
			Items:    items,
		})
		if err != nil {
			return err
		}

		if runOut != "" {
			if err := os.WriteFile(runOut, []byte(resp.HTML), 0o644); err != nil {
				return fmt.Errorf("failed to write page: %w", err)
			}
			e.logger.Info("Processed page saved", zap.String("file", runOut))
		}

		if runJSON {
			data, err := json.MarshalIndent(resp.Results, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal JSON: %w", err)
			}
			fmt.Println(string(data))
		} else {
			printResults(resp)
		}

		if runStrict {
			return strictError(resp)
		}
		return nil
	},
}

// strictError reports failed items and items still pending after the
// process timeout, or nil when every item settled cleanly.
func strictError(resp *pages.Response) error {
	var errs []error
	if resp.Summary.Failed > 0 {
		errs = append(errs, fmt.Errorf("%d item(s) failed", resp.Summary.Failed))
	}
	if resp.TimedOut {
		errs = append(errs, fmt.Errorf("%d item(s) still pending after timeout", resp.Summary.Pending))
	}
	return errors.Join(errs...)
}

func printResults(resp *pages.Response) {
	fmt.Println("\n=== Items ===")
	for _, r := range resp.Results {
		outcome := string(r.Outcome)
		if outcome == "" {
			outcome = r.State.String()
		}
		fmt.Printf("%-8s %s (%s)\n", outcome, r.Name, r.Duration.Round(time.Millisecond))
		if r.Error != "" {
			fmt.Printf("         %s\n", r.Error)
		}
	}
	fmt.Println("\n=== Summary ===")
	fmt.Printf("Total: %d\n", resp.Summary.Total)
	fmt.Printf("Ready: %d\n", resp.Summary.Ready)
	fmt.Printf("Skipped: %d\n", resp.Summary.Skipped)
	fmt.Printf("Failed: %d\n", resp.Summary.Failed)
	if resp.TimedOut {
		fmt.Printf("Pending: %d (timed out)\n", resp.Summary.Pending)
	}
	if len(resp.Events) > 0 {
		fmt.Printf("Events: %v\n", resp.Events)
	}
}

func init() {
	runCmd.Flags().StringVar(&runPage, "page", "", "HTML page to process")
	runCmd.Flags().StringVar(&runManifest, "manifest", "", "local manifest file (YAML or JSON)")
	runCmd.Flags().StringVar(&runStored, "stored", "", "name of a manifest stored in the bucket")
	runCmd.Flags().StringVar(&runOut, "out", "", "write the processed page to this file")
	runCmd.Flags().StringVar(&runRoot, "root", "", "directory serving relative URLs (default: the page's directory)")
	runCmd.Flags().BoolVar(&runStorage, "storage", false, "serve relative URLs from the bucket")
	runCmd.Flags().BoolVar(&runJSON, "json", false, "print results as JSON")
	runCmd.Flags().BoolVar(&runStrict, "strict", false, "exit non-zero when an item fails")
	_ = runCmd.MarkFlagRequired("page")
	RootCmd.AddCommand(runCmd)
}
