package checks

import (
	"context"
	"sort"

	"condi-loader/core/condiloader"
	"condi-loader/core/fetch"
	"condi-loader/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/sourcegraph/conc/pool"
)

// Asset status values.
const (
	StatusOK      = "ok"
	StatusMissing = "missing"
	StatusError   = "error"
)

// Asset is one storage-served resource named by a manifest item.
type Asset struct {
	Item   string     `json:"item"`
	Kind   fetch.Kind `json:"kind"`
	URL    string     `json:"url"`
	Bucket string     `json:"bucket"`
	Key    string     `json:"key"`
}

// AssetStatus is the check outcome of one asset.
type AssetStatus struct {
	Asset
	Status string `json:"status"`
	Size   int64  `json:"size,omitempty"`
	Error  string `json:"error,omitempty"`
}

// AssetReport summarizes the assets of one manifest.
type AssetReport struct {
	Manifest string        `json:"manifest"`
	Checked  int           `json:"checked"`
	Missing  int           `json:"missing"`
	Errors   int           `json:"errors"`
	Remote   []string      `json:"remote"`
	Assets   []AssetStatus `json:"assets"`
}

// Healthy reports whether every checked asset exists.
func (r *AssetReport) Healthy() bool {
	return r.Missing == 0 && r.Errors == 0
}

// CollectAssets resolves the stylesheets and scripts of items the way the
// loader does and splits them into storage-served assets and remote URLs.
func CollectAssets(items []condiloader.Item, cfg condiloader.Config, bucket string) ([]Asset, []string) {
	var assets []Asset
	remote := []string{}
	seen := make(map[string]bool)

	add := func(item string, kind fetch.Kind, base, u string) {
		resolved := fetch.Resolve(base, u)
		b, key, ok := storage.ParseObjectURL(resolved)
		if !ok {
			if fetch.IsAbsURL(resolved) {
				if !seen[resolved] {
					seen[resolved] = true
					remote = append(remote, resolved)
				}
				return
			}
			b, key = bucket, storage.ObjectKey(resolved)
		}
		assets = append(assets, Asset{Item: item, Kind: kind, URL: resolved, Bucket: b, Key: key})
	}

	for i, it := range items {
		name := it.Name
		if name == "" {
			name = condiloader.DefaultName(i)
		}
		for _, u := range it.Stylesheets {
			add(name, fetch.KindStyle, cfg.StyleBasePath, u)
		}
		for _, u := range it.Scripts {
			add(name, fetch.KindScript, cfg.ScriptBasePath, u)
		}
	}
	return assets, remote
}

// CheckAssets stats every asset, at most workers at a time.
func CheckAssets(ctx context.Context, client storage.Client, assets []Asset, workers int) []AssetStatus {
	if workers <= 0 {
		workers = 8
	}

	p := pool.NewWithResults[AssetStatus]().WithMaxGoroutines(workers)
	for _, a := range assets {
		p.Go(func() AssetStatus {
			st := AssetStatus{Asset: a, Status: StatusOK}
			info, err := client.StatObject(ctx, a.Bucket, a.Key, minio.StatObjectOptions{})
			switch {
			case storage.IsNotFound(err):
				st.Status = StatusMissing
			case err != nil:
				st.Status = StatusError
				st.Error = err.Error()
			default:
				st.Size = info.Size
			}
			return st
		})
	}

	statuses := p.Wait()
	sort.SliceStable(statuses, func(i, j int) bool {
		if statuses[i].Item != statuses[j].Item {
			return statuses[i].Item < statuses[j].Item
		}
		return statuses[i].URL < statuses[j].URL
	})
	return statuses
}

// CheckManifest builds the asset report of a manifest.
func CheckManifest(ctx context.Context, client storage.Client, bucket, name string, m *condiloader.Manifest, cfg condiloader.Config, workers int) *AssetReport {
	assets, remote := CollectAssets(m.Items, cfg, bucket)
	report := &AssetReport{
		Manifest: name,
		Remote:   remote,
		Assets:   CheckAssets(ctx, client, assets, workers),
	}
	report.Checked = len(report.Assets)
	for _, st := range report.Assets {
		switch st.Status {
		case StatusMissing:
			report.Missing++
		case StatusError:
			report.Errors++
		}
	}
	return report
}
