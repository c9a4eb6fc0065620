// Package storage is the bucket behind the loader service.
//
// The bucket holds three kinds of objects:
//   - stylesheet and script assets, which the fetcher serves for s3:// and
//     relative URLs
//   - item manifests under Config.ManifestPrefix
//   - empty folder markers that the integrity check creates
//
// Client is the narrow MinIO API the rest of the module depends on. Tests use
// the testify mock in core/storage/mocks.
//
//	client, err := storage.NewClient(cfg)
//	if _, err := storage.EnsureBucket(ctx, client, cfg.Bucket, cfg.Region); err != nil { ... }
//	bucket, key, ok := storage.ParseObjectURL("s3://assets/css/site.css")
package storage
