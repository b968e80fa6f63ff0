package seed

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/ciphersql/sandbox/internal/config"
)

// FetchBucket downloads seed scripts and fixture files from the configured
// object-storage bucket into destDir, letting one curated fixture set serve
// every environment.
func FetchBucket(ctx context.Context, cfg *config.Config, destDir string) error {
	client, err := minio.New(cfg.SeedS3Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.SeedS3AccessKey, cfg.SeedS3SecretKey, ""),
		Secure: cfg.SeedS3UseSSL,
	})
	if err != nil {
		return fmt.Errorf("connect to fixture bucket: %w", err)
	}

	fetched := 0
	for obj := range client.ListObjects(ctx, cfg.SeedBucket, minio.ListObjectsOptions{Recursive: true}) {
		if obj.Err != nil {
			return fmt.Errorf("list fixture bucket: %w", obj.Err)
		}
		name := obj.Key
		if !strings.HasSuffix(name, ".sql") && !strings.HasSuffix(name, ".yaml") && !strings.HasSuffix(name, ".yml") {
			continue
		}
		dest := filepath.Join(destDir, filepath.Base(name))
		if err := client.FGetObject(ctx, cfg.SeedBucket, name, dest, minio.GetObjectOptions{}); err != nil {
			return fmt.Errorf("fetch %s: %w", name, err)
		}
		fetched++
	}
	if fetched == 0 {
		return fmt.Errorf("fixture bucket %s is empty", cfg.SeedBucket)
	}

	log.Printf("fetched %d fixture files from bucket %s", fetched, cfg.SeedBucket)
	return nil
}
