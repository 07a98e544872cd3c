// Package filesystem contains filesystem-based adapter implementations.
package filesystem

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"github.com/example/folio/internal/ports/secondary"
)

// AssetURLScheme prefixes the URLs returned by AssetStore.
const AssetURLScheme = "asset://"

// AssetStore implements secondary.AssetStore on a content-addressed diskv tree.
// Keys are the SHA-256 of the bytes plus the original extension, so uploading
// the same file twice yields the same URL.
type AssetStore struct {
	d *diskv.Diskv
}

// NewAssetStore creates an asset store rooted at basePath.
func NewAssetStore(basePath string) *AssetStore {
	return &AssetStore{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: assetKeyToPath,
		InverseTransform:  assetPathToKey,
		CacheSizeMax:      4 * 1024 * 1024,
	})}
}

// assetKeyToPath fans keys out over two directory levels: ab/cd/abcd....png
func assetKeyToPath(key string) *diskv.PathKey {
	if len(key) < 4 {
		return &diskv.PathKey{FileName: key}
	}
	return &diskv.PathKey{Path: []string{key[0:2], key[2:4]}, FileName: key}
}

func assetPathToKey(pathKey *diskv.PathKey) string {
	return pathKey.FileName
}

// Upload stores the asset and returns its asset:// URL.
func (s *AssetStore) Upload(ctx context.Context, asset *secondary.AssetUpload) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(asset.Data) == 0 {
		return "", fmt.Errorf("asset %s is empty", asset.Filename)
	}

	sum := sha256.Sum256(asset.Data)
	key := hex.EncodeToString(sum[:]) + strings.ToLower(filepath.Ext(asset.Filename))

	if !s.d.Has(key) {
		if err := s.d.Write(key, asset.Data); err != nil {
			return "", fmt.Errorf("failed to write asset %s: %w", asset.Filename, err)
		}
	}
	return AssetURLScheme + key, nil
}

// Delete removes the asset behind an asset:// URL.
// Foreign URLs and assets already gone are not an error.
func (s *AssetStore) Delete(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	key, err := assetKey(url)
	if err != nil || !s.d.Has(key) {
		return nil
	}
	if err := s.d.Erase(key); err != nil {
		return fmt.Errorf("failed to delete asset %s: %w", url, err)
	}
	return nil
}

func assetKey(url string) (string, error) {
	key, ok := strings.CutPrefix(url, AssetURLScheme)
	if !ok || key == "" {
		return "", fmt.Errorf("not an asset URL: %q", url)
	}
	return key, nil
}

// Ensure AssetStore implements the interface
var _ secondary.AssetStore = (*AssetStore)(nil)
