package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Cloudinary stores objects in a Cloudinary media library. Object paths are
// mapped to public IDs with the extension stripped, the way Cloudinary
// addresses image assets.
type Cloudinary struct {
	cld    *cloudinary.Cloudinary
	client *http.Client
}

// NewCloudinary builds the backend from a cloudinary:// URL.
func NewCloudinary(rawURL string) (*Cloudinary, error) {
	cld, err := cloudinary.NewFromURL(rawURL)
	if err != nil {
		return nil, fmt.Errorf("storage: cloudinary init: %w", err)
	}
	return &Cloudinary{cld: cld, client: http.DefaultClient}, nil
}

func publicID(objectPath string) string {
	return strings.TrimSuffix(objectPath, path.Ext(objectPath))
}

func (s *Cloudinary) Store(ctx context.Context, objectPath string, data []byte) error {
	overwrite := true
	_, err := s.cld.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		PublicID:  publicID(objectPath),
		Overwrite: &overwrite,
	})
	if err != nil {
		return fmt.Errorf("storage: cloudinary upload %s: %w", objectPath, err)
	}
	return nil
}

func (s *Cloudinary) Read(ctx context.Context, objectPath string) ([]byte, error) {
	asset, err := s.cld.Image(publicID(objectPath))
	if err != nil {
		return nil, fmt.Errorf("storage: cloudinary asset %s: %w", objectPath, err)
	}
	url, err := asset.String()
	if err != nil {
		return nil, fmt.Errorf("storage: cloudinary url %s: %w", objectPath, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("storage: cloudinary fetch %s: %w", objectPath, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, objectPath)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("storage: cloudinary fetch %s: status %d", objectPath, resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}

func (s *Cloudinary) Delete(ctx context.Context, objectPath string) error {
	res, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{PublicID: publicID(objectPath)})
	if err != nil {
		return fmt.Errorf("storage: cloudinary destroy %s: %w", objectPath, err)
	}
	// "not found" counts as success, mirroring the fs backend.
	if res.Result != "ok" && res.Result != "not found" {
		return fmt.Errorf("storage: cloudinary destroy %s: %s", objectPath, res.Result)
	}
	return nil
}
