package utils

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	config "github.com/codingclub/content-service/config"
	models "github.com/codingclub/content-service/models"
)

// assetType is the resource type used for both upload and destroy. Destroy
// only finds assets of the type it is given.
const assetType = "image"

// CloudinaryStore uploads and deletes content images on Cloudinary.
type CloudinaryStore struct {
	cld           *cloudinary.Cloudinary
	uploadTimeout time.Duration
	deleteTimeout time.Duration
}

func NewCloudinaryStore(cfg *config.Config) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromParams(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config error: %v", err)
	}
	timeout := cfg.UploadTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &CloudinaryStore{cld: cld, uploadTimeout: timeout, deleteTimeout: 30 * time.Second}, nil
}

// Upload stores r under folder and returns the reference to persist.
func (s *CloudinaryStore) Upload(ctx context.Context, folder, filename string, r io.Reader) (models.Image, error) {
	ctx, cancel := context.WithTimeout(ctx, s.uploadTimeout)
	defer cancel()

	resp, err := s.cld.Upload.Upload(ctx, r, uploadParams(folder))
	if err != nil {
		return models.Image{}, fmt.Errorf("upload %s: %w", filename, err)
	}
	if resp.Error.Message != "" {
		return models.Image{}, fmt.Errorf("upload %s: %s", filename, resp.Error.Message)
	}

	return models.Image{URL: resp.SecureURL, PublicID: resp.PublicID}, nil
}

// Delete destroys the asset identified by publicID. An asset that is already
// gone counts as deleted.
func (s *CloudinaryStore) Delete(ctx context.Context, publicID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.deleteTimeout)
	defer cancel()

	resp, err := s.cld.Upload.Destroy(ctx, destroyParams(publicID))
	if err != nil {
		return fmt.Errorf("delete %s: %w", publicID, err)
	}
	if resp.Error.Message != "" {
		return fmt.Errorf("delete %s: %s", publicID, resp.Error.Message)
	}
	if resp.Result != "ok" && resp.Result != "not found" {
		return fmt.Errorf("delete %s: unexpected result %q", publicID, resp.Result)
	}
	return nil
}

func uploadParams(folder string) uploader.UploadParams {
	return uploader.UploadParams{Folder: folder, ResourceType: assetType}
}

func destroyParams(publicID string) uploader.DestroyParams {
	return uploader.DestroyParams{PublicID: publicID, ResourceType: assetType}
}

var versionSegment = regexp.MustCompile(`^v\d+$`)

// PublicIDFromURL recovers the public id from a delivery URL such as
// https://res.cloudinary.com/demo/image/upload/v1234567890/events/abc123.jpg
// (-> events/abc123). Older documents stored only the URL.
func PublicIDFromURL(imageURL string) (string, error) {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return "", err
	}

	parts := strings.Split(strings.Trim(parsed.Path, "/"), "/")
	start := -1
	for i, p := range parts {
		if p == "upload" {
			start = i + 1
			break
		}
	}
	if start < 0 || start >= len(parts) {
		return "", fmt.Errorf("invalid cloudinary URL format")
	}

	rest := parts[start:]
	if len(rest) > 1 && versionSegment.MatchString(rest[0]) {
		rest = rest[1:]
	}
	last := rest[len(rest)-1]
	rest[len(rest)-1] = strings.TrimSuffix(last, path.Ext(last))

	return path.Join(rest...), nil
}
