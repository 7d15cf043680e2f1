package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/admin"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const rawResource = "raw"

type CloudinaryStore struct {
	cld    *cloudinary.Cloudinary
	folder string
	client *http.Client
}

func NewCloudinaryStore(cloudinaryURL, folder string) (*CloudinaryStore, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}
	return &CloudinaryStore{cld: cld, folder: folder, client: &http.Client{Timeout: time.Minute}}, nil
}

func (s *CloudinaryStore) publicID(key string) string {
	if s.folder == "" {
		return key
	}
	return s.folder + "/" + key
}

func (s *CloudinaryStore) Put(ctx context.Context, key string, r io.Reader, _ string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	res, err := s.cld.Upload.Upload(ctx, r, uploader.UploadParams{
		PublicID:     key,
		Folder:       s.folder,
		ResourceType: rawResource,
	})
	if err != nil {
		return fmt.Errorf("failed to upload to Cloudinary: %w", err)
	}
	if res.Error.Message != "" {
		return fmt.Errorf("cloudinary: %s", res.Error.Message)
	}
	return nil
}

func (s *CloudinaryStore) asset(ctx context.Context, key string) (*admin.AssetResult, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	res, err := s.cld.Admin.Asset(ctx, admin.AssetParams{
		PublicID:     s.publicID(key),
		AssetType:    api.AssetType(rawResource),
		DeliveryType: api.DeliveryType("upload"),
	})
	if err != nil {
		return nil, err
	}
	if res.Error.Message != "" {
		return nil, ErrNotExist
	}
	return res, nil
}

func (s *CloudinaryStore) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.asset(ctx, key)
	if err == ErrNotExist {
		return false, nil
	}
	return err == nil, err
}

func (s *CloudinaryStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	res, err := s.asset(ctx, key)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, res.SecureURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset: %w", err)
	}
	if resp.StatusCode == http.StatusNotFound {
		resp.Body.Close()
		return nil, ErrNotExist
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("cloudinary: status %d fetching %s", resp.StatusCode, key)
	}
	return resp.Body, nil
}

func (s *CloudinaryStore) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	_, err := s.cld.Upload.Destroy(ctx, uploader.DestroyParams{
		PublicID:     s.publicID(key),
		ResourceType: rawResource,
	})
	if err != nil {
		return fmt.Errorf("failed to delete from Cloudinary: %w", err)
	}
	return nil
}
