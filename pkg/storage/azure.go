package storage

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"

	"github.com/JaimeStill/taxon/pkg/lifecycle"
)

// azure stores blobs in one container. Keys are namespaced under prefix,
// which is stripped again when listing.
type azure struct {
	client    *azblob.Client
	container string
	prefix    string
	logger    *slog.Logger
}

func newAzure(cfg *Config, logger *slog.Logger) (*azure, error) {
	client, err := azblob.NewClientFromConnectionString(cfg.ConnectionString, nil)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}

	prefix := strings.Trim(cfg.Prefix, "/")
	if prefix != "" {
		prefix += "/"
	}

	return &azure{
		client:    client,
		container: cfg.ContainerName,
		prefix:    prefix,
		logger:    logger,
	}, nil
}

func (a *azure) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func() {
		_, err := a.client.CreateContainer(lc.Context(), a.container, nil)
		if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
			a.logger.Error("container initialization failed", "container", a.container, "error", err)
			return
		}
		a.logger.Info("container ready", "container", a.container)
	})
	return nil
}

func (a *azure) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	name, err := a.blobName(key)
	if err != nil {
		return err
	}

	opts := &azblob.UploadStreamOptions{
		HTTPHeaders: &blob.HTTPHeaders{BlobContentType: &contentType},
	}
	if _, err := a.client.UploadStream(ctx, a.container, name, reader, opts); err != nil {
		return fmt.Errorf("upload blob %s: %w", name, err)
	}

	a.logger.Info("blob uploaded", "key", name, "content_type", contentType)
	return nil
}

func (a *azure) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	name, err := a.blobName(key)
	if err != nil {
		return nil, err
	}

	resp, err := a.client.DownloadStream(ctx, a.container, name, nil)
	if err != nil {
		return nil, a.wrap("download", name, err)
	}
	return resp.Body, nil
}

func (a *azure) Delete(ctx context.Context, key string) error {
	name, err := a.blobName(key)
	if err != nil {
		return err
	}

	if _, err := a.client.DeleteBlob(ctx, a.container, name, nil); err != nil {
		return a.wrap("delete", name, err)
	}
	a.logger.Info("blob deleted", "key", name)
	return nil
}

func (a *azure) Exists(ctx context.Context, key string) (bool, error) {
	name, err := a.blobName(key)
	if err != nil {
		return false, err
	}

	props := a.client.ServiceClient().NewContainerClient(a.container).NewBlobClient(name)
	if _, err := props.GetProperties(ctx, nil); err != nil {
		if bloberror.HasCode(err, bloberror.BlobNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("blob properties %s: %w", name, err)
	}
	return true, nil
}

func (a *azure) List(ctx context.Context, prefix string) ([]Blob, error) {
	if err := validatePrefix(prefix); err != nil {
		return nil, err
	}

	full := a.prefix + prefix
	pager := a.client.NewListBlobsFlatPager(a.container, &azblob.ListBlobsFlatOptions{Prefix: &full})

	var out []Blob
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list blobs %s: %w", full, err)
		}
		for _, item := range page.Segment.BlobItems {
			out = append(out, a.blob(item))
		}
	}
	return out, nil
}

func (a *azure) blob(item *container.BlobItem) Blob {
	b := Blob{Key: strings.TrimPrefix(deref(item.Name), a.prefix)}
	if p := item.Properties; p != nil {
		if p.ContentLength != nil {
			b.Size = *p.ContentLength
		}
		b.ContentType = deref(p.ContentType)
		if p.LastModified != nil {
			b.LastModified = p.LastModified.UTC()
		}
	}
	return b
}

func (a *azure) blobName(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return a.prefix + key, nil
}

func (a *azure) wrap(op, name string, err error) error {
	if bloberror.HasCode(err, bloberror.BlobNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%s blob %s: %w", op, name, err)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
