package minio

import (
	"context"
	"strings"
	"time"

	"github.com/scholarmap/scholarmap/internal/domain/catalog"
	"github.com/scholarmap/scholarmap/pkg/errors"
)

// storagePrefix is the public path convention for catalog image references.
const storagePrefix = "/storage/"

// defaultImages maps entity types to their fallback image objects.
var defaultImages = map[catalog.EntityType]string{
	catalog.EntityUniversity: "defaults/university.png",
	catalog.EntityProject:    "defaults/project.png",
	catalog.EntityPartner:    "defaults/partner.png",
	catalog.EntityResearcher: "defaults/researcher.png",
	catalog.EntityEvent:      "defaults/event.png",
}

// AssetResolver turns catalog image references into presigned URLs.
type AssetResolver struct {
	client *Client
	expiry time.Duration
}

// NewAssetResolver creates a resolver with the given presign expiry.
func NewAssetResolver(client *Client, expiry time.Duration) *AssetResolver {
	if expiry <= 0 {
		expiry = time.Hour
	}
	return &AssetResolver{client: client, expiry: expiry}
}

// ObjectKey converts a catalog image reference into an object key, applying
// the entity-type default when the reference is empty.
func ObjectKey(imagePath string, entityType catalog.EntityType) string {
	if imagePath == "" {
		return defaultImages[entityType]
	}
	return strings.TrimPrefix(imagePath, storagePrefix)
}

// ResolveURL returns a presigned GET URL for the entity image.
func (r *AssetResolver) ResolveURL(ctx context.Context, imagePath string, entityType catalog.EntityType) (string, error) {
	key := ObjectKey(imagePath, entityType)
	if key == "" {
		return "", errors.New(errors.CodeAssetNotFound, "no asset for entity type").WithDetail(string(entityType))
	}

	u, err := r.client.Raw().PresignedGetObject(ctx, r.client.Bucket(), key, r.expiry, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.CodeExternalService, "presign asset url")
	}
	return u.String(), nil
}
