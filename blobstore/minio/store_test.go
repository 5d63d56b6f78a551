package minio

import (
	"errors"
	"testing"

	"github.com/hupe1980/waypoint/blobstore"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslate(t *testing.T) {
	assert.Equal(t, blobstore.ErrNotFound, translate(minio.ErrorResponse{Code: "NoSuchKey"}))
	assert.Equal(t, blobstore.ErrNotFound, translate(minio.ErrorResponse{Code: "NotFound"}))

	other := errors.New("boom")
	assert.Equal(t, other, translate(other))
}

func TestConnect(t *testing.T) {
	s, err := Connect(Config{
		Endpoint:  "localhost:9000",
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
		Bucket:    "maps",
		Prefix:    "levels/",
	})
	require.NoError(t, err)
	assert.Equal(t, "levels/a.wpg", s.key("a.wpg"))
}
