package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3Storage_PresignUpload(t *testing.T) {
	s := NewS3Storage(context.Background(), "ap-south-1", "shop-bucket", "AKIDEXAMPLE", "secret", "")

	resp, err := s.PresignUpload(context.Background(), "Front.JPG", "image/jpeg", ProductImageFolder)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(resp.Key, "products/"))
	assert.True(t, strings.HasSuffix(resp.Key, ".jpg"))
	assert.Contains(t, resp.UploadURL, "shop-bucket")
	assert.Contains(t, resp.UploadURL, "X-Amz-Signature")
	assert.Equal(t, "https://shop-bucket.s3.ap-south-1.amazonaws.com/"+resp.Key, resp.FileURL)
}

func TestS3Storage_PresignUploadWithBaseURL(t *testing.T) {
	s := NewS3Storage(context.Background(), "ap-south-1", "shop-bucket", "AKIDEXAMPLE", "secret", "https://cdn.example.com/")

	resp, err := s.PresignUpload(context.Background(), "a.png", "image/png", ProductImageFolder)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/"+resp.Key, resp.FileURL)
}

func TestS3Storage_RejectsContentType(t *testing.T) {
	s := NewS3Storage(context.Background(), "ap-south-1", "shop-bucket", "AKIDEXAMPLE", "secret", "")

	_, err := s.PresignUpload(context.Background(), "notes.txt", "text/plain", ProductImageFolder)
	assert.ErrorIs(t, err, ErrContentType)
}
