package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPublicLinkRoundTrip(t *testing.T) {
	a := &awsS3{bucket: "labels-bucket", region: "ap-south-1"}

	link := a.GetPublicLinkKey("labels/label-123.jpg")
	assert.Equal(t, "https://labels-bucket.s3.ap-south-1.amazonaws.com/labels/label-123.jpg", link)
	assert.Equal(t, "labels/label-123.jpg", a.GetObjectKeyFromLink(link))
	assert.Empty(t, a.GetObjectKeyFromLink("https://example.com/labels/label-123.jpg"))
}

func TestObjectKeyFor(t *testing.T) {
	assert.Equal(t, "labels/a.png", objectKeyFor("/labels/", "a", ".png"))
	assert.Equal(t, "a.png", objectKeyFor("", "a", ".png"))
}

func TestUploadFile_RejectsDisallowedType(t *testing.T) {
	a := &awsS3{bucket: "labels-bucket", region: "ap-south-1"}

	_, err := a.UploadFile(context.Background(), "doc", []byte("%PDF-1.4 not an image"), "labels", AllowImage...)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileTypeNotAllowed)
}

func TestNewAwsS3_RequiresBucket(t *testing.T) {
	_, err := NewAwsS3(context.Background(), S3Config{Region: "ap-south-1"})
	assert.Error(t, err)
}
