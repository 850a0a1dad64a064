package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
)

var AllowImage = []string{"image/jpeg", "image/png"}

var ErrFileTypeNotAllowed = errors.New("file type not allowed")

type (
	// AwsS3 stores label photos. Keys are "<folder>/<fileName><ext>".
	AwsS3 interface {
		UploadFile(ctx context.Context, fileName string, data []byte, folder string, allowed ...string) (string, error)
		DeleteFile(ctx context.Context, objectKey string) error
		GetPublicLinkKey(objectKey string) string
		GetObjectKeyFromLink(link string) string
	}

	S3Config struct {
		Bucket    string
		Region    string
		AccessKey string
		SecretKey string
	}

	awsS3 struct {
		client *s3.Client
		bucket string
		region string
	}
)

func NewAwsS3(ctx context.Context, cfg S3Config) (AwsS3, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("AWS_S3_BUCKET is not set")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	return &awsS3{
		client: s3.NewFromConfig(awsCfg),
		bucket: cfg.Bucket,
		region: cfg.Region,
	}, nil
}

func (a *awsS3) UploadFile(ctx context.Context, fileName string, data []byte, folder string, allowed ...string) (string, error) {
	mt := mimetype.Detect(data)
	if len(allowed) > 0 && !mimetype.EqualsAny(mt.String(), allowed...) {
		return "", fmt.Errorf("%w: %s", ErrFileTypeNotAllowed, mt.String())
	}

	objectKey := objectKeyFor(folder, fileName, mt.Extension())
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(mt.String()),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	return objectKey, nil
}

func (a *awsS3) DeleteFile(ctx context.Context, objectKey string) error {
	_, err := a.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(objectKey),
	})
	return err
}

func (a *awsS3) GetPublicLinkKey(objectKey string) string {
	return a.baseURL() + objectKey
}

func (a *awsS3) GetObjectKeyFromLink(link string) string {
	if !strings.HasPrefix(link, a.baseURL()) {
		return ""
	}
	return strings.TrimPrefix(link, a.baseURL())
}

func (a *awsS3) baseURL() string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", a.bucket, a.region)
}

func objectKeyFor(folder, fileName, ext string) string {
	if folder == "" {
		return fileName + ext
	}
	return strings.Trim(folder, "/") + "/" + fileName + ext
}
