package service

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	appconfig "scicomp-hub/internal/core/config"
	"scicomp-hub/internal/domain"
	"scicomp-hub/pkg/utils"
)

var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

type s3PutAPI interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Uploader stores competition images in S3-compatible object storage and
// hands back a public URL. The core never checks the URL's reachability.
type Uploader struct {
	client   s3PutAPI
	bucket   string
	baseURL  string
	maxBytes int64
}

func NewUploader(ctx context.Context, cfg appconfig.Uploads) (*Uploader, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey, cfg.SecretKey, "",
		)))
	if err != nil {
		return nil, err
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true // MinIO
		}
	})
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = 8 << 20
	}
	return &Uploader{
		client:   client,
		bucket:   cfg.Bucket,
		baseURL:  strings.TrimRight(cfg.PublicBaseURL, "/"),
		maxBytes: maxBytes,
	}, nil
}

// Upload validates the payload and writes it under a date-partitioned key.
func (u *Uploader) Upload(ctx context.Context, data []byte, contentType string) (string, error) {
	ext, ok := imageExt[contentType]
	if !ok {
		return "", domain.Validation("file", "unsupported content type "+contentType)
	}
	if int64(len(data)) > u.maxBytes {
		return "", domain.Validation("file", fmt.Sprintf("file exceeds %d bytes", u.maxBytes))
	}
	if len(data) == 0 {
		return "", domain.Validation("file", "empty file")
	}

	d := time.Now().UTC()
	key := fmt.Sprintf("competitions/%04d/%02d/%02d/%s%s", d.Year(), d.Month(), d.Day(), utils.NewID(), ext)

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", err
	}
	return u.baseURL + "/" + key, nil
}
