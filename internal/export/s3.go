package export

import (
	"bytes"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/google/uuid"
)

// S3Uploader pushes dataset exports to an S3 bucket.
type S3Uploader struct {
	svc    s3iface.S3API
	bucket string
	prefix string
}

// NewS3Uploader creates an uploader for the given bucket and region.
func NewS3Uploader(bucket, region, prefix string) (*S3Uploader, error) {
	if bucket == "" {
		return nil, fmt.Errorf("S3 bucket is required")
	}
	sess, err := session.NewSession(aws.NewConfig().WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}
	return &S3Uploader{svc: s3.New(sess), bucket: bucket, prefix: prefix}, nil
}

// NewS3UploaderWithClient injects an S3 client, used by tests.
func NewS3UploaderWithClient(svc s3iface.S3API, bucket, prefix string) *S3Uploader {
	return &S3Uploader{svc: svc, bucket: bucket, prefix: prefix}
}

// Upload stores the dataset under a dated, uuid-suffixed key and returns
// the key.
func (u *S3Uploader) Upload(data []byte, format string) (string, error) {
	key := fmt.Sprintf("%s/%s-%s-%s.%s",
		u.prefix, "conll-dataset", time.Now().UTC().Format("20060102"), uuid.NewString(), extension(format))

	_, err := u.svc.PutObject(&s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType(format)),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload dataset to s3://%s/%s: %w", u.bucket, key, err)
	}
	return key, nil
}

func extension(format string) string {
	if format == "csv" {
		return "csv"
	}
	return "txt"
}

func contentType(format string) string {
	if format == "csv" {
		return "text/csv; charset=utf-8"
	}
	return "text/plain; charset=utf-8"
}
