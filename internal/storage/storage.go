// Package storage uploads exported resumes to S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// UploadError wraps a failed object upload.
type UploadError struct {
	Bucket string
	Key    string
	Cause  error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("failed to upload %s/%s: %v", e.Bucket, e.Key, e.Cause)
}

func (e *UploadError) Unwrap() error {
	return e.Cause
}

// Options configures the S3 client. Endpoint is optional and targets R2, MinIO and similar.
type Options struct {
	Bucket    string
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// putter is the subset of *s3.Client used by S3Store.
type putter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store writes objects to a single bucket.
type S3Store struct {
	client putter
	bucket string
}

// NewS3Store builds an S3 client from opts. Static credentials are used when both keys
// are set; otherwise the default AWS credential chain applies.
func NewS3Store(ctx context.Context, opts Options) (*S3Store, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("export bucket is required")
	}
	region := opts.Region
	if region == "" {
		region = "auto"
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if opts.AccessKey != "" && opts.SecretKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKey, opts.SecretKey, ""),
		))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load storage config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})
	return &S3Store{client: client, bucket: opts.Bucket}, nil
}

// Bucket returns the target bucket name.
func (s *S3Store) Bucket() string {
	return s.bucket
}

// Put uploads body under key.
func (s *S3Store) Put(ctx context.Context, key, contentType string, body []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return &UploadError{Bucket: s.bucket, Key: key, Cause: err}
	}
	return nil
}

// ExportKey returns the object key for a resume export, e.g. exports/<resume>/<stamp>.pdf.
func ExportKey(resumeID, stamp, ext string) string {
	ext = strings.TrimPrefix(ext, ".")
	return path.Join("exports", resumeID, stamp+"."+ext)
}
