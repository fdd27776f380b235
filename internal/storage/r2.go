package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store uploads to any S3-compatible bucket (Cloudflare R2, MinIO, AWS).
type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

type S3Options struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
}

func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	if opts.Bucket == "" {
		return nil, errors.New("missing bucket name")
	}

	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(
				opts.AccessKey,
				opts.SecretKey,
				"",
			),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = true
	})

	baseURL := opts.PublicBaseURL
	if baseURL == "" {
		baseURL = strings.TrimRight(opts.Endpoint, "/") + "/" + opts.Bucket
	}

	return &S3Store{
		client:  client,
		bucket:  opts.Bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	in := &s3.PutObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
		Body:   r,
	}
	if contentType != "" {
		in.ContentType = &contentType
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return fmt.Sprintf("%s/%s", s.baseURL, key), nil
}
