package artwork

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/myrjola/avalanchemystery/internal/errors"
)

// Config points at the bucket collectible artwork is published to. An empty bucket disables publishing.
type Config struct {
	Bucket          string `env:"ARTWORK_BUCKET" envDefault:""`
	Endpoint        string `env:"ARTWORK_ENDPOINT" envDefault:""`
	Region          string `env:"ARTWORK_REGION" envDefault:"auto"`
	AccessKeyID     string `env:"ARTWORK_ACCESS_KEY_ID" envDefault:""`
	SecretAccessKey string `env:"ARTWORK_SECRET_ACCESS_KEY" envDefault:""`
	PublicBaseURL   string `env:"ARTWORK_PUBLIC_BASE_URL" envDefault:""`
}

func (c Config) Enabled() bool {
	return c.Bucket != ""
}

// ObjectPutter is the part of *s3.Client the store needs.
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store uploads objects and knows their public URL.
type Store struct {
	client  ObjectPutter
	bucket  string
	baseURL string
}

// NewStore wraps client. Objects are served from baseURL, or from the bucket's virtual host when baseURL is empty.
func NewStore(client ObjectPutter, bucket string, baseURL string) *Store {
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.amazonaws.com", bucket)
	}
	return &Store{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// NewS3Store connects to S3 or, with an endpoint, an S3 compatible service such as R2.
func NewS3Store(ctx context.Context, cfg Config) (*Store, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "load aws config")
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := cfg.PublicBaseURL
	if baseURL == "" && cfg.Endpoint != "" {
		baseURL = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}
	return NewStore(client, cfg.Bucket, baseURL), nil
}

// Put uploads body under key and returns its public URL.
func (s *Store) Put(ctx context.Context, key string, body []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{ //nolint:exhaustruct // many optional fields
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", errors.Wrap(err, "put object", slog.String("bucket", s.bucket), slog.String("key", key))
	}
	return s.baseURL + "/" + key, nil
}
