// Package s3 provides a checkpoint transport backed by an S3 compatible bucket.
package s3

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	aws "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"adaptercore/internal/checkpoint/core"
)

// Store writes each checkpoint as one object. Keys are prefixed with an
// optional namespace so several deployments can share a bucket.
type Store struct {
	client *s3.Client
	bucket string
	prefix string
}

// Config holds explicit construction parameters. Production setups usually
// go through OpenFromEnv.
type Config struct {
	Region          string
	Bucket          string
	Prefix          string
	Endpoint        string // MinIO or another S3 compatible endpoint
	AccessKeyID     string // falls back to the default credentials chain
	SecretAccessKey string
	SessionToken    string
	PathStyle       bool
}

// Environment variables:
//   ADAPTERCORE_CHECKPOINT_S3_BUCKET=<bucket> (required)
//   ADAPTERCORE_CHECKPOINT_S3_REGION=<region> (default us-east-1)
//   ADAPTERCORE_CHECKPOINT_S3_PREFIX=<namespace/> (optional)
//   ADAPTERCORE_CHECKPOINT_S3_ENDPOINT=<url> (optional, for MinIO)
//   ADAPTERCORE_CHECKPOINT_S3_PATH_STYLE=true|false (default false)
//   AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY / AWS_SESSION_TOKEN (optional)

// New creates an S3 transport from cfg.
func New(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 bucket required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, cfg.SessionToken)))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.PathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return &Store{client: client, bucket: cfg.Bucket, prefix: cfg.Prefix}, nil
}

// OpenFromEnv constructs an S3 transport from process environment.
func OpenFromEnv(ctx context.Context) (*Store, error) {
	bucket := os.Getenv("ADAPTERCORE_CHECKPOINT_S3_BUCKET")
	if bucket == "" {
		return nil, fmt.Errorf("ADAPTERCORE_CHECKPOINT_S3_BUCKET required for s3 driver")
	}
	return New(ctx, Config{
		Bucket:    bucket,
		Region:    os.Getenv("ADAPTERCORE_CHECKPOINT_S3_REGION"),
		Prefix:    os.Getenv("ADAPTERCORE_CHECKPOINT_S3_PREFIX"),
		Endpoint:  os.Getenv("ADAPTERCORE_CHECKPOINT_S3_ENDPOINT"),
		PathStyle: strings.EqualFold(os.Getenv("ADAPTERCORE_CHECKPOINT_S3_PATH_STYLE"), "true"),
	})
}

func (s *Store) Driver() core.Driver { return core.DriverS3 }

func (s *Store) objectKey(key string) (string, string, error) {
	k, err := core.CleanKey(key)
	if err != nil {
		return "", "", err
	}
	return k, s.prefix + k, nil
}

func (s *Store) Put(ctx context.Context, key string, blob []byte) (core.Info, error) {
	k, obj, err := s.objectKey(key)
	if err != nil {
		return core.Info{}, err
	}
	etag := core.ETag(blob)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        &s.bucket,
		Key:           &obj,
		Body:          bytes.NewReader(blob),
		ContentLength: aws.Int64(int64(len(blob))),
		ContentType:   aws.String("application/json"),
		Metadata:      map[string]string{"sha256": etag},
	})
	if err != nil {
		return core.Info{}, fmt.Errorf("put %s: %w", k, err)
	}
	return core.Info{Key: k, Size: int64(len(blob)), ETag: etag, UpdatedAt: time.Now().UTC()}, nil
}

func (s *Store) Get(ctx context.Context, key string) (core.Info, []byte, error) {
	k, obj, err := s.objectKey(key)
	if err != nil {
		return core.Info{}, nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{Bucket: &s.bucket, Key: &obj})
	if err != nil {
		if isNotFound(err) {
			return core.Info{}, nil, fmt.Errorf("get %s: %w", k, core.ErrNotFound)
		}
		return core.Info{}, nil, fmt.Errorf("get %s: %w", k, err)
	}
	defer func() { _ = out.Body.Close() }()
	blob, err := io.ReadAll(out.Body)
	if err != nil {
		return core.Info{}, nil, fmt.Errorf("read %s: %w", k, err)
	}
	etag := out.Metadata["sha256"]
	if etag == "" {
		etag = core.ETag(blob)
	}
	updated := time.Now().UTC()
	if out.LastModified != nil {
		updated = *out.LastModified
	}
	return core.Info{Key: k, Size: int64(len(blob)), ETag: etag, UpdatedAt: updated}, blob, nil
}

// Delete checks for the object first because S3 deletes are idempotent and
// do not report whether anything was removed.
func (s *Store) Delete(ctx context.Context, key string) (bool, error) {
	k, obj, err := s.objectKey(key)
	if err != nil {
		return false, err
	}
	if _, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{Bucket: &s.bucket, Key: &obj}); err != nil {
		if isNotFound(err) {
			return false, nil
		}
		return false, fmt.Errorf("head %s: %w", k, err)
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{Bucket: &s.bucket, Key: &obj}); err != nil {
		return false, fmt.Errorf("delete %s: %w", k, err)
	}
	return true, nil
}

func (s *Store) List(ctx context.Context, prefix string) ([]core.Info, error) {
	var infos []core.Info
	full := s.prefix + prefix
	p := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{Bucket: &s.bucket, Prefix: &full})
	for p.HasMorePages() {
		out, err := p.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list %q: %w", prefix, err)
		}
		for _, obj := range out.Contents {
			infos = append(infos, core.Info{
				Key:       strings.TrimPrefix(aws.ToString(obj.Key), s.prefix),
				Size:      aws.ToInt64(obj.Size),
				ETag:      strings.Trim(aws.ToString(obj.ETag), "\""),
				UpdatedAt: aws.ToTime(obj.LastModified),
			})
		}
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Key < infos[j].Key })
	return infos, nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	if errors.As(err, &nsk) || errors.As(err, &nf) {
		return true
	}
	var status interface{ HTTPStatusCode() int }
	return errors.As(err, &status) && status.HTTPStatusCode() == http.StatusNotFound
}
