// Package storage fetches the note catalog from an S3-compatible bucket.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/codeGROOVE-dev/retry"
	"github.com/rs/zerolog"

	"github.com/mathnotes-io/mathnotes/internal/content"
)

// ObjectAPI is the subset of the S3 client the bucket source needs.
type ObjectAPI interface {
	ListObjectsV2(ctx context.Context, in *s3.ListObjectsV2Input, optFns ...func(*s3.Options)) (*s3.ListObjectsV2Output, error)
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Options describes where the catalog lives.
type Options struct {
	Endpoint        string
	Region          string
	Bucket          string
	Prefix          string
	AccessKeyID     string
	SecretAccessKey string
	Attempts        uint
}

// BucketSource implements content.Source over a key prefix in a bucket. The
// layout under the prefix matches the embedded catalog.
type BucketSource struct {
	client   ObjectAPI
	bucket   string
	prefix   string
	attempts uint
	delay    time.Duration
	log      zerolog.Logger
}

var _ content.Source = (*BucketSource)(nil)

// NewBucketSource creates an S3 client for opts. A custom endpoint switches the
// client to path-style addressing for Spaces/MinIO style providers.
func NewBucketSource(ctx context.Context, opts Options, log zerolog.Logger) (*BucketSource, error) {
	loadOpts := []func(*config.LoadOptions) error{
		config.WithRegion(opts.Region),
	}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return NewBucketSourceWithClient(client, opts, log), nil
}

// NewBucketSourceWithClient wires an existing client.
func NewBucketSourceWithClient(client ObjectAPI, opts Options, log zerolog.Logger) *BucketSource {
	attempts := opts.Attempts
	if attempts == 0 {
		attempts = 3
	}
	prefix := strings.Trim(opts.Prefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &BucketSource{
		client:   client,
		bucket:   opts.Bucket,
		prefix:   prefix,
		attempts: attempts,
		delay:    500 * time.Millisecond,
		log:      log.With().Str("component", "bucket_source").Str("bucket", opts.Bucket).Logger(),
	}
}

// Files lists every object under the prefix and downloads it. Names are returned
// relative to the prefix and sorted.
func (b *BucketSource) Files(ctx context.Context) ([]content.File, error) {
	keys, err := b.listKeys(ctx)
	if err != nil {
		return nil, err
	}

	files := make([]content.File, 0, len(keys))
	for _, key := range keys {
		data, err := b.fetch(ctx, key)
		if err != nil {
			return nil, err
		}
		files = append(files, content.File{Name: strings.TrimPrefix(key, b.prefix), Data: data})
	}

	b.log.Info().Int("files", len(files)).Msg("catalog fetched from bucket")
	return files, nil
}

func (b *BucketSource) listKeys(ctx context.Context) ([]string, error) {
	var (
		keys  []string
		token *string
	)
	for {
		var out *s3.ListObjectsV2Output
		err := b.do(ctx, func() error {
			var err error
			out, err = b.client.ListObjectsV2(ctx, &s3.ListObjectsV2Input{
				Bucket:            aws.String(b.bucket),
				Prefix:            aws.String(b.prefix),
				ContinuationToken: token,
			})
			return err
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list objects: %w", err)
		}

		for _, obj := range out.Contents {
			key := aws.ToString(obj.Key)
			if strings.HasSuffix(key, "/") {
				continue
			}
			keys = append(keys, key)
		}

		if !aws.ToBool(out.IsTruncated) || out.NextContinuationToken == nil {
			break
		}
		token = out.NextContinuationToken
	}

	sort.Strings(keys)
	return keys, nil
}

func (b *BucketSource) fetch(ctx context.Context, key string) ([]byte, error) {
	var data []byte
	err := b.do(ctx, func() error {
		out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(b.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			var missing *types.NoSuchKey
			if errors.As(err, &missing) {
				return retry.Unrecoverable(err)
			}
			return err
		}
		defer out.Body.Close()

		data, err = io.ReadAll(out.Body)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}
	return data, nil
}

func (b *BucketSource) do(ctx context.Context, fn func() error) error {
	return retry.Do(fn,
		retry.Attempts(b.attempts),
		retry.Delay(b.delay),
		retry.MaxDelay(10*time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			b.log.Warn().Uint("attempt", n).Err(err).Msg("bucket request failed, retrying")
		}),
	)
}
