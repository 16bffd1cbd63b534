package banner

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/rs/zerolog"
)

// ObjectGetter is the part of the S3 client the loader uses.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

type s3Loader struct {
	client ObjectGetter
	bucket string
	logger zerolog.Logger
}

// NewS3Loader creates a loader reading banners from bucket using the default
// AWS credential chain.
func NewS3Loader(ctx context.Context, bucket, region string, logger zerolog.Logger) (Loader, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		logger.Error().Err(err).Msg("failed to load AWS configuration")
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	logger.Info().
		Str("bucket", bucket).
		Str("region", region).
		Msg("S3 banner loader initialised")

	return NewS3LoaderWithClient(s3.NewFromConfig(cfg), bucket, logger), nil
}

// NewS3LoaderWithClient creates an S3 loader over an existing client.
func NewS3LoaderWithClient(client ObjectGetter, bucket string, logger zerolog.Logger) Loader {
	return &s3Loader{
		client: client,
		bucket: bucket,
		logger: logger.With().Str("component", "s3-banner-loader").Str("bucket", bucket).Logger(),
	}
}

// Load reads the object stored under key. Objects whose content type is set
// and is not an image are rejected.
func (l *s3Loader) Load(ctx context.Context, key string) (*Image, error) {
	result, err := l.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(l.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			l.logger.Debug().Str("key", key).Msg("banner object not present")
			return nil, ErrNotFound
		}
		l.logger.Error().Err(err).Str("key", key).Msg("failed to get banner object")
		return nil, fmt.Errorf("failed to get banner object %s: %w", key, err)
	}
	defer result.Body.Close()

	if ct := aws.ToString(result.ContentType); ct != "" && !strings.HasPrefix(ct, "image/") {
		l.logger.Warn().Str("key", key).Str("content_type", ct).Msg("banner object is not an image")
		return nil, fmt.Errorf("banner object %s has content type %s", key, ct)
	}

	data, err := readLimited(result.Body)
	if err != nil {
		l.logger.Error().Err(err).Str("key", key).Msg("failed to read banner object")
		return nil, fmt.Errorf("failed to read banner object %s: %w", key, err)
	}

	l.logger.Info().Str("key", key).Int("bytes", len(data)).Msg("banner loaded from S3")

	return &Image{Name: path.Base(key), Bytes: data}, nil
}
