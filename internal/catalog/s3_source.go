package catalog

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/GTDGit/grocery_api/internal/models"
)

// ObjectGetter is the subset of the S3 client used by S3Source.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads a JSON catalog document from an S3 object.
type S3Source struct {
	client ObjectGetter
	bucket string
	key    string
}

// NewS3Source creates an S3Source using the default AWS credential chain.
func NewS3Source(ctx context.Context, region, bucket, key string) (*S3Source, error) {
	if bucket == "" || key == "" {
		return nil, fmt.Errorf("s3 catalog source requires bucket and key")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewS3SourceWithClient(s3.NewFromConfig(cfg), bucket, key), nil
}

// NewS3SourceWithClient creates an S3Source with an explicit client.
func NewS3SourceWithClient(client ObjectGetter, bucket, key string) *S3Source {
	return &S3Source{client: client, bucket: bucket, key: key}
}

func (s *S3Source) Name() string { return "s3://" + s.bucket + "/" + s.key }

// Load implements Source.
func (s *S3Source) Load(ctx context.Context) ([]models.Product, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get catalog object: %w", err)
	}
	defer out.Body.Close()
	return Decode(out.Body)
}
