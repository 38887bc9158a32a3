package services

import (
	"context"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/rpupo63/portfolio-site-backend/config"
	"github.com/rpupo63/portfolio-site-backend/errs"
)

type s3API interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Store keeps media in a bucket served from a public base URL. The object
// key doubles as the public id.
type S3Store struct {
	client  s3API
	bucket  string
	baseURL string
	newKey  func(folder, filename string) string
}

func NewS3Store(ctx context.Context, cfg map[string]string) (*S3Store, error) {
	bucket := config.GetString(cfg, "S3_BUCKET", "")
	if bucket == "" {
		return nil, errs.NewConfigMissingError("S3_BUCKET")
	}
	baseURL := config.GetString(cfg, "S3_PUBLIC_BASE_URL", "")
	if baseURL == "" {
		return nil, errs.NewConfigMissingError("S3_PUBLIC_BASE_URL")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if region := config.GetString(cfg, "AWS_REGION", ""); region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, errs.NewConfigInvalidError("AWS", err)
	}
	return newS3Store(s3.NewFromConfig(awsCfg), bucket, baseURL), nil
}

func newS3Store(client s3API, bucket, baseURL string) *S3Store {
	return &S3Store{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
		newKey: func(folder, filename string) string {
			return path.Join(folder, uuid.NewString()+strings.ToLower(filepath.Ext(filename)))
		},
	}
}

func (s *S3Store) Upload(ctx context.Context, up MediaUpload) (MediaAsset, error) {
	key := s.newKey(up.Folder, up.Filename)
	in := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        up.Body,
		ContentType: aws.String(up.ContentType),
	}
	if up.Size > 0 {
		in.ContentLength = aws.Int64(up.Size)
	}

	if _, err := s.client.PutObject(ctx, in); err != nil {
		return MediaAsset{}, errs.NewMediaUploadError(string(up.Kind), err)
	}
	return MediaAsset{URL: s.baseURL + "/" + key, PublicID: key}, nil
}

// Delete removes the object. S3 reports success for missing keys.
func (s *S3Store) Delete(ctx context.Context, publicID string, _ MediaKind) DeleteResult {
	if publicID == "" {
		return Deleted()
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return DeleteFailed(err.Error())
	}
	return Deleted()
}
