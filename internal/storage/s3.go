// Package storage provides the file-content side of persistence: a durable
// S3-backed store issuing locators that survive restarts, and a local
// store issuing transient session-scoped references.
package storage

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/google/uuid"

	"arquivo/internal/domain"
	"arquivo/internal/domain/models"
	"arquivo/internal/domain/repositories"
)

// S3Config carries what the S3 blob store needs. Credentials come from the
// SDK's default chain (env, shared config, instance role).
type S3Config struct {
	Bucket string
	Region string

	// Endpoint overrides the S3 endpoint for S3-compatible stores
	// (MinIO, localstack). Empty uses AWS.
	Endpoint string
}

// S3BlobStore stores file content as S3 objects and issues durable
// locators (object keys).
type S3BlobStore struct {
	bucket     string
	client     *s3.S3
	uploader   *s3manager.Uploader
	downloader *s3manager.Downloader
}

// NewS3BlobStore builds the store and verifies the bucket is reachable.
func NewS3BlobStore(ctx context.Context, cfg S3Config) (*S3BlobStore, error) {
	awsConfig := &aws.Config{Region: aws.String(cfg.Region)}
	if cfg.Endpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.Endpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("create aws session: %w", err)
	}

	client := s3.New(sess)
	if _, err := client.HeadBucketWithContext(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(cfg.Bucket),
	}); err != nil {
		return nil, fmt.Errorf("head bucket %s: %w", cfg.Bucket, err)
	}

	return &S3BlobStore{
		bucket:     cfg.Bucket,
		client:     client,
		uploader:   s3manager.NewUploaderWithClient(client),
		downloader: s3manager.NewDownloaderWithClient(client),
	}, nil
}

// Store uploads the content under a generated key and returns a durable
// reference to it.
func (s *S3BlobStore) Store(ctx context.Context, content io.Reader, meta models.FileMetadata) (models.FileRef, error) {
	key := objectKey(meta.FileName)

	_, err := s.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        content,
		ContentType: aws.String(meta.MimeType),
	})
	if err != nil {
		return models.FileRef{}, fmt.Errorf("upload %s: %w", meta.FileName, err)
	}

	return models.DurableRef(key), nil
}

// Open streams the object behind ref. Missing objects surface as
// ErrContentUnavailable, not as an error class of their own.
func (s *S3BlobStore) Open(ctx context.Context, ref models.FileRef) (io.ReadCloser, error) {
	out, err := s.client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref.Locator),
	})
	if err != nil {
		if isNoSuchKey(err) {
			return nil, fmt.Errorf("%s: %w", ref.Locator, domain.ErrContentUnavailable)
		}
		return nil, fmt.Errorf("get object %s: %w", ref.Locator, err)
	}
	return out.Body, nil
}

// Release deletes the object. S3 deletes are idempotent already, so an
// unknown key is a silent no-op.
func (s *S3BlobStore) Release(ctx context.Context, ref models.FileRef) error {
	_, err := s.client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(ref.Locator),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", ref.Locator, err)
	}
	return nil
}

// objectKey namespaces uploads by a fresh uuid, keeping the original
// extension so content types stay guessable from the key.
func objectKey(fileName string) string {
	return "documents/" + uuid.NewString() + path.Ext(fileName)
}

func isNoSuchKey(err error) bool {
	var aerr awserr.Error
	if ok := asAwsErr(err, &aerr); ok {
		return aerr.Code() == s3.ErrCodeNoSuchKey || aerr.Code() == "NotFound"
	}
	return false
}

func asAwsErr(err error, target *awserr.Error) bool {
	aerr, ok := err.(awserr.Error)
	if ok {
		*target = aerr
	}
	return ok
}

var _ repositories.BlobStore = (*S3BlobStore)(nil)
