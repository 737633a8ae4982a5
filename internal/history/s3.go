package history

import (
	"bytes"
	"context"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config locates an S3-compatible object store.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// S3Store keeps each collection as a key prefix inside one bucket.
type S3Store struct {
	client *minio.Client
	bucket string
}

func NewS3Store(cfg S3Config) (*S3Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}
	return &S3Store{client: client, bucket: cfg.Bucket}, nil
}

func (s *S3Store) key(collection, name string) string {
	return collection + "/" + name
}

func (s *S3Store) EnsureCollection(ctx context.Context, collection string) error {
	// Prefixes need no creation; only the bucket has to exist.
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}
	return s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{})
}

func (s *S3Store) Write(ctx context.Context, collection, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, s.key(collection, name),
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "text/plain; charset=utf-8"})
	return err
}

func (s *S3Store) Read(ctx context.Context, collection, name string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, s.key(collection, name), minio.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	// GetObject is lazy; a missing key only surfaces on the first read.
	data, err := io.ReadAll(obj)
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, errNotExist
		}
		return nil, err
	}
	return data, nil
}

func (s *S3Store) Delete(ctx context.Context, collection, name string) error {
	// RemoveObject succeeds for absent keys, matching the idempotent
	// delete the store wants.
	return s.client.RemoveObject(ctx, s.bucket, s.key(collection, name), minio.RemoveObjectOptions{})
}

func (s *S3Store) List(ctx context.Context, collection string) ([]string, error) {
	prefix := collection + "/"
	names := make([]string, 0)
	for info := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	}) {
		if info.Err != nil {
			return nil, info.Err
		}
		names = append(names, strings.TrimPrefix(info.Key, prefix))
	}
	return names, nil
}
