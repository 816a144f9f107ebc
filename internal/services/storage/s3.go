package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/takaki719/emoguchi/internal/config"
)

// S3 stores recordings in an S3-compatible bucket. A custom endpoint
// covers R2 and MinIO.
type S3 struct {
	client *s3.Client
	bucket string
}

func NewS3(ctx context.Context, cfg *config.ServerConfig) (*S3, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 storage requires S3_BUCKET")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.S3Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3AccessKey, cfg.S3SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3{client: client, bucket: cfg.S3Bucket}, nil
}

func (s *S3) Save(ctx context.Context, audio []byte, roomID, roundID string) (string, error) {
	key := blobKey(roomID, roundID)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(audio),
		ContentType: aws.String("audio/wav"),
	})
	if err != nil {
		return "", fmt.Errorf("put recording: %w", err)
	}
	return "s3://" + s.bucket + "/" + key, nil
}

// ResolveLocalPath downloads the object to a temp file so local tools
// like the classifier can read it.
func (s *S3) ResolveLocalPath(ctx context.Context, url string) (string, error) {
	key, err := s.keyFromURL(url)
	if err != nil {
		return "", err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("get recording: %w", err)
	}
	defer out.Body.Close()

	f, err := os.CreateTemp("", "recording-*.wav")
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, out.Body); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("download recording: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", err
	}
	return f.Name(), nil
}

func (s *S3) Delete(ctx context.Context, url string) error {
	key, err := s.keyFromURL(url)
	if err != nil {
		return err
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	return err
}

func (s *S3) keyFromURL(url string) (string, error) {
	prefix := "s3://" + s.bucket + "/"
	if !strings.HasPrefix(url, prefix) {
		return "", fmt.Errorf("unexpected recording url %q", url)
	}
	return strings.TrimPrefix(url, prefix), nil
}
