package pkg

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// MaxUploadSize caps avatar and post media uploads.
const MaxUploadSize = 10 << 20 // 10 MiB

var allowedMediaTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"video/mp4":  ".mp4",
}

// IsAllowedMediaType reports whether the content type can be uploaded.
func IsAllowedMediaType(contentType string) bool {
	_, ok := allowedMediaTypes[contentType]
	return ok
}

// IsVideoType reports whether the content type is a video format.
func IsVideoType(contentType string) bool {
	return strings.HasPrefix(contentType, "video/")
}

func newS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(viper.GetString("AWS_REGION")),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			viper.GetString("AWS_ACCESS_KEY"),
			viper.GetString("AWS_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint := viper.GetString("S3_ENDPOINT"); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func storageKey(prefix, contentType string) string {
	d := time.Now()
	ext := allowedMediaTypes[contentType]
	return fmt.Sprintf("%s/%d/%02d/%s%s", prefix, d.Year(), int(d.Month()), uuid.New(), ext)
}

// UploadMedia streams the body to S3 and returns the public URL of the
// stored object.
func UploadMedia(ctx context.Context, prefix, contentType string, body io.Reader) (string, error) {
	client, err := newS3Client(ctx)
	if err != nil {
		return "", err
	}

	bucket := viper.GetString("S3_BUCKET_NAME")
	key := storageKey(prefix, contentType)

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	return PublicURL(key), nil
}

// DeleteMedia removes a stored object by its public URL. Unknown URLs are
// ignored so callers can pass through attachment lists unconditionally.
func DeleteMedia(ctx context.Context, publicURL string) error {
	base := strings.TrimSuffix(viper.GetString("S3_PUBLIC_URL"), "/")
	if base == "" || !strings.HasPrefix(publicURL, base+"/") {
		return nil
	}
	key := strings.TrimPrefix(publicURL, base+"/")

	client, err := newS3Client(ctx)
	if err != nil {
		return err
	}

	_, err = client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(viper.GetString("S3_BUCKET_NAME")),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("delete object %s: %w", key, err)
	}
	return nil
}

// PublicURL builds the externally reachable URL for a bucket key.
func PublicURL(key string) string {
	base := strings.TrimSuffix(viper.GetString("S3_PUBLIC_URL"), "/")
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com",
			viper.GetString("S3_BUCKET_NAME"), viper.GetString("AWS_REGION"))
	}
	return base + "/" + path.Clean(key)
}
