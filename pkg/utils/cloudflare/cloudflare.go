package cloudflare

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"mentha_backend/pkg/utils/image"
)

func getS3Client() (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			os.Getenv("R2_ACCESS_KEY"),
			os.Getenv("R2_SECRET_KEY"),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %v", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", os.Getenv("R2_ACCOUNT_ID")))
		o.UsePathStyle = true
		o.Region = "auto"
	})

	return client, nil
}

func bucketName() string {
	if name := os.Getenv("R2_BUCKET"); name != "" {
		return name
	}
	return "mentha-assets"
}

func publicBaseURL() string {
	if base := os.Getenv("R2_PUBLIC_URL"); base != "" {
		return strings.TrimSuffix(base, "/")
	}
	return "https://assets.mentha.app"
}

type UploadLogoConfig struct {
	File      *multipart.FileHeader
	Username  string
	BrandSlug string
}

type UploadResult struct {
	URL string
	Key string
}

// UploadLogo marka logosunu webp'e çevirip R2'ya yükler
func UploadLogo(cfg UploadLogoConfig) (*UploadResult, error) {
	processed, err := image.ProcessImage(cfg.File)
	if err != nil {
		return nil, fmt.Errorf("could not process image: %v", err)
	}

	key := fmt.Sprintf("logos/%s/%s/%s.webp", cfg.Username, cfg.BrandSlug, uuid.New().String())

	if err := putObject(key, processed, "image/webp"); err != nil {
		return nil, err
	}

	return &UploadResult{
		URL: fmt.Sprintf("%s/%s", publicBaseURL(), key),
		Key: key,
	}, nil
}

type UploadAvatarConfig struct {
	File     *multipart.FileHeader
	Username string
}

// UploadAvatar profil fotoğrafını yükler
func UploadAvatar(cfg UploadAvatarConfig) (string, error) {
	processed, err := image.ProcessImage(cfg.File)
	if err != nil {
		return "", fmt.Errorf("could not process image: %v", err)
	}

	key := fmt.Sprintf("avatars/%s/%s.webp", cfg.Username, uuid.New().String())

	if err := putObject(key, processed, "image/webp"); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s", publicBaseURL(), key), nil
}

// DeleteImage public URL'den key'i çıkarıp objeyi siler
func DeleteImage(imageURL string) error {
	key := strings.TrimPrefix(imageURL, publicBaseURL()+"/")
	if key == imageURL || key == "" {
		return fmt.Errorf("unrecognized image URL: %s", imageURL)
	}

	client, err := getS3Client()
	if err != nil {
		return err
	}

	_, err = client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(bucketName()),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("could not delete object: %v", err)
	}

	return nil
}

func putObject(key string, body []byte, contentType string) error {
	client, err := getS3Client()
	if err != nil {
		return err
	}

	_, err = client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(bucketName()),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("could not upload object: %v", err)
	}

	return nil
}
