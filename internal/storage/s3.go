package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	appconfig "github.com/BruksfildServices01/home-services-api/internal/config"
)

// Uploader guarda fotos de perfil dos prestadores num bucket S3
// (ou compatível, tipo MinIO — por isso o endpoint configurável).
type Uploader struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

func NewUploader(cfg *appconfig.Config) *Uploader {
	client := s3.New(s3.Options{
		Region: cfg.S3Region,
		Credentials: aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		),
		BaseEndpoint: endpointOrNil(cfg.S3Endpoint),
		UsePathStyle: cfg.S3Endpoint != "",
	})

	return &Uploader{
		client:    client,
		bucket:    cfg.S3Bucket,
		publicURL: strings.TrimRight(cfg.S3PublicURL, "/"),
	}
}

func endpointOrNil(endpoint string) *string {
	if endpoint == "" {
		return nil
	}
	return aws.String(endpoint)
}

// UploadVendorPhoto sobe o webp já processado e devolve a URL pública.
// A chave leva UUID: reenvio nunca sobrescreve a foto anterior (o
// perfil só troca a referência).
func (u *Uploader) UploadVendorPhoto(
	ctx context.Context,
	vendorUserID uint,
	data []byte,
) (string, error) {

	key := fmt.Sprintf("vendors/%d/%s.webp", vendorUserID, uuid.New().String())

	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("image/webp"),
	})
	if err != nil {
		return "", fmt.Errorf("upload da foto: %w", err)
	}

	if u.publicURL != "" {
		return fmt.Sprintf("%s/%s", u.publicURL, key), nil
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", u.bucket, key), nil
}
