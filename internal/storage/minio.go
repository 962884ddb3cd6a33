package storage

import (
	"context"
	"fmt"
	"mime/multipart"

	"github.com/minio/minio-go/v7"
)

// Images guarda las imágenes de producto en MinIO y devuelve la URL pública
type Images struct {
	client    *minio.Client
	bucket    string
	publicURL string
}

func NewImages(client *minio.Client, bucket, publicURL string) *Images {
	return &Images{client: client, bucket: bucket, publicURL: publicURL}
}

func (s *Images) Enabled() bool {
	return s != nil && s.client != nil
}

func (s *Images) Upload(ctx context.Context, objectName string, file *multipart.FileHeader) (string, error) {
	if !s.Enabled() {
		return "", fmt.Errorf("MinIO no inicializado")
	}

	f, err := file.Open()
	if err != nil {
		return "", err
	}
	defer f.Close()

	_, err = s.client.PutObject(ctx, s.bucket, objectName, f, file.Size,
		minio.PutObjectOptions{ContentType: file.Header.Get("Content-Type")})
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/%s/%s", s.publicURL, s.bucket, objectName), nil
}
