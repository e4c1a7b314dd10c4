package storage

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chai2010/webp"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
	xwebp "golang.org/x/image/webp"

	"github.com/careplushealth/lab-scheduler/internal/config"
	domain "github.com/careplushealth/lab-scheduler/internal/domain/booking"
	"github.com/careplushealth/lab-scheduler/internal/httperr"
)

// MaxDocumentSize caps the supporting-document upload at 5MB.
const MaxDocumentSize = 5 << 20

const thumbnailMaxDim = 320

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// S3DocumentStore stores doctor's-request images on S3-compatible storage
// (path-style addressing, so MinIO works out of the box).
type S3DocumentStore struct {
	client *s3.Client
	bucket string
}

func NewS3DocumentStore(cfg *config.Config) *S3DocumentStore {
	client := s3.New(s3.Options{
		Region:       cfg.S3Region,
		Credentials:  credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		BaseEndpoint: aws.String(cfg.S3Endpoint),
		UsePathStyle: true,
	})

	return &S3DocumentStore{
		client: client,
		bucket: cfg.S3Bucket,
	}
}

// Upload validates and stores an image, returning a durable reference. A
// webp thumbnail is stored alongside on a best-effort basis.
func (s *S3DocumentStore) Upload(
	ctx context.Context,
	filename string,
	content []byte,
) (string, error) {

	if len(content) == 0 {
		return "", httperr.ErrBusiness("missing_document")
	}
	if len(content) > MaxDocumentSize {
		return "", httperr.ErrBusiness("document_too_large")
	}

	contentType := http.DetectContentType(content)
	ext, ok := extensions[contentType]
	if !ok {
		return "", httperr.ErrBusiness("unsupported_document_type")
	}

	img, err := decodeImage(contentType, content)
	if err != nil {
		return "", httperr.ErrBusiness("unsupported_document_type")
	}

	key := fmt.Sprintf(
		"requests/%s/%s%s",
		time.Now().UTC().Format("2006/01"),
		uuid.NewString(),
		ext,
	)

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(content),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}

	if err := s.uploadThumbnail(ctx, key, img); err != nil {
		logrus.WithError(err).WithField("key", key).Warn("thumbnail upload failed")
	}

	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

func decodeImage(contentType string, content []byte) (image.Image, error) {
	r := bytes.NewReader(content)

	switch contentType {
	case "image/jpeg":
		return jpeg.Decode(r)
	case "image/png":
		return png.Decode(r)
	case "image/webp":
		return xwebp.Decode(r)
	}
	return nil, fmt.Errorf("no decoder for %s", contentType)
}

func (s *S3DocumentStore) uploadThumbnail(ctx context.Context, key string, img image.Image) error {
	thumb := scaleDown(img, thumbnailMaxDim)

	var buf bytes.Buffer
	if err := webp.Encode(&buf, thumb, &webp.Options{Quality: 80}); err != nil {
		return fmt.Errorf("encode thumbnail: %w", err)
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key + ".thumb.webp"),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String("image/webp"),
	})
	if err != nil {
		return fmt.Errorf("put thumbnail: %w", err)
	}
	return nil
}

func scaleDown(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	if w > h {
		h = h * maxDim / w
		w = maxDim
	} else {
		w = w * maxDim / h
		h = maxDim
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

var _ domain.DocumentStore = (*S3DocumentStore)(nil)
