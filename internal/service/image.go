package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/redis/go-redis/v9"

	"github.com/pageza/fitplate/backend/config"
	"github.com/pageza/fitplate/backend/internal/exercisedb"
)

const (
	exerciseImageCacheTTL = 7 * 24 * time.Hour
	maxImageBytes         = 10 << 20
)

// Image sources
const (
	ImageSourceS3      = "s3"
	ImageSourcePexels  = "pexels"
	ImageSourceCatalog = "catalog"
)

// ExerciseImage is the illustration shown for an exercise.
type ExerciseImage struct {
	URL          string `json:"url"`
	Source       string `json:"source"`
	Photographer string `json:"photographer,omitempty"`
}

type pexelsSearchResponse struct {
	Photos []struct {
		ID           int    `json:"id"`
		Photographer string `json:"photographer"`
		Src          struct {
			Large    string `json:"large"`
			Original string `json:"original"`
		} `json:"src"`
	} `json:"photos"`
}

// ObjectUploader is the part of the S3 client used to store images.
type ObjectUploader interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ImageService finds stock photos for exercises and mirrors them to S3
type ImageService struct {
	pexelsKey string
	pexelsURL string
	uploader  ObjectUploader
	bucket    string
	publicURL func(key string) string
	redis     *redis.Client
	client    *http.Client
}

var _ IImageService = (*ImageService)(nil)

// NewImageService creates a new ImageService instance. s3Config and rdb may
// be nil; without a Pexels key every exercise falls back to its catalog GIF.
func NewImageService(pexelsKey, pexelsURL string, s3Config *config.S3Config, rdb *redis.Client) *ImageService {
	svc := &ImageService{
		pexelsKey: pexelsKey,
		pexelsURL: strings.TrimRight(pexelsURL, "/"),
		redis:     rdb,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
	if s3Config != nil {
		svc.uploader = s3Config.Client
		svc.bucket = s3Config.BucketName
		svc.publicURL = s3Config.PublicURL
	}
	return svc
}

// ExerciseImage returns a photo for ex. Pexels hits are uploaded to S3 when
// storage is configured; if the upload fails the Pexels URL is used, and if
// Pexels has nothing the catalog GIF is returned.
func (s *ImageService) ExerciseImage(ctx context.Context, ex *exercisedb.Exercise) (*ExerciseImage, error) {
	key := "exercise:image:" + ex.ExerciseID
	var cached ExerciseImage
	if cacheGet(ctx, s.redis, key, &cached) {
		return &cached, nil
	}

	fallback := &ExerciseImage{URL: ex.GifURL, Source: ImageSourceCatalog}
	if s.pexelsKey == "" {
		return fallback, nil
	}

	photoURL, photographer, err := s.searchPexels(ctx, ex.Name+" exercise")
	if err != nil {
		log.Printf("[ImageService] Pexels search for %q failed: %v", ex.Name, err)
		return fallback, nil
	}
	if photoURL == "" {
		cacheSet(ctx, s.redis, key, fallback, exerciseImageCacheTTL)
		return fallback, nil
	}

	image := &ExerciseImage{URL: photoURL, Source: ImageSourcePexels, Photographer: photographer}
	if s.uploader != nil {
		objectKey := fmt.Sprintf("exercise-images/%s.jpg", ex.ExerciseID)
		s3URL, err := s.downloadAndUploadToS3(ctx, photoURL, objectKey)
		if err != nil {
			log.Printf("[ImageService] Failed to upload to S3, returning original URL: %v", err)
		} else {
			image.URL = s3URL
			image.Source = ImageSourceS3
		}
	}

	cacheSet(ctx, s.redis, key, image, exerciseImageCacheTTL)
	return image, nil
}

func (s *ImageService) searchPexels(ctx context.Context, query string) (string, string, error) {
	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", "1")
	params.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.pexelsURL+"/search?"+params.Encode(), nil)
	if err != nil {
		return "", "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", s.pexelsKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", "", fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(body))
	}

	var result pexelsSearchResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Photos) == 0 {
		return "", "", nil
	}

	photo := result.Photos[0]
	photoURL := photo.Src.Large
	if photoURL == "" {
		photoURL = photo.Src.Original
	}
	return photoURL, photo.Photographer, nil
}

// downloadAndUploadToS3 downloads an image from URL and uploads it to S3
func (s *ImageService) downloadAndUploadToS3(ctx context.Context, imageURL, objectKey string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create download request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("failed to download image, status: %d", resp.StatusCode)
	}

	imageData, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return "", fmt.Errorf("failed to read image data: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "image/jpeg"
	}

	_, err = s.uploader.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(objectKey),
		Body:        bytes.NewReader(imageData),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := s.publicURL(objectKey)
	log.Printf("[ImageService] Successfully uploaded image to S3: %s", publicURL)
	return publicURL, nil
}
