// Package uploads issues presigned S3 PUT URLs so clients upload post images
// directly to object storage instead of proxying bytes through the API.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/stagemate/go-community-backend/internal/config"
)

// unsafeChars matches everything stripped from client-supplied file names
// before they become part of an object key.
var unsafeChars = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

// ErrUnsupportedFile rejects uploads that are not one of the allowed image
// formats. Raised before any S3 call.
var ErrUnsupportedFile = errors.New("unsupported file type")

// allowedContentTypes and allowedExts are the only image formats posts may
// embed. Both the declared content type and the file extension must match.
var (
	allowedContentTypes = map[string]struct{}{
		"image/png":  {},
		"image/jpeg": {},
		"image/webp": {},
	}
	allowedExts = []string{".png", ".jpg", ".jpeg", ".webp"}
)

// allowedImage reports whether (contentType, filename) names an acceptable
// image upload.
func allowedImage(contentType, filename string) bool {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if _, ok := allowedContentTypes[ct]; !ok {
		return false
	}
	fn := strings.ToLower(strings.TrimSpace(filename))
	for _, ext := range allowedExts {
		if strings.HasSuffix(fn, ext) {
			return true
		}
	}
	return false
}

// presignAPI is the slice of the S3 presign client used here, extracted so
// tests can stub it.
type presignAPI interface {
	PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4PresignedRequest, error)
}

// v4PresignedRequest mirrors the fields of the SDK's presigned request that
// callers consume.
type v4PresignedRequest struct {
	URL    string
	Method string
}

// sdkPresigner adapts *s3.PresignClient to presignAPI.
type sdkPresigner struct {
	client *s3.PresignClient
}

func (p *sdkPresigner) PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4PresignedRequest, error) {
	req, err := p.client.PresignPutObject(ctx, params, optFns...)
	if err != nil {
		return nil, err
	}
	return &v4PresignedRequest{URL: req.URL, Method: req.Method}, nil
}

// PresignedUpload is the reply handed to a client that wants to upload a file.
// The client PUTs the bytes to UploadURL; PublicURL is where the object will
// be readable afterwards and is what gets stored on the post.
type PresignedUpload struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
	Key       string `json:"key"`
	ExpiresIn int64  `json:"expires_in"`
}

// Presigner issues time-limited S3 PUT URLs.
type Presigner struct {
	cfg     config.S3Config
	api     presignAPI
	now     func() time.Time
	keyUUID func() string
}

// New builds a Presigner from the ambient AWS credential chain.
func New(ctx context.Context, cfg config.S3Config) (*Presigner, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	client := s3.NewFromConfig(awsCfg)
	return &Presigner{
		cfg:     cfg,
		api:     &sdkPresigner{client: s3.NewPresignClient(client)},
		now:     time.Now,
		keyUUID: func() string { return strings.ReplaceAll(uuid.NewString(), "-", "") },
	}, nil
}

// PresignPut issues a presigned PUT URL for one upload by the given user.
// Only png/jpg/jpeg/webp images are accepted; anything else fails with
// ErrUnsupportedFile before S3 is contacted. The object key is namespaced by
// user and date so uploads never collide and the raw client file name never
// fully controls the key.
func (p *Presigner) PresignPut(ctx context.Context, userID int64, filename, contentType string) (*PresignedUpload, error) {
	if !allowedImage(contentType, filename) {
		return nil, ErrUnsupportedFile
	}
	key := p.objectKey(userID, filename)
	input := &s3.PutObjectInput{
		Bucket:      aws.String(p.cfg.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}
	req, err := p.api.PresignPutObject(ctx, input, s3.WithPresignExpires(p.cfg.PresignExpiry))
	if err != nil {
		return nil, fmt.Errorf("presign put object: %w", err)
	}
	return &PresignedUpload{
		UploadURL: req.URL,
		PublicURL: p.publicURL(key),
		Key:       key,
		ExpiresIn: int64(p.cfg.PresignExpiry.Seconds()),
	}, nil
}

// objectKey builds prefix/userID/yyyy/mm/dd/uuid_safe-name. The sanitized
// file name keeps the extension recognizable; an empty or fully-stripped
// name falls back to "file".
func (p *Presigner) objectKey(userID int64, filename string) string {
	safe := unsafeChars.ReplaceAllString(path.Base(filename), "_")
	safe = strings.Trim(safe, "._")
	if safe == "" {
		safe = "file"
	}
	if len(safe) > 100 {
		safe = safe[len(safe)-100:]
	}
	t := p.now().UTC()
	return fmt.Sprintf("%s/%d/%04d/%02d/%02d/%s_%s",
		strings.Trim(p.cfg.UploadPrefix, "/"), userID,
		t.Year(), t.Month(), t.Day(), p.keyUUID(), safe)
}

// publicURL is where the uploaded object will be readable. A configured base
// URL (CDN or static hosting) wins; otherwise the virtual-hosted S3 form.
func (p *Presigner) publicURL(key string) string {
	if base := strings.TrimRight(p.cfg.PublicBaseURL, "/"); base != "" {
		return base + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", p.cfg.Bucket, p.cfg.Region, key)
}
