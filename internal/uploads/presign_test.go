package uploads

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/stagemate/go-community-backend/internal/config"
)

// stubAPI records the last presign input and returns a canned URL.
type stubAPI struct {
	lastInput *s3.PutObjectInput
	err       error
}

func (s *stubAPI) PresignPutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.PresignOptions)) (*v4PresignedRequest, error) {
	s.lastInput = params
	if s.err != nil {
		return nil, s.err
	}
	return &v4PresignedRequest{URL: "https://signed.example/" + aws.ToString(params.Key), Method: "PUT"}, nil
}

func testPresigner(api presignAPI, cfg config.S3Config) *Presigner {
	return &Presigner{
		cfg:     cfg,
		api:     api,
		now:     func() time.Time { return time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC) },
		keyUUID: func() string { return "deadbeef" },
	}
}

func baseS3Config() config.S3Config {
	return config.S3Config{
		Bucket:        "media-bucket",
		Region:        "ap-northeast-2",
		UploadPrefix:  "uploads/",
		PresignExpiry: 5 * time.Minute,
	}
}

func TestPresignPut(t *testing.T) {
	api := &stubAPI{}
	p := testPresigner(api, baseS3Config())

	got, err := p.PresignPut(context.Background(), 42, "concert photo.jpg", "image/jpeg")
	if err != nil {
		t.Fatalf("presign: %v", err)
	}

	wantKey := "uploads/42/2026/03/07/deadbeef_concert_photo.jpg"
	if got.Key != wantKey {
		t.Fatalf("key = %q, want %q", got.Key, wantKey)
	}
	if got.UploadURL != "https://signed.example/"+wantKey {
		t.Fatalf("upload url = %q", got.UploadURL)
	}
	if got.PublicURL != "https://media-bucket.s3.ap-northeast-2.amazonaws.com/"+wantKey {
		t.Fatalf("public url = %q", got.PublicURL)
	}
	if got.ExpiresIn != 300 {
		t.Fatalf("expires_in = %d", got.ExpiresIn)
	}
	if aws.ToString(api.lastInput.Bucket) != "media-bucket" {
		t.Fatalf("bucket = %q", aws.ToString(api.lastInput.Bucket))
	}
	if aws.ToString(api.lastInput.ContentType) != "image/jpeg" {
		t.Fatalf("content type = %q", aws.ToString(api.lastInput.ContentType))
	}
}

func TestPresignPut_RejectsUnsupportedFiles(t *testing.T) {
	cases := []struct {
		name        string
		filename    string
		contentType string
	}{
		{"executable", "malware.exe", "application/x-msdownload"},
		{"pdf", "report.pdf", "application/pdf"},
		{"missing content type", "a.png", ""},
		{"content type not an image", "photo.jpg", "text/html"},
		{"gif content type", "photo.png", "image/gif"},
		{"extension mismatch", "archive.zip", "image/png"},
		{"no extension", "photo", "image/jpeg"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &stubAPI{}
			p := testPresigner(api, baseS3Config())

			_, err := p.PresignPut(context.Background(), 1, tc.filename, tc.contentType)
			if !errors.Is(err, ErrUnsupportedFile) {
				t.Fatalf("err = %v, want ErrUnsupportedFile", err)
			}
			if api.lastInput != nil {
				t.Fatalf("S3 presign called for rejected file %q", tc.filename)
			}
		})
	}
}

func TestPresignPut_AcceptsCaseInsensitiveTypes(t *testing.T) {
	api := &stubAPI{}
	p := testPresigner(api, baseS3Config())

	if _, err := p.PresignPut(context.Background(), 1, "Photo.JPG", " IMAGE/JPEG "); err != nil {
		t.Fatalf("presign: %v", err)
	}
}

func TestPresignPut_Error(t *testing.T) {
	api := &stubAPI{err: errors.New("credentials gone")}
	p := testPresigner(api, baseS3Config())

	if _, err := p.PresignPut(context.Background(), 1, "a.png", "image/png"); err == nil {
		t.Fatal("expected error")
	}
}

func TestObjectKey_Sanitization(t *testing.T) {
	p := testPresigner(&stubAPI{}, baseS3Config())

	cases := []struct {
		name     string
		filename string
		wantTail string
	}{
		{"spaces and unicode", "공연 사진 final.jpg", "deadbeef_final.jpg"},
		{"path traversal stripped", "../../etc/passwd", "deadbeef_passwd"},
		{"windows path", `C:\Users\me\pic.png`, "deadbeef_C_Users_me_pic.png"},
		{"empty name", "", "deadbeef_file"},
		{"only junk", "///...///", "deadbeef_file"},
		{"dotfile", ".env", "deadbeef_env"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			key := p.objectKey(7, tc.filename)
			if !strings.HasPrefix(key, "uploads/7/2026/03/07/") {
				t.Fatalf("key namespace: %q", key)
			}
			if !strings.HasSuffix(key, tc.wantTail) {
				t.Fatalf("key = %q, want suffix %q", key, tc.wantTail)
			}
			if strings.Contains(key, "..") {
				t.Fatalf("key contains dot-dot: %q", key)
			}
		})
	}
}

func TestObjectKey_CapsLongNames(t *testing.T) {
	p := testPresigner(&stubAPI{}, baseS3Config())

	long := strings.Repeat("a", 300) + ".jpg"
	key := p.objectKey(7, long)
	base := key[strings.LastIndex(key, "_")+1:]
	if len(base) > 100 {
		t.Fatalf("sanitized name not capped: %d bytes", len(base))
	}
	if !strings.HasSuffix(key, ".jpg") {
		t.Fatalf("extension lost: %q", key)
	}
}

func TestPublicURL_BaseOverride(t *testing.T) {
	cfg := baseS3Config()
	cfg.PublicBaseURL = "https://cdn.example.com/"
	p := testPresigner(&stubAPI{}, cfg)

	if got := p.publicURL("uploads/1/x"); got != "https://cdn.example.com/uploads/1/x" {
		t.Fatalf("public url = %q", got)
	}
}
