package services

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cloudinary/cloudinary-go/v2/api"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/portfolio-site-backend/errs"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestUploadRuleCheck(t *testing.T) {
	t.Run("accepts image", func(t *testing.T) {
		up := &MediaUpload{Kind: MediaImage, Filename: "Logo.PNG", ContentType: "image/png", Size: 20, Body: bytes.NewReader(pngHeader)}
		require.NoError(t, ImageRule.Check("image", up))

		body, err := io.ReadAll(up.Body)
		require.NoError(t, err)
		assert.Equal(t, pngHeader, body, "body rewound after sniffing")
	})

	t.Run("replays non seekable body", func(t *testing.T) {
		up := &MediaUpload{Kind: MediaImage, Filename: "a.png", ContentType: "image/png", Body: io.NopCloser(bytes.NewReader(pngHeader))}
		require.NoError(t, ImageRule.Check("image", up))

		body, err := io.ReadAll(up.Body)
		require.NoError(t, err)
		assert.Equal(t, pngHeader, body)
	})

	t.Run("wrong extension", func(t *testing.T) {
		up := &MediaUpload{Kind: MediaImage, Filename: "a.bmp", ContentType: "image/png", Body: bytes.NewReader(pngHeader)}
		err := ImageRule.Check("image", up)
		assert.True(t, errs.IsUnsupportedMediaTypeError(err))
	})

	t.Run("wrong declared type", func(t *testing.T) {
		up := &MediaUpload{Kind: MediaVideo, Filename: "a.mp4", ContentType: "application/pdf", Body: strings.NewReader("x")}
		err := VideoRule.Check("video", up)
		assert.True(t, errs.IsUnsupportedMediaTypeError(err))
	})

	t.Run("sniffed family contradicts kind", func(t *testing.T) {
		up := &MediaUpload{Kind: MediaVideo, Filename: "a.mp4", ContentType: "video/mp4", Body: bytes.NewReader(pngHeader)}
		err := VideoRule.Check("video", up)
		assert.True(t, errs.IsUnsupportedMediaTypeError(err))
	})

	t.Run("too large", func(t *testing.T) {
		up := &MediaUpload{Kind: MediaImage, Filename: "a.png", ContentType: "image/png", Size: 10<<20 + 1}
		err := ImageRule.Check("thumbnail", up)
		assert.True(t, errs.IsMaxBodySizeExceededError(err))
	})

	t.Run("declared type with params", func(t *testing.T) {
		up := &MediaUpload{Kind: MediaVideo, Filename: "clip.webm", ContentType: "video/webm; codecs=vp9", Body: strings.NewReader("opaque")}
		assert.NoError(t, VideoRule.Check("video", up))
	})
}

func TestFolders(t *testing.T) {
	f := NewFolders("")
	assert.Equal(t, "portfolio/projects/videos", f.ProjectVideos)
	assert.Equal(t, "portfolio/projects/thumbnails", f.ProjectThumbnails)
	assert.Equal(t, "portfolio/skills", f.Skills)
	assert.True(t, f.Allowed("portfolio/skills"))
	assert.False(t, f.Allowed("elsewhere"))

	assert.Equal(t, "site/skills", NewFolders("site").Skills)
}

type mockUploader struct {
	mock.Mock
}

func (m *mockUploader) Upload(ctx context.Context, file interface{}, params uploader.UploadParams) (*uploader.UploadResult, error) {
	args := m.Called(ctx, file, params)
	res, _ := args.Get(0).(*uploader.UploadResult)
	return res, args.Error(1)
}

func (m *mockUploader) Destroy(ctx context.Context, params uploader.DestroyParams) (*uploader.DestroyResult, error) {
	args := m.Called(ctx, params)
	res, _ := args.Get(0).(*uploader.DestroyResult)
	return res, args.Error(1)
}

func newTestCloudinaryStore(up cloudinaryUploader) *CloudinaryStore {
	return &CloudinaryStore{
		cfg:      CloudinaryConfig{CloudName: "demo", APIKey: "key", APISecret: "secret"},
		uploader: up,
		now:      func() time.Time { return time.Unix(1700000000, 0) },
	}
}

func TestCloudinaryStoreUpload(t *testing.T) {
	ctx := context.Background()
	m := new(mockUploader)
	store := newTestCloudinaryStore(m)
	body := strings.NewReader("data")

	m.On("Upload", ctx, body, uploader.UploadParams{Folder: "portfolio/skills", ResourceType: "image"}).
		Return(&uploader.UploadResult{SecureURL: "https://res.cloudinary.com/demo/go.png", PublicID: "portfolio/skills/go"}, nil).Once()

	asset, err := store.Upload(ctx, MediaUpload{Kind: MediaImage, Folder: "portfolio/skills", Body: body})
	require.NoError(t, err)
	assert.Equal(t, MediaAsset{URL: "https://res.cloudinary.com/demo/go.png", PublicID: "portfolio/skills/go"}, asset)

	m.On("Upload", ctx, mock.Anything, mock.Anything).
		Return(&uploader.UploadResult{Error: api.ErrorResp{Message: "Invalid image file"}}, nil).Once()
	_, err = store.Upload(ctx, MediaUpload{Kind: MediaImage, Body: strings.NewReader("bad")})
	assert.True(t, errs.IsMediaUploadError(err))

	m.AssertExpectations(t)
}

func TestCloudinaryStoreDelete(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name   string
		result *uploader.DestroyResult
		err    error
		ok     bool
	}{
		{name: "ok", result: &uploader.DestroyResult{Result: "ok"}, ok: true},
		{name: "not found counts as deleted", result: &uploader.DestroyResult{Result: "not found"}, ok: true},
		{name: "api error", result: &uploader.DestroyResult{Error: api.ErrorResp{Message: "boom"}}},
		{name: "transport error", err: errors.New("timeout")},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := new(mockUploader)
			m.On("Destroy", ctx, uploader.DestroyParams{PublicID: "portfolio/projects/videos/v", ResourceType: "video"}).
				Return(tc.result, tc.err)

			res := newTestCloudinaryStore(m).Delete(ctx, "portfolio/projects/videos/v", MediaVideo)
			assert.Equal(t, tc.ok, res.OK)
			if !tc.ok {
				assert.NotEmpty(t, res.Reason)
			}
		})
	}

	t.Run("empty public id is a no-op", func(t *testing.T) {
		m := new(mockUploader)
		assert.True(t, newTestCloudinaryStore(m).Delete(ctx, "", MediaImage).OK)
		m.AssertNotCalled(t, "Destroy", mock.Anything, mock.Anything)
	})
}

func TestCloudinaryStoreUnconfigured(t *testing.T) {
	store, err := NewCloudinaryStore(CloudinaryConfig{CloudName: "demo"})
	require.NoError(t, err)

	_, err = store.Upload(context.Background(), MediaUpload{Kind: MediaImage})
	assert.True(t, errs.IsMediaUnconfigured(err))

	_, err = store.SignUpload("portfolio/skills", MediaImage)
	assert.True(t, errs.IsConfigMissing(err))

	assert.False(t, store.Delete(context.Background(), "x", MediaImage).OK)
}

func TestSignUpload(t *testing.T) {
	store := newTestCloudinaryStore(nil)

	sig, err := store.SignUpload("portfolio/skills", MediaImage)
	require.NoError(t, err)

	sum := sha1.Sum([]byte("folder=portfolio/skills&timestamp=1700000000secret"))
	assert.Equal(t, hex.EncodeToString(sum[:]), sig.Signature)
	assert.Equal(t, int64(1700000000), sig.Timestamp)
	assert.Equal(t, "image", sig.ResourceType)
	assert.Equal(t, "key", sig.APIKey)
	assert.Equal(t, "demo", sig.CloudName)

	again, err := store.SignUpload("portfolio/skills", MediaVideo)
	require.NoError(t, err)
	assert.Equal(t, sig.Signature, again.Signature, "resource type is not signed")

	store.cfg.UploadPreset = "signed"
	withPreset, err := store.SignUpload("portfolio/skills", MediaImage)
	require.NoError(t, err)
	assert.NotEqual(t, sig.Signature, withPreset.Signature)
}

func TestCloudinaryConfigFrom(t *testing.T) {
	cfg, err := CloudinaryConfigFrom(map[string]string{
		"CLOUDINARY_URL":           "cloudinary://k:s@cloud",
		"CLOUDINARY_CLOUD_NAME":    "ignored",
		"CLOUDINARY_UPLOAD_PRESET": "p",
	})
	require.NoError(t, err)
	assert.Equal(t, CloudinaryConfig{CloudName: "cloud", APIKey: "k", APISecret: "s", UploadPreset: "p"}, cfg)
}

type fakeS3 struct {
	put     *s3.PutObjectInput
	deleted []string
	err     error
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.put = in
	return &s3.PutObjectOutput{}, f.err
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = append(f.deleted, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Store(t *testing.T) {
	ctx := context.Background()
	client := &fakeS3{}
	store := newS3Store(client, "media", "https://cdn.example.com/")
	store.newKey = func(folder, _ string) string { return folder + "/fixed.png" }

	asset, err := store.Upload(ctx, MediaUpload{Kind: MediaImage, Folder: "portfolio/skills", Filename: "go.png", ContentType: "image/png", Size: 4, Body: strings.NewReader("data")})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/portfolio/skills/fixed.png", asset.URL)
	assert.Equal(t, "portfolio/skills/fixed.png", asset.PublicID)
	assert.Equal(t, "media", *client.put.Bucket)
	assert.Equal(t, int64(4), *client.put.ContentLength)

	assert.True(t, store.Delete(ctx, asset.PublicID, MediaImage).OK)
	assert.Equal(t, []string{"portfolio/skills/fixed.png"}, client.deleted)

	client.err = errors.New("access denied")
	assert.False(t, store.Delete(ctx, "k", MediaImage).OK)
	_, err = store.Upload(ctx, MediaUpload{Kind: MediaImage, Body: strings.NewReader("x")})
	assert.True(t, errs.IsMediaUploadError(err))
}
