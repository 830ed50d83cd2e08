package services

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/sunserve/sunserve-api/apperror"
)

var pngBytes = append([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}, []byte("image data")...)

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
	h.Set("Content-Type", "image/png")
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["image"][0]
}

func TestSitePhotoServiceLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryObjectStore()
	svc := NewSitePhotoService(store)
	svc.now = func() time.Time { return time.Unix(1700000000, 0) }

	key, err := svc.Upload(ctx, 9, fileHeader(t, "roof.png", pngBytes))
	require.NoError(t, err)
	assert.Equal(t, "installations/9/1700000000_roof.png", key)
	assert.True(t, store.Exists(key))
	assert.Equal(t, "image/png", store.ContentType(key))

	url, err := svc.URL(ctx, key)
	require.NoError(t, err)
	assert.True(t, strings.Contains(url, key))
	assert.Contains(t, url, "X-Amz-Expires=3600")

	require.NoError(t, svc.Delete(ctx, key))
	assert.False(t, store.Exists(key))

	_, err = svc.URL(ctx, key)
	assert.Error(t, err)
}

func TestSitePhotoServiceRejectsInvalidFile(t *testing.T) {
	store := NewMemoryObjectStore()
	svc := NewSitePhotoService(store)

	_, err := svc.Upload(context.Background(), 1, fileHeader(t, "roof.jpg", pngBytes))
	require.Error(t, err)
	assert.Equal(t, apperror.KindValidation, apperror.Normalize(err).Kind)
	assert.Empty(t, store.Keys(), "nothing stored")
}

func TestSitePhotoServiceEmptyKey(t *testing.T) {
	svc := NewSitePhotoService(NewMemoryObjectStore())

	url, err := svc.URL(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, url)
	assert.NoError(t, svc.Delete(context.Background(), ""))
}

func TestPhotoServiceSingleton(t *testing.T) {
	original := GetPhotoService()
	t.Cleanup(func() { SetPhotoService(original) })

	SetPhotoService(nil)
	assert.Nil(t, GetPhotoService())

	svc := InitPhotoService(NewMemoryObjectStore())
	assert.Same(t, svc, GetPhotoService())
}
