package services

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dravik/licensing-console/internal/config"
)

var pngBytes = []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0x0D}

type fakeS3 struct {
	s3iface.S3API
	objects map[string][]byte
	keys    []string
}

func (f *fakeS3) GetObjectWithContext(ctx aws.Context, in *s3.GetObjectInput, _ ...request.Option) (*s3.GetObjectOutput, error) {
	key := aws.StringValue(in.Key)
	f.keys = append(f.keys, aws.StringValue(in.Bucket)+"/"+key)
	data, ok := f.objects[key]
	if !ok {
		return nil, awserr.New(s3.ErrCodeNoSuchKey, "missing", nil)
	}
	return &s3.GetObjectOutput{
		Body:        io.NopCloser(bytes.NewReader(data)),
		ContentType: aws.String("image/png"),
	}, nil
}

func TestBuiltinTemplates(t *testing.T) {
	svc := NewTemplateService(NewDirSource(t.TempDir()))

	templates := svc.Templates()
	require.Len(t, templates, 2)
	assert.Equal(t, "molto-benny", templates[0].ID)

	tpl, ok := svc.Template("pepperoni-pie")
	require.True(t, ok)
	assert.Equal(t, "Classic pizza slice on volcano", tpl.Description)
	assert.False(t, tpl.Licenses.RemixAllowed)
	assert.Equal(t, "pepperoni-pie.png", tpl.ImageName())

	_, ok = svc.Template("missing")
	assert.False(t, ok)
}

func TestDirSource(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "molto-benny.png"), pngBytes, 0o644))
	svc := NewTemplateService(NewDirSource(dir))

	tpl, _ := svc.Template("molto-benny")
	file, err := svc.Image(context.Background(), tpl)
	require.NoError(t, err)
	assert.Equal(t, "molto-benny.png", file.Name)
	assert.Equal(t, "image/png", file.ContentType)
	assert.Equal(t, pngBytes, file.Data)

	tpl, _ = svc.Template("pepperoni-pie")
	_, err = svc.Image(context.Background(), tpl)
	assert.ErrorIs(t, err, ErrTemplateImageNotFound)
}

func TestS3Source(t *testing.T) {
	client := &fakeS3{objects: map[string][]byte{"assets/molto-benny.png": pngBytes}}
	svc := NewTemplateService(NewS3Source(client, "bucket", "assets/"))

	tpl, _ := svc.Template("molto-benny")
	file, err := svc.Image(context.Background(), tpl)
	require.NoError(t, err)
	assert.Equal(t, "molto-benny.png", file.Name)
	assert.Equal(t, "image/png", file.ContentType)
	assert.Equal(t, []string{"bucket/assets/molto-benny.png"}, client.keys)

	tpl, _ = svc.Template("pepperoni-pie")
	_, err = svc.Image(context.Background(), tpl)
	assert.ErrorIs(t, err, ErrTemplateImageNotFound)
}

func TestTemplateServiceFromConfigUsesDirectory(t *testing.T) {
	cfg := &config.Config{}
	cfg.Templates.Dir = t.TempDir()

	svc, err := NewTemplateServiceFromConfig(cfg)
	require.NoError(t, err)
	assert.IsType(t, &DirSource{}, svc.source)
}

func multipartHeader(t *testing.T, name, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+name+`"`)
	if contentType != "" {
		h.Set("Content-Type", contentType)
	}
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	form, err := multipart.NewReader(&body, mw.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { form.RemoveAll() })
	return form.File["file"][0]
}

func TestReadUpload(t *testing.T) {
	file, err := ReadUpload(multipartHeader(t, "cover.png", "image/png", pngBytes), GetDefaultUploadOptions("image"))
	require.NoError(t, err)
	assert.Equal(t, "cover.png", file.Name)
	assert.Equal(t, "image/png", file.ContentType)

	media, err := ReadUpload(multipartHeader(t, "track.mp3", "audio/mpeg", []byte("ID3")), GetDefaultUploadOptions("media"))
	require.NoError(t, err)
	assert.Equal(t, "audio/mpeg", media.ContentType)
}

func TestReadUploadRejects(t *testing.T) {
	_, err := ReadUpload(multipartHeader(t, "notes.txt", "text/plain", []byte("x")), GetDefaultUploadOptions("image"))
	assert.ErrorContains(t, err, "not allowed")

	_, err = ReadUpload(multipartHeader(t, "fake.png", "image/png", []byte("not an image")), GetDefaultUploadOptions("image"))
	assert.ErrorContains(t, err, "invalid image")

	opts := GetDefaultUploadOptions("image")
	opts.MaxSize = 4
	_, err = ReadUpload(multipartHeader(t, "big.png", "image/png", pngBytes), opts)
	assert.ErrorContains(t, err, "exceeds")
}
