package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCleanKey(t *testing.T) {
	testCases := []struct {
		key     string
		want    string
		wantErr bool
	}{
		{key: "hero/a.jpg", want: "hero/a.jpg"},
		{key: "hero//a.jpg", want: "hero/a.jpg"},
		{key: " gallery/b.png ", want: "gallery/b.png"},
		{key: "", wantErr: true},
		{key: "/etc/passwd", wantErr: true},
		{key: "../secret", wantErr: true},
		{key: "hero/../../secret", wantErr: true},
		{key: "hero\\a.jpg", wantErr: true},
		{key: ".", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.key, func(t *testing.T) {
			got, err := CleanKey(tc.key)
			if tc.wantErr {
				require.ErrorIs(t, err, ErrInvalidKey)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestLocalDisk(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()

	disk, err := NewLocal(filepath.Join(root, "public"), "/storage/")
	require.NoError(t, err)

	ok, err := disk.Exists(ctx, "team/a.png")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, disk.Put(ctx, "team/a.png", strings.NewReader("png-bytes"), 9, "image/png"))

	ok, err = disk.Exists(ctx, "team/a.png")
	require.NoError(t, err)
	assert.True(t, ok)

	content, err := os.ReadFile(filepath.Join(root, "public", "team", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "png-bytes", string(content))

	assert.Equal(t, "/storage/team/a.png", disk.URL("team/a.png"))

	// overwrite keeps a single file
	require.NoError(t, disk.Put(ctx, "team/a.png", strings.NewReader("v2"), 2, "image/png"))
	content, err = os.ReadFile(filepath.Join(root, "public", "team", "a.png"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(content))

	entries, err := os.ReadDir(filepath.Join(root, "public", "team"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp file left behind")

	require.NoError(t, disk.Delete(ctx, "team/a.png"))
	require.NoError(t, disk.Delete(ctx, "team/a.png"), "deleting twice is fine")

	ok, err = disk.Exists(ctx, "team/a.png")
	require.NoError(t, err)
	assert.False(t, ok)

	require.ErrorIs(t, disk.Put(ctx, "../escape.png", strings.NewReader("x"), 1, ""), ErrInvalidKey)
}

// fakeS3 records calls made by the S3 disk.
type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}

	f.objects[*in.Bucket+"/"+*in.Key] = b
	if in.ContentType != nil {
		f.types[*in.Bucket+"/"+*in.Key] = *in.ContentType
	}

	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(
	_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options),
) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, *in.Bucket+"/"+*in.Key)

	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	if _, ok := f.objects[*in.Bucket+"/"+*in.Key]; !ok {
		return nil, &types.NotFound{}
	}

	return &s3.HeadObjectOutput{}, nil
}

func TestS3Disk(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	disk := NewS3WithClient(fake, "site-assets", "https://cdn.example.org/site-assets/")

	require.NoError(t, disk.Put(ctx, "news/x.jpg", strings.NewReader("jpeg"), 4, "image/jpeg"))
	assert.Equal(t, []byte("jpeg"), fake.objects["site-assets/news/x.jpg"])
	assert.Equal(t, "image/jpeg", fake.types["site-assets/news/x.jpg"])

	ok, err := disk.Exists(ctx, "news/x.jpg")
	require.NoError(t, err)
	assert.True(t, ok)

	assert.Equal(t, "https://cdn.example.org/site-assets/news/x.jpg", disk.URL("news/x.jpg"))

	require.NoError(t, disk.Delete(ctx, "news/x.jpg"))

	ok, err = disk.Exists(ctx, "news/x.jpg")
	require.NoError(t, err)
	assert.False(t, ok)

	require.ErrorIs(t, disk.Delete(ctx, "/abs"), ErrInvalidKey)
}

func TestNewS3NeedsPublicURL(t *testing.T) {
	_, err := NewS3(context.Background(), S3Config{Bucket: "b", Region: "us-east-1"})
	require.ErrorIs(t, err, ErrPublicURLEmpty)
}
