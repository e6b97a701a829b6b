package minio

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/wikidex/blobstore"
)

type mockClient struct {
	mock.Mock
}

func (m *mockClient) StatObject(ctx context.Context, bucket, object string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	args := m.Called(ctx, bucket, object)
	info, _ := args.Get(0).(minio.ObjectInfo)
	return info, args.Error(1)
}

func (m *mockClient) GetObject(ctx context.Context, bucket, object string, opts minio.GetObjectOptions) (*minio.Object, error) {
	args := m.Called(ctx, bucket, object)
	obj, _ := args.Get(0).(*minio.Object)
	return obj, args.Error(1)
}

func (m *mockClient) PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, _ := io.ReadAll(reader)
	args := m.Called(ctx, bucket, object, string(data), size)
	info, _ := args.Get(0).(minio.UploadInfo)
	return info, args.Error(1)
}

func (m *mockClient) RemoveObject(ctx context.Context, bucket, object string, opts minio.RemoveObjectOptions) error {
	return m.Called(ctx, bucket, object).Error(0)
}

func (m *mockClient) ListObjects(ctx context.Context, bucket string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	args := m.Called(ctx, bucket, opts.Prefix)
	ch := make(chan minio.ObjectInfo, 8)
	for _, info := range args.Get(0).([]minio.ObjectInfo) {
		ch <- info
	}
	close(ch)
	return ch
}

var _ blobstore.Store = (*Store)(nil)

func TestStore_OpenNotFound(t *testing.T) {
	c := new(mockClient)
	c.On("StatObject", mock.Anything, "wiki", "root/missing").
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"}).Once()

	_, err := NewStore(c, "wiki", "root/").Open(context.Background(), "missing")
	assert.ErrorIs(t, err, blobstore.ErrNotFound)
	c.AssertExpectations(t)
}

func TestStore_OpenError(t *testing.T) {
	c := new(mockClient)
	boom := errors.New("boom")
	c.On("StatObject", mock.Anything, "wiki", "f").Return(minio.ObjectInfo{}, boom).Once()

	_, err := NewStore(c, "wiki", "").Open(context.Background(), "f")
	assert.ErrorIs(t, err, boom)
}

func TestStore_Put(t *testing.T) {
	c := new(mockClient)
	c.On("PutObject", mock.Anything, "wiki", "root/querycount", "17", int64(2)).
		Return(minio.UploadInfo{}, nil).Once()

	require.NoError(t, NewStore(c, "wiki", "root").Put(context.Background(), "querycount", []byte("17")))
	c.AssertExpectations(t)
}

func TestStore_Delete(t *testing.T) {
	c := new(mockClient)
	c.On("RemoveObject", mock.Anything, "wiki", "a").Return(nil).Once()
	c.On("RemoveObject", mock.Anything, "wiki", "b").Return(minio.ErrorResponse{Code: "NotFound"}).Once()
	c.On("RemoveObject", mock.Anything, "wiki", "c").Return(errors.New("denied")).Once()

	s := NewStore(c, "wiki", "")
	assert.NoError(t, s.Delete(context.Background(), "a"))
	assert.NoError(t, s.Delete(context.Background(), "b"))
	assert.Error(t, s.Delete(context.Background(), "c"))
}

func TestStore_List(t *testing.T) {
	c := new(mockClient)
	c.On("ListObjects", mock.Anything, "wiki", "root/structs").Return([]minio.ObjectInfo{
		{Key: "root/structs/player_t.txt"},
		{Key: "root/structs/mobj_t.txt"},
		{Key: "root/structsx"},
	}).Once()

	names, err := NewStore(c, "wiki", "root/").List(context.Background(), "structs/")
	require.NoError(t, err)
	assert.Equal(t, []string{"structs/mobj_t.txt", "structs/player_t.txt"}, names)
}

func TestStore_ListError(t *testing.T) {
	c := new(mockClient)
	c.On("ListObjects", mock.Anything, "wiki", "").Return([]minio.ObjectInfo{
		{Err: errors.New("network")},
	}).Once()

	_, err := NewStore(c, "wiki", "").List(context.Background(), "")
	assert.Error(t, err)
}

// TestMinioStore_Integration requires a running MinIO instance.
// Skip if not available.
func TestMinioStore_Integration(t *testing.T) {
	endpoint := "localhost:9000"
	bucket := "test-wikidex"

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
		Secure: false,
	})
	if err != nil {
		t.Skipf("MinIO client creation failed: %v", err)
	}

	ctx := context.Background()

	if _, err = client.ListBuckets(ctx); err != nil {
		t.Skipf("MinIO not available: %v", err)
	}

	exists, err := client.BucketExists(ctx, bucket)
	require.NoError(t, err)
	if !exists {
		require.NoError(t, client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}))
	}

	store := NewStore(client, bucket, "test-prefix/")

	data := []byte("hello minio world")
	require.NoError(t, store.Put(ctx, "test.txt", data))

	got, err := blobstore.ReadAll(ctx, store, "test.txt")
	require.NoError(t, err)
	assert.Equal(t, data, got)

	names, err := store.List(ctx, "")
	require.NoError(t, err)
	assert.Contains(t, names, "test.txt")

	require.NoError(t, store.Delete(ctx, "test.txt"))
	_, err = store.Open(ctx, "test.txt")
	require.ErrorIs(t, err, blobstore.ErrNotFound)
}
