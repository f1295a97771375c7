package registry

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
	"github.com/diillson/campaign-analytics-go/internal/domain/repository"
	"github.com/diillson/campaign-analytics-go/internal/shared/types"
)

func report(id string, status entity.ReportStatus, at time.Time) entity.Report {
	r := entity.Report{
		ID:        id,
		Status:    status,
		CreatedAt: at,
		Config:    entity.ReportConfig{CampaignID: "c-1", Name: "Report " + id, Format: entity.FormatCSV},
	}
	if status == entity.ReportGenerated {
		r.Artifact = &entity.Artifact{Filename: id + ".csv", MIMEType: "text/csv", Content: []byte("a,b\n")}
	} else {
		r.Config.Schedule = entity.Schedule{Enabled: true, Frequency: "weekly", Recipients: []string{"ops@example.com"}}
	}
	return r
}

func exerciseRegistry(t *testing.T, reg repository.ReportRegistry) {
	ctx := context.Background()
	t0 := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	empty, err := reg.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	first := report("a1", entity.ReportGenerated, t0)
	second := report("b2", entity.ReportScheduled, t0.Add(time.Minute))
	require.NoError(t, reg.Add(ctx, first))
	require.NoError(t, reg.Add(ctx, second))
	assert.Error(t, reg.Add(ctx, first))

	all, err := reg.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "a1", all[0].ID)
	assert.Equal(t, []byte("a,b\n"), all[0].Artifact.Content)
	assert.Equal(t, "b2", all[1].ID)
	assert.Nil(t, all[1].Artifact)
	assert.Equal(t, []string{"ops@example.com"}, all[1].Config.Schedule.Recipients)

	scheduled := repository.FilterByStatus(all, entity.ReportScheduled)
	require.Len(t, scheduled, 1)
	assert.Equal(t, "b2", scheduled[0].ID)

	require.NoError(t, reg.Delete(ctx, "a1"))
	assert.ErrorIs(t, reg.Delete(ctx, "a1"), types.ErrReportNotFound)

	all, err = reg.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "b2", all[0].ID)

	if d, ok := reg.(Describer); ok {
		desc, err := d.Describe(ctx)
		assert.NoError(t, err)
		assert.NotEmpty(t, desc)
	}
}

func TestMemoryRegistry(t *testing.T) {
	exerciseRegistry(t, NewMemoryRegistry())
}

func TestFileRegistry(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "reports.json")
	exerciseRegistry(t, NewFileRegistry(path))

	reopened, err := NewFileRegistry(path).List(context.Background())
	require.NoError(t, err)
	require.Len(t, reopened, 1)
	assert.Equal(t, "b2", reopened[0].ID)
}

func TestS3Registry(t *testing.T) {
	fake := newFakeS3()
	reg := NewS3Registry(fake, "bucket", "/team/reports/")
	reg.identity = func(context.Context) (string, error) { return "123456789012", nil }

	exerciseRegistry(t, reg)

	_, ok := fake.objects["team/reports/b2.json"]
	assert.True(t, ok)
	desc, err := reg.Describe(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "s3://bucket/team/reports (account 123456789012)", desc)
}

func TestRedisRegistry(t *testing.T) {
	exerciseRegistry(t, newRedisRegistry(newFakeRedis(), "test", zap.NewNop()))
}

func TestNew(t *testing.T) {
	ctx := context.Background()

	reg, err := New(ctx, types.RegistryConfig{Backend: "memory"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &MemoryRegistry{}, reg)

	reg, err = New(ctx, types.RegistryConfig{Path: filepath.Join(t.TempDir(), "r.json")}, nil)
	require.NoError(t, err)
	assert.IsType(t, &FileRegistry{}, reg)

	_, err = New(ctx, types.RegistryConfig{Backend: "s3"}, nil)
	assert.Error(t, err)

	_, err = New(ctx, types.RegistryConfig{Backend: "mongo"}, nil)
	assert.ErrorIs(t, err, types.ErrUnsupportedRegistry)
}

type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string][]byte{}} }

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[aws.ToString(in.Key)] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &s3types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[aws.ToString(in.Key)]; !ok {
		return nil, &s3types.NotFound{}
	}
	return &s3.HeadObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) ListObjectsV2(_ context.Context, in *s3.ListObjectsV2Input, _ ...func(*s3.Options)) (*s3.ListObjectsV2Output, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var keys []string
	for k := range f.objects {
		if strings.HasPrefix(k, aws.ToString(in.Prefix)) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	out := &s3.ListObjectsV2Output{IsTruncated: aws.Bool(false)}
	for _, k := range keys {
		out.Contents = append(out.Contents, s3types.Object{Key: aws.String(k)})
	}
	return out, nil
}

type fakeRedis struct {
	hash  map[string]map[string]string
	zsets map[string]map[string]float64
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{hash: map[string]map[string]string{}, zsets: map[string]map[string]float64{}}
}

func (f *fakeRedis) HSetNX(_ context.Context, key, field string, value interface{}) *redis.BoolCmd {
	h := f.hash[key]
	if h == nil {
		h = map[string]string{}
		f.hash[key] = h
	}
	if _, ok := h[field]; ok {
		return redis.NewBoolResult(false, nil)
	}
	switch v := value.(type) {
	case []byte:
		h[field] = string(v)
	case string:
		h[field] = v
	}
	return redis.NewBoolResult(true, nil)
}

func (f *fakeRedis) HMGet(_ context.Context, key string, fields ...string) *redis.SliceCmd {
	out := make([]interface{}, len(fields))
	for i, field := range fields {
		if v, ok := f.hash[key][field]; ok {
			out[i] = v
		}
	}
	return redis.NewSliceResult(out, nil)
}

func (f *fakeRedis) HDel(_ context.Context, key string, fields ...string) *redis.IntCmd {
	var n int64
	for _, field := range fields {
		if _, ok := f.hash[key][field]; ok {
			delete(f.hash[key], field)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func (f *fakeRedis) ZAdd(_ context.Context, key string, members ...redis.Z) *redis.IntCmd {
	z := f.zsets[key]
	if z == nil {
		z = map[string]float64{}
		f.zsets[key] = z
	}
	for _, m := range members {
		z[m.Member.(string)] = m.Score
	}
	return redis.NewIntResult(int64(len(members)), nil)
}

func (f *fakeRedis) ZRange(_ context.Context, key string, _, _ int64) *redis.StringSliceCmd {
	z := f.zsets[key]
	ids := make([]string, 0, len(z))
	for id := range z {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if z[ids[i]] != z[ids[j]] {
			return z[ids[i]] < z[ids[j]]
		}
		return ids[i] < ids[j]
	})
	return redis.NewStringSliceResult(ids, nil)
}

func (f *fakeRedis) ZRem(_ context.Context, key string, members ...interface{}) *redis.IntCmd {
	for _, m := range members {
		delete(f.zsets[key], m.(string))
	}
	return redis.NewIntResult(int64(len(members)), nil)
}

func (f *fakeRedis) Close() error { return nil }
