package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/diillson/campaign-analytics-go/internal/domain/entity"
	"github.com/diillson/campaign-analytics-go/internal/shared/types"
)

// S3API is the part of the S3 client the registry uses.
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
	s3.ListObjectsV2APIClient
}

// S3Registry stores one JSON object per report under a key prefix.
type S3Registry struct {
	client   S3API
	bucket   string
	prefix   string
	identity func(ctx context.Context) (string, error)
}

// NewS3Registry stores reports in bucket under prefix.
func NewS3Registry(client S3API, bucket, prefix string) *S3Registry {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = "reports"
	}
	return &S3Registry{client: client, bucket: bucket, prefix: prefix}
}

func (s *S3Registry) key(id string) string { return path.Join(s.prefix, id+".json") }

func (s *S3Registry) Add(ctx context.Context, r entity.Report) error {
	exists, err := s.exists(ctx, r.ID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("report %s already exists", r.ID)
	}

	data, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("error encoding report %s: %w", r.ID, err)
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(r.ID)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
		Metadata:    map[string]string{"status": string(r.Status), "campaign": r.Config.CampaignID},
	})
	if err != nil {
		return fmt.Errorf("error storing report %s in s3://%s: %w", r.ID, s.bucket, err)
	}
	return nil
}

func (s *S3Registry) List(ctx context.Context) ([]entity.Report, error) {
	reports := []entity.Report{}
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(s.prefix + "/"),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("error listing s3://%s/%s: %w", s.bucket, s.prefix, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if !strings.HasSuffix(key, ".json") {
				continue
			}
			r, err := s.get(ctx, key)
			if err != nil {
				return nil, err
			}
			reports = append(reports, r)
		}
	}
	sortReports(reports)
	return reports, nil
}

func (s *S3Registry) Delete(ctx context.Context, id string) error {
	exists, err := s.exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: %s", types.ErrReportNotFound, id)
	}
	_, err = s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err != nil {
		return fmt.Errorf("error deleting report %s: %w", id, err)
	}
	return nil
}

// Describe names the bucket and, when credentials allow it, the owning account.
func (s *S3Registry) Describe(ctx context.Context) (string, error) {
	where := fmt.Sprintf("s3://%s/%s", s.bucket, s.prefix)
	if s.identity == nil {
		return where, nil
	}
	account, err := s.identity(ctx)
	if err != nil {
		return where, err
	}
	return fmt.Sprintf("%s (account %s)", where, account), nil
}

func (s *S3Registry) get(ctx context.Context, key string) (entity.Report, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return entity.Report{}, fmt.Errorf("error reading %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return entity.Report{}, fmt.Errorf("error reading %s: %w", key, err)
	}
	var r entity.Report
	if err := json.Unmarshal(data, &r); err != nil {
		return entity.Report{}, fmt.Errorf("error parsing %s: %w", key, err)
	}
	return r, nil
}

func (s *S3Registry) exists(ctx context.Context, id string) (bool, error) {
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(id)),
	})
	if err == nil {
		return true, nil
	}
	var notFound *s3types.NotFound
	var noSuchKey *s3types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
		return false, nil
	}
	return false, fmt.Errorf("error checking report %s: %w", id, err)
}
