package aws

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestS3Client_IsCachedPerRegion(t *testing.T) {
	p := NewSessionProvider()
	p.configs["test"] = aws.Config{Region: "us-east-1"}

	a, err := p.S3Client(context.Background(), "test", "eu-west-1")
	require.NoError(t, err)
	b, err := p.S3Client(context.Background(), "test", "eu-west-1")
	require.NoError(t, err)
	c, err := p.S3Client(context.Background(), "test", "sa-east-1")
	require.NoError(t, err)
	d, err := p.S3Client(context.Background(), "test", "")
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.NotSame(t, a, c)
	assert.Equal(t, "eu-west-1", a.Options().Region)
	assert.Equal(t, "us-east-1", d.Options().Region)
}

func TestAccountID_UsesCache(t *testing.T) {
	p := NewSessionProvider()
	p.accounts["prod"] = "123456789012"

	id, err := p.AccountID(context.Background(), "prod")
	require.NoError(t, err)
	assert.Equal(t, "123456789012", id)
}
