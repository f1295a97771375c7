package aws

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// SessionProvider resolves AWS credentials for the S3 report registry.
// Configs are loaded once per profile and clients are reused per region.
type SessionProvider struct {
	mu       sync.Mutex
	configs  map[string]aws.Config
	buckets  map[clientKey]*s3.Client
	accounts map[string]string
}

type clientKey struct {
	profile string
	region  string
}

// NewSessionProvider cria um provider vazio.
func NewSessionProvider() *SessionProvider {
	return &SessionProvider{
		configs:  map[string]aws.Config{},
		buckets:  map[clientKey]*s3.Client{},
		accounts: map[string]string{},
	}
}

// loadConfig must be called with mu held.
func (p *SessionProvider) loadConfig(ctx context.Context, profile string) (aws.Config, error) {
	if cfg, ok := p.configs[profile]; ok {
		return cfg, nil
	}
	var opts []func(*config.LoadOptions) error
	if profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(profile))
	}
	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("loading AWS config for profile %q: %w", profile, err)
	}
	p.configs[profile] = cfg
	return cfg, nil
}

// S3Client returns the S3 client for a profile, pinned to region when it is set.
func (p *SessionProvider) S3Client(ctx context.Context, profile, region string) (*s3.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := clientKey{profile: profile, region: region}
	if c, ok := p.buckets[key]; ok {
		return c, nil
	}
	cfg, err := p.loadConfig(ctx, profile)
	if err != nil {
		return nil, err
	}
	c := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if region != "" {
			o.Region = region
		}
	})
	p.buckets[key] = c
	return c, nil
}

// AccountID returns the account a profile's credentials belong to. It is
// recorded on registry writes so shared buckets show who stored a report.
func (p *SessionProvider) AccountID(ctx context.Context, profile string) (string, error) {
	p.mu.Lock()
	if id, ok := p.accounts[profile]; ok {
		p.mu.Unlock()
		return id, nil
	}
	cfg, err := p.loadConfig(ctx, profile)
	p.mu.Unlock()
	if err != nil {
		return "", err
	}

	out, err := sts.NewFromConfig(cfg).GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("resolving account for profile %q: %w", profile, err)
	}
	id := aws.ToString(out.Account)

	p.mu.Lock()
	p.accounts[profile] = id
	p.mu.Unlock()
	return id, nil
}
