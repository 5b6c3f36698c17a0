// Package aws collects dev/test inventory from one AWS account across one
// or more regions. Credentials come from the standard shared config and
// credentials files; the scan scope is the account behind the selected
// profile.
package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sts"

	"github.com/cloudcostchefs/devtest-auditor/internal/models"
	"github.com/cloudcostchefs/devtest-auditor/internal/providers"
)

// Inventory implements providers.Inventory for AWS. Each List call walks
// every configured region in order and concatenates the results.
type Inventory struct {
	profile string
	regions []string
	cfg     aws.Config
	factory ClientFactory

	accountID string
}

// Options configures a new AWS inventory.
type Options struct {
	// Profile selects a shared-config profile; empty uses the default.
	Profile string
	// Regions lists the regions to scan. Empty means the profile's
	// configured region only.
	Regions []string
}

// New loads AWS configuration for the options and returns an inventory
// backed by real SDK clients.
func New(ctx context.Context, opts Options) (*Inventory, error) {
	return NewWithFactory(ctx, opts, NewClientSet)
}

// NewWithFactory is New with an injectable client factory for tests.
func NewWithFactory(ctx context.Context, opts Options, factory ClientFactory) (*Inventory, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(opts.Profile))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS profile %q: %w", opts.Profile, err)
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	regions := opts.Regions
	if len(regions) == 0 {
		regions = []string{cfg.Region}
	}

	return &Inventory{
		profile: opts.Profile,
		regions: regions,
		cfg:     cfg,
		factory: factory,
	}, nil
}

func (inv *Inventory) Provider() string { return "aws" }

// ResolveScope resolves the account ID behind the loaded credentials via
// STS GetCallerIdentity.
func (inv *Inventory) ResolveScope(ctx context.Context) (providers.Scope, error) {
	clients := inv.factory(inv.cfg)
	out, err := clients.STS.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return providers.Scope{}, fmt.Errorf("STS GetCallerIdentity: %w", err)
	}
	if out.Account == nil {
		return providers.Scope{}, fmt.Errorf("STS GetCallerIdentity returned nil account")
	}
	inv.accountID = aws.ToString(out.Account)
	return providers.Scope{
		Provider: "aws",
		ID:       inv.accountID,
		Name:     inv.accountID,
	}, nil
}

// clientsFor returns a ClientSet bound to one region.
func (inv *Inventory) clientsFor(region string) *ClientSet {
	regional := inv.cfg
	regional.Region = region
	return inv.factory(regional)
}

// forEachRegion runs fn once per configured region, stopping at the first
// error so the scanner can record it against the whole category.
func (inv *Inventory) forEachRegion(fn func(region string, clients *ClientSet) error) error {
	for _, region := range inv.regions {
		if err := fn(region, inv.clientsFor(region)); err != nil {
			return fmt.Errorf("region %s: %w", region, err)
		}
	}
	return nil
}

// ListResourceGroups is not applicable: AWS has no grouping container with
// its own tags in the sense this scan checks.
func (inv *Inventory) ListResourceGroups(_ context.Context) ([]models.ResourceGroup, error) {
	return nil, providers.ErrCategoryNotSupported
}
