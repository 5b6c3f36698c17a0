// Package oci collects dev/test inventory from an OCI tenancy. The scan
// walks one or more compartments; with no compartment list it covers the
// tenancy root.
package oci

import (
	"context"
	"fmt"

	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/core"
	"github.com/oracle/oci-go-sdk/v65/database"
	"github.com/oracle/oci-go-sdk/v65/identity"
	"github.com/oracle/oci-go-sdk/v65/loadbalancer"
	"github.com/rs/zerolog"

	"github.com/cloudcostchefs/devtest-auditor/internal/models"
	"github.com/cloudcostchefs/devtest-auditor/internal/providers"
)

// Inventory implements providers.Inventory for OCI.
type Inventory struct {
	tenancyID    string
	compartments []string
	log          zerolog.Logger

	identity identity.IdentityClient
	compute  core.ComputeClient
	block    core.BlockstorageClient
	network  core.VirtualNetworkClient
	database database.DatabaseClient
	lb       loadbalancer.LoadBalancerClient
}

// Options configures a new OCI inventory.
type Options struct {
	// Profile selects a profile from ~/.oci/config; empty uses DEFAULT.
	Profile string
	// Compartments lists compartment OCIDs to scan. Empty scans the
	// tenancy root compartment.
	Compartments []string
	Logger       zerolog.Logger
}

// New builds an inventory from the standard OCI config file.
func New(opts Options) (*Inventory, error) {
	var cfg common.ConfigurationProvider
	if opts.Profile != "" {
		cfg = common.CustomProfileConfigProvider("", opts.Profile)
	} else {
		cfg = common.DefaultConfigProvider()
	}

	tenancyID, err := cfg.TenancyOCID()
	if err != nil {
		return nil, fmt.Errorf("resolve tenancy OCID: %w", err)
	}

	inv := &Inventory{
		tenancyID:    tenancyID,
		compartments: opts.Compartments,
		log:          opts.Logger,
	}

	if inv.identity, err = identity.NewIdentityClientWithConfigurationProvider(cfg); err != nil {
		return nil, fmt.Errorf("identity client: %w", err)
	}
	if inv.compute, err = core.NewComputeClientWithConfigurationProvider(cfg); err != nil {
		return nil, fmt.Errorf("compute client: %w", err)
	}
	if inv.block, err = core.NewBlockstorageClientWithConfigurationProvider(cfg); err != nil {
		return nil, fmt.Errorf("block storage client: %w", err)
	}
	if inv.network, err = core.NewVirtualNetworkClientWithConfigurationProvider(cfg); err != nil {
		return nil, fmt.Errorf("virtual network client: %w", err)
	}
	if inv.database, err = database.NewDatabaseClientWithConfigurationProvider(cfg); err != nil {
		return nil, fmt.Errorf("database client: %w", err)
	}
	if inv.lb, err = loadbalancer.NewLoadBalancerClientWithConfigurationProvider(cfg); err != nil {
		return nil, fmt.Errorf("load balancer client: %w", err)
	}

	return inv, nil
}

func (inv *Inventory) Provider() string { return "oci" }

// ResolveScope names the tenancy and validates any requested compartments,
// dropping inactive ones with a warning.
func (inv *Inventory) ResolveScope(ctx context.Context) (providers.Scope, error) {
	tenancy, err := inv.identity.GetTenancy(ctx, identity.GetTenancyRequest{
		TenancyId: &inv.tenancyID,
	})
	if err != nil {
		return providers.Scope{}, fmt.Errorf("get tenancy: %w", err)
	}

	if len(inv.compartments) > 0 {
		var active []string
		for _, id := range inv.compartments {
			comp, err := inv.identity.GetCompartment(ctx, identity.GetCompartmentRequest{
				CompartmentId: &id,
			})
			if err != nil {
				return providers.Scope{}, fmt.Errorf("get compartment %s: %w", id, err)
			}
			if comp.LifecycleState != identity.CompartmentLifecycleStateActive {
				inv.log.Warn().Str("compartment", id).
					Str("state", string(comp.LifecycleState)).
					Msg("skipping inactive compartment")
				continue
			}
			active = append(active, id)
		}
		inv.compartments = active
	}
	if len(inv.compartments) == 0 {
		inv.compartments = []string{inv.tenancyID}
	}

	return providers.Scope{
		Provider: "oci",
		ID:       inv.tenancyID,
		Name:     derefStr(tenancy.Name),
	}, nil
}

// forEachCompartment runs fn per scanned compartment, stopping on the first
// error.
func (inv *Inventory) forEachCompartment(fn func(compartmentID string) error) error {
	for _, id := range inv.compartments {
		if err := fn(id); err != nil {
			return fmt.Errorf("compartment %s: %w", id, err)
		}
	}
	return nil
}

// ListCacheClusters is not applicable: OCI has no managed cache service
// covered by this scan.
func (inv *Inventory) ListCacheClusters(_ context.Context) ([]models.CacheCluster, error) {
	return nil, providers.ErrCategoryNotSupported
}

// ListResourceGroups enumerates active compartments under the tenancy for
// expiration-tag checks.
func (inv *Inventory) ListResourceGroups(ctx context.Context) ([]models.ResourceGroup, error) {
	includeSubtree := true
	req := identity.ListCompartmentsRequest{
		CompartmentId:          &inv.tenancyID,
		CompartmentIdInSubtree: &includeSubtree,
	}

	var groups []models.ResourceGroup
	for {
		resp, err := inv.identity.ListCompartments(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("list compartments: %w", err)
		}
		for _, comp := range resp.Items {
			if comp.LifecycleState != identity.CompartmentLifecycleStateActive {
				continue
			}
			groups = append(groups, models.ResourceGroup{
				ID:    derefStr(comp.Id),
				Name:  derefStr(comp.Name),
				Scope: inv.tenancyID,
				State: "active",
				Tags:  flattenTags(comp.FreeformTags, comp.DefinedTags),
			})
		}
		if resp.OpcNextPage == nil {
			break
		}
		req.Page = resp.OpcNextPage
	}
	return groups, nil
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

// flattenTags merges freeform and defined tags into one set. Defined tag
// keys are namespaced as "namespace.key" to avoid collisions.
func flattenTags(freeform map[string]string, defined map[string]map[string]interface{}) models.TagSet {
	if len(freeform) == 0 && len(defined) == 0 {
		return nil
	}
	out := make(models.TagSet, len(freeform))
	for k, v := range freeform {
		out[k] = v
	}
	for namespace, tags := range defined {
		for k, v := range tags {
			out[namespace+"."+k] = fmt.Sprint(v)
		}
	}
	return out
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
