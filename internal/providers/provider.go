// Package providers defines the inventory contract each cloud adapter
// implements. Adapters translate provider APIs into the neutral snapshot
// types in internal/models; all heuristics live elsewhere.
package providers

import (
	"context"
	"errors"

	"github.com/cloudcostchefs/devtest-auditor/internal/models"
)

// ErrCategoryNotSupported is returned by List methods for resource kinds a
// provider has no sensible mapping for. The scanner skips these categories
// silently rather than warning about them.
var ErrCategoryNotSupported = errors.New("resource category not supported by this provider")

// Scope identifies the account-like boundary a scan runs against: an AWS
// account, an Azure subscription, a GCP project or an OCI tenancy.
type Scope struct {
	Provider string
	ID       string
	Name     string
}

// Inventory is implemented once per cloud. Each List method performs the
// network calls to enumerate one resource kind across the resolved scope
// and returns the snapshots in the provider's enumeration order.
//
// A method returns ErrCategoryNotSupported when the provider has no
// equivalent resource kind. Any other error is recoverable: the scanner
// records a warning and continues with the remaining categories.
type Inventory interface {
	Provider() string
	ResolveScope(ctx context.Context) (Scope, error)

	ListInstances(ctx context.Context) ([]models.Instance, error)
	ListDatabases(ctx context.Context) ([]models.Database, error)
	ListVolumes(ctx context.Context) ([]models.Volume, error)
	ListReservedIPs(ctx context.Context) ([]models.ReservedIP, error)
	ListCacheClusters(ctx context.Context) ([]models.CacheCluster, error)
	ListLoadBalancers(ctx context.Context) ([]models.LoadBalancer, error)
	ListNetworkRuleSets(ctx context.Context) ([]models.NetworkRuleSet, error)
	ListResourceGroups(ctx context.Context) ([]models.ResourceGroup, error)
}
