// Package azure collects dev/test inventory from one Azure subscription
// using the ARM SDK track-2 clients and DefaultAzureCredential.
package azure

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/redis/armredis"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/sql/armsql"

	"github.com/cloudcostchefs/devtest-auditor/internal/models"
	"github.com/cloudcostchefs/devtest-auditor/internal/providers"
)

// Inventory implements providers.Inventory for one Azure subscription.
type Inventory struct {
	subscriptionID string
	verifyAccess   func(ctx context.Context) error

	vms       *armcompute.VirtualMachinesClient
	disks     *armcompute.DisksClient
	publicIPs *armnetwork.PublicIPAddressesClient
	nsgs      *armnetwork.SecurityGroupsClient
	lbs       *armnetwork.LoadBalancersClient
	sqlSrv    *armsql.ServersClient
	sqlDBs    *armsql.DatabasesClient
	redis     *armredis.Client
	groups    *armresources.ResourceGroupsClient
}

// New builds an inventory for the subscription using the default Azure
// credential chain (environment, managed identity, CLI).
func New(subscriptionID string) (*Inventory, error) {
	if subscriptionID == "" {
		return nil, fmt.Errorf("azure: subscription ID is required")
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("azure credential: %w", err)
	}

	inv := &Inventory{subscriptionID: subscriptionID}

	if inv.vms, err = armcompute.NewVirtualMachinesClient(subscriptionID, cred, nil); err != nil {
		return nil, fmt.Errorf("compute client: %w", err)
	}
	if inv.disks, err = armcompute.NewDisksClient(subscriptionID, cred, nil); err != nil {
		return nil, fmt.Errorf("disks client: %w", err)
	}
	if inv.publicIPs, err = armnetwork.NewPublicIPAddressesClient(subscriptionID, cred, nil); err != nil {
		return nil, fmt.Errorf("public IP client: %w", err)
	}
	if inv.nsgs, err = armnetwork.NewSecurityGroupsClient(subscriptionID, cred, nil); err != nil {
		return nil, fmt.Errorf("NSG client: %w", err)
	}
	if inv.lbs, err = armnetwork.NewLoadBalancersClient(subscriptionID, cred, nil); err != nil {
		return nil, fmt.Errorf("load balancer client: %w", err)
	}
	if inv.sqlSrv, err = armsql.NewServersClient(subscriptionID, cred, nil); err != nil {
		return nil, fmt.Errorf("SQL servers client: %w", err)
	}
	if inv.sqlDBs, err = armsql.NewDatabasesClient(subscriptionID, cred, nil); err != nil {
		return nil, fmt.Errorf("SQL databases client: %w", err)
	}
	if inv.redis, err = armredis.NewClient(subscriptionID, cred, nil); err != nil {
		return nil, fmt.Errorf("redis client: %w", err)
	}
	if inv.groups, err = armresources.NewResourceGroupsClient(subscriptionID, cred, nil); err != nil {
		return nil, fmt.Errorf("resource groups client: %w", err)
	}
	inv.verifyAccess = inv.fetchFirstGroupsPage

	return inv, nil
}

func (inv *Inventory) Provider() string { return "azure" }

// ResolveScope validates that the credential can actually read the
// subscription before any category is collected, so a bad login aborts the
// whole scan instead of producing nine collection warnings.
func (inv *Inventory) ResolveScope(ctx context.Context) (providers.Scope, error) {
	if inv.verifyAccess != nil {
		if err := inv.verifyAccess(ctx); err != nil {
			return providers.Scope{}, fmt.Errorf("verify access to subscription %s: %w", inv.subscriptionID, err)
		}
	}
	return providers.Scope{
		Provider: "azure",
		ID:       inv.subscriptionID,
		Name:     inv.subscriptionID,
	}, nil
}

// fetchFirstGroupsPage requests one page of resource groups, the cheapest
// authenticated ARM call against the subscription.
func (inv *Inventory) fetchFirstGroupsPage(ctx context.Context) error {
	pager := inv.groups.NewListPager(nil)
	if !pager.More() {
		return nil
	}
	_, err := pager.NextPage(ctx)
	return err
}

// ---------------------------------------------------------------------------
// Shared helpers
// ---------------------------------------------------------------------------

func tagsFromAzure(in map[string]*string) models.TagSet {
	if len(in) == 0 {
		return nil
	}
	out := make(models.TagSet, len(in))
	for k, v := range in {
		if v != nil {
			out[k] = *v
		}
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// resourceGroupFromID extracts the resource group segment from an ARM
// resource ID. Returns "" when the ID does not follow the usual layout.
func resourceGroupFromID(id string) string {
	segments := strings.Split(id, "/")
	for i := 0; i < len(segments)-1; i++ {
		if strings.EqualFold(segments[i], "resourceGroups") {
			return segments[i+1]
		}
	}
	return ""
}
