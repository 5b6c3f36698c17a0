// Package gcp collects dev/test inventory from one GCP project using the
// Google API clients with application default credentials.
//
// Firewall rules and grouping containers are not covered: GCP firewall
// rules carry no labels, so the dev/test classifier has nothing to match
// against, and projects themselves are the scan scope.
package gcp

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/api/compute/v1"
	redis "google.golang.org/api/redis/v1"
	sqladmin "google.golang.org/api/sqladmin/v1beta4"

	"github.com/cloudcostchefs/devtest-auditor/internal/models"
	"github.com/cloudcostchefs/devtest-auditor/internal/providers"
)

// Inventory implements providers.Inventory for one GCP project.
type Inventory struct {
	projectID string

	compute *compute.Service
	sql     *sqladmin.Service
	redis   *redis.Service
}

// New builds an inventory for the project using application default
// credentials.
func New(ctx context.Context, projectID string) (*Inventory, error) {
	if projectID == "" {
		return nil, fmt.Errorf("gcp: project ID is required")
	}

	computeSvc, err := compute.NewService(ctx)
	if err != nil {
		return nil, fmt.Errorf("compute service: %w", err)
	}
	sqlSvc, err := sqladmin.NewService(ctx)
	if err != nil {
		return nil, fmt.Errorf("sqladmin service: %w", err)
	}
	redisSvc, err := redis.NewService(ctx)
	if err != nil {
		return nil, fmt.Errorf("redis service: %w", err)
	}

	return &Inventory{
		projectID: projectID,
		compute:   computeSvc,
		sql:       sqlSvc,
		redis:     redisSvc,
	}, nil
}

func (inv *Inventory) Provider() string { return "gcp" }

func (inv *Inventory) ResolveScope(_ context.Context) (providers.Scope, error) {
	return providers.Scope{
		Provider: "gcp",
		ID:       inv.projectID,
		Name:     inv.projectID,
	}, nil
}

// zoneNames lists the project's zones once per scan.
func (inv *Inventory) zoneNames(ctx context.Context) ([]string, error) {
	var zones []string
	err := inv.compute.Zones.List(inv.projectID).Pages(ctx, func(page *compute.ZoneList) error {
		for _, zone := range page.Items {
			zones = append(zones, zone.Name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list zones: %w", err)
	}
	return zones, nil
}

// ListInstances enumerates compute instances zone by zone.
func (inv *Inventory) ListInstances(ctx context.Context) ([]models.Instance, error) {
	zones, err := inv.zoneNames(ctx)
	if err != nil {
		return nil, err
	}

	var instances []models.Instance
	for _, zone := range zones {
		err := inv.compute.Instances.List(inv.projectID, zone).Pages(ctx, func(page *compute.InstanceList) error {
			for _, in := range page.Items {
				instances = append(instances, models.Instance{
					ID:       fmt.Sprintf("%d", in.Id),
					Name:     in.Name,
					Scope:    inv.projectID,
					Location: zone,
					Shape:    basename(in.MachineType),
					State:    instanceState(in.Status),
					Tags:     models.TagSet(in.Labels),
				})
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("list instances in %s: %w", zone, err)
		}
	}
	return instances, nil
}

func instanceState(status string) string {
	switch status {
	case "RUNNING":
		return "running"
	case "TERMINATED", "STOPPED":
		return "stopped"
	}
	return strings.ToLower(status)
}

// ListVolumes enumerates persistent disks zone by zone. Users holds the
// instances a disk is attached to.
func (inv *Inventory) ListVolumes(ctx context.Context) ([]models.Volume, error) {
	zones, err := inv.zoneNames(ctx)
	if err != nil {
		return nil, err
	}

	var volumes []models.Volume
	for _, zone := range zones {
		err := inv.compute.Disks.List(inv.projectID, zone).Pages(ctx, func(page *compute.DiskList) error {
			for _, disk := range page.Items {
				state := "in-use"
				if disk.Status == "READY" && len(disk.Users) == 0 {
					state = "available"
				}
				volumes = append(volumes, models.Volume{
					ID:          fmt.Sprintf("%d", disk.Id),
					Name:        disk.Name,
					Scope:       inv.projectID,
					Location:    zone,
					VolumeType:  basename(disk.Type),
					State:       state,
					SizeGB:      disk.SizeGb,
					Attachments: len(disk.Users),
					Tags:        models.TagSet(disk.Labels),
				})
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("list disks in %s: %w", zone, err)
		}
	}
	return volumes, nil
}

// ListReservedIPs enumerates static addresses across all regions via the
// aggregated list.
func (inv *Inventory) ListReservedIPs(ctx context.Context) ([]models.ReservedIP, error) {
	var ips []models.ReservedIP
	err := inv.compute.Addresses.AggregatedList(inv.projectID).Pages(ctx, func(page *compute.AddressAggregatedList) error {
		for scope, list := range page.Items {
			region := basename(scope)
			for _, addr := range list.Addresses {
				ip := models.ReservedIP{
					ID:       fmt.Sprintf("%d", addr.Id),
					Name:     addr.Name,
					Scope:    inv.projectID,
					Location: region,
					Address:  addr.Address,
					Tier:     addr.AddressType,
					Tags:     models.TagSet(addr.Labels),
				}
				if addr.Status == "RESERVED" && len(addr.Users) == 0 {
					ip.State = "available"
				} else {
					ip.State = "assigned"
					if len(addr.Users) > 0 {
						ip.AssignedTo = basename(addr.Users[0])
					}
				}
				ips = append(ips, ip)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list addresses: %w", err)
	}
	return ips, nil
}

// ListLoadBalancers enumerates forwarding rules, which are the labelled
// front half of a GCP load balancer. The backend count comes from a
// secondary BackendServices lookup; a failed lookup counts as zero.
func (inv *Inventory) ListLoadBalancers(ctx context.Context) ([]models.LoadBalancer, error) {
	var lbs []models.LoadBalancer
	err := inv.compute.ForwardingRules.AggregatedList(inv.projectID).Pages(ctx, func(page *compute.ForwardingRuleAggregatedList) error {
		for scope, list := range page.Items {
			region := basename(scope)
			for _, rule := range list.ForwardingRules {
				lb := models.LoadBalancer{
					ID:           fmt.Sprintf("%d", rule.Id),
					Name:         rule.Name,
					Scope:        inv.projectID,
					Location:     region,
					Shape:        rule.LoadBalancingScheme,
					State:        "active",
					Addresses:    []string{rule.IPAddress},
					BackendCount: inv.backendCount(ctx, rule),
					Tags:         models.TagSet(rule.Labels),
				}
				lbs = append(lbs, lb)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list forwarding rules: %w", err)
	}
	return lbs, nil
}

// backendCount resolves the backend service behind a forwarding rule. Rules
// pointing at a proxy target instead of a backend service are treated as
// populated since their backends are not directly countable.
func (inv *Inventory) backendCount(ctx context.Context, rule *compute.ForwardingRule) int {
	if rule.BackendService == "" {
		if rule.Target != "" {
			return 1
		}
		return 0
	}
	svc, err := inv.compute.BackendServices.Get(inv.projectID, basename(rule.BackendService)).Context(ctx).Do()
	if err != nil {
		return 0
	}
	return len(svc.Backends)
}

// ListDatabases enumerates Cloud SQL instances.
func (inv *Inventory) ListDatabases(ctx context.Context) ([]models.Database, error) {
	var databases []models.Database
	err := inv.sql.Instances.List(inv.projectID).Pages(ctx, func(page *sqladmin.InstancesListResponse) error {
		for _, in := range page.Items {
			db := models.Database{
				ID:       in.Name,
				Name:     in.Name,
				Scope:    inv.projectID,
				Location: in.Region,
				Kind:     "Cloud SQL Instance",
				Engine:   in.DatabaseVersion,
				State:    strings.ToLower(in.State),
			}
			if db.State == "runnable" {
				db.State = "available"
			}
			if in.Settings != nil {
				db.Tier = in.Settings.Tier
				db.Tags = models.TagSet(in.Settings.UserLabels)
			}
			databases = append(databases, db)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list cloud sql instances: %w", err)
	}
	return databases, nil
}

// ListCacheClusters enumerates Memorystore Redis instances across all
// locations. The service tier is the node type checked against the premium
// reference table.
func (inv *Inventory) ListCacheClusters(ctx context.Context) ([]models.CacheCluster, error) {
	parent := fmt.Sprintf("projects/%s/locations/-", inv.projectID)

	var clusters []models.CacheCluster
	err := inv.redis.Projects.Locations.Instances.List(parent).Pages(ctx, func(page *redis.ListInstancesResponse) error {
		for _, in := range page.Instances {
			state := strings.ToLower(in.State)
			if state == "ready" {
				state = "available"
			}
			clusters = append(clusters, models.CacheCluster{
				ID:       in.Name,
				Name:     basename(in.Name),
				Scope:    inv.projectID,
				Location: in.LocationId,
				NodeType: in.Tier,
				Engine:   "redis",
				State:    state,
				Tags:     models.TagSet(in.Labels),
			})
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list memorystore instances: %w", err)
	}
	return clusters, nil
}

// ListNetworkRuleSets is not applicable: GCP firewall rules have no labels
// for the dev/test classifier to match.
func (inv *Inventory) ListNetworkRuleSets(_ context.Context) ([]models.NetworkRuleSet, error) {
	return nil, providers.ErrCategoryNotSupported
}

// ListResourceGroups is not applicable: the project itself is the scope.
func (inv *Inventory) ListResourceGroups(_ context.Context) ([]models.ResourceGroup, error) {
	return nil, providers.ErrCategoryNotSupported
}

// basename returns the last path segment of a GCP resource URL or name.
func basename(url string) string {
	if url == "" {
		return ""
	}
	if idx := strings.LastIndex(url, "/"); idx >= 0 {
		return url[idx+1:]
	}
	return url
}
