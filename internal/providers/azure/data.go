package azure

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudcostchefs/devtest-auditor/internal/models"
)

// ListDatabases enumerates SQL databases across every SQL server in the
// subscription. The built-in master database is skipped.
func (inv *Inventory) ListDatabases(ctx context.Context) ([]models.Database, error) {
	var databases []models.Database

	serverPager := inv.sqlSrv.NewListPager(nil)
	for serverPager.More() {
		page, err := serverPager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list SQL servers: %w", err)
		}
		for _, server := range page.Value {
			serverName := deref(server.Name)
			resourceGroup := resourceGroupFromID(deref(server.ID))
			if serverName == "" || resourceGroup == "" {
				continue
			}

			dbPager := inv.sqlDBs.NewListByServerPager(resourceGroup, serverName, nil)
			for dbPager.More() {
				dbPage, err := dbPager.NextPage(ctx)
				if err != nil {
					return nil, fmt.Errorf("list databases on server %s: %w", serverName, err)
				}
				for _, db := range dbPage.Value {
					name := deref(db.Name)
					if strings.EqualFold(name, "master") {
						continue
					}
					out := models.Database{
						ID:       deref(db.ID),
						Name:     serverName + "/" + name,
						Scope:    inv.subscriptionID,
						Location: deref(db.Location),
						Kind:     "SQL Database",
						Engine:   "sqlserver",
						Tags:     tagsFromAzure(db.Tags),
					}
					if db.SKU != nil {
						out.Tier = deref(db.SKU.Name)
						if out.Tier == "" {
							out.Tier = deref(db.SKU.Tier)
						}
					}
					if db.Properties != nil && db.Properties.Status != nil {
						out.State = strings.ToLower(string(*db.Properties.Status))
						if out.State == "online" {
							out.State = "available"
						}
					}
					databases = append(databases, out)
				}
			}
		}
	}
	return databases, nil
}

// ListCacheClusters enumerates Azure Cache for Redis instances. The SKU
// name ("Basic", "Standard", "Premium") is the node type checked against
// the premium reference table.
func (inv *Inventory) ListCacheClusters(ctx context.Context) ([]models.CacheCluster, error) {
	pager := inv.redis.NewListBySubscriptionPager(nil)

	var clusters []models.CacheCluster
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list redis caches: %w", err)
		}
		for _, cache := range page.Value {
			cluster := models.CacheCluster{
				ID:       deref(cache.ID),
				Name:     deref(cache.Name),
				Scope:    inv.subscriptionID,
				Location: deref(cache.Location),
				Engine:   "redis",
				Tags:     tagsFromAzure(cache.Tags),
			}
			if cache.Properties != nil {
				if cache.Properties.SKU != nil && cache.Properties.SKU.Name != nil {
					cluster.NodeType = string(*cache.Properties.SKU.Name)
				}
				if cache.Properties.ProvisioningState != nil {
					cluster.State = strings.ToLower(string(*cache.Properties.ProvisioningState))
					if cluster.State == "succeeded" {
						cluster.State = "available"
					}
				}
			}
			clusters = append(clusters, cluster)
		}
	}
	return clusters, nil
}

// ListResourceGroups enumerates resource groups for expiration-tag checks.
func (inv *Inventory) ListResourceGroups(ctx context.Context) ([]models.ResourceGroup, error) {
	pager := inv.groups.NewListPager(nil)

	var groups []models.ResourceGroup
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list resource groups: %w", err)
		}
		for _, rg := range page.Value {
			groups = append(groups, models.ResourceGroup{
				ID:       deref(rg.ID),
				Name:     deref(rg.Name),
				Scope:    inv.subscriptionID,
				Location: deref(rg.Location),
				State:    "active",
				Tags:     tagsFromAzure(rg.Tags),
			})
		}
	}
	return groups, nil
}
