// Package engine orchestrates a scan: resolve the scope, collect inventory
// category by category, evaluate the rules and assemble the report.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/cloudcostchefs/devtest-auditor/internal/config"
	"github.com/cloudcostchefs/devtest-auditor/internal/models"
	"github.com/cloudcostchefs/devtest-auditor/internal/providers"
	"github.com/cloudcostchefs/devtest-auditor/internal/rules"
)

// Scanner runs one scan against one provider scope.
type Scanner struct {
	inventory providers.Inventory
	registry  *rules.Registry
	settings  config.Settings
	log       zerolog.Logger
}

// NewScanner wires an inventory, a rule registry and resolved settings.
func NewScanner(inv providers.Inventory, registry *rules.Registry, settings config.Settings, log zerolog.Logger) *Scanner {
	return &Scanner{
		inventory: inv,
		registry:  registry,
		settings:  settings,
		log:       log,
	}
}

// collection binds one category to the inventory call that feeds it.
type collection struct {
	category models.Category
	collect  func(ctx context.Context, data *models.InventoryData) error
}

// Run executes the scan. Scope resolution failure aborts the run; a failed
// category collection is downgraded to a warning, discards any partial
// inventory and leaves that category empty in the report. Categories the
// provider does not support are skipped silently. Collection is strictly sequential so results stay in
// enumeration order and providers see no concurrent API pressure.
func (s *Scanner) Run(ctx context.Context) (*models.ScanReport, error) {
	scope, err := s.inventory.ResolveScope(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolve scope: %w", err)
	}
	s.log.Info().Str("provider", scope.Provider).Str("scope", scope.Name).Msg("starting scan")

	data := &models.InventoryData{
		Provider: scope.Provider,
		Scope:    scope.ID,
	}
	report := &models.ScanReport{
		Provider:    scope.Provider,
		Scope:       scope.Name,
		GeneratedAt: time.Now(),
		Findings:    make(map[models.Category]models.FindingSet),
	}

	for _, c := range s.collections() {
		err := c.collect(ctx, data)
		if errors.Is(err, providers.ErrCategoryNotSupported) {
			continue
		}
		report.Categories = append(report.Categories, c.category)
		report.Findings[c.category] = models.FindingSet{}
		if err != nil {
			warning := fmt.Sprintf("%s: collection failed: %v", c.category, err)
			s.log.Warn().Str("category", string(c.category)).Err(err).Msg("collection failed")
			report.Warnings = append(report.Warnings, warning)
		}
	}

	findings := s.registry.EvaluateAll(rules.RuleContext{
		Data:     data,
		Settings: s.settings,
		Now:      time.Now(),
	})
	for _, finding := range findings {
		if _, scanned := report.Findings[finding.Category]; !scanned {
			continue
		}
		report.Findings[finding.Category] = append(report.Findings[finding.Category], finding)
	}

	for _, category := range report.Categories {
		s.log.Info().
			Str("category", string(category)).
			Int("findings", len(report.Findings[category])).
			Msg("category scanned")
	}
	return report, nil
}

// collections enumerates the categories in report order with their
// collection calls. The two instance-based categories share one snapshot:
// instances are listed once and the second category reuses the outcome.
// Inventory is stored only when the call succeeds; a provider that returns
// partial results alongside an error contributes nothing to the data set,
// so a category is either fully scanned or empty.
func (s *Scanner) collections() []collection {
	var instancesErr error
	return []collection{
		{models.CategoryProductionDatabases, func(ctx context.Context, d *models.InventoryData) error {
			dbs, err := s.inventory.ListDatabases(ctx)
			if err != nil {
				return err
			}
			d.Databases = dbs
			return nil
		}},
		{models.CategoryMissingAutomation, func(ctx context.Context, d *models.InventoryData) error {
			var insts []models.Instance
			insts, instancesErr = s.inventory.ListInstances(ctx)
			if instancesErr != nil {
				return instancesErr
			}
			d.Instances = insts
			return nil
		}},
		{models.CategoryOversizedCompute, func(ctx context.Context, d *models.InventoryData) error {
			return instancesErr
		}},
		{models.CategoryUnattachedVolumes, func(ctx context.Context, d *models.InventoryData) error {
			vols, err := s.inventory.ListVolumes(ctx)
			if err != nil {
				return err
			}
			d.Volumes = vols
			return nil
		}},
		{models.CategoryUnusedReservedIPs, func(ctx context.Context, d *models.InventoryData) error {
			ips, err := s.inventory.ListReservedIPs(ctx)
			if err != nil {
				return err
			}
			d.ReservedIPs = ips
			return nil
		}},
		{models.CategoryPremiumCaches, func(ctx context.Context, d *models.InventoryData) error {
			caches, err := s.inventory.ListCacheClusters(ctx)
			if err != nil {
				return err
			}
			d.CacheClusters = caches
			return nil
		}},
		{models.CategoryEmptyLoadBalancers, func(ctx context.Context, d *models.InventoryData) error {
			lbs, err := s.inventory.ListLoadBalancers(ctx)
			if err != nil {
				return err
			}
			d.LoadBalancers = lbs
			return nil
		}},
		{models.CategoryPermissiveRules, func(ctx context.Context, d *models.InventoryData) error {
			ruleSets, err := s.inventory.ListNetworkRuleSets(ctx)
			if err != nil {
				return err
			}
			d.NetworkRuleSets = ruleSets
			return nil
		}},
		{models.CategoryStaleGroups, func(ctx context.Context, d *models.InventoryData) error {
			groups, err := s.inventory.ListResourceGroups(ctx)
			if err != nil {
				return err
			}
			d.ResourceGroups = groups
			return nil
		}},
	}
}
