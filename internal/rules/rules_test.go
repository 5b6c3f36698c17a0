package rules

import (
	"testing"
	"time"

	"github.com/cloudcostchefs/devtest-auditor/internal/config"
	"github.com/cloudcostchefs/devtest-auditor/internal/models"
)

// fixedNow keeps expiration checks deterministic.
var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func makeCtx(t *testing.T, data *models.InventoryData) RuleContext {
	t.Helper()
	settings := config.Defaults("oci")
	settings.ProductionDatabaseTiers = []string{"VM.Standard2.16"}
	settings.OversizedComputeShapes = []string{"BM.Standard2.52"}
	settings.PremiumCacheTiers = []string{"cache.r6g.4xlarge"}
	return RuleContext{Data: data, Settings: settings, Now: fixedNow}
}

func devTags() models.TagSet {
	return models.TagSet{"environment": "dev"}
}

func TestRegistryPanicsOnDuplicateID(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on duplicate rule ID")
		}
	}()
	reg := NewRegistry()
	reg.Register(NewUnattachedVolumeRule())
	reg.Register(NewUnattachedVolumeRule())
}

func TestDefaultRegistryOrder(t *testing.T) {
	reg := DefaultRegistry()
	rules := reg.Rules()
	want := models.AllCategories()
	if len(rules) != len(want) {
		t.Fatalf("rule count = %d, want %d", len(rules), len(want))
	}
	for i, rule := range rules {
		if rule.Category() != want[i] {
			t.Errorf("rule %d category = %s, want %s", i, rule.Category(), want[i])
		}
	}
}

func TestProductionDatabaseRule(t *testing.T) {
	rule := NewProductionDatabaseRule()

	t.Run("flags production tier on dev database", func(t *testing.T) {
		ctx := makeCtx(t, &models.InventoryData{Databases: []models.Database{
			{ID: "db-1", Name: "orders-db", Kind: "DB System", Tier: "VM.Standard2.16", State: "available", Tags: devTags()},
		}})
		findings := rule.Evaluate(ctx)
		if len(findings) != 1 {
			t.Fatalf("findings = %d, want 1", len(findings))
		}
		f := findings[0]
		if f.Severity != models.SeverityHigh {
			t.Errorf("severity = %s, want HIGH", f.Severity)
		}
		if f.Shape != "VM.Standard2.16" {
			t.Errorf("shape = %s, want VM.Standard2.16", f.Shape)
		}
	})

	t.Run("flags large autonomous database", func(t *testing.T) {
		ctx := makeCtx(t, &models.InventoryData{Databases: []models.Database{
			{ID: "adb-1", Kind: "Autonomous Database", Tier: "ECPU", CPUCores: 8, State: "available", Tags: devTags()},
		}})
		if got := len(rule.Evaluate(ctx)); got != 1 {
			t.Fatalf("findings = %d, want 1", got)
		}
	})

	t.Run("small autonomous database passes", func(t *testing.T) {
		ctx := makeCtx(t, &models.InventoryData{Databases: []models.Database{
			{ID: "adb-2", Kind: "Autonomous Database", CPUCores: 2, State: "available", Tags: devTags()},
		}})
		if got := len(rule.Evaluate(ctx)); got != 0 {
			t.Fatalf("findings = %d, want 0", got)
		}
	})

	t.Run("untagged database ignored", func(t *testing.T) {
		ctx := makeCtx(t, &models.InventoryData{Databases: []models.Database{
			{ID: "db-2", Tier: "VM.Standard2.16", State: "available"},
		}})
		if got := len(rule.Evaluate(ctx)); got != 0 {
			t.Fatalf("findings = %d, want 0", got)
		}
	})
}

func TestMissingAutomationRule(t *testing.T) {
	rule := NewMissingAutomationRule()

	t.Run("running without markers flagged", func(t *testing.T) {
		ctx := makeCtx(t, &models.InventoryData{Instances: []models.Instance{
			{ID: "i-1", Name: "worker", State: "running", Tags: devTags()},
		}})
		findings := rule.Evaluate(ctx)
		if len(findings) != 1 {
			t.Fatalf("findings = %d, want 1", len(findings))
		}
		if findings[0].Severity != models.SeverityLow {
			t.Errorf("severity = %s, want LOW", findings[0].Severity)
		}
	})

	t.Run("automation key substring passes", func(t *testing.T) {
		ctx := makeCtx(t, &models.InventoryData{Instances: []models.Instance{
			{ID: "i-2", State: "running", Tags: models.TagSet{"environment": "dev", "team-schedule-policy": "weekdays"}},
		}})
		if got := len(rule.Evaluate(ctx)); got != 0 {
			t.Fatalf("findings = %d, want 0", got)
		}
	})

	t.Run("stopped instance also flagged", func(t *testing.T) {
		ctx := makeCtx(t, &models.InventoryData{Instances: []models.Instance{
			{ID: "i-3", State: "stopped", Tags: devTags()},
		}})
		findings := rule.Evaluate(ctx)
		if len(findings) != 1 {
			t.Fatalf("findings = %d, want 1", len(findings))
		}
		if findings[0].State != "stopped" {
			t.Errorf("state = %q, want stopped", findings[0].State)
		}
	})

	t.Run("default vocabulary matches CamelCase keys on AWS", func(t *testing.T) {
		ctx := makeCtx(t, &models.InventoryData{Instances: []models.Instance{
			{ID: "i-4", State: "running", Tags: models.TagSet{
				"environment":          "test",
				"AutoShutdownSchedule": "nightly",
			}},
		}})
		ctx.Settings = config.Defaults("aws")
		if got := len(rule.Evaluate(ctx)); got != 0 {
			t.Fatalf("findings = %d, want 0", got)
		}
	})
}

func TestOversizedComputeRule(t *testing.T) {
	rule := NewOversizedComputeRule()

	t.Run("flags stopped oversized instance", func(t *testing.T) {
		ctx := makeCtx(t, &models.InventoryData{Instances: []models.Instance{
			{ID: "i-1", Shape: "BM.Standard2.52", State: "stopped", Tags: devTags()},
		}})
		findings := rule.Evaluate(ctx)
		if len(findings) != 1 {
			t.Fatalf("findings = %d, want 1", len(findings))
		}
		if findings[0].Severity != models.SeverityMedium {
			t.Errorf("severity = %s, want MEDIUM", findings[0].Severity)
		}
	})

	t.Run("shape not in table passes", func(t *testing.T) {
		ctx := makeCtx(t, &models.InventoryData{Instances: []models.Instance{
			{ID: "i-2", Shape: "VM.Standard.E4.Flex", State: "running", Tags: devTags()},
		}})
		if got := len(rule.Evaluate(ctx)); got != 0 {
			t.Fatalf("findings = %d, want 0", got)
		}
	})
}

func TestUnattachedVolumeRule(t *testing.T) {
	rule := NewUnattachedVolumeRule()

	t.Run("flags available volume with no attachments", func(t *testing.T) {
		ctx := makeCtx(t, &models.InventoryData{Volumes: []models.Volume{
			{ID: "vol-1", SizeGB: 200, State: "available", Tags: devTags()},
		}})
		findings := rule.Evaluate(ctx)
		if len(findings) != 1 {
			t.Fatalf("findings = %d, want 1", len(findings))
		}
		if findings[0].Extra["size_gb"] != "200" {
			t.Errorf("size_gb = %q, want 200", findings[0].Extra["size_gb"])
		}
	})

	t.Run("attached volume passes", func(t *testing.T) {
		ctx := makeCtx(t, &models.InventoryData{Volumes: []models.Volume{
			{ID: "vol-2", State: "available", Attachments: 1, Tags: devTags()},
		}})
		if got := len(rule.Evaluate(ctx)); got != 0 {
			t.Fatalf("findings = %d, want 0", got)
		}
	})
}

func TestUnusedReservedIPRule(t *testing.T) {
	rule := NewUnusedReservedIPRule()

	t.Run("flags unassigned address", func(t *testing.T) {
		ctx := makeCtx(t, &models.InventoryData{ReservedIPs: []models.ReservedIP{
			{ID: "ip-1", Address: "203.0.113.10", State: "available", Tags: devTags()},
		}})
		findings := rule.Evaluate(ctx)
		if len(findings) != 1 {
			t.Fatalf("findings = %d, want 1", len(findings))
		}
		if findings[0].Extra["ip_address"] != "203.0.113.10" {
			t.Errorf("ip_address = %q", findings[0].Extra["ip_address"])
		}
	})

	t.Run("assigned address passes", func(t *testing.T) {
		ctx := makeCtx(t, &models.InventoryData{ReservedIPs: []models.ReservedIP{
			{ID: "ip-2", State: "available", AssignedTo: "i-1", Tags: devTags()},
		}})
		if got := len(rule.Evaluate(ctx)); got != 0 {
			t.Fatalf("findings = %d, want 0", got)
		}
	})
}

func TestPremiumCacheRule(t *testing.T) {
	rule := NewPremiumCacheRule()

	ctx := makeCtx(t, &models.InventoryData{CacheClusters: []models.CacheCluster{
		{ID: "c-1", NodeType: "cache.r6g.4xlarge", Engine: "redis", State: "available", Tags: devTags()},
		{ID: "c-2", NodeType: "cache.t3.micro", Engine: "redis", State: "available", Tags: devTags()},
	}})
	findings := rule.Evaluate(ctx)
	if len(findings) != 1 {
		t.Fatalf("findings = %d, want 1", len(findings))
	}
	if findings[0].ResourceID != "c-1" {
		t.Errorf("flagged %s, want c-1", findings[0].ResourceID)
	}
}

func TestEmptyLoadBalancerRule(t *testing.T) {
	rule := NewEmptyLoadBalancerRule()

	ctx := makeCtx(t, &models.InventoryData{LoadBalancers: []models.LoadBalancer{
		{ID: "lb-1", State: "active", BackendCount: 0, Tags: devTags()},
		{ID: "lb-2", State: "active", BackendCount: 3, Tags: devTags()},
		{ID: "lb-3", State: "provisioning", BackendCount: 0, Tags: devTags()},
	}})
	findings := rule.Evaluate(ctx)
	if len(findings) != 1 {
		t.Fatalf("findings = %d, want 1", len(findings))
	}
	if findings[0].ResourceID != "lb-1" {
		t.Errorf("flagged %s, want lb-1", findings[0].ResourceID)
	}
}

func TestPermissiveRulesRule(t *testing.T) {
	rule := NewPermissiveRulesRule()

	t.Run("one finding per rule set with offending rules joined", func(t *testing.T) {
		ctx := makeCtx(t, &models.InventoryData{NetworkRuleSets: []models.NetworkRuleSet{
			{
				ID: "sl-1", Name: "default", State: "active", Tags: devTags(),
				InboundRules: []models.InboundRule{
					{Protocol: "tcp", Source: "0.0.0.0/0", PortMin: 22, PortMax: 22},
					{Protocol: "tcp", Source: "::/0", PortMin: 3000, PortMax: 4000},
					{Protocol: "tcp", Source: "10.0.0.0/8", PortMin: 22, PortMax: 22},
				},
			},
		}})
		findings := rule.Evaluate(ctx)
		if len(findings) != 1 {
			t.Fatalf("findings = %d, want 1", len(findings))
		}
		f := findings[0]
		if f.Severity != models.SeverityHigh {
			t.Errorf("severity = %s, want HIGH", f.Severity)
		}
		if f.Extra["permissive_rules_count"] != "2" {
			t.Errorf("permissive_rules_count = %q, want 2", f.Extra["permissive_rules_count"])
		}
	})

	t.Run("all ports rule counts", func(t *testing.T) {
		ctx := makeCtx(t, &models.InventoryData{NetworkRuleSets: []models.NetworkRuleSet{
			{
				ID: "sl-2", State: "active", Tags: devTags(),
				InboundRules: []models.InboundRule{{Protocol: "all", Source: "*", AllPorts: true}},
			},
		}})
		if got := len(rule.Evaluate(ctx)); got != 1 {
			t.Fatalf("findings = %d, want 1", got)
		}
	})

	t.Run("range not covering admin ports passes", func(t *testing.T) {
		ctx := makeCtx(t, &models.InventoryData{NetworkRuleSets: []models.NetworkRuleSet{
			{
				ID: "sl-3", State: "active", Tags: devTags(),
				InboundRules: []models.InboundRule{{Protocol: "tcp", Source: "0.0.0.0/0", PortMin: 80, PortMax: 443}},
			},
		}})
		if got := len(rule.Evaluate(ctx)); got != 0 {
			t.Fatalf("findings = %d, want 0", got)
		}
	})
}

func TestExpiredGroupRule(t *testing.T) {
	rule := NewExpiredGroupRule()

	tests := []struct {
		name string
		tags models.TagSet
		want int
	}{
		{"missing expiration tag", models.TagSet{"environment": "dev"}, 1},
		{"past expiration date", models.TagSet{"environment": "dev", "expires": "2024-01-01"}, 1},
		{"future expiration date", models.TagSet{"environment": "dev", "expires": "2030-01-01"}, 0},
		{"unparseable date counts as tagged", models.TagSet{"environment": "dev", "expires": "next quarter"}, 0},
		{"not dev/test", models.TagSet{"environment": "prod"}, 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			ctx := makeCtx(t, &models.InventoryData{ResourceGroups: []models.ResourceGroup{
				{ID: "rg-1", Name: "sandbox", State: "active", Tags: tc.tags},
			}})
			if got := len(rule.Evaluate(ctx)); got != tc.want {
				t.Fatalf("findings = %d, want %d", got, tc.want)
			}
		})
	}
}
