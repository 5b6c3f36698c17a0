package config

// Built-in reference tables. These capture the size classes that are rarely
// justified on dev/test workloads; override them per environment with a
// config file rather than editing this table.

var defaultDevTestValues = []string{
	"dev", "test", "development", "testing", "staging", "qa",
}

var defaultAutomationKeys = []string{
	"AutoShutdown", "AutoStart", "Schedule", "StopStart", "Automation",
}

var defaultExpirationKeys = []string{
	"expiration-date", "expires", "ttl", "delete-after",
}

var defaultProviderRules = map[string]ProviderRules{
	"aws": {
		ProductionDatabaseTiers: []string{
			"db.r5.2xlarge", "db.r5.4xlarge", "db.r5.8xlarge", "db.r5.12xlarge",
			"db.r6g.2xlarge", "db.r6g.4xlarge", "db.r6g.8xlarge",
			"db.m5.4xlarge", "db.m5.8xlarge", "db.m5.12xlarge",
			"db.x1e.xlarge", "db.x1e.2xlarge",
		},
		OversizedComputeShapes: []string{
			"m5.4xlarge", "m5.8xlarge", "m5.12xlarge", "m5.16xlarge",
			"c5.9xlarge", "c5.12xlarge", "c5.18xlarge",
			"r5.4xlarge", "r5.8xlarge", "r5.12xlarge",
			"p3.2xlarge", "p3.8xlarge", "g4dn.4xlarge", "g4dn.8xlarge",
			"x1.16xlarge", "x1.32xlarge", "i3.8xlarge", "i3.16xlarge",
		},
		PremiumCacheTiers: []string{
			"cache.r5.2xlarge", "cache.r5.4xlarge", "cache.r5.12xlarge",
			"cache.r6g.2xlarge", "cache.r6g.4xlarge", "cache.r6g.8xlarge",
			"cache.m5.4xlarge", "cache.m5.12xlarge",
		},
	},
	"azure": {
		ProductionDatabaseTiers: []string{
			"BusinessCritical", "Premium", "P2", "P4", "P6", "P11", "P15",
			"BC_Gen5_8", "BC_Gen5_16", "BC_Gen5_32",
			"GP_Gen5_16", "GP_Gen5_32",
		},
		OversizedComputeShapes: []string{
			"Standard_D16s_v3", "Standard_D32s_v3", "Standard_D64s_v3",
			"Standard_E16s_v3", "Standard_E32s_v3", "Standard_E64s_v3",
			"Standard_F32s_v2", "Standard_F64s_v2",
			"Standard_M64s", "Standard_M128s",
			"Standard_NC6", "Standard_NC12", "Standard_NC24",
		},
		PremiumCacheTiers: []string{
			"Premium",
		},
	},
	"gcp": {
		ProductionDatabaseTiers: []string{
			"db-n1-standard-16", "db-n1-standard-32", "db-n1-standard-64",
			"db-n1-highmem-16", "db-n1-highmem-32", "db-n1-highmem-64",
			"db-custom-16-65536", "db-custom-32-131072",
		},
		OversizedComputeShapes: []string{
			"n1-standard-16", "n1-standard-32", "n1-standard-64", "n1-standard-96",
			"n1-highmem-16", "n1-highmem-32", "n1-highmem-64",
			"n2-standard-32", "n2-standard-48", "n2-standard-64",
			"c2-standard-30", "c2-standard-60",
			"m1-megamem-96", "m1-ultramem-40", "m1-ultramem-80",
		},
		PremiumCacheTiers: []string{
			"STANDARD_HA",
		},
	},
	"oci": {
		ProductionDatabaseTiers: []string{
			"VM.Standard2.8", "VM.Standard2.16", "VM.Standard2.24",
			"BM.DenseIO2.52", "BM.Standard2.52",
			"Exadata.Quarter2.92", "Exadata.Half2.184", "Exadata.Full2.368",
		},
		OversizedComputeShapes: []string{
			"VM.Standard2.8", "VM.Standard2.16", "VM.Standard2.24",
			"VM.Standard3.Flex", "VM.DenseIO2.8", "VM.DenseIO2.16", "VM.DenseIO2.24",
			"BM.Standard2.52", "BM.DenseIO2.52",
			"VM.GPU2.1", "VM.GPU3.1", "VM.GPU3.2", "VM.GPU3.4",
			"BM.GPU2.2", "BM.GPU3.8",
		},
	},
}

// caseSensitiveAutomationKeys records which providers compare automation tag
// keys case-sensitively. AWS and Azure tag keys are case-sensitive; GCP
// labels and OCI freeform tag keys are compared lowercased.
var caseSensitiveAutomationKeys = map[string]bool{
	"aws":   true,
	"azure": true,
	"gcp":   false,
	"oci":   false,
}

// Defaults returns the built-in settings for a provider. Unknown providers
// get the shared vocabulary with empty reference tables.
func Defaults(provider string) Settings {
	rules := defaultProviderRules[provider]
	return Settings{
		Provider:                    provider,
		DevTestValues:               defaultDevTestValues,
		AutomationKeys:              defaultAutomationKeys,
		AutomationKeysCaseSensitive: caseSensitiveAutomationKeys[provider],
		ExpirationKeys:              defaultExpirationKeys,
		ProductionDatabaseTiers:     rules.ProductionDatabaseTiers,
		OversizedComputeShapes:      rules.OversizedComputeShapes,
		PremiumCacheTiers:           rules.PremiumCacheTiers,
	}
}
