package models

import "time"

// TagSet is the provider-neutral view of a resource's tags or labels.
// Adapters flatten provider-specific representations (AWS tag lists, Azure
// tag maps, GCP labels, OCI freeform + defined tags) into this shape before
// classification. A TagSet is read once from the provider and never mutated.
type TagSet map[string]string

// ---------------------------------------------------------------------------
// Provider-neutral resource snapshots (collected by adapters, consumed by the
// rule engine). Each struct is a read-only projection of one provider record.
//
// State values are canonicalised by the adapters to lowercase provider-neutral
// terms: "running"/"stopped" for compute, "available" for databases, volumes
// and addresses, "active" for load balancers and rule sets.
// ---------------------------------------------------------------------------

// Instance is a single compute instance (EC2 instance, Azure VM, GCE
// instance, OCI compute instance).
type Instance struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Scope     string    `json:"scope"`
	Location  string    `json:"location"`
	Shape     string    `json:"shape"`
	State     string    `json:"state"`
	CreatedAt time.Time `json:"created_at,omitzero"`
	Tags      TagSet    `json:"tags,omitempty"`
}

// Database is a managed database instance. Kind carries the provider's
// flavour label ("RDS Instance", "SQL Database", "DB System", "Autonomous
// Database") for display; Tier is the size class tested against the
// production reference table.
type Database struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Scope    string `json:"scope"`
	Location string `json:"location"`
	Kind     string `json:"kind"`
	Tier     string `json:"tier"`
	Engine   string `json:"engine,omitempty"`
	State    string `json:"state"`
	CPUCores int    `json:"cpu_cores,omitempty"`
	Tags     TagSet `json:"tags,omitempty"`
}

// Volume is a block storage volume or managed disk. Attachments is the
// number of attachment references the provider reports for it.
type Volume struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Scope       string    `json:"scope"`
	Location    string    `json:"location"`
	VolumeType  string    `json:"volume_type"`
	State       string    `json:"state"`
	SizeGB      int64     `json:"size_gb"`
	Attachments int       `json:"attachments"`
	CreatedAt   time.Time `json:"created_at,omitzero"`
	Tags        TagSet    `json:"tags,omitempty"`
}

// ReservedIP is a static or reserved public IP address. AssignedTo is empty
// when the address is not bound to any interface or instance.
type ReservedIP struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Scope      string    `json:"scope"`
	Location   string    `json:"location"`
	Address    string    `json:"address"`
	Tier       string    `json:"tier,omitempty"`
	State      string    `json:"state"`
	AssignedTo string    `json:"assigned_to,omitempty"`
	CreatedAt  time.Time `json:"created_at,omitzero"`
	Tags       TagSet    `json:"tags,omitempty"`
}

// CacheCluster is a managed cache instance (ElastiCache cluster, Azure Cache
// for Redis, Memorystore instance). NodeType is tested against the premium
// reference table.
type CacheCluster struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Scope    string `json:"scope"`
	Location string `json:"location"`
	NodeType string `json:"node_type"`
	Engine   string `json:"engine,omitempty"`
	State    string `json:"state"`
	Tags     TagSet `json:"tags,omitempty"`
}

// LoadBalancer is a load balancer with its resolved target count.
// BackendCount is populated by a secondary lookup during collection; a
// lookup failure for one load balancer leaves BackendCount at 0.
type LoadBalancer struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Scope        string    `json:"scope"`
	Location     string    `json:"location"`
	Shape        string    `json:"shape,omitempty"`
	State        string    `json:"state"`
	Addresses    []string  `json:"addresses,omitempty"`
	BackendCount int       `json:"backend_count"`
	CreatedAt    time.Time `json:"created_at,omitzero"`
	Tags         TagSet    `json:"tags,omitempty"`
}

// InboundRule is one inbound allow rule within a NetworkRuleSet.
// AllPorts is true when the rule does not restrict destination ports.
type InboundRule struct {
	Protocol string `json:"protocol"`
	Source   string `json:"source"`
	PortMin  int32  `json:"port_min,omitempty"`
	PortMax  int32  `json:"port_max,omitempty"`
	AllPorts bool   `json:"all_ports,omitempty"`
}

// NetworkRuleSet is a firewall-like rule collection (security group, NSG,
// OCI security list) together with the network it belongs to.
type NetworkRuleSet struct {
	ID           string        `json:"id"`
	Name         string        `json:"name"`
	Scope        string        `json:"scope"`
	NetworkName  string        `json:"network_name,omitempty"`
	State        string        `json:"state"`
	InboundRules []InboundRule `json:"inbound_rules,omitempty"`
	Tags         TagSet        `json:"tags,omitempty"`
}

// ResourceGroup is a grouping container (Azure resource group, OCI
// compartment) checked for expiration-tag hygiene.
type ResourceGroup struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Scope    string `json:"scope"`
	Location string `json:"location,omitempty"`
	State    string `json:"state"`
	Tags     TagSet `json:"tags,omitempty"`
}

// InventoryData holds everything one adapter collected from its scope.
// It is the sole input to rule evaluation; rules never make network calls.
// Slices keep the provider's enumeration order.
type InventoryData struct {
	Provider        string           `json:"provider"`
	Scope           string           `json:"scope"`
	Instances       []Instance       `json:"instances,omitempty"`
	Databases       []Database       `json:"databases,omitempty"`
	Volumes         []Volume         `json:"volumes,omitempty"`
	ReservedIPs     []ReservedIP     `json:"reserved_ips,omitempty"`
	CacheClusters   []CacheCluster   `json:"cache_clusters,omitempty"`
	LoadBalancers   []LoadBalancer   `json:"load_balancers,omitempty"`
	NetworkRuleSets []NetworkRuleSet `json:"network_rule_sets,omitempty"`
	ResourceGroups  []ResourceGroup  `json:"resource_groups,omitempty"`
}
