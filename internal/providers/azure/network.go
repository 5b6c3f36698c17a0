package azure

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/network/armnetwork"

	"github.com/cloudcostchefs/devtest-auditor/internal/models"
)

// ListReservedIPs enumerates public IP addresses. An address without an IP
// configuration reference is unassigned.
func (inv *Inventory) ListReservedIPs(ctx context.Context) ([]models.ReservedIP, error) {
	pager := inv.publicIPs.NewListAllPager(nil)

	var ips []models.ReservedIP
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list public IPs: %w", err)
		}
		for _, pip := range page.Value {
			ip := models.ReservedIP{
				ID:       deref(pip.ID),
				Name:     deref(pip.Name),
				Scope:    inv.subscriptionID,
				Location: deref(pip.Location),
				Tags:     tagsFromAzure(pip.Tags),
			}
			if pip.SKU != nil && pip.SKU.Name != nil {
				ip.Tier = string(*pip.SKU.Name)
			}
			if pip.Properties != nil {
				if pip.Properties.IPAddress != nil {
					ip.Address = *pip.Properties.IPAddress
				}
				if pip.Properties.IPConfiguration != nil {
					ip.State = "assigned"
					ip.AssignedTo = deref(pip.Properties.IPConfiguration.ID)
				} else {
					ip.State = "available"
				}
			}
			ips = append(ips, ip)
		}
	}
	return ips, nil
}

// ListNetworkRuleSets enumerates network security groups with their inbound
// allow rules.
func (inv *Inventory) ListNetworkRuleSets(ctx context.Context) ([]models.NetworkRuleSet, error) {
	pager := inv.nsgs.NewListAllPager(nil)

	var sets []models.NetworkRuleSet
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list network security groups: %w", err)
		}
		for _, nsg := range page.Value {
			set := models.NetworkRuleSet{
				ID:          deref(nsg.ID),
				Name:        deref(nsg.Name),
				Scope:       inv.subscriptionID,
				NetworkName: resourceGroupFromID(deref(nsg.ID)),
				State:       "active",
				Tags:        tagsFromAzure(nsg.Tags),
			}
			if nsg.Properties != nil {
				for _, rule := range nsg.Properties.SecurityRules {
					set.InboundRules = append(set.InboundRules, nsgInboundRules(rule)...)
				}
			}
			sets = append(sets, set)
		}
	}
	return sets, nil
}

// nsgInboundRules converts one NSG rule into zero or more neutral inbound
// rules, one per source/port-range combination. Outbound and Deny rules
// yield nothing.
func nsgInboundRules(rule *armnetwork.SecurityRule) []models.InboundRule {
	if rule == nil || rule.Properties == nil {
		return nil
	}
	props := rule.Properties
	if props.Direction == nil || *props.Direction != armnetwork.SecurityRuleDirectionInbound {
		return nil
	}
	if props.Access == nil || *props.Access != armnetwork.SecurityRuleAccessAllow {
		return nil
	}

	var sources []string
	if src := deref(props.SourceAddressPrefix); src != "" {
		sources = append(sources, src)
	}
	for _, src := range props.SourceAddressPrefixes {
		if src != nil && *src != "" {
			sources = append(sources, *src)
		}
	}

	var ports []string
	if p := deref(props.DestinationPortRange); p != "" {
		ports = append(ports, p)
	}
	for _, p := range props.DestinationPortRanges {
		if p != nil && *p != "" {
			ports = append(ports, *p)
		}
	}

	proto := "tcp"
	if props.Protocol != nil {
		proto = strings.ToLower(string(*props.Protocol))
	}

	var rules []models.InboundRule
	for _, source := range sources {
		for _, port := range ports {
			out := models.InboundRule{Protocol: proto, Source: source}
			if port == "*" {
				out.AllPorts = true
			} else {
				min, max, ok := parsePortRange(port)
				if !ok {
					continue
				}
				out.PortMin, out.PortMax = min, max
			}
			rules = append(rules, out)
		}
	}
	return rules
}

// parsePortRange parses "22" or "1000-2000".
func parsePortRange(s string) (int32, int32, bool) {
	if min, max, found := strings.Cut(s, "-"); found {
		lo, err1 := strconv.ParseInt(min, 10, 32)
		hi, err2 := strconv.ParseInt(max, 10, 32)
		if err1 != nil || err2 != nil {
			return 0, 0, false
		}
		return int32(lo), int32(hi), true
	}
	port, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, 0, false
	}
	return int32(port), int32(port), true
}

// ListLoadBalancers enumerates load balancers, counting backend pool
// memberships as the backend count.
func (inv *Inventory) ListLoadBalancers(ctx context.Context) ([]models.LoadBalancer, error) {
	pager := inv.lbs.NewListAllPager(nil)

	var lbs []models.LoadBalancer
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list load balancers: %w", err)
		}
		for _, in := range page.Value {
			lb := models.LoadBalancer{
				ID:       deref(in.ID),
				Name:     deref(in.Name),
				Scope:    inv.subscriptionID,
				Location: deref(in.Location),
				State:    "active",
				Tags:     tagsFromAzure(in.Tags),
			}
			if in.SKU != nil && in.SKU.Name != nil {
				lb.Shape = string(*in.SKU.Name)
			}
			if in.Properties != nil {
				for _, pool := range in.Properties.BackendAddressPools {
					if pool.Properties == nil {
						continue
					}
					lb.BackendCount += len(pool.Properties.LoadBalancerBackendAddresses)
					lb.BackendCount += len(pool.Properties.BackendIPConfigurations)
				}
				for _, fe := range in.Properties.FrontendIPConfigurations {
					if fe.Properties != nil && fe.Properties.PrivateIPAddress != nil {
						lb.Addresses = append(lb.Addresses, *fe.Properties.PrivateIPAddress)
					}
				}
			}
			lbs = append(lbs, lb)
		}
	}
	return lbs, nil
}
