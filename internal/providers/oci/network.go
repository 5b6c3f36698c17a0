package oci

import (
	"context"
	"fmt"
	"strings"

	"github.com/oracle/oci-go-sdk/v65/core"
	"github.com/oracle/oci-go-sdk/v65/loadbalancer"

	"github.com/cloudcostchefs/devtest-auditor/internal/models"
)

// ListReservedIPs enumerates reserved public IPs at region scope. Ephemeral
// addresses disappear with their instance and are skipped.
func (inv *Inventory) ListReservedIPs(ctx context.Context) ([]models.ReservedIP, error) {
	var ips []models.ReservedIP
	err := inv.forEachCompartment(func(compartmentID string) error {
		req := core.ListPublicIpsRequest{
			CompartmentId: &compartmentID,
			Scope:         core.ListPublicIpsScopeRegion,
		}
		for {
			resp, err := inv.network.ListPublicIps(ctx, req)
			if err != nil {
				return fmt.Errorf("list public IPs: %w", err)
			}
			for _, in := range resp.Items {
				if in.Lifetime != core.PublicIpLifetimeReserved {
					continue
				}
				ip := models.ReservedIP{
					ID:      derefStr(in.Id),
					Name:    derefStr(in.DisplayName),
					Scope:   compartmentID,
					Address: derefStr(in.IpAddress),
					Tier:    "reserved",
					Tags:    flattenTags(in.FreeformTags, in.DefinedTags),
				}
				if in.AssignedEntityId != nil {
					ip.State = "assigned"
					ip.AssignedTo = *in.AssignedEntityId
				} else {
					ip.State = "available"
				}
				if in.TimeCreated != nil {
					ip.CreatedAt = in.TimeCreated.Time
				}
				ips = append(ips, ip)
			}
			if resp.OpcNextPage == nil {
				break
			}
			req.Page = resp.OpcNextPage
		}
		return nil
	})
	return ips, err
}

// ListNetworkRuleSets enumerates security lists for every VCN in each
// scanned compartment.
func (inv *Inventory) ListNetworkRuleSets(ctx context.Context) ([]models.NetworkRuleSet, error) {
	var sets []models.NetworkRuleSet
	err := inv.forEachCompartment(func(compartmentID string) error {
		vcns, err := inv.listVcns(ctx, compartmentID)
		if err != nil {
			return err
		}
		for _, vcn := range vcns {
			req := core.ListSecurityListsRequest{
				CompartmentId: &compartmentID,
				VcnId:         vcn.Id,
			}
			for {
				resp, err := inv.network.ListSecurityLists(ctx, req)
				if err != nil {
					return fmt.Errorf("list security lists for VCN %s: %w", derefStr(vcn.DisplayName), err)
				}
				for _, sl := range resp.Items {
					set := models.NetworkRuleSet{
						ID:          derefStr(sl.Id),
						Name:        derefStr(sl.DisplayName),
						Scope:       compartmentID,
						NetworkName: derefStr(vcn.DisplayName),
						State:       "active",
						Tags:        flattenTags(sl.FreeformTags, sl.DefinedTags),
					}
					for _, rule := range sl.IngressSecurityRules {
						set.InboundRules = append(set.InboundRules, toInboundRule(rule))
					}
					sets = append(sets, set)
				}
				if resp.OpcNextPage == nil {
					break
				}
				req.Page = resp.OpcNextPage
			}
		}
		return nil
	})
	return sets, err
}

func (inv *Inventory) listVcns(ctx context.Context, compartmentID string) ([]core.Vcn, error) {
	var vcns []core.Vcn
	req := core.ListVcnsRequest{CompartmentId: &compartmentID}
	for {
		resp, err := inv.network.ListVcns(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("list VCNs: %w", err)
		}
		vcns = append(vcns, resp.Items...)
		if resp.OpcNextPage == nil {
			break
		}
		req.Page = resp.OpcNextPage
	}
	return vcns, nil
}

// toInboundRule converts an ingress security rule. A TCP rule without port
// options allows all ports, as does protocol "all".
func toInboundRule(rule core.IngressSecurityRule) models.InboundRule {
	out := models.InboundRule{
		Protocol: protocolName(derefStr(rule.Protocol)),
		Source:   derefStr(rule.Source),
	}
	if out.Protocol == "all" {
		out.AllPorts = true
		return out
	}
	if rule.TcpOptions != nil && rule.TcpOptions.DestinationPortRange != nil {
		out.PortMin = int32(derefInt(rule.TcpOptions.DestinationPortRange.Min))
		out.PortMax = int32(derefInt(rule.TcpOptions.DestinationPortRange.Max))
		return out
	}
	if rule.UdpOptions != nil && rule.UdpOptions.DestinationPortRange != nil {
		out.PortMin = int32(derefInt(rule.UdpOptions.DestinationPortRange.Min))
		out.PortMax = int32(derefInt(rule.UdpOptions.DestinationPortRange.Max))
		return out
	}
	if out.Protocol == "tcp" || out.Protocol == "udp" {
		out.AllPorts = true
	}
	return out
}

// protocolName maps IANA protocol numbers used by OCI rules to names.
func protocolName(number string) string {
	switch number {
	case "all":
		return "all"
	case "6":
		return "tcp"
	case "17":
		return "udp"
	case "1":
		return "icmp"
	}
	return number
}

// ListLoadBalancers enumerates load balancers. The list response already
// includes backend sets, so the backend count needs no secondary calls.
func (inv *Inventory) ListLoadBalancers(ctx context.Context) ([]models.LoadBalancer, error) {
	var lbs []models.LoadBalancer
	err := inv.forEachCompartment(func(compartmentID string) error {
		req := loadbalancer.ListLoadBalancersRequest{CompartmentId: &compartmentID}
		for {
			resp, err := inv.lb.ListLoadBalancers(ctx, req)
			if err != nil {
				return fmt.Errorf("list load balancers: %w", err)
			}
			for _, in := range resp.Items {
				lb := models.LoadBalancer{
					ID:    derefStr(in.Id),
					Name:  derefStr(in.DisplayName),
					Scope: compartmentID,
					Shape: derefStr(in.ShapeName),
					State: strings.ToLower(string(in.LifecycleState)),
					Tags:  flattenTags(in.FreeformTags, in.DefinedTags),
				}
				for _, backendSet := range in.BackendSets {
					lb.BackendCount += len(backendSet.Backends)
				}
				for _, addr := range in.IpAddresses {
					if addr.IpAddress != nil {
						lb.Addresses = append(lb.Addresses, *addr.IpAddress)
					}
				}
				if in.TimeCreated != nil {
					lb.CreatedAt = in.TimeCreated.Time
				}
				lbs = append(lbs, lb)
			}
			if resp.OpcNextPage == nil {
				break
			}
			req.Page = resp.OpcNextPage
		}
		return nil
	})
	return lbs, err
}
