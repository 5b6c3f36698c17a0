package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/cloudcostchefs/devtest-auditor/internal/models"
)

// ListInstances enumerates EC2 instances in running or stopped state across
// all configured regions.
func (inv *Inventory) ListInstances(ctx context.Context) ([]models.Instance, error) {
	var instances []models.Instance
	err := inv.forEachRegion(func(region string, clients *ClientSet) error {
		paginator := ec2.NewDescribeInstancesPaginator(clients.EC2, &ec2.DescribeInstancesInput{
			Filters: []ec2types.Filter{
				{
					Name:   aws.String("instance-state-name"),
					Values: []string{"running", "stopped"},
				},
			},
		})
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return fmt.Errorf("describe instances: %w", err)
			}
			for _, reservation := range page.Reservations {
				for _, instance := range reservation.Instances {
					instances = append(instances, toInstance(instance, region, inv.accountID))
				}
			}
		}
		return nil
	})
	return instances, err
}

// ListVolumes enumerates EBS volumes across all configured regions.
func (inv *Inventory) ListVolumes(ctx context.Context) ([]models.Volume, error) {
	var volumes []models.Volume
	err := inv.forEachRegion(func(region string, clients *ClientSet) error {
		paginator := ec2.NewDescribeVolumesPaginator(clients.EC2, &ec2.DescribeVolumesInput{})
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return fmt.Errorf("describe volumes: %w", err)
			}
			for _, volume := range page.Volumes {
				volumes = append(volumes, toVolume(volume, region, inv.accountID))
			}
		}
		return nil
	})
	return volumes, err
}

// ListReservedIPs enumerates Elastic IPs across all configured regions. An
// address with no association is reported as unassigned and available.
func (inv *Inventory) ListReservedIPs(ctx context.Context) ([]models.ReservedIP, error) {
	var ips []models.ReservedIP
	err := inv.forEachRegion(func(region string, clients *ClientSet) error {
		out, err := clients.EC2.DescribeAddresses(ctx, &ec2.DescribeAddressesInput{})
		if err != nil {
			return fmt.Errorf("describe addresses: %w", err)
		}
		for _, addr := range out.Addresses {
			ips = append(ips, toReservedIP(addr, region, inv.accountID))
		}
		return nil
	})
	return ips, err
}

// ListNetworkRuleSets enumerates security groups with their inbound rules
// across all configured regions.
func (inv *Inventory) ListNetworkRuleSets(ctx context.Context) ([]models.NetworkRuleSet, error) {
	var sets []models.NetworkRuleSet
	err := inv.forEachRegion(func(region string, clients *ClientSet) error {
		paginator := ec2.NewDescribeSecurityGroupsPaginator(clients.EC2, &ec2.DescribeSecurityGroupsInput{})
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return fmt.Errorf("describe security groups: %w", err)
			}
			for _, group := range page.SecurityGroups {
				sets = append(sets, toRuleSet(group, inv.accountID))
			}
		}
		return nil
	})
	return sets, err
}

// ---------------------------------------------------------------------------
// Converters
// ---------------------------------------------------------------------------

func toInstance(in ec2types.Instance, region, account string) models.Instance {
	state := ""
	if in.State != nil {
		state = string(in.State.Name)
	}
	inst := models.Instance{
		ID:       aws.ToString(in.InstanceId),
		Scope:    account,
		Location: region,
		Shape:    string(in.InstanceType),
		State:    state,
		Tags:     tagsFromEC2(in.Tags),
	}
	if in.LaunchTime != nil {
		inst.CreatedAt = *in.LaunchTime
	}
	inst.Name = inst.Tags["Name"]
	if inst.Name == "" {
		inst.Name = inst.ID
	}
	return inst
}

func toVolume(in ec2types.Volume, region, account string) models.Volume {
	vol := models.Volume{
		ID:          aws.ToString(in.VolumeId),
		Scope:       account,
		Location:    region,
		VolumeType:  string(in.VolumeType),
		State:       string(in.State),
		SizeGB:      int64(aws.ToInt32(in.Size)),
		Attachments: len(in.Attachments),
		Tags:        tagsFromEC2(in.Tags),
	}
	if in.CreateTime != nil {
		vol.CreatedAt = *in.CreateTime
	}
	vol.Name = vol.Tags["Name"]
	if vol.Name == "" {
		vol.Name = vol.ID
	}
	return vol
}

func toReservedIP(in ec2types.Address, region, account string) models.ReservedIP {
	ip := models.ReservedIP{
		ID:       aws.ToString(in.AllocationId),
		Scope:    account,
		Location: region,
		Address:  aws.ToString(in.PublicIp),
		Tags:     tagsFromEC2(in.Tags),
	}
	if in.AssociationId != nil {
		ip.State = "assigned"
		ip.AssignedTo = aws.ToString(in.InstanceId)
		if ip.AssignedTo == "" {
			ip.AssignedTo = aws.ToString(in.NetworkInterfaceId)
		}
	} else {
		ip.State = "available"
	}
	ip.Name = ip.Tags["Name"]
	if ip.Name == "" {
		ip.Name = ip.Address
	}
	return ip
}

func toRuleSet(in ec2types.SecurityGroup, account string) models.NetworkRuleSet {
	set := models.NetworkRuleSet{
		ID:          aws.ToString(in.GroupId),
		Name:        aws.ToString(in.GroupName),
		Scope:       account,
		NetworkName: aws.ToString(in.VpcId),
		State:       "active",
		Tags:        tagsFromEC2(in.Tags),
	}
	for _, perm := range in.IpPermissions {
		proto := aws.ToString(perm.IpProtocol)
		// Protocol -1 and absent port bounds both mean all ports.
		allPorts := proto == "-1" || perm.FromPort == nil || perm.ToPort == nil
		rule := models.InboundRule{
			Protocol: proto,
			AllPorts: allPorts,
		}
		if !allPorts {
			rule.PortMin = aws.ToInt32(perm.FromPort)
			rule.PortMax = aws.ToInt32(perm.ToPort)
		}
		for _, r := range perm.IpRanges {
			rule.Source = aws.ToString(r.CidrIp)
			set.InboundRules = append(set.InboundRules, rule)
		}
		for _, r := range perm.Ipv6Ranges {
			rule.Source = aws.ToString(r.CidrIpv6)
			set.InboundRules = append(set.InboundRules, rule)
		}
	}
	return set
}

// tagsFromEC2 flattens the SDK tag list into a TagSet.
func tagsFromEC2(tags []ec2types.Tag) models.TagSet {
	if len(tags) == 0 {
		return nil
	}
	out := make(models.TagSet, len(tags))
	for _, tag := range tags {
		out[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return out
}
