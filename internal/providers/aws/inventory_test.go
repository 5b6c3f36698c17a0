package aws

import (
	"context"
	"errors"
	"testing"
	"time"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/aws/aws-sdk-go-v2/service/elasticache"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// ---------------------------------------------------------------------------
// Mocks
// ---------------------------------------------------------------------------

type mockSTS struct {
	account string
	err     error
}

func (m *mockSTS) GetCallerIdentity(context.Context, *sts.GetCallerIdentityInput, ...func(*sts.Options)) (*sts.GetCallerIdentityOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	return &sts.GetCallerIdentityOutput{Account: awssdk.String(m.account)}, nil
}

type mockEC2 struct {
	instances []ec2types.Instance
	addresses []ec2types.Address
	groups    []ec2types.SecurityGroup
	volumes   []ec2types.Volume
}

func (m *mockEC2) DescribeInstances(context.Context, *ec2.DescribeInstancesInput, ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	return &ec2.DescribeInstancesOutput{
		Reservations: []ec2types.Reservation{{Instances: m.instances}},
	}, nil
}

func (m *mockEC2) DescribeVolumes(context.Context, *ec2.DescribeVolumesInput, ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error) {
	return &ec2.DescribeVolumesOutput{Volumes: m.volumes}, nil
}

func (m *mockEC2) DescribeAddresses(context.Context, *ec2.DescribeAddressesInput, ...func(*ec2.Options)) (*ec2.DescribeAddressesOutput, error) {
	return &ec2.DescribeAddressesOutput{Addresses: m.addresses}, nil
}

func (m *mockEC2) DescribeSecurityGroups(context.Context, *ec2.DescribeSecurityGroupsInput, ...func(*ec2.Options)) (*ec2.DescribeSecurityGroupsOutput, error) {
	return &ec2.DescribeSecurityGroupsOutput{SecurityGroups: m.groups}, nil
}

type mockELB struct {
	lbs           []elbtypes.LoadBalancer
	targetGroups  []elbtypes.TargetGroup
	targets       []elbtypes.TargetHealthDescription
	targetsErr    error
	describeErr   error
	tagsByLBIndex map[string][]elbtypes.Tag
}

func (m *mockELB) DescribeLoadBalancers(context.Context, *elbv2.DescribeLoadBalancersInput, ...func(*elbv2.Options)) (*elbv2.DescribeLoadBalancersOutput, error) {
	if m.describeErr != nil {
		return nil, m.describeErr
	}
	return &elbv2.DescribeLoadBalancersOutput{LoadBalancers: m.lbs}, nil
}

func (m *mockELB) DescribeTags(_ context.Context, in *elbv2.DescribeTagsInput, _ ...func(*elbv2.Options)) (*elbv2.DescribeTagsOutput, error) {
	var descs []elbtypes.TagDescription
	for _, arn := range in.ResourceArns {
		descs = append(descs, elbtypes.TagDescription{
			ResourceArn: awssdk.String(arn),
			Tags:        m.tagsByLBIndex[arn],
		})
	}
	return &elbv2.DescribeTagsOutput{TagDescriptions: descs}, nil
}

func (m *mockELB) DescribeTargetGroups(context.Context, *elbv2.DescribeTargetGroupsInput, ...func(*elbv2.Options)) (*elbv2.DescribeTargetGroupsOutput, error) {
	if m.targetsErr != nil {
		return nil, m.targetsErr
	}
	return &elbv2.DescribeTargetGroupsOutput{TargetGroups: m.targetGroups}, nil
}

func (m *mockELB) DescribeTargetHealth(context.Context, *elbv2.DescribeTargetHealthInput, ...func(*elbv2.Options)) (*elbv2.DescribeTargetHealthOutput, error) {
	return &elbv2.DescribeTargetHealthOutput{TargetHealthDescriptions: m.targets}, nil
}

type mockRDS struct{}

func (m *mockRDS) DescribeDBInstances(context.Context, *rds.DescribeDBInstancesInput, ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error) {
	return &rds.DescribeDBInstancesOutput{}, nil
}

type mockElastiCache struct{}

func (m *mockElastiCache) DescribeCacheClusters(context.Context, *elasticache.DescribeCacheClustersInput, ...func(*elasticache.Options)) (*elasticache.DescribeCacheClustersOutput, error) {
	return &elasticache.DescribeCacheClustersOutput{}, nil
}

func (m *mockElastiCache) ListTagsForResource(context.Context, *elasticache.ListTagsForResourceInput, ...func(*elasticache.Options)) (*elasticache.ListTagsForResourceOutput, error) {
	return &elasticache.ListTagsForResourceOutput{}, nil
}

func testInventory(set *ClientSet) *Inventory {
	return &Inventory{
		regions:   []string{"us-east-1"},
		factory:   func(awssdk.Config) *ClientSet { return set },
		accountID: "123456789012",
	}
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestResolveScope(t *testing.T) {
	t.Run("uses the STS account ID", func(t *testing.T) {
		inv := testInventory(&ClientSet{STS: &mockSTS{account: "123456789012"}})
		scope, err := inv.ResolveScope(context.Background())
		if err != nil {
			t.Fatalf("ResolveScope() error = %v", err)
		}
		if scope.ID != "123456789012" || scope.Provider != "aws" {
			t.Errorf("scope = %+v", scope)
		}
	})

	t.Run("propagates STS failure", func(t *testing.T) {
		inv := testInventory(&ClientSet{STS: &mockSTS{err: errors.New("denied")}})
		if _, err := inv.ResolveScope(context.Background()); err == nil {
			t.Fatal("expected error")
		}
	})
}

func TestListInstances(t *testing.T) {
	launch := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	inv := testInventory(&ClientSet{EC2: &mockEC2{instances: []ec2types.Instance{
		{
			InstanceId:   awssdk.String("i-abc"),
			InstanceType: ec2types.InstanceTypeM54xlarge,
			State:        &ec2types.InstanceState{Name: ec2types.InstanceStateNameRunning},
			LaunchTime:   &launch,
			Tags: []ec2types.Tag{
				{Key: awssdk.String("Name"), Value: awssdk.String("build-runner")},
				{Key: awssdk.String("environment"), Value: awssdk.String("dev")},
			},
		},
	}}})

	instances, err := inv.ListInstances(context.Background())
	if err != nil {
		t.Fatalf("ListInstances() error = %v", err)
	}
	if len(instances) != 1 {
		t.Fatalf("instances = %d, want 1", len(instances))
	}
	got := instances[0]
	if got.Name != "build-runner" {
		t.Errorf("Name = %q, want build-runner", got.Name)
	}
	if got.Shape != "m5.4xlarge" {
		t.Errorf("Shape = %q, want m5.4xlarge", got.Shape)
	}
	if got.State != "running" {
		t.Errorf("State = %q, want running", got.State)
	}
	if got.Tags["environment"] != "dev" {
		t.Errorf("Tags = %v", got.Tags)
	}
}

func TestListReservedIPs(t *testing.T) {
	inv := testInventory(&ClientSet{EC2: &mockEC2{addresses: []ec2types.Address{
		{
			AllocationId: awssdk.String("eipalloc-1"),
			PublicIp:     awssdk.String("203.0.113.5"),
		},
		{
			AllocationId:  awssdk.String("eipalloc-2"),
			PublicIp:      awssdk.String("203.0.113.6"),
			AssociationId: awssdk.String("eipassoc-1"),
			InstanceId:    awssdk.String("i-abc"),
		},
	}}})

	ips, err := inv.ListReservedIPs(context.Background())
	if err != nil {
		t.Fatalf("ListReservedIPs() error = %v", err)
	}
	if len(ips) != 2 {
		t.Fatalf("ips = %d, want 2", len(ips))
	}
	if ips[0].State != "available" || ips[0].AssignedTo != "" {
		t.Errorf("unassociated address = %+v", ips[0])
	}
	if ips[1].State != "assigned" || ips[1].AssignedTo != "i-abc" {
		t.Errorf("associated address = %+v", ips[1])
	}
}

func TestListNetworkRuleSets(t *testing.T) {
	inv := testInventory(&ClientSet{EC2: &mockEC2{groups: []ec2types.SecurityGroup{
		{
			GroupId:   awssdk.String("sg-1"),
			GroupName: awssdk.String("wide-open"),
			VpcId:     awssdk.String("vpc-1"),
			IpPermissions: []ec2types.IpPermission{
				{
					IpProtocol: awssdk.String("tcp"),
					FromPort:   awssdk.Int32(22),
					ToPort:     awssdk.Int32(22),
					IpRanges:   []ec2types.IpRange{{CidrIp: awssdk.String("0.0.0.0/0")}},
				},
				{
					IpProtocol: awssdk.String("-1"),
					Ipv6Ranges: []ec2types.Ipv6Range{{CidrIpv6: awssdk.String("::/0")}},
				},
			},
		},
	}}})

	sets, err := inv.ListNetworkRuleSets(context.Background())
	if err != nil {
		t.Fatalf("ListNetworkRuleSets() error = %v", err)
	}
	if len(sets) != 1 {
		t.Fatalf("sets = %d, want 1", len(sets))
	}
	rules := sets[0].InboundRules
	if len(rules) != 2 {
		t.Fatalf("rules = %d, want 2", len(rules))
	}
	if rules[0].PortMin != 22 || rules[0].Source != "0.0.0.0/0" || rules[0].AllPorts {
		t.Errorf("port rule = %+v", rules[0])
	}
	if !rules[1].AllPorts || rules[1].Source != "::/0" {
		t.Errorf("all-ports rule = %+v", rules[1])
	}
}

func TestListLoadBalancersBackendLookupFailure(t *testing.T) {
	inv := testInventory(&ClientSet{ELBv2: &mockELB{
		lbs: []elbtypes.LoadBalancer{{
			LoadBalancerArn:  awssdk.String("arn:lb-1"),
			LoadBalancerName: awssdk.String("edge"),
			Type:             elbtypes.LoadBalancerTypeEnumApplication,
			State:            &elbtypes.LoadBalancerState{Code: elbtypes.LoadBalancerStateEnumActive},
		}},
		targetsErr:    errors.New("throttled"),
		tagsByLBIndex: map[string][]elbtypes.Tag{},
	}})

	lbs, err := inv.ListLoadBalancers(context.Background())
	if err != nil {
		t.Fatalf("ListLoadBalancers() error = %v", err)
	}
	if len(lbs) != 1 {
		t.Fatalf("lbs = %d, want 1", len(lbs))
	}
	if lbs[0].BackendCount != 0 {
		t.Errorf("BackendCount = %d, want 0 on lookup failure", lbs[0].BackendCount)
	}
	if lbs[0].State != "active" {
		t.Errorf("State = %q, want active", lbs[0].State)
	}
}
