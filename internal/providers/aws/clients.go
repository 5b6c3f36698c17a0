package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/elasticache"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// ---------------------------------------------------------------------------
// Per-service client interfaces
//
// Each interface covers only the operations this project calls. Narrow
// interfaces instead of full SDK clients keep unit-test mocks to a handful
// of methods returning canned data.
// ---------------------------------------------------------------------------

// STSClient is the subset of STS used to resolve the account scope.
type STSClient interface {
	GetCallerIdentity(
		ctx context.Context,
		params *sts.GetCallerIdentityInput,
		optFns ...func(*sts.Options),
	) (*sts.GetCallerIdentityOutput, error)
}

// EC2Client covers the EC2 operations used during collection. The method
// signatures match the SDK paginator requirements, so the interface can be
// handed straight to ec2.NewDescribe*Paginator.
type EC2Client interface {
	DescribeInstances(
		ctx context.Context,
		params *ec2.DescribeInstancesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeInstancesOutput, error)

	DescribeVolumes(
		ctx context.Context,
		params *ec2.DescribeVolumesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeVolumesOutput, error)

	DescribeAddresses(
		ctx context.Context,
		params *ec2.DescribeAddressesInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeAddressesOutput, error)

	DescribeSecurityGroups(
		ctx context.Context,
		params *ec2.DescribeSecurityGroupsInput,
		optFns ...func(*ec2.Options),
	) (*ec2.DescribeSecurityGroupsOutput, error)
}

// RDSClient covers the RDS operations used during collection.
type RDSClient interface {
	DescribeDBInstances(
		ctx context.Context,
		params *rds.DescribeDBInstancesInput,
		optFns ...func(*rds.Options),
	) (*rds.DescribeDBInstancesOutput, error)
}

// ELBv2Client covers the Elastic Load Balancing v2 operations used during
// collection, including the secondary lookups that resolve backend counts.
type ELBv2Client interface {
	DescribeLoadBalancers(
		ctx context.Context,
		params *elbv2.DescribeLoadBalancersInput,
		optFns ...func(*elbv2.Options),
	) (*elbv2.DescribeLoadBalancersOutput, error)

	DescribeTags(
		ctx context.Context,
		params *elbv2.DescribeTagsInput,
		optFns ...func(*elbv2.Options),
	) (*elbv2.DescribeTagsOutput, error)

	DescribeTargetGroups(
		ctx context.Context,
		params *elbv2.DescribeTargetGroupsInput,
		optFns ...func(*elbv2.Options),
	) (*elbv2.DescribeTargetGroupsOutput, error)

	DescribeTargetHealth(
		ctx context.Context,
		params *elbv2.DescribeTargetHealthInput,
		optFns ...func(*elbv2.Options),
	) (*elbv2.DescribeTargetHealthOutput, error)
}

// ElastiCacheClient covers the ElastiCache operations used during collection.
type ElastiCacheClient interface {
	DescribeCacheClusters(
		ctx context.Context,
		params *elasticache.DescribeCacheClustersInput,
		optFns ...func(*elasticache.Options),
	) (*elasticache.DescribeCacheClustersOutput, error)

	ListTagsForResource(
		ctx context.Context,
		params *elasticache.ListTagsForResourceInput,
		optFns ...func(*elasticache.Options),
	) (*elasticache.ListTagsForResourceOutput, error)
}

// ---------------------------------------------------------------------------
// ClientSet and ClientFactory
// ---------------------------------------------------------------------------

// ClientSet holds initialised service clients for one region. All fields
// are interfaces so tests can swap in mocks without touching the SDK.
type ClientSet struct {
	STS         STSClient
	EC2         EC2Client
	RDS         RDSClient
	ELBv2       ELBv2Client
	ElastiCache ElastiCacheClient
}

// ClientFactory creates a ClientSet from an aws.Config. Swap this in tests
// to inject mock clients.
type ClientFactory func(cfg aws.Config) *ClientSet

// NewClientSet is the production ClientFactory.
func NewClientSet(cfg aws.Config) *ClientSet {
	return &ClientSet{
		STS:         sts.NewFromConfig(cfg),
		EC2:         ec2.NewFromConfig(cfg),
		RDS:         rds.NewFromConfig(cfg),
		ELBv2:       elbv2.NewFromConfig(cfg),
		ElastiCache: elasticache.NewFromConfig(cfg),
	}
}
