package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbtypes "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"

	"github.com/cloudcostchefs/devtest-auditor/internal/models"
)

// describeTagsBatchSize is the ELBv2 DescribeTags API limit per call.
const describeTagsBatchSize = 20

// ListLoadBalancers enumerates ALBs and NLBs across all configured regions,
// resolving tags in batches and backend counts per load balancer. A failed
// backend lookup for one load balancer leaves its count at zero instead of
// failing the category.
func (inv *Inventory) ListLoadBalancers(ctx context.Context) ([]models.LoadBalancer, error) {
	var lbs []models.LoadBalancer
	err := inv.forEachRegion(func(region string, clients *ClientSet) error {
		paginator := elbv2.NewDescribeLoadBalancersPaginator(clients.ELBv2, &elbv2.DescribeLoadBalancersInput{})

		var raw []elbtypes.LoadBalancer
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return fmt.Errorf("describe load balancers: %w", err)
			}
			raw = append(raw, page.LoadBalancers...)
		}
		if len(raw) == 0 {
			return nil
		}

		tagsByARN, err := describeLBTags(ctx, clients.ELBv2, raw)
		if err != nil {
			return fmt.Errorf("describe load balancer tags: %w", err)
		}

		for _, in := range raw {
			arn := aws.ToString(in.LoadBalancerArn)
			lb := models.LoadBalancer{
				ID:           arn,
				Name:         aws.ToString(in.LoadBalancerName),
				Scope:        inv.accountID,
				Location:     region,
				Shape:        string(in.Type),
				State:        lbState(in),
				BackendCount: countBackends(ctx, clients.ELBv2, arn),
				Tags:         tagsByARN[arn],
			}
			if in.CreatedTime != nil {
				lb.CreatedAt = *in.CreatedTime
			}
			if in.DNSName != nil {
				lb.Addresses = []string{aws.ToString(in.DNSName)}
			}
			lbs = append(lbs, lb)
		}
		return nil
	})
	return lbs, err
}

func lbState(in elbtypes.LoadBalancer) string {
	if in.State != nil && in.State.Code == elbtypes.LoadBalancerStateEnumActive {
		return "active"
	}
	if in.State != nil {
		return string(in.State.Code)
	}
	return "unknown"
}

// describeLBTags fetches tags for all load balancers in API-limit batches.
func describeLBTags(ctx context.Context, client ELBv2Client, lbs []elbtypes.LoadBalancer) (map[string]models.TagSet, error) {
	tagsByARN := make(map[string]models.TagSet, len(lbs))
	for start := 0; start < len(lbs); start += describeTagsBatchSize {
		end := start + describeTagsBatchSize
		if end > len(lbs) {
			end = len(lbs)
		}
		arns := make([]string, 0, end-start)
		for _, lb := range lbs[start:end] {
			arns = append(arns, aws.ToString(lb.LoadBalancerArn))
		}

		out, err := client.DescribeTags(ctx, &elbv2.DescribeTagsInput{ResourceArns: arns})
		if err != nil {
			return nil, err
		}
		for _, desc := range out.TagDescriptions {
			set := make(models.TagSet, len(desc.Tags))
			for _, tag := range desc.Tags {
				set[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
			}
			tagsByARN[aws.ToString(desc.ResourceArn)] = set
		}
	}
	return tagsByARN, nil
}

// countBackends sums registered targets across the load balancer's target
// groups. Lookup failures count as zero backends.
func countBackends(ctx context.Context, client ELBv2Client, lbARN string) int {
	groups, err := client.DescribeTargetGroups(ctx, &elbv2.DescribeTargetGroupsInput{
		LoadBalancerArn: aws.String(lbARN),
	})
	if err != nil {
		return 0
	}

	total := 0
	for _, group := range groups.TargetGroups {
		health, err := client.DescribeTargetHealth(ctx, &elbv2.DescribeTargetHealthInput{
			TargetGroupArn: group.TargetGroupArn,
		})
		if err != nil {
			continue
		}
		total += len(health.TargetHealthDescriptions)
	}
	return total
}
