package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/elasticache"

	"github.com/cloudcostchefs/devtest-auditor/internal/models"
)

// ListCacheClusters enumerates ElastiCache clusters across all configured
// regions. Tags come from a per-cluster ListTagsForResource call; a failed
// tag lookup leaves the cluster untagged rather than failing the category.
func (inv *Inventory) ListCacheClusters(ctx context.Context) ([]models.CacheCluster, error) {
	var clusters []models.CacheCluster
	err := inv.forEachRegion(func(region string, clients *ClientSet) error {
		paginator := elasticache.NewDescribeCacheClustersPaginator(clients.ElastiCache, &elasticache.DescribeCacheClustersInput{})
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return fmt.Errorf("describe cache clusters: %w", err)
			}
			for _, in := range page.CacheClusters {
				cluster := models.CacheCluster{
					ID:       aws.ToString(in.ARN),
					Name:     aws.ToString(in.CacheClusterId),
					Scope:    inv.accountID,
					Location: region,
					NodeType: aws.ToString(in.CacheNodeType),
					Engine:   aws.ToString(in.Engine),
					State:    aws.ToString(in.CacheClusterStatus),
					Tags:     cacheTags(ctx, clients.ElastiCache, in.ARN),
				}
				clusters = append(clusters, cluster)
			}
		}
		return nil
	})
	return clusters, err
}

func cacheTags(ctx context.Context, client ElastiCacheClient, arn *string) models.TagSet {
	if arn == nil {
		return nil
	}
	out, err := client.ListTagsForResource(ctx, &elasticache.ListTagsForResourceInput{
		ResourceName: arn,
	})
	if err != nil {
		return nil
	}
	tags := make(models.TagSet, len(out.TagList))
	for _, tag := range out.TagList {
		tags[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return tags
}
