package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	rdstypes "github.com/aws/aws-sdk-go-v2/service/rds/types"

	"github.com/cloudcostchefs/devtest-auditor/internal/models"
)

// ListDatabases enumerates RDS instances across all configured regions.
func (inv *Inventory) ListDatabases(ctx context.Context) ([]models.Database, error) {
	var databases []models.Database
	err := inv.forEachRegion(func(region string, clients *ClientSet) error {
		paginator := rds.NewDescribeDBInstancesPaginator(clients.RDS, &rds.DescribeDBInstancesInput{})
		for paginator.HasMorePages() {
			page, err := paginator.NextPage(ctx)
			if err != nil {
				return fmt.Errorf("describe db instances: %w", err)
			}
			for _, db := range page.DBInstances {
				databases = append(databases, toDatabase(db, region, inv.accountID))
			}
		}
		return nil
	})
	return databases, err
}

func toDatabase(in rdstypes.DBInstance, region, account string) models.Database {
	return models.Database{
		ID:       aws.ToString(in.DBInstanceArn),
		Name:     aws.ToString(in.DBInstanceIdentifier),
		Scope:    account,
		Location: region,
		Kind:     "RDS Instance",
		Tier:     aws.ToString(in.DBInstanceClass),
		Engine:   aws.ToString(in.Engine),
		State:    aws.ToString(in.DBInstanceStatus),
		Tags:     tagsFromRDS(in.TagList),
	}
}

func tagsFromRDS(tags []rdstypes.Tag) models.TagSet {
	if len(tags) == 0 {
		return nil
	}
	out := make(models.TagSet, len(tags))
	for _, tag := range tags {
		out[aws.ToString(tag.Key)] = aws.ToString(tag.Value)
	}
	return out
}
