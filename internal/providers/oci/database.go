package oci

import (
	"context"
	"fmt"
	"strings"

	"github.com/oracle/oci-go-sdk/v65/database"

	"github.com/cloudcostchefs/devtest-auditor/internal/models"
)

// ListDatabases enumerates DB systems and autonomous databases. DB systems
// expose a shape checked against the production tier table; autonomous
// databases are judged by their CPU core count instead.
func (inv *Inventory) ListDatabases(ctx context.Context) ([]models.Database, error) {
	var databases []models.Database
	err := inv.forEachCompartment(func(compartmentID string) error {
		if err := inv.appendDbSystems(ctx, compartmentID, &databases); err != nil {
			return err
		}
		return inv.appendAutonomous(ctx, compartmentID, &databases)
	})
	return databases, err
}

func (inv *Inventory) appendDbSystems(ctx context.Context, compartmentID string, out *[]models.Database) error {
	req := database.ListDbSystemsRequest{CompartmentId: &compartmentID}
	for {
		resp, err := inv.database.ListDbSystems(ctx, req)
		if err != nil {
			return fmt.Errorf("list db systems: %w", err)
		}
		for _, in := range resp.Items {
			state := strings.ToLower(string(in.LifecycleState))
			if state == "terminated" || state == "terminating" {
				continue
			}
			*out = append(*out, models.Database{
				ID:       derefStr(in.Id),
				Name:     derefStr(in.DisplayName),
				Scope:    compartmentID,
				Location: derefStr(in.AvailabilityDomain),
				Kind:     "DB System",
				Tier:     derefStr(in.Shape),
				Engine:   "oracle",
				State:    state,
				CPUCores: derefInt(in.CpuCoreCount),
				Tags:     flattenTags(in.FreeformTags, in.DefinedTags),
			})
		}
		if resp.OpcNextPage == nil {
			break
		}
		req.Page = resp.OpcNextPage
	}
	return nil
}

func (inv *Inventory) appendAutonomous(ctx context.Context, compartmentID string, out *[]models.Database) error {
	req := database.ListAutonomousDatabasesRequest{CompartmentId: &compartmentID}
	for {
		resp, err := inv.database.ListAutonomousDatabases(ctx, req)
		if err != nil {
			return fmt.Errorf("list autonomous databases: %w", err)
		}
		for _, in := range resp.Items {
			state := strings.ToLower(string(in.LifecycleState))
			if state == "terminated" || state == "terminating" {
				continue
			}
			name := derefStr(in.DisplayName)
			if name == "" {
				name = derefStr(in.DbName)
			}
			*out = append(*out, models.Database{
				ID:       derefStr(in.Id),
				Name:     name,
				Scope:    compartmentID,
				Kind:     "Autonomous Database",
				Tier:     string(in.DbWorkload),
				Engine:   "oracle",
				State:    state,
				CPUCores: derefInt(in.CpuCoreCount),
				Tags:     flattenTags(in.FreeformTags, in.DefinedTags),
			})
		}
		if resp.OpcNextPage == nil {
			break
		}
		req.Page = resp.OpcNextPage
	}
	return nil
}
