package oci

import (
	"context"
	"fmt"
	"strings"

	"github.com/oracle/oci-go-sdk/v65/core"

	"github.com/cloudcostchefs/devtest-auditor/internal/models"
)

// ListInstances enumerates compute instances in running or stopped state.
func (inv *Inventory) ListInstances(ctx context.Context) ([]models.Instance, error) {
	var instances []models.Instance
	err := inv.forEachCompartment(func(compartmentID string) error {
		req := core.ListInstancesRequest{CompartmentId: &compartmentID}
		for {
			resp, err := inv.compute.ListInstances(ctx, req)
			if err != nil {
				return fmt.Errorf("list instances: %w", err)
			}
			for _, in := range resp.Items {
				state := strings.ToLower(string(in.LifecycleState))
				if state != "running" && state != "stopped" {
					continue
				}
				inst := models.Instance{
					ID:       derefStr(in.Id),
					Name:     derefStr(in.DisplayName),
					Scope:    compartmentID,
					Location: derefStr(in.AvailabilityDomain),
					Shape:    derefStr(in.Shape),
					State:    state,
					Tags:     flattenTags(in.FreeformTags, in.DefinedTags),
				}
				if in.TimeCreated != nil {
					inst.CreatedAt = in.TimeCreated.Time
				}
				instances = append(instances, inst)
			}
			if resp.OpcNextPage == nil {
				break
			}
			req.Page = resp.OpcNextPage
		}
		return nil
	})
	return instances, err
}

// ListVolumes enumerates block volumes. OCI keeps volumes in AVAILABLE
// state whether attached or not, so attachment counts come from a
// per-volume ListVolumeAttachments lookup.
func (inv *Inventory) ListVolumes(ctx context.Context) ([]models.Volume, error) {
	var volumes []models.Volume
	err := inv.forEachCompartment(func(compartmentID string) error {
		req := core.ListVolumesRequest{CompartmentId: &compartmentID}
		for {
			resp, err := inv.block.ListVolumes(ctx, req)
			if err != nil {
				return fmt.Errorf("list volumes: %w", err)
			}
			for _, in := range resp.Items {
				if in.LifecycleState != core.VolumeLifecycleStateAvailable {
					continue
				}
				vol := models.Volume{
					ID:          derefStr(in.Id),
					Name:        derefStr(in.DisplayName),
					Scope:       compartmentID,
					Location:    derefStr(in.AvailabilityDomain),
					VolumeType:  "block",
					State:       "available",
					Attachments: inv.attachmentCount(ctx, compartmentID, in.Id),
					Tags:        flattenTags(in.FreeformTags, in.DefinedTags),
				}
				if in.SizeInGBs != nil {
					vol.SizeGB = *in.SizeInGBs
				}
				if in.TimeCreated != nil {
					vol.CreatedAt = in.TimeCreated.Time
				}
				volumes = append(volumes, vol)
			}
			if resp.OpcNextPage == nil {
				break
			}
			req.Page = resp.OpcNextPage
		}
		return nil
	})
	return volumes, err
}

// attachmentCount counts non-detached attachments for one volume. A failed
// lookup is reported as attached so the volume is not flagged on missing
// data.
func (inv *Inventory) attachmentCount(ctx context.Context, compartmentID string, volumeID *string) int {
	resp, err := inv.compute.ListVolumeAttachments(ctx, core.ListVolumeAttachmentsRequest{
		CompartmentId: &compartmentID,
		VolumeId:      volumeID,
	})
	if err != nil {
		inv.log.Warn().Err(err).Str("volume", derefStr(volumeID)).
			Msg("volume attachment lookup failed; assuming attached")
		return 1
	}
	count := 0
	for _, att := range resp.Items {
		if att.GetLifecycleState() != core.VolumeAttachmentLifecycleStateDetached {
			count++
		}
	}
	return count
}
