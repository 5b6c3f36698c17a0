package azure

import (
	"context"
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/compute/armcompute"

	"github.com/cloudcostchefs/devtest-auditor/internal/models"
)

// ListInstances enumerates virtual machines subscription-wide. StatusOnly
// makes the pager include instance views, which carry the power state.
func (inv *Inventory) ListInstances(ctx context.Context) ([]models.Instance, error) {
	statusOnly := "true"
	pager := inv.vms.NewListAllPager(&armcompute.VirtualMachinesClientListAllOptions{
		StatusOnly: &statusOnly,
	})

	var instances []models.Instance
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list virtual machines: %w", err)
		}
		for _, vm := range page.Value {
			inst := models.Instance{
				ID:       deref(vm.ID),
				Name:     deref(vm.Name),
				Scope:    inv.subscriptionID,
				Location: deref(vm.Location),
				State:    vmPowerState(vm),
				Tags:     tagsFromAzure(vm.Tags),
			}
			if vm.Properties != nil && vm.Properties.HardwareProfile != nil && vm.Properties.HardwareProfile.VMSize != nil {
				inst.Shape = string(*vm.Properties.HardwareProfile.VMSize)
			}
			if vm.Properties != nil && vm.Properties.TimeCreated != nil {
				inst.CreatedAt = *vm.Properties.TimeCreated
			}
			instances = append(instances, inst)
		}
	}
	return instances, nil
}

// vmPowerState extracts the PowerState code from the instance view,
// normalising deallocated to stopped.
func vmPowerState(vm *armcompute.VirtualMachine) string {
	if vm.Properties == nil || vm.Properties.InstanceView == nil {
		return "unknown"
	}
	for _, status := range vm.Properties.InstanceView.Statuses {
		code := deref(status.Code)
		if !strings.HasPrefix(code, "PowerState/") {
			continue
		}
		state := strings.TrimPrefix(code, "PowerState/")
		if state == "deallocated" {
			return "stopped"
		}
		return state
	}
	return "unknown"
}

// ListVolumes enumerates managed disks. A disk with no ManagedBy reference
// is unattached.
func (inv *Inventory) ListVolumes(ctx context.Context) ([]models.Volume, error) {
	pager := inv.disks.NewListPager(nil)

	var volumes []models.Volume
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("list managed disks: %w", err)
		}
		for _, disk := range page.Value {
			vol := models.Volume{
				ID:       deref(disk.ID),
				Name:     deref(disk.Name),
				Scope:    inv.subscriptionID,
				Location: deref(disk.Location),
				Tags:     tagsFromAzure(disk.Tags),
			}
			if disk.ManagedBy != nil && *disk.ManagedBy != "" {
				vol.Attachments = 1
				vol.State = "in-use"
			} else {
				vol.State = "available"
			}
			if disk.SKU != nil && disk.SKU.Name != nil {
				vol.VolumeType = string(*disk.SKU.Name)
			}
			if disk.Properties != nil {
				if disk.Properties.DiskSizeGB != nil {
					vol.SizeGB = int64(*disk.Properties.DiskSizeGB)
				}
				if disk.Properties.TimeCreated != nil {
					vol.CreatedAt = *disk.Properties.TimeCreated
				}
			}
			volumes = append(volumes, vol)
		}
	}
	return volumes, nil
}
