package azure

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestResolveScopeRequiresSubscriptionAccess(t *testing.T) {
	t.Run("credential failure aborts", func(t *testing.T) {
		inv := &Inventory{
			subscriptionID: "sub-1",
			verifyAccess: func(context.Context) error {
				return errors.New("DefaultAzureCredential: no credentials available")
			},
		}
		_, err := inv.ResolveScope(context.Background())
		if err == nil {
			t.Fatal("expected error when the subscription cannot be read")
		}
		if !strings.Contains(err.Error(), "sub-1") {
			t.Errorf("error %q should name the subscription", err)
		}
	})

	t.Run("readable subscription resolves", func(t *testing.T) {
		inv := &Inventory{
			subscriptionID: "sub-1",
			verifyAccess:   func(context.Context) error { return nil },
		}
		scope, err := inv.ResolveScope(context.Background())
		if err != nil {
			t.Fatalf("ResolveScope() error = %v", err)
		}
		if scope.Provider != "azure" || scope.ID != "sub-1" {
			t.Errorf("scope = %+v", scope)
		}
	})
}

func TestParsePortRange(t *testing.T) {
	tests := []struct {
		in       string
		min, max int32
		ok       bool
	}{
		{"22", 22, 22, true},
		{"1000-2000", 1000, 2000, true},
		{"rdp", 0, 0, false},
		{"", 0, 0, false},
	}
	for _, tc := range tests {
		min, max, ok := parsePortRange(tc.in)
		if min != tc.min || max != tc.max || ok != tc.ok {
			t.Errorf("parsePortRange(%q) = (%d, %d, %v), want (%d, %d, %v)",
				tc.in, min, max, ok, tc.min, tc.max, tc.ok)
		}
	}
}

func TestResourceGroupFromID(t *testing.T) {
	id := "/subscriptions/sub-1/resourceGroups/team-rg/providers/Microsoft.Sql/servers/srv"
	if got := resourceGroupFromID(id); got != "team-rg" {
		t.Errorf("resourceGroupFromID() = %q, want team-rg", got)
	}
	if got := resourceGroupFromID("/subscriptions/sub-1"); got != "" {
		t.Errorf("resourceGroupFromID() = %q, want empty", got)
	}
}

func TestTagsFromAzure(t *testing.T) {
	env := "dev"
	tags := tagsFromAzure(map[string]*string{"environment": &env, "empty": nil})
	if tags["environment"] != "dev" {
		t.Errorf("tags = %v", tags)
	}
	if _, ok := tags["empty"]; ok {
		t.Error("nil values should be dropped")
	}
	if tagsFromAzure(nil) != nil {
		t.Error("empty input should return nil")
	}
}
