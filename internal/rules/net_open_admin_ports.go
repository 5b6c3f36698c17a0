package rules

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cloudcostchefs/devtest-auditor/internal/classify"
	"github.com/cloudcostchefs/devtest-auditor/internal/models"
)

// adminPorts are the remote-administration ports checked for world
// exposure: SSH and RDP.
var adminPorts = []int32{22, 3389}

// PermissiveRulesRule flags dev/test network rule sets that allow inbound
// traffic from anywhere to an admin port. One finding per rule set, with
// the offending rules summarised in the finding.
type PermissiveRulesRule struct{}

func NewPermissiveRulesRule() *PermissiveRulesRule { return &PermissiveRulesRule{} }

func (r *PermissiveRulesRule) ID() string   { return "NET_OPEN_ADMIN_PORTS" }
func (r *PermissiveRulesRule) Name() string { return "Admin ports open to the world" }
func (r *PermissiveRulesRule) Category() models.Category {
	return models.CategoryPermissiveRules
}

func (r *PermissiveRulesRule) Evaluate(ctx RuleContext) []models.Finding {
	var findings []models.Finding
	for _, rs := range ctx.Data.NetworkRuleSets {
		if !classify.IsDevTest(rs.Tags, ctx.Settings.DevTestValues) {
			continue
		}

		var offending []string
		for _, rule := range rs.InboundRules {
			if !worldSource(rule.Source) {
				continue
			}
			if rule.AllPorts {
				offending = append(offending, fmt.Sprintf("%s from %s to all ports", protocolLabel(rule.Protocol), rule.Source))
				continue
			}
			for _, port := range adminPorts {
				if rule.PortMin <= port && port <= rule.PortMax {
					offending = append(offending, fmt.Sprintf("%s from %s to port %d", protocolLabel(rule.Protocol), rule.Source, port))
				}
			}
		}
		if len(offending) == 0 {
			continue
		}

		findings = append(findings, models.Finding{
			RuleID:       r.ID(),
			Category:     r.Category(),
			ResourceID:   rs.ID,
			ResourceName: rs.Name,
			ResourceType: "Network Rule Set",
			Scope:        rs.Scope,
			State:        rs.State,
			Reason:       fmt.Sprintf("%d rule(s) expose admin ports to the internet", len(offending)),
			Severity:     models.SeverityHigh,
			Tags:         classify.FormatTags(rs.Tags),
			Extra: map[string]string{
				"network_name":           rs.NetworkName,
				"permissive_rules_count": strconv.Itoa(len(offending)),
				"permissive_rules":       strings.Join(offending, " | "),
			},
		})
	}
	return findings
}

// worldSource reports whether a rule source means "anywhere".
func worldSource(source string) bool {
	switch strings.ToLower(source) {
	case "0.0.0.0/0", "::/0", "*", "any", "internet":
		return true
	}
	return false
}

func protocolLabel(proto string) string {
	if proto == "" || proto == "-1" || proto == "all" {
		return "any protocol"
	}
	return strings.ToUpper(proto)
}
