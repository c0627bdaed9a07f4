package nexus

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const (
	categorySites     = "sites"
	categoryFabrics   = "fabrics"
	categorySwitches  = "switches"
	categoryTelemetry = "telemetry"
	categoryAlarms    = "alarms"
	categoryUnknown   = "unknown"
)

// Service answers natural-language fabric questions by mapping them to a
// collection getter and formatting the result as a markdown report.
type Service struct {
	client *Client
	logger *slog.Logger
}

// NewService wraps a Client.
func NewService(client *Client, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{client: client, logger: logger}
}

// Query categorizes the question and returns the matching report.
func (s *Service) Query(ctx context.Context, question string) (string, error) {
	category := categorize(question)
	s.logger.Debug("nexus query", "category", category)

	switch category {
	case categorySites:
		sites, err := s.client.Sites(ctx)
		if err != nil {
			return "", err
		}
		return FormatSites(sites), nil

	case categoryFabrics:
		fabrics, err := s.client.Fabrics(ctx)
		if err != nil {
			return "", err
		}
		return FormatFabrics(fabrics), nil

	case categoryTelemetry:
		switches, err := s.client.Switches(ctx)
		if err != nil {
			return "", err
		}
		return FormatSwitchHealth(switches), nil

	case categoryAlarms:
		alarms, err := s.client.Alarms(ctx)
		if err != nil {
			return "", err
		}
		return FormatAlarms(alarms), nil

	case categorySwitches:
		return s.SwitchReport(ctx)

	default:
		return "I can help with Nexus Dashboard questions about sites, fabrics, switches, " +
			"device health, and alarms. Try asking e.g. \"what switches are in fabric prod?\" " +
			"or \"show critical alarms\".", nil
	}
}

// SwitchReport returns the formatted switch inventory.
// The infrastructure view merges this report with the Intersight one.
func (s *Service) SwitchReport(ctx context.Context) (string, error) {
	switches, err := s.client.Switches(ctx)
	if err != nil {
		return "", err
	}
	return FormatSwitches(switches), nil
}

// categorize maps a question to a query category by keyword inspection.
func categorize(question string) string {
	q := strings.ToLower(question)

	switch {
	case containsAny(q, "site", "sites"):
		return categorySites
	case containsAny(q, "fabric", "fabrics", "vxlan", "evpn"):
		return categoryFabrics
	case containsAny(q, "alarm", "alarms", "alert", "alerts", "anomal"):
		return categoryAlarms
	case containsAny(q, "telemetry", "cpu", "memory", "utilization", "health"):
		return categoryTelemetry
	case containsAny(q, "switch", "switches", "device", "devices", "inventory"):
		return categorySwitches
	default:
		return categoryUnknown
	}
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// FormatSites renders the site list.
func FormatSites(sites []Site) string {
	if len(sites) == 0 {
		return "No sites found in Nexus Dashboard."
	}

	var b strings.Builder
	b.WriteString("## Nexus Dashboard Sites\n\n")
	b.WriteString("| Name | Type | Health |\n")
	b.WriteString("|------|------|--------|\n")
	for _, s := range sites {
		fmt.Fprintf(&b, "| %s | %s | %s |\n", s.Name, s.Type, s.Health)
	}
	fmt.Fprintf(&b, "\nTotal: %d sites", len(sites))
	return b.String()
}

// FormatFabrics renders the fabric list.
func FormatFabrics(fabrics []Fabric) string {
	if len(fabrics) == 0 {
		return "No fabrics found in Nexus Dashboard."
	}

	var b strings.Builder
	b.WriteString("## LAN Fabrics\n\n")
	b.WriteString("| Name | Technology | Type | ASN |\n")
	b.WriteString("|------|-----------|------|-----|\n")
	for _, f := range fabrics {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", f.Name, f.Technology, f.Type, f.ASN)
	}
	fmt.Fprintf(&b, "\nTotal: %d fabrics", len(fabrics))
	return b.String()
}

// FormatSwitches renders the switch inventory.
func FormatSwitches(switches []Switch) string {
	if len(switches) == 0 {
		return "No switches found in Nexus Dashboard."
	}

	var b strings.Builder
	b.WriteString("## Nexus Dashboard Switches\n\n")
	b.WriteString("| Name | IP | Serial | Model | Release | Fabric | Status |\n")
	b.WriteString("|------|----|--------|-------|---------|--------|--------|\n")
	for _, sw := range switches {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s | %s |\n",
			sw.Name, sw.IPAddress, sw.Serial, sw.Model, sw.Release, sw.FabricName, sw.Status)
	}
	fmt.Fprintf(&b, "\nTotal: %d switches", len(switches))
	return b.String()
}

// FormatSwitchHealth renders per-device health scores.
func FormatSwitchHealth(switches []Switch) string {
	if len(switches) == 0 {
		return "No devices reporting telemetry in Nexus Dashboard."
	}

	var b strings.Builder
	b.WriteString("## Device Health\n\n")
	b.WriteString("| Name | Fabric | Status | Health Score |\n")
	b.WriteString("|------|--------|--------|-------------|\n")
	for _, sw := range switches {
		fmt.Fprintf(&b, "| %s | %s | %s | %d |\n", sw.Name, sw.FabricName, sw.Status, sw.Health)
	}
	fmt.Fprintf(&b, "\nTotal: %d devices", len(switches))
	return b.String()
}

// FormatAlarms renders active alarms.
func FormatAlarms(alarms []Alarm) string {
	if len(alarms) == 0 {
		return "No active alarms. The fabric looks healthy."
	}

	var b strings.Builder
	b.WriteString("## Nexus Dashboard Alarms\n\n")
	b.WriteString("| Severity | Resource | Message | Raised |\n")
	b.WriteString("|----------|----------|---------|--------|\n")
	for _, a := range alarms {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", a.Severity, a.Resource, a.Message, a.RaisedAt)
	}
	fmt.Fprintf(&b, "\nTotal: %d alarms", len(alarms))
	return b.String()
}
