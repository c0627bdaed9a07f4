package intersight

// format.go renders inventory slices as markdown tables. The experts hand
// these tables to the user directly (or to the LLM as grounding), so the
// section headers are part of the answer contract: the infrastructure view
// keys off "## Intersight Network Elements" when merging sources.

import (
	"fmt"
	"strings"
)

// FormatServers renders the server inventory table.
func FormatServers(servers []Server) string {
	if len(servers) == 0 {
		return "No servers found in Intersight inventory."
	}

	var b strings.Builder
	b.WriteString("## Server Inventory\n\n")
	b.WriteString("| Name | Model | Serial | Power | Firmware | Mgmt IP |\n")
	b.WriteString("|------|-------|--------|-------|----------|--------|\n")
	for _, s := range servers {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			s.Name, s.Model, s.Serial, s.PowerState, s.Firmware, s.ManagementIP)
	}
	fmt.Fprintf(&b, "\nTotal: %d servers", len(servers))
	return b.String()
}

// FormatNetworkElements renders fabric interconnects and switches.
func FormatNetworkElements(elements []NetworkElement) string {
	if len(elements) == 0 {
		return "No network elements found in Intersight inventory."
	}

	var b strings.Builder
	b.WriteString("## Intersight Network Elements\n\n")
	b.WriteString("| Name | Model | Serial | Version | Operability | Mgmt IP |\n")
	b.WriteString("|------|-------|--------|---------|-------------|--------|\n")
	for _, e := range elements {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			e.Name, e.Model, e.Serial, e.Version, e.Operability, e.ManagementIP)
	}
	fmt.Fprintf(&b, "\nTotal: %d network elements", len(elements))
	return b.String()
}

// FormatGraphicsCards renders the GPU inventory.
func FormatGraphicsCards(cards []GraphicsCard) string {
	if len(cards) == 0 {
		return "No GPUs found in Intersight inventory."
	}

	var b strings.Builder
	b.WriteString("## GPU Inventory\n\n")
	b.WriteString("| Model | PID | Serial | GPUs | Firmware |\n")
	b.WriteString("|-------|-----|--------|------|----------|\n")
	for _, c := range cards {
		fmt.Fprintf(&b, "| %s | %s | %s | %d | %s |\n",
			c.Model, c.PID, c.Serial, c.NumGPUs, c.FirmwareVersion)
	}
	fmt.Fprintf(&b, "\nTotal: %d graphics cards", len(cards))
	return b.String()
}

// FormatAlarms renders active alarms.
func FormatAlarms(alarms []Alarm) string {
	if len(alarms) == 0 {
		return "No active alarms. All monitored systems are healthy."
	}

	var b strings.Builder
	b.WriteString("## Active Alarms\n\n")
	b.WriteString("| Severity | Affected | Description | Raised |\n")
	b.WriteString("|----------|----------|-------------|--------|\n")
	for _, a := range alarms {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			a.Severity, a.AffectedName, a.Description, a.CreationTime)
	}
	fmt.Fprintf(&b, "\nTotal: %d alarms", len(alarms))
	return b.String()
}

// FormatFirmware renders available firmware bundles.
func FormatFirmware(bundles []Firmware) string {
	if len(bundles) == 0 {
		return "No firmware packages available in Intersight."
	}

	var b strings.Builder
	b.WriteString("## Available Firmware Packages\n\n")
	b.WriteString("| Name | Version | Bundle | Platform |\n")
	b.WriteString("|------|---------|--------|----------|\n")
	for _, f := range bundles {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			f.Name, f.Version, f.BundleType, f.PlatformType)
	}
	fmt.Fprintf(&b, "\nTotal: %d firmware packages", len(bundles))
	return b.String()
}

// FormatVirtualMachines renders the VM list.
func FormatVirtualMachines(vms []VirtualMachine) string {
	if len(vms) == 0 {
		return "No virtual machines found in Intersight inventory."
	}

	var b strings.Builder
	b.WriteString("## Virtual Machines\n\n")
	b.WriteString("| Name | Power | Provider | IP |\n")
	b.WriteString("|------|-------|----------|----|\n")
	for _, vm := range vms {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			vm.Name, vm.PowerState, vm.Provider, strings.Join(vm.IPAddress, ", "))
	}
	fmt.Fprintf(&b, "\nTotal: %d virtual machines", len(vms))
	return b.String()
}

// FormatServerProfiles renders server profiles with their deploy state.
func FormatServerProfiles(profiles []ServerProfile) string {
	if len(profiles) == 0 {
		return "No server profiles found in Intersight."
	}

	var b strings.Builder
	b.WriteString("## Server Profiles\n\n")
	b.WriteString("| Name | Platform | Config State |\n")
	b.WriteString("|------|----------|-------------|\n")
	for _, p := range profiles {
		fmt.Fprintf(&b, "| %s | %s | %s |\n",
			p.Name, p.TargetPlatform, p.ConfigContext.ConfigState)
	}
	fmt.Fprintf(&b, "\nTotal: %d profiles", len(profiles))
	return b.String()
}

// FormatFirmwareReport renders the upgrade options for a single server.
func FormatFirmwareReport(r FirmwareReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Firmware Options for %s\n\n", r.Server.Name)
	fmt.Fprintf(&b, "- Model: %s\n", r.Server.Model)
	fmt.Fprintf(&b, "- Serial: %s\n", r.Server.Serial)
	fmt.Fprintf(&b, "- Current firmware: %s\n\n", r.Server.Firmware)

	if len(r.Compatible) == 0 {
		b.WriteString("No compatible firmware packages were found for this server.")
		return b.String()
	}

	b.WriteString("### Compatible Packages\n\n")
	b.WriteString("| Name | Version | Bundle | Platform |\n")
	b.WriteString("|------|---------|--------|----------|\n")
	for _, f := range r.Compatible {
		fmt.Fprintf(&b, "| %s | %s | %s | %s |\n",
			f.Name, f.Version, f.BundleType, f.PlatformType)
	}
	return b.String()
}
