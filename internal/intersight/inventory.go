package intersight

import (
	"context"
	"fmt"
	"net/url"
)

// API collection paths. All read-only.
const (
	pathServers         = "/api/v1/compute/PhysicalSummaries"
	pathNetworkElements = "/api/v1/network/ElementSummaries"
	pathGraphicsCards   = "/api/v1/graphics/Cards"
	pathAlarms          = "/api/v1/cond/Alarms"
	pathFirmware        = "/api/v1/firmware/Distributables"
	pathVirtualMachines = "/api/v1/virtualization/VirtualMachines"
	pathServerProfiles  = "/api/v1/server/Profiles"
)

// Server is one row of the physical compute inventory.
type Server struct {
	Name         string `json:"Name"`
	Serial       string `json:"Serial"`
	Model        string `json:"Model"`
	ManagementIP string `json:"MgmtIpAddress"`
	Firmware     string `json:"Firmware"`
	PowerState   string `json:"OperPowerState"`
	NumCPUs      int    `json:"NumCpus"`
	MemoryMiB    int    `json:"TotalMemory"`
}

// NetworkElement is a fabric interconnect or switch managed by Intersight.
type NetworkElement struct {
	Name         string `json:"Name"`
	Model        string `json:"Model"`
	Serial       string `json:"Serial"`
	ManagementIP string `json:"OutOfBandIpAddress"`
	Version      string `json:"Version"`
	Operability  string `json:"Operability"`
}

// GraphicsCard is a GPU discovered in a managed server.
type GraphicsCard struct {
	Model           string `json:"Model"`
	PID             string `json:"Pid"`
	Serial          string `json:"Serial"`
	NumGPUs         int    `json:"NumGpus"`
	FirmwareVersion string `json:"FirmwareVersion"`
	Dn              string `json:"Dn"`
}

// Alarm is an active fault raised against some managed object.
type Alarm struct {
	Severity     string `json:"Severity"`
	Description  string `json:"Description"`
	AffectedName string `json:"AffectedMoDisplayName"`
	CreationTime string `json:"CreationTime"`
}

// Firmware is a downloadable firmware bundle.
type Firmware struct {
	Name            string   `json:"Name"`
	Version         string   `json:"Version"`
	BundleType      string   `json:"BundleType"`
	PlatformType    string   `json:"PlatformType"`
	SupportedModels []string `json:"SupportedModels"`
}

// VirtualMachine is a VM visible through a claimed hypervisor.
type VirtualMachine struct {
	Name       string   `json:"Name"`
	PowerState string   `json:"PowerState"`
	Provider   string   `json:"Provider"`
	IPAddress  []string `json:"IpAddress"`
}

// ServerProfile is a server profile with its deploy state.
type ServerProfile struct {
	Name           string `json:"Name"`
	TargetPlatform string `json:"TargetPlatform"`
	ConfigContext  struct {
		ConfigState string `json:"ConfigState"`
	} `json:"ConfigContext"`
}

// FirmwareReport pairs a server with the firmware bundles that apply to it.
type FirmwareReport struct {
	Server     Server
	Compatible []Firmware
}

// Servers lists the physical compute inventory.
func (c *Client) Servers(ctx context.Context) ([]Server, error) {
	var out []Server
	if err := c.get(ctx, pathServers, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ServerByName looks up a single server by its exact name.
func (c *Client) ServerByName(ctx context.Context, name string) (*Server, error) {
	path := pathServers + "?$filter=" + url.QueryEscape(fmt.Sprintf("Name eq '%s'", name))
	var out []Server
	if err := c.get(ctx, path, &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("intersight: no server named %q found", name)
	}
	return &out[0], nil
}

// NetworkElements lists fabric interconnects and switches.
func (c *Client) NetworkElements(ctx context.Context) ([]NetworkElement, error) {
	var out []NetworkElement
	if err := c.get(ctx, pathNetworkElements, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GraphicsCards lists GPUs across the managed servers.
func (c *Client) GraphicsCards(ctx context.Context) ([]GraphicsCard, error) {
	var out []GraphicsCard
	if err := c.get(ctx, pathGraphicsCards, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Alarms lists active alarms, most severe first as returned by the API.
func (c *Client) Alarms(ctx context.Context) ([]Alarm, error) {
	var out []Alarm
	if err := c.get(ctx, pathAlarms, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// FirmwareDistributables lists downloadable firmware bundles.
func (c *Client) FirmwareDistributables(ctx context.Context) ([]Firmware, error) {
	var out []Firmware
	if err := c.get(ctx, pathFirmware, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// VirtualMachines lists VMs from claimed hypervisors.
func (c *Client) VirtualMachines(ctx context.Context) ([]VirtualMachine, error) {
	var out []VirtualMachine
	if err := c.get(ctx, pathVirtualMachines, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ServerProfiles lists server profiles with their config state.
func (c *Client) ServerProfiles(ctx context.Context) ([]ServerProfile, error) {
	var out []ServerProfile
	if err := c.get(ctx, pathServerProfiles, &out); err != nil {
		return nil, err
	}
	return out, nil
}
