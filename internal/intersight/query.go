package intersight

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Query categories, chosen by keyword inspection of the question.
const (
	categoryServer   = "server"
	categoryNetwork  = "network"
	categoryHealth   = "health"
	categoryVM       = "vm"
	categoryFirmware = "firmware"
	categoryProfile  = "profile"
	categoryGPU      = "gpu"
	categoryUnknown  = "unknown"
)

// Service answers natural-language inventory questions by mapping them to
// one of the typed collection getters and formatting the result.
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

// Query categorizes the question, fetches the matching collection and returns
// a markdown report. Unknown categories get a guidance message rather than an
// error, so the caller can still show something useful.
func (s *Service) Query(ctx context.Context, question string) (string, error) {
	category := categorize(question)
	s.logger.Debug("intersight query", "category", category)

	switch category {
	case categoryGPU:
		return s.GPUInventory(ctx)

	case categoryNetwork:
		return s.NetworkElementsReport(ctx)

	case categoryHealth:
		alarms, err := s.client.Alarms(ctx)
		if err != nil {
			return "", err
		}
		return FormatAlarms(alarms), nil

	case categoryVM:
		vms, err := s.client.VirtualMachines(ctx)
		if err != nil {
			return "", err
		}
		return FormatVirtualMachines(vms), nil

	case categoryFirmware:
		bundles, err := s.client.FirmwareDistributables(ctx)
		if err != nil {
			return "", err
		}
		return FormatFirmware(bundles), nil

	case categoryProfile:
		profiles, err := s.client.ServerProfiles(ctx)
		if err != nil {
			return "", err
		}
		return FormatServerProfiles(profiles), nil

	case categoryServer:
		return s.ServerInventory(ctx)

	default:
		return "I can help with Intersight questions about servers, GPUs, network elements, " +
			"alarms, virtual machines, firmware, and server profiles. " +
			"Try asking e.g. \"what servers do I have?\" or \"show active alarms\".", nil
	}
}

// ServerInventory returns the formatted server table.
func (s *Service) ServerInventory(ctx context.Context) (string, error) {
	servers, err := s.client.Servers(ctx)
	if err != nil {
		return "", err
	}
	return FormatServers(servers), nil
}

// GPUInventory returns the formatted GPU table.
func (s *Service) GPUInventory(ctx context.Context) (string, error) {
	cards, err := s.client.GraphicsCards(ctx)
	if err != nil {
		return "", err
	}
	return FormatGraphicsCards(cards), nil
}

// NetworkElementsReport returns the formatted network element table.
// The infrastructure view merges this report with the Nexus Dashboard one.
func (s *Service) NetworkElementsReport(ctx context.Context) (string, error) {
	elements, err := s.client.NetworkElements(ctx)
	if err != nil {
		return "", err
	}
	return FormatNetworkElements(elements), nil
}

// FirmwareForServer looks up the named server and returns the firmware
// bundles compatible with its model.
func (s *Service) FirmwareForServer(ctx context.Context, name string) (string, error) {
	server, err := s.client.ServerByName(ctx, name)
	if err != nil {
		return "", err
	}

	bundles, err := s.client.FirmwareDistributables(ctx)
	if err != nil {
		return "", fmt.Errorf("found server %s but failed to list firmware: %w", name, err)
	}

	report := FirmwareReport{Server: *server}
	for _, f := range bundles {
		if firmwareMatchesServer(f, *server) {
			report.Compatible = append(report.Compatible, f)
		}
	}
	return FormatFirmwareReport(report), nil
}

// firmwareMatchesServer reports whether bundle f applies to server s, either by
// an explicit supported-model entry or by platform family prefix.
func firmwareMatchesServer(f Firmware, s Server) bool {
	for _, m := range f.SupportedModels {
		if strings.EqualFold(m, s.Model) {
			return true
		}
	}
	if f.PlatformType == "" || s.Model == "" {
		return false
	}
	// Platform types look like "UCSC-C220-M5" families; match on shared prefix.
	return strings.HasPrefix(strings.ToUpper(s.Model), strings.ToUpper(f.PlatformType))
}

// categorize maps a question to a query category by keyword inspection.
// Order matters: more specific vocabularies are checked before generic ones.
func categorize(question string) string {
	q := strings.ToLower(question)

	switch {
	case containsAny(q, "gpu", "gpus", "graphics card", "graphics cards"):
		return categoryGPU
	case containsAny(q, "firmware", "version"):
		return categoryFirmware
	case containsAny(q, "profile", "profiles", "policy", "policies"):
		return categoryProfile
	case containsAny(q, "vm", "vms", "virtual machine", "virtual machines"):
		return categoryVM
	case containsAny(q, "health", "alarm", "alarms", "alert", "alerts", "fault", "faults"):
		return categoryHealth
	case containsAny(q, "network", "switch", "switches", "fabric interconnect"):
		return categoryNetwork
	case containsAny(q, "server", "servers", "inventory", "compute", "blade", "rack"):
		return categoryServer
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
