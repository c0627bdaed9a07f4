package nexus

import "context"

// Site is a Nexus Dashboard managed site.
type Site struct {
	Name   string `json:"name"`
	Type   string `json:"siteType"`
	Health string `json:"health"`
}

// Fabric is an NDFC LAN fabric.
type Fabric struct {
	Name       string `json:"fabricName"`
	Technology string `json:"fabricTechnologyFriendly"`
	Type       string `json:"fabricType"`
	ASN        string `json:"asn"`
}

// Switch is one device from the NDFC inventory.
type Switch struct {
	Name       string `json:"logicalName"`
	IPAddress  string `json:"ipAddress"`
	Serial     string `json:"serialNumber"`
	Model      string `json:"model"`
	Release    string `json:"release"`
	FabricName string `json:"fabricName"`
	Status     string `json:"status"`
	Health     int    `json:"health"`
}

// Alarm is an active alarm raised by the dashboard.
type Alarm struct {
	Severity    string `json:"severity"`
	Message     string `json:"message"`
	Resource    string `json:"resourceName"`
	RaisedAt    string `json:"raisedAt"`
	Acknowledge bool   `json:"acknowledged"`
}

// Sites lists the managed sites.
func (c *Client) Sites(ctx context.Context) ([]Site, error) {
	var envelope struct {
		Items []struct {
			Spec Site `json:"spec"`
		} `json:"items"`
	}
	if err := c.get(ctx, pathSites, &envelope); err != nil {
		return nil, err
	}
	sites := make([]Site, 0, len(envelope.Items))
	for _, item := range envelope.Items {
		sites = append(sites, item.Spec)
	}
	return sites, nil
}

// Fabrics lists the LAN fabrics.
func (c *Client) Fabrics(ctx context.Context) ([]Fabric, error) {
	var out []Fabric
	if err := c.get(ctx, pathFabrics, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Switches lists all devices across fabrics.
func (c *Client) Switches(ctx context.Context) ([]Switch, error) {
	var out []Switch
	if err := c.get(ctx, pathSwitches, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Alarms lists active alarms.
func (c *Client) Alarms(ctx context.Context) ([]Alarm, error) {
	var envelope struct {
		Entries []Alarm `json:"entries"`
	}
	if err := c.get(ctx, pathAlarms, &envelope); err != nil {
		return nil, err
	}
	return envelope.Entries, nil
}
