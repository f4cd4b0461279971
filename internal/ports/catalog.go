// Package ports simulates the device hub: which device occupies which port.
package ports

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

var (
	// ErrUnknownPort is returned when a port id is not in the catalog.
	ErrUnknownPort = errors.New("unknown port")
	// ErrUnknownDevice is returned when a device type is not in the catalog.
	ErrUnknownDevice = errors.New("unknown device type")
)

// DeviceKind describes a simulated peripheral and the utility it provides.
type DeviceKind struct {
	Type         string   `yaml:"type" json:"type"`
	UtilityID    string   `yaml:"utility" json:"utilityId"`
	Label        string   `yaml:"label" json:"label"`
	Color        string   `yaml:"color" json:"color"`
	Icon         string   `yaml:"icon" json:"icon"`
	ExampleNames []string `yaml:"names" json:"exampleNames"`
}

// PortDefinition is a fixed connection point on the hub.
type PortDefinition struct {
	ID                    string   `yaml:"id" json:"id"`
	Side                  string   `yaml:"side" json:"side"`
	CompatibleDeviceTypes []string `yaml:"compatible" json:"compatibleDeviceTypes"`
	Position              int      `yaml:"position" json:"position"`
}

// Catalog is the static set of device kinds and hub ports.
type Catalog struct {
	Kinds []DeviceKind     `yaml:"kinds"`
	Ports []PortDefinition `yaml:"ports"`

	kindByType map[string]int
	portByID   map[string]int
}

// DefaultCatalog parses the built-in catalog.
func DefaultCatalog() *Catalog {
	c, err := ParseCatalog(defaultCatalogYAML)
	if err != nil {
		panic(fmt.Sprintf("ports: built-in catalog: %v", err))
	}
	return c
}

// LoadCatalog reads a catalog from a YAML file.
func LoadCatalog(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return ParseCatalog(data)
}

// ParseCatalog decodes and indexes a YAML catalog. Duplicate ids and ports
// that reference unknown device types are rejected.
func ParseCatalog(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.index(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Catalog) index() error {
	c.kindByType = make(map[string]int, len(c.Kinds))
	for i, k := range c.Kinds {
		if k.Type == "" || k.UtilityID == "" {
			return fmt.Errorf("device kind %d: type and utility are required", i)
		}
		if _, dup := c.kindByType[k.Type]; dup {
			return fmt.Errorf("duplicate device type %q", k.Type)
		}
		c.kindByType[k.Type] = i
	}
	c.portByID = make(map[string]int, len(c.Ports))
	for i, p := range c.Ports {
		if p.ID == "" {
			return fmt.Errorf("port %d: id is required", i)
		}
		if _, dup := c.portByID[p.ID]; dup {
			return fmt.Errorf("duplicate port %q", p.ID)
		}
		for _, t := range p.CompatibleDeviceTypes {
			if _, ok := c.kindByType[t]; !ok {
				return fmt.Errorf("port %q: %w %q", p.ID, ErrUnknownDevice, t)
			}
		}
		c.portByID[p.ID] = i
	}
	return nil
}

// Kind looks up a device kind by type.
func (c *Catalog) Kind(deviceType string) (DeviceKind, bool) {
	i, ok := c.kindByType[deviceType]
	if !ok {
		return DeviceKind{}, false
	}
	return c.Kinds[i], true
}

// Port looks up a port definition by id.
func (c *Catalog) Port(id string) (PortDefinition, bool) {
	i, ok := c.portByID[id]
	if !ok {
		return PortDefinition{}, false
	}
	return c.Ports[i], true
}

// OrderedPorts returns the ports sorted by side then position, the order the
// hub panel lists them in.
func (c *Catalog) OrderedPorts() []PortDefinition {
	out := make([]PortDefinition, len(c.Ports))
	copy(out, c.Ports)
	sort.SliceStable(out, func(i, j int) bool {
		if sideRank(out[i].Side) != sideRank(out[j].Side) {
			return sideRank(out[i].Side) < sideRank(out[j].Side)
		}
		return out[i].Position < out[j].Position
	})
	return out
}

func sideRank(side string) int {
	switch side {
	case "top":
		return 0
	case "left":
		return 1
	case "right":
		return 2
	case "bottom":
		return 3
	default:
		return 4
	}
}
