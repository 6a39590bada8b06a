package gpu

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jaypipes/ghw"
	ghwpci "github.com/jaypipes/ghw/pkg/pci"
)

const (
	defaultCap = 4

	FamilyNVIDIA  = "NVIDIA"
	FamilyAMD     = "AMD"
	FamilyIntel   = "Intel"
	FamilyGeneric = "Generic"
)

var (
	ErrNotFound = errors.New("GPU device not found")

	// BMC and server management display controllers.
	onBoardSet = map[string]struct{}{
		"102b:0522": {},
		"102b:0533": {},
		"102b:0534": {},
		"102b:0536": {},
		"102b:0538": {},
		"19e5:1711": {},
		"1a03:2000": {},
	}
)

func New() *GPU {
	return &GPU{
		GraphicsCard: make([]*GraphicsCard, 0, defaultCap),
	}
}

func (g *GPU) Name() string {
	return "gpu"
}

func (g *GPU) Collect(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := ghw.GPU()
	if err != nil {
		return fmt.Errorf("gpu: %w", err)
	}

	g.GraphicsCard = g.GraphicsCard[:0]
	for _, card := range info.GraphicsCards {
		if card == nil {
			continue
		}
		g.GraphicsCard = append(g.GraphicsCard, newGraphicsCard(card.Index, card.Address, card.DeviceInfo))
	}

	if len(g.GraphicsCard) == 0 {
		return ErrNotFound
	}

	return nil
}

func newGraphicsCard(index int, address string, dev *ghwpci.Device) *GraphicsCard {
	card := &GraphicsCard{
		Index:   index,
		Address: address,
	}

	if dev != nil {
		card.Driver = dev.Driver
		if dev.Vendor != nil {
			card.Vendor = dev.Vendor.Name
			card.VendorID = dev.Vendor.ID
		}
		if dev.Product != nil {
			card.Product = dev.Product.Name
			card.ProductID = dev.Product.ID
		}
	}

	card.Family = VendorFamily(card.Vendor + " " + card.Product)
	card.IsOnBoard = isOnBoard(card.VendorID, card.ProductID)

	return card
}

// VendorFamily picks the driver family from a card or vendor name.
func VendorFamily(name string) string {
	lower := strings.ToLower(name)

	switch {
	case strings.Contains(lower, "nvidia"):
		return FamilyNVIDIA
	case strings.Contains(lower, "amd"), strings.Contains(lower, "radeon"),
		strings.Contains(lower, "advanced micro devices"), strings.Contains(lower, "ati technologies"):
		return FamilyAMD
	case strings.Contains(lower, "intel"):
		return FamilyIntel
	default:
		return FamilyGeneric
	}
}

func isOnBoard(vendorID, deviceID string) bool {
	var sb strings.Builder
	sb.Grow(9)
	sb.WriteString(strings.ToLower(vendorID))
	sb.WriteByte(':')
	sb.WriteString(strings.ToLower(deviceID))

	_, exists := onBoardSet[sb.String()]

	return exists
}
