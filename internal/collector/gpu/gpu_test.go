package gpu

import (
	"testing"

	ghwpci "github.com/jaypipes/ghw/pkg/pci"
	"github.com/jaypipes/pcidb"
	"github.com/stretchr/testify/assert"
)

func TestVendorFamily(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want string
	}{
		{"NVIDIA GeForce RTX 4070", FamilyNVIDIA},
		{"AMD Radeon RX 7800 XT", FamilyAMD},
		{"Radeon Vega 8", FamilyAMD},
		{"Advanced Micro Devices, Inc. [AMD/ATI] Navi 31", FamilyAMD},
		{"Intel(R) UHD Graphics 770", FamilyIntel},
		{"ASPEED Graphics Family", FamilyGeneric},
		{"", FamilyGeneric},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, VendorFamily(tt.name))
		})
	}
}

func TestIsOnBoard(t *testing.T) {
	t.Parallel()

	assert.True(t, isOnBoard("1a03", "2000"))
	assert.True(t, isOnBoard("102B", "0534"))
	assert.False(t, isOnBoard("10de", "2786"))
}

func TestNewGraphicsCard(t *testing.T) {
	t.Parallel()

	card := newGraphicsCard(0, "0000:03:00.0", &ghwpci.Device{
		Vendor:  &pcidb.Vendor{ID: "1a03", Name: "ASPEED Technology, Inc."},
		Product: &pcidb.Product{ID: "2000", Name: "ASPEED Graphics Family"},
		Driver:  "ast",
	})

	assert.Equal(t, "0000:03:00.0", card.Address)
	assert.Equal(t, "ast", card.Driver)
	assert.Equal(t, FamilyGeneric, card.Family)
	assert.True(t, card.IsOnBoard)

	bare := newGraphicsCard(1, "0000:01:00.0", nil)
	assert.Equal(t, FamilyGeneric, bare.Family)
	assert.False(t, bare.IsOnBoard)
}
