package gpu

type GPU struct {
	GraphicsCard []*GraphicsCard `json:"graphics_card,omitempty" name:"Graphics Card" output:"both"`
}

type GraphicsCard struct {
	Index     int    `json:"index"`
	Address   string `json:"address,omitempty" name:"PCI Address" output:"detail"`
	Vendor    string `json:"vendor,omitempty" name:"Vendor" output:"both"`
	Product   string `json:"product,omitempty" name:"Product" output:"both" color:"DefaultGreen"`
	Family    string `json:"family,omitempty" name:"Family" output:"both"`
	Driver    string `json:"driver,omitempty" name:"Driver" output:"detail"`
	VendorID  string `json:"vendor_id,omitempty" name:"Vendor ID" output:"detail"`
	ProductID string `json:"product_id,omitempty" name:"Device ID" output:"detail"`
	IsOnBoard bool   `json:"is_on_board" name:"On Board" output:"detail" color:"trueGreen"`
}
