package memory

type Memory struct {
	Total        string    `json:"total,omitempty" name:"System Memory" output:"both" color:"DefaultGreen"`
	Available    string    `json:"available,omitempty" name:"Memory Available" output:"both"`
	Used         string    `json:"used,omitempty" name:"Memory Used" output:"both"`
	UsedPercent  float64   `json:"used_percent" name:"Used %" output:"both"`
	SwapTotal    string    `json:"swap_total,omitempty" name:"Swap" output:"detail"`
	Buffers      string    `json:"buffers,omitempty" name:"Buffer" output:"detail"`
	Cached       string    `json:"cached,omitempty" name:"Cached" output:"detail"`
	PhysicalSize string    `json:"physical_size,omitempty" name:"Physical Memory" output:"both"`
	Type         string    `json:"type,omitempty" name:"Type" output:"both"`
	Speed        string    `json:"speed,omitempty" name:"Speed" output:"both"`
	UsedSlots    int       `json:"used_slots" name:"Slot Used" output:"both"`
	Channel      string    `json:"channel,omitempty" name:"Channel" output:"both"`
	Modules      []*Module `json:"modules,omitempty" name:"Module" output:"detail"`
}

type Module struct {
	Locator           string `json:"locator,omitempty" name:"Locator" output:"both"`
	BankLocator       string `json:"bank_locator,omitempty" name:"Bank Locator" output:"detail"`
	Label             string `json:"label,omitempty" name:"Label" output:"detail"`
	Vendor            string `json:"vendor,omitempty" name:"Manufacturer" output:"both"`
	Size              string `json:"size,omitempty" name:"Size" output:"both"`
	SizeBytes         int64  `json:"size_bytes"`
	Type              string `json:"type,omitempty" name:"Type" output:"both"`
	FormFactor        string `json:"form_factor,omitempty" name:"Form Factor" output:"detail"`
	Speed             string `json:"speed,omitempty" name:"Speed" output:"both"`
	SpeedMTs          uint32 `json:"speed_mts,omitempty"`
	ConfiguredSpeed   string `json:"configured_speed,omitempty" name:"Configured Speed" output:"detail"`
	DataWidth         string `json:"data_width,omitempty" name:"Data Width" output:"detail"`
	TotalWidth        string `json:"total_width,omitempty" name:"Total Width" output:"detail"`
	ConfiguredVoltage string `json:"configured_voltage,omitempty" name:"Configured Voltage" output:"detail"`
	Rank              string `json:"rank,omitempty" name:"Rank" output:"detail"`
	PartNumber        string `json:"part_number,omitempty" name:"Part Number" output:"both"`
	SerialNumber      string `json:"serial_number,omitempty" name:"Serial Number" output:"both"`
}
