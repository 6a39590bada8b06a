package disk

type Disk struct {
	PhysicalDisk []*PhysicalDisk `json:"physical_disk,omitempty" name:"Physical Disk" output:"both"`
	Partition    []*Partition    `json:"partition,omitempty" name:"Partition" output:"both"`
}

type PhysicalDisk struct {
	Name         string `json:"name" name:"Name" output:"both"`
	Model        string `json:"model,omitempty" name:"Model" output:"both" color:"DefaultGreen"`
	Vendor       string `json:"vendor,omitempty" name:"Vendor" output:"detail"`
	SerialNumber string `json:"serial_number,omitempty" name:"SN" output:"detail"`
	Size         string `json:"size,omitempty" name:"Size" output:"both"`
	SizeBytes    uint64 `json:"size_bytes"`
	DriveType    string `json:"drive_type,omitempty" name:"Media Type" output:"both"`
	Controller   string `json:"controller,omitempty" name:"Interface" output:"detail"`
	Removable    bool   `json:"removable" name:"Removable" output:"detail"`
}

type Partition struct {
	Device      string  `json:"device" name:"Device" output:"both"`
	MountPoint  string  `json:"mount_point" name:"Mount Point" output:"both"`
	FsType      string  `json:"fs_type,omitempty" name:"File System" output:"detail"`
	Total       string  `json:"total,omitempty" name:"Total" output:"both"`
	Used        string  `json:"used,omitempty" name:"Used" output:"both"`
	Free        string  `json:"free,omitempty" name:"Free" output:"detail"`
	UsedPercent float64 `json:"used_percent" name:"Used %" output:"both"`
	UsageLevel  string  `json:"usage_level,omitempty" name:"Level" output:"both" color:"level"`
}
