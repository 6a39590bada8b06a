package board

type Board struct {
	Manufacturer string `json:"manufacturer" name:"Manufacturer" output:"both" color:"DefaultGreen"`
	Product      string `json:"product" name:"Product Name" output:"both" color:"DefaultGreen"`
	Version      string `json:"version" name:"Version" output:"detail"`
	SerialNumber string `json:"serial_number" name:"SN" output:"detail"`
	BIOS         *BIOS  `json:"bios" name:"BIOS" output:"both"`
	Microcode    string `json:"microcode" name:"Microcode" output:"both"`
}

type BIOS struct {
	Vendor      string `json:"vendor" name:"Vendor" output:"both"`
	Version     string `json:"version" name:"Version" output:"both"`
	ReleaseDate string `json:"release_date" name:"Release Date" output:"both"`
}
