package network

type Network struct {
	Interfaces []*Interface `json:"interfaces,omitempty" name:"Interface" output:"both"`
}

type Interface struct {
	Name       string   `json:"name" name:"Device Name" output:"both" color:"DefaultGreen"`
	MACAddress string   `json:"mac_address,omitempty" name:"MAC Address" output:"both"`
	Status     string   `json:"status,omitempty" name:"Status" output:"both"`
	Speed      string   `json:"speed,omitempty" name:"Speed" output:"both"`
	Duplex     string   `json:"duplex,omitempty" name:"Duplex" output:"detail"`
	MTU        int      `json:"mtu" name:"MTU" output:"detail"`
	Flags      []string `json:"flags,omitempty" name:"Flags" output:"detail"`
	IPv4       []*IPv4  `json:"ipv4,omitempty" name:"IPv4" output:"both"`
	BytesSent  string   `json:"bytes_sent,omitempty" name:"Sent" output:"detail"`
	BytesRecv  string   `json:"bytes_recv,omitempty" name:"Received" output:"detail"`
	IsPhysical bool     `json:"is_physical" name:"Physical" output:"detail" color:"trueGreen"`
}

type IPv4 struct {
	Address   string `json:"address" name:"Address" output:"both"`
	Netmask   string `json:"netmask" name:"Netmask" output:"both"`
	PrefixLen int    `json:"prefix_len" name:"Prefix" output:"detail"`
	Gateway   string `json:"gateway,omitempty" name:"Gateway Guess" output:"detail"`
}
