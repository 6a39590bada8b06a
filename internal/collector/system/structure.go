package system

type System struct {
	HostName        string `json:"host_name,omitempty" name:"Hostname" output:"both" color:"DefaultGreen"`
	OS              string `json:"os,omitempty" name:"OS Type" output:"both"`
	PrettyName      string `json:"pretty_name,omitempty" name:"Distro" output:"both"`
	Platform        string `json:"platform,omitempty" name:"Platform" output:"detail"`
	PlatformFamily  string `json:"platform_family,omitempty" name:"Platform Family" output:"detail"`
	PlatformVersion string `json:"platform_version,omitempty" name:"Distro Version" output:"both"`
	CodeName        string `json:"code_name,omitempty" name:"Code Name" output:"detail"`
	KernelRelease   string `json:"kernel_release,omitempty" name:"Kernel Release" output:"both"`
	Architecture    string `json:"architecture,omitempty" name:"Architecture" output:"both"`
	Virtualization  string `json:"virtualization,omitempty" name:"Virtualization" output:"detail"`
	Uptime          string `json:"uptime,omitempty" name:"Uptime" output:"both"`
	UptimeSeconds   uint64 `json:"uptime_seconds"`
	BootTime        string `json:"boot_time,omitempty" name:"Boot Time" output:"detail"`
	Processes       uint64 `json:"processes" name:"Processes" output:"detail"`
}
