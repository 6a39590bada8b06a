package cpu

import "github.com/zenithax-cc/hwlens/pkg/cpuclass"

type CPU struct {
	ModelName       string   `json:"model_name,omitempty" name:"Name" output:"both" color:"DefaultGreen"`
	Vendor          string   `json:"vendor,omitempty" name:"Vendor" output:"both"`
	GenerationLabel string   `json:"generation_label,omitempty" name:"Generation" output:"both"`
	Socket          string   `json:"socket,omitempty" name:"Socket" output:"both"`
	Lithography     string   `json:"lithography,omitempty" name:"Technology" output:"both"`
	Codename        string   `json:"codename,omitempty" name:"Codename" output:"detail"`
	Generation      string   `json:"generation,omitempty"`
	Architecture    string   `json:"architecture,omitempty" name:"Architecture" output:"detail"`
	Family          string   `json:"family,omitempty" name:"Family" output:"detail"`
	Model           string   `json:"model,omitempty" name:"Model" output:"detail"`
	Stepping        string   `json:"stepping,omitempty" name:"Stepping" output:"detail"`
	Microcode       string   `json:"microcode,omitempty" name:"Microcode" output:"detail"`
	Cores           int      `json:"cores,omitempty" name:"Cores" output:"both"`
	Threads         int      `json:"threads,omitempty" name:"Threads" output:"both"`
	BaseClock       string   `json:"base_clock,omitempty" name:"Base Clock" output:"both"`
	MaxClock        string   `json:"max_clock,omitempty" name:"Max Clock" output:"both"`
	CurrentClock    string   `json:"current_clock,omitempty" name:"Core Speed" output:"both"`
	L1dCache        string   `json:"l1d_cache,omitempty" name:"L1d Cache" output:"detail"`
	L1iCache        string   `json:"l1i_cache,omitempty" name:"L1i Cache" output:"detail"`
	L2Cache         string   `json:"l2_cache,omitempty" name:"L2 Cache" output:"detail"`
	L3Cache         string   `json:"l3_cache,omitempty" name:"L3 Cache" output:"detail"`
	UsagePercent    float64  `json:"usage_percent"`
	Usage           string   `json:"usage,omitempty" name:"CPU Usage" output:"both"`
	UsageLevel      string   `json:"usage_level,omitempty" name:"Load" output:"both" color:"level"`
	Temperature     string   `json:"temperature,omitempty" name:"Temperature" output:"both"`
	Flags           []string `json:"flags,omitempty" name:"Flags" output:"detail"`

	baseMHz    float64
	maxMHz     float64
	classifier *cpuclass.Classifier
}
