package miner

import (
	"runtime"

	"github.com/cloudflare/circl/simd/keccakf1600"
	"github.com/klauspost/cpuid/v2"
	"go.uber.org/zap"
)

// HostInfo describes the CPU the search runs on
type HostInfo struct {
	Brand         string
	PhysicalCores int
	LogicalCores  int
	// SHA reports SHA-NI, which the sha256 digester uses when present
	SHA  bool
	AVX2 bool
	// KeccakX4 reports the 4-way Keccak permutation used by the keccak256 digester
	KeccakX4 bool
}

// Host probes the current CPU
func Host() HostInfo {
	return HostInfo{
		Brand:         cpuid.CPU.BrandName,
		PhysicalCores: cpuid.CPU.PhysicalCores,
		LogicalCores:  runtime.NumCPU(),
		SHA:           cpuid.CPU.Supports(cpuid.SHA),
		AVX2:          cpuid.CPU.Supports(cpuid.AVX2),
		KeccakX4:      keccakf1600.IsEnabledX4(),
	}
}

// Fields returns the host description as log fields
func (h HostInfo) Fields() []zap.Field {
	return []zap.Field{
		zap.String("cpu", h.Brand),
		zap.Int("physical_cores", h.PhysicalCores),
		zap.Int("logical_cores", h.LogicalCores),
		zap.Bool("sha_ni", h.SHA),
		zap.Bool("avx2", h.AVX2),
		zap.Bool("keccak_x4", h.KeccakX4),
	}
}
