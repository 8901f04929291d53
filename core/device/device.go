// Package device detects hardware capabilities used to speed up tensor math.
package device

import (
	"runtime"

	"github.com/klauspost/cpuid/v2"
)

// Accelerated reports whether the host CPU exposes wide vector extensions
// that the batched math paths can take advantage of. The check must be
// performed by calling this function at construction time; the result does
// not change for the lifetime of the process.
func Accelerated() bool {
	if runtime.GOARCH == "arm64" {
		// NEON is part of the baseline arm64 feature set.
		return true
	}
	return cpuid.CPU.Supports(cpuid.AVX2) || cpuid.CPU.Supports(cpuid.AVX512F, cpuid.AVX512DQ)
}

// Name returns a short human-readable description of the detected
// acceleration tier, for logging.
func Name() string {
	switch {
	case runtime.GOARCH == "arm64":
		return "neon"
	case cpuid.CPU.Supports(cpuid.AVX512F, cpuid.AVX512DQ):
		return "avx512"
	case cpuid.CPU.Supports(cpuid.AVX2):
		return "avx2"
	default:
		return "none"
	}
}
