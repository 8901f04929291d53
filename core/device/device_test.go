package device

import "testing"

func TestAcceleratedIsStable(t *testing.T) {
	// Detection inspects fixed CPU features, so repeated calls must agree.
	first := Accelerated()
	for i := 0; i < 10; i++ {
		if Accelerated() != first {
			t.Fatal("Accelerated() changed between calls")
		}
	}
}

func TestNameMatchesAccelerated(t *testing.T) {
	name := Name()
	switch name {
	case "neon", "avx2", "avx512":
		if !Accelerated() {
			t.Errorf("Name() = %q but Accelerated() is false", name)
		}
	case "none":
		if Accelerated() {
			t.Error("Name() = \"none\" but Accelerated() is true")
		}
	default:
		t.Errorf("unexpected tier name %q", name)
	}
}
