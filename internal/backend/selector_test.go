package backend

import "testing"

func TestSelectSmallTextAlwaysHost(t *testing.T) {
	if got := Select(1024, 3, Literal, true); got != HostLiteral {
		t.Fatalf("got %v, want HostLiteral", got)
	}
	if got := Select(1024, 3, Regex, true); got != HostRegex {
		t.Fatalf("got %v, want HostRegex", got)
	}
}

func TestSelectMidSizeWithDevice(t *testing.T) {
	if got := Select(1<<20, 3, Literal, true); got != DeviceLiteral {
		t.Fatalf("got %v, want DeviceLiteral", got)
	}
	if got := Select(1<<20, 3, Regex, true); got != DeviceRegex {
		t.Fatalf("got %v, want DeviceRegex", got)
	}
}

func TestSelectNoDeviceFallsBackToHost(t *testing.T) {
	if got := Select(1<<20, 3, Literal, false); got != HostLiteral {
		t.Fatalf("got %v, want HostLiteral", got)
	}
}

func TestSelectOversizeFallsBackToHost(t *testing.T) {
	if got := Select(MaxDeviceTextSize+1, 3, Literal, true); got != HostLiteral {
		t.Fatalf("got %v, want HostLiteral", got)
	}
}

func TestSelectDeterministic(t *testing.T) {
	a := Select(5<<20, 10, Regex, true)
	b := Select(5<<20, 10, Regex, true)
	if a != b {
		t.Fatalf("Select is not deterministic: %v != %v", a, b)
	}
}
