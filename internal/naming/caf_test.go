package naming

import "testing"

func TestResolveKnownTypes(t *testing.T) {
	cases := []struct {
		resourceType string
		want         string
	}{
		{"azurerm_storage_account", "st"},
		{"azurerm_route_server", "rtserv"},
		{"azurerm_resource_group", "rg"},
		{"azurerm_kubernetes_cluster", "aks"},
		{"azurerm_virtual_network", "vnet"},
	}
	for _, tc := range cases {
		token, known := Resolve(tc.resourceType, "azurerm")
		if !known {
			t.Errorf("%s: expected known abbreviation", tc.resourceType)
		}
		if token != tc.want {
			t.Errorf("%s: expected %q, got %q", tc.resourceType, tc.want, token)
		}
	}
}

func TestResolveFallbackDerivation(t *testing.T) {
	// Unknown multi-word types derive from initials.
	token, known := Resolve("azurerm_virtual_desktop_host_pool", "azurerm")
	if known {
		t.Error("Expected unknown type to report known=false")
	}
	if token != "vdhp" {
		t.Errorf("Expected derived token vdhp, got %q", token)
	}

	// Single-word types use the word itself.
	token, _ = Resolve("azurerm_marketplace", "azurerm")
	if token != "marketplace" {
		t.Errorf("Expected marketplace, got %q", token)
	}
}

func TestResolveDeterministic(t *testing.T) {
	first, _ := Resolve("azurerm_some_future_resource", "azurerm")
	for i := 0; i < 10; i++ {
		got, _ := Resolve("azurerm_some_future_resource", "azurerm")
		if got != first {
			t.Fatalf("Resolve is not deterministic: %q vs %q", first, got)
		}
	}
}

func TestShortName(t *testing.T) {
	if got := ShortName("azurerm_storage_account", "azurerm"); got != "storage_account" {
		t.Errorf("Expected storage_account, got %q", got)
	}
	// No prefix to strip.
	if got := ShortName("storage_account", "azurerm"); got != "storage_account" {
		t.Errorf("Expected unchanged name, got %q", got)
	}
}

func TestDisplayName(t *testing.T) {
	cases := map[string]string{
		"azurerm_route_server":    "Route Server",
		"azurerm_storage_account": "Storage Account",
		"azurerm_lb":              "Lb",
	}
	for in, want := range cases {
		if got := DisplayName(in, "azurerm"); got != want {
			t.Errorf("%s: expected %q, got %q", in, want, got)
		}
	}
}
