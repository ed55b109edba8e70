// Package naming resolves the short local identifier (naming token) a
// resource instance receives in generated code. Tokens follow Microsoft's
// Cloud Adoption Framework resource abbreviations; the lookup is performed
// in-process so the generation backend never has to agree with itself across
// independent calls.
package naming

import "strings"

// cafAbbreviations maps azurerm resource types to their CAF abbreviation.
// Source: the CAF resource-abbreviations reference.
var cafAbbreviations = map[string]string{
	"azurerm_resource_group":               "rg",
	"azurerm_storage_account":              "st",
	"azurerm_storage_container":            "stct",
	"azurerm_virtual_network":              "vnet",
	"azurerm_subnet":                       "snet",
	"azurerm_network_interface":            "nic",
	"azurerm_network_security_group":       "nsg",
	"azurerm_public_ip":                    "pip",
	"azurerm_route_table":                  "rt",
	"azurerm_route_server":                 "rtserv",
	"azurerm_nat_gateway":                  "ng",
	"azurerm_virtual_network_gateway":      "vgw",
	"azurerm_local_network_gateway":        "lgw",
	"azurerm_vpn_gateway":                  "vpng",
	"azurerm_express_route_circuit":        "erc",
	"azurerm_application_gateway":          "agw",
	"azurerm_firewall":                     "afw",
	"azurerm_firewall_policy":              "afwp",
	"azurerm_bastion_host":                 "bas",
	"azurerm_lb":                           "lbi",
	"azurerm_private_endpoint":             "pep",
	"azurerm_private_dns_zone":             "pdnsz",
	"azurerm_dns_zone":                     "dnsz",
	"azurerm_traffic_manager_profile":      "traf",
	"azurerm_frontdoor":                    "afd",
	"azurerm_cdn_profile":                  "cdnp",
	"azurerm_virtual_wan":                  "vwan",
	"azurerm_virtual_hub":                  "vhub",
	"azurerm_key_vault":                    "kv",
	"azurerm_kubernetes_cluster":           "aks",
	"azurerm_container_registry":           "cr",
	"azurerm_container_group":              "ci",
	"azurerm_service_plan":                 "asp",
	"azurerm_app_service_plan":             "asp",
	"azurerm_linux_web_app":                "app",
	"azurerm_windows_web_app":              "app",
	"azurerm_linux_function_app":           "func",
	"azurerm_windows_function_app":         "func",
	"azurerm_static_web_app":               "stapp",
	"azurerm_linux_virtual_machine":        "vm",
	"azurerm_windows_virtual_machine":      "vm",
	"azurerm_virtual_machine":              "vm",
	"azurerm_virtual_machine_scale_set":    "vmss",
	"azurerm_availability_set":             "avail",
	"azurerm_managed_disk":                 "disk",
	"azurerm_image":                        "it",
	"azurerm_snapshot":                     "snap",
	"azurerm_log_analytics_workspace":      "log",
	"azurerm_application_insights":         "appi",
	"azurerm_monitor_action_group":         "ag",
	"azurerm_mssql_server":                 "sql",
	"azurerm_mssql_database":               "sqldb",
	"azurerm_mysql_flexible_server":        "mysql",
	"azurerm_postgresql_flexible_server":   "psql",
	"azurerm_cosmosdb_account":             "cosmos",
	"azurerm_redis_cache":                  "redis",
	"azurerm_servicebus_namespace":         "sbns",
	"azurerm_servicebus_queue":             "sbq",
	"azurerm_servicebus_topic":             "sbt",
	"azurerm_eventhub_namespace":           "evhns",
	"azurerm_eventhub":                     "evh",
	"azurerm_eventgrid_topic":              "evgt",
	"azurerm_eventgrid_domain":             "evgd",
	"azurerm_logic_app_workflow":           "logic",
	"azurerm_data_factory":                 "adf",
	"azurerm_databricks_workspace":         "dbw",
	"azurerm_synapse_workspace":            "synw",
	"azurerm_machine_learning_workspace":   "mlw",
	"azurerm_cognitive_account":            "cog",
	"azurerm_search_service":               "srch",
	"azurerm_signalr_service":              "sigr",
	"azurerm_api_management":               "apim",
	"azurerm_automation_account":           "aa",
	"azurerm_recovery_services_vault":      "rsv",
	"azurerm_backup_policy_vm":             "bkpol",
	"azurerm_user_assigned_identity":       "id",
	"azurerm_role_assignment":              "ra",
	"azurerm_management_group":             "mg",
	"azurerm_iothub":                       "iot",
	"azurerm_stream_analytics_job":         "asa",
	"azurerm_netapp_account":               "anf",
	"azurerm_spring_cloud_service":         "asc",
	"azurerm_dedicated_host":               "dh",
	"azurerm_dedicated_host_group":         "dhg",
	"azurerm_disk_encryption_set":          "des",
	"azurerm_ssh_public_key":               "sshkey",
	"azurerm_batch_account":                "ba",
	"azurerm_app_configuration":            "appcs",
	"azurerm_notification_hub":             "ntf",
	"azurerm_notification_hub_namespace":   "ntfns",
	"azurerm_purview_account":              "pview",
	"azurerm_load_test":                    "lt",
	"azurerm_maps_account":                 "map",
	"azurerm_media_services_account":       "ms",
	"azurerm_healthcare_service":           "his",
	"azurerm_mssql_elasticpool":            "sqlep",
	"azurerm_mssql_managed_instance":       "sqlmi",
	"azurerm_web_application_firewall_policy": "waf",
	"azurerm_network_watcher":              "nw",
	"azurerm_private_dns_resolver":         "dnspr",
	"azurerm_ip_group":                     "ipg",
	"azurerm_dns_forwarding_ruleset":       "dnsfrs",
}

// Resolve returns the naming token for a resource type. Known resource types
// resolve from the CAF table; unknown types fall back to a deterministic
// abbreviation derived from the resource name, so identical resource types
// always resolve to identical tokens.
func Resolve(resourceType, providerName string) (token string, known bool) {
	if abbr, ok := cafAbbreviations[resourceType]; ok {
		return abbr, true
	}
	return derive(resourceType, providerName), false
}

// derive builds a fallback token from the initials of the resource's short
// name, e.g. "azurerm_virtual_desktop_host_pool" -> "vdhp". Single-word
// names are used as-is.
func derive(resourceType, providerName string) string {
	short := strings.TrimPrefix(resourceType, providerName+"_")
	words := strings.Split(short, "_")
	if len(words) == 1 {
		return words[0]
	}
	var b strings.Builder
	for _, w := range words {
		if w == "" {
			continue
		}
		b.WriteByte(w[0])
	}
	return b.String()
}

// ShortName strips the provider prefix from a resource type, e.g.
// "azurerm_storage_account" -> "storage_account".
func ShortName(resourceType, providerName string) string {
	return strings.TrimPrefix(resourceType, providerName+"_")
}

// DisplayName renders a resource's human-readable name used in output
// descriptions, e.g. "azurerm_route_server" -> "Route Server".
func DisplayName(resourceType, providerName string) string {
	words := strings.Split(ShortName(resourceType, providerName), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
