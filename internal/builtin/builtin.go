// Package builtin holds the plugins compiled into the shell. Each registers
// its manifest into plugin.Default from init, so importing the package is
// enough to make them available.
package builtin

import (
	"github.com/cspdashboard/shell/internal/manifest"
	"github.com/cspdashboard/shell/internal/plugin"
)

// Source is recorded on every built-in manifest.
const Source = "builtin"

// SupportURL is where the Support widget sends agents to open a ticket.
const SupportURL = "https://support.example.com/servicedesk/customer/portal/43/create/580"

var (
	// Support is the sidebar footer widget linking to the support desk.
	Support = mustTemplate("Support", `<div class="support">
  <h6>Customer Specialist Resources</h6>
  <p>Access support documentation, customer tools, and resources to help customers succeed.</p>
  <a class="button" href="{{.supportURL}}" target="_blank" rel="noopener">Create Single Customer Incident Ticket</a>
</div>`, plugin.Props{"supportURL": SupportURL})

	// AgentDropDown is the header menu of the signed-in agent. It renders
	// nothing when the request carries no agent.
	AgentDropDown = mustTemplate("AgentDropDown", `{{with .agent}}<div class="agent-dropdown">
  <button class="agent-dropdown-button" aria-haspopup="true"><span class="agent-name">{{.}}</span></button>
  <div class="agent-dropdown-menu">
    <a href="/preferences" class="dropdown-item">Preferences</a>
    <a href="/logout" class="dropdown-item logout-item">Sign Out</a>
  </div>
</div>{{end}}`, nil)
)

func init() {
	for _, m := range Manifests() {
		plugin.Register(m)
	}
}

// Manifests returns fresh copies of the built-in manifests.
func Manifests() []*plugin.Manifest {
	return []*plugin.Manifest{
		{
			Name:   "Support",
			Slots:  map[string]plugin.SlotContribution{"shell-sidebar-footer": plugin.SlotSingle(Support)},
			Source: Source,
		},
		{
			Name:   "AgentDropDown",
			Slots:  map[string]plugin.SlotContribution{"shell-main-header-right": plugin.SlotSingle(AgentDropDown)},
			Source: Source,
		},
	}
}

// Catalog returns the built-in components by name, for manifests that
// reference them with {builtin: Name}.
func Catalog() manifest.Catalog {
	return manifest.Catalog{
		"Support":       Support,
		"AgentDropDown": AgentDropDown,
	}
}
