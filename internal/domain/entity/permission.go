package entity

import "sort"

// Códigos de permisos asignables a miembros del equipo de un dealer.
const (
	PermCatalogView     = "catalog.view"
	PermInventoryManage = "inventory.manage"
	PermPOSSell         = "pos.sell"
	PermPOSVoid         = "pos.void"
	PermJobCardsManage  = "jobcards.manage"
	PermOrdersFulfill   = "orders.fulfill"
	PermReportsView     = "reports.view"
	PermSettingsManage  = "settings.manage"
	PermTeamManage      = "team.manage"
)

// Permission entrada del catálogo de permisos.
type Permission struct {
	Code  string
	Name  string
	Group string
}

// DiffCodes compara el conjunto actual con el deseado y devuelve los códigos a otorgar y a revocar,
// ordenados y sin duplicados.
func DiffCodes(current, desired []string) (added, removed []string) {
	cur := make(map[string]bool, len(current))
	for _, c := range current {
		cur[c] = true
	}
	want := make(map[string]bool, len(desired))
	for _, c := range desired {
		want[c] = true
	}
	for c := range want {
		if !cur[c] {
			added = append(added, c)
		}
	}
	for c := range cur {
		if !want[c] {
			removed = append(removed, c)
		}
	}
	sort.Strings(added)
	sort.Strings(removed)
	return added, removed
}
