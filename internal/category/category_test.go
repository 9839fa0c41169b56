package category

import "testing"

func TestRegistryLookup(t *testing.T) {
	r := NewRegistry(Defaults([]string{"role-1"}))

	cat, ok := r.Lookup("compra")
	if !ok || cat.ID != "compra" {
		t.Fatalf("Lookup(compra) = %+v, %v", cat, ok)
	}
	if len(cat.StaffRoleIDs) != 1 || cat.StaffRoleIDs[0] != "role-1" {
		t.Fatalf("staff roles = %v", cat.StaffRoleIDs)
	}
	if _, ok := r.Lookup("inexistente"); ok {
		t.Fatal("unknown id must not resolve")
	}
}

func TestAllPreservesDeclarationOrder(t *testing.T) {
	r := NewRegistry(Defaults(nil))
	all := r.All()
	if len(all) != 2 || all[0].ID != "compra" || all[1].ID != "suporte" {
		t.Fatalf("All() = %+v", all)
	}
}

func TestDefaultsSchemas(t *testing.T) {
	for _, cat := range Defaults(nil) {
		if cat.ChannelPrefix == "" {
			t.Errorf("category %q has no channel prefix", cat.ID)
		}
		if len(cat.Form) == 0 {
			t.Errorf("category %q has an empty form", cat.ID)
		}
		for _, f := range cat.Form {
			if f.ID == "" || f.Label == "" {
				t.Errorf("category %q field %+v missing id or label", cat.ID, f)
			}
		}
	}
}
