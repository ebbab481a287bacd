package authz

import "fmt"

// RoleSeed is a predefined role definition.
type RoleSeed struct {
	Role      string
	Inherits  []string
	Policies  []Policy
	Immutable bool
}

// BuiltinRoleSeeds returns the built-in role matrix.
func BuiltinRoleSeeds() []RoleSeed {
	return []RoleSeed{
		{
			Role: "readonly_auditor",
			Policies: []Policy{
				{Object: "/admin/*", Action: "GET"},
			},
			Immutable: true,
		},
		{
			Role:     "catalog_ops",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/offers", Action: "*"},
				{Object: "/admin/offers/:id", Action: "*"},
				{Object: "/admin/categories", Action: "*"},
				{Object: "/admin/categories/:id", Action: "*"},
				{Object: "/admin/cases", Action: "*"},
				{Object: "/admin/cases/:id", Action: "*"},
				{Object: "/admin/reviews", Action: "GET"},
			},
			Immutable: true,
		},
		{
			Role:     "curation_analyst",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/partners", Action: "*"},
				{Object: "/admin/partners/:id", Action: "*"},
				{Object: "/admin/partners/:id/curation", Action: "*"},
				{Object: "/admin/partners/:id/tier", Action: "*"},
				{Object: "/admin/partners/cnpj-lookup", Action: "GET"},
			},
			Immutable: true,
		},
		{
			Role:     "sales_ops",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/referrals", Action: "GET"},
				{Object: "/admin/referrals", Action: "POST"},
				{Object: "/admin/referrals/:id", Action: "GET"},
				{Object: "/admin/referrals/:id/status", Action: "PATCH"},
				{Object: "/admin/leads", Action: "GET"},
				{Object: "/admin/leads/:id", Action: "GET"},
				{Object: "/admin/leads/:id/convert", Action: "POST"},
				{Object: "/admin/leads/:id/discard", Action: "POST"},
			},
			Immutable: true,
		},
		{
			Role:     "finance",
			Inherits: []string{"readonly_auditor"},
			Policies: []Policy{
				{Object: "/admin/reports/summary", Action: "GET"},
				{Object: "/admin/reports/by-category", Action: "GET"},
				{Object: "/admin/reports/aging", Action: "GET"},
				{Object: "/admin/reports/monthly", Action: "GET"},
				{Object: "/admin/reports/by-partner", Action: "GET"},
				{Object: "/admin/reports/export", Action: "GET"},
				{Object: "/admin/contracts", Action: "GET"},
				{Object: "/admin/contracts/:id", Action: "GET"},
				{Object: "/admin/contracts/:id/review", Action: "POST"},
			},
			Immutable: true,
		},
	}
}

// BootstrapBuiltinRoles creates the built-in roles and their default
// policies when missing.
func (s *Service) BootstrapBuiltinRoles() error {
	if s == nil || s.enforcer == nil {
		return fmt.Errorf("authz service unavailable")
	}

	changed := false
	for _, seed := range BuiltinRoleSeeds() {
		role, err := NormalizeRole(seed.Role)
		if err != nil {
			return err
		}

		exists, err := s.enforcer.HasNamedGroupingPolicy("g", role, roleAnchor)
		if err != nil {
			return fmt.Errorf("check builtin role failed: %w", err)
		}
		if !exists {
			added, err := s.enforcer.AddNamedGroupingPolicy("g", role, roleAnchor)
			if err != nil {
				return fmt.Errorf("create builtin role failed: %w", err)
			}
			if added {
				changed = true
			}
		}

		for _, parent := range seed.Inherits {
			parentRole, err := NormalizeRole(parent)
			if err != nil {
				return err
			}
			added, err := s.enforcer.AddNamedGroupingPolicy("g", role, parentRole)
			if err != nil {
				return fmt.Errorf("link role inheritance failed: %w", err)
			}
			if added {
				changed = true
			}
		}

		for _, policy := range seed.Policies {
			action := NormalizeAction(policy.Action)
			if action == "" {
				return fmt.Errorf("builtin policy action is required")
			}
			added, err := s.enforcer.AddPolicy(role, NormalizeObject(policy.Object), action)
			if err != nil {
				return fmt.Errorf("add builtin policy failed: %w", err)
			}
			if added {
				changed = true
			}
		}
	}

	if changed {
		return s.saveAndReload()
	}
	return nil
}
