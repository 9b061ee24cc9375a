// Package policy is a simple role based access control system guarding
// which action names a transport client may call, adapted from mb0-daql's
// pol package: same role/allow/deny/group shape, with "action" narrowed
// from daql's domain actions to the transport's "merge" and "eval"
// requests. Individual dataset or collection names are not gated.
package policy

import "github.com/pkg/errors"

// Policy allows a user to call an action name, or returns an error.
type Policy interface {
	Allow(user, name string) error
}

// Rules implements a role based policy over action names.
type Rules struct{ roles map[string]*role }

// NewPolicy returns an empty rule set.
func NewPolicy() *Rules { return &Rules{roles: make(map[string]*role)} }

// AddRole registers role with a default allow (def=true) or deny
// (def=false) posture for names with no explicit allow/deny entry.
func (p *Rules) AddRole(name string, def bool) *Rules {
	p.role(name).def = def
	return p
}

// AddMember makes role inherit group's allow/deny lists.
func (p *Rules) AddMember(role, group string) *Rules {
	s := p.role(role)
	s.roles = append(s.roles, p.role(group))
	return p
}

// Allow grants role access to the action name.
func (p *Rules) Allow(role, name string) *Rules {
	s := p.role(role)
	s.allow = append(s.allow, name)
	return p
}

// Deny revokes role's access to name, overriding any inherited allow.
func (p *Rules) Deny(role, name string) *Rules {
	s := p.role(role)
	s.deny = append(s.deny, name)
	return p
}

// Police reports whether user may call the action name.
func (p *Rules) Police(user, name string) error {
	s := p.roles[user]
	if s == nil {
		return errors.Errorf("subject %q is unknown", user)
	}
	if !s.def && !s.allowed(name) {
		return errors.Errorf("subject %q is not allowed %q", user, name)
	}
	if s.denied(name) {
		return errors.Errorf("subject %q is denied %q", user, name)
	}
	return nil
}

func (p *Rules) role(sub string) (s *role) {
	if s = p.roles[sub]; s == nil {
		s = &role{name: sub}
		p.roles[sub] = s
	}
	return s
}

type role struct {
	name  string
	def   bool
	allow []string
	deny  []string
	roles []*role
}

func (s *role) allowed(name string) bool {
	for _, a := range s.allow {
		if name == a {
			return true
		}
	}
	for _, r := range s.roles {
		if r.allowed(name) {
			return true
		}
	}
	return false
}

func (s *role) denied(name string) bool {
	for _, a := range s.deny {
		if name == a {
			return true
		}
	}
	for _, r := range s.roles {
		if r.denied(name) {
			return true
		}
	}
	return false
}
