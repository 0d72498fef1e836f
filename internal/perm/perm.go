// Package perm models the actor roles and the capability set each role
// grants. Permission checks are a single pure function of role, actor and
// resource owner, evaluated once per request instead of ad hoc per
// component.
package perm

import "fmt"

// Role is the actor's role as supplied by the authentication layer.
type Role string

const (
	RoleViewer Role = "viewer"
	RolePlayer Role = "player"
	RoleWriter Role = "writer"
	RoleAdmin  Role = "admin"
)

// ParseRole validates a role string.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleViewer, RolePlayer, RoleWriter, RoleAdmin:
		return Role(s), nil
	}
	return "", fmt.Errorf("invalid role %q", s)
}

// Actor is an authenticated identity.
type Actor struct {
	ID   string
	Role Role
}

// Capability is a single permitted operation class.
type Capability uint16

const (
	CapEditPages Capability = 1 << iota
	CapDeletePages
	CapManageOrphans
	CapTagKeywords
	CapViewOwnDrafts
	CapViewAllDrafts
	CapRollbackOwn
	CapRollbackAny
)

// CapSet is a set of capabilities.
type CapSet uint16

// Has reports whether the set contains c.
func (s CapSet) Has(c Capability) bool { return uint16(s)&uint16(c) != 0 }

func (s CapSet) with(c Capability) CapSet { return CapSet(uint16(s) | uint16(c)) }

// Allowed returns the capability set for role acting on a resource owned
// by ownerID. Ownership-scoped capabilities are only included when
// actorID matches ownerID.
func Allowed(role Role, actorID, ownerID string) CapSet {
	var s CapSet
	switch role {
	case RoleAdmin:
		s = s.with(CapEditPages).with(CapDeletePages).with(CapManageOrphans).
			with(CapTagKeywords).with(CapViewAllDrafts).with(CapViewOwnDrafts).
			with(CapRollbackAny).with(CapRollbackOwn)
	case RoleWriter:
		s = s.with(CapEditPages).with(CapDeletePages).with(CapManageOrphans).
			with(CapTagKeywords)
		if actorID != "" && actorID == ownerID {
			s = s.with(CapViewOwnDrafts).with(CapRollbackOwn)
		}
	}
	return s
}

// CanSeeDraft reports whether the actor may see a draft created by
// creatorID.
func CanSeeDraft(actor Actor, creatorID string) bool {
	caps := Allowed(actor.Role, actor.ID, creatorID)
	return caps.Has(CapViewAllDrafts) || caps.Has(CapViewOwnDrafts)
}

// CanRollback reports whether the actor may roll back a page created by
// creatorID.
func CanRollback(actor Actor, creatorID string) bool {
	caps := Allowed(actor.Role, actor.ID, creatorID)
	return caps.Has(CapRollbackAny) || caps.Has(CapRollbackOwn)
}
