package models

// Contact is a directed alias: when OwnerID says Alias, they mean TargetID.
// (OwnerID, Alias) is unique.
type Contact struct {
	// OwnerID is the party who uses the alias.
	OwnerID string

	// Alias is the lower-cased name the owner uses.
	Alias string

	// TargetID is the party the alias refers to.
	TargetID string
}

// NewContactPair returns the two reciprocal contacts created when owner adds
// target: owner knows target as targetName, target knows owner as ownerName.
func NewContactPair(owner, target *Party, targetName string) (Contact, Contact) {
	forward := Contact{
		OwnerID:  owner.ID,
		Alias:    NormalizeName(targetName),
		TargetID: target.ID,
	}
	reverse := Contact{
		OwnerID:  target.ID,
		Alias:    NormalizeName(owner.Name),
		TargetID: owner.ID,
	}
	return forward, reverse
}
