package reconcile

// ClassifyTier decides the credential tier for a membership set: elevated
// when any entry is an exact, case-sensitive match of a configured
// elevated group name. Matching is whole-token on purpose — a group named
// "Administratorship" must not elevate via substring containment.
func ClassifyTier(memberOf, elevatedGroups []string) CredentialTier {
	for _, group := range memberOf {
		for _, elevated := range elevatedGroups {
			if group == elevated {
				return TierElevated
			}
		}
	}
	return TierStandard
}
