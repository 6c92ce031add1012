package components

// String returns the display name for a Kind.
func (k Kind) String() string {
	names := KindNames()
	if int(k) < len(names) {
		return names[k]
	}
	return "Unknown"
}

// KindNames returns the display names for all bubble kinds.
// The order matches the Kind constants.
func KindNames() []string {
	return []string{"ball", "hexagon"}
}

// String returns the display name for a BonusType.
func (b BonusType) String() string {
	names := BonusTypeNames()
	if int(b) < len(names) {
		return names[b]
	}
	return "Unknown"
}

// BonusTypeNames returns the display names for all bonus types.
// The order matches the BonusType constants.
func BonusTypeNames() []string {
	return []string{"life", "time"}
}
