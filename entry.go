package gitconfig

// ConfigEntry is one key/value pair as stored in one scope.
//
// In a merged view OverriddenBy names the scope whose value superseded this
// entry. It is nil for effective values and for plain single scope reads.
type ConfigEntry struct {
	Key          string `json:"key"                     yaml:"key"`
	Value        string `json:"value"                   yaml:"value"`
	Scope        Scope  `json:"scope"                   yaml:"scope"`
	OverriddenBy *Scope `json:"overridden_by,omitempty" yaml:"overridden_by,omitempty"`
}

// IsOverridden returns true if a higher precedence scope supersedes this entry.
func (e ConfigEntry) IsOverridden() bool {
	return e.OverriddenBy != nil
}

// supersededBy returns a copy of the entry marked as overridden by s.
func (e ConfigEntry) supersededBy(s Scope) ConfigEntry {
	by := s
	e.OverriddenBy = &by

	return e
}
