package engine

// Projection is the per-field view spread onto a control. Mode tags which
// value slot is meaningful: DefaultValue for uncontrolled projections, Value
// for controlled ones.
type Projection struct {
	Mode         Mode
	ID           string
	Name         string
	Label        string
	Error        string
	DefaultValue any
	Value        any
}

// Attrs returns the attribute set for the projection's mode, using the keys
// rendering layers expect.
func (p Projection) Attrs() map[string]any {
	attrs := map[string]any{
		"id":    p.ID,
		"name":  p.Name,
		"label": p.Label,
		"error": p.Error,
	}
	if p.Mode == ModeControlled {
		attrs["value"] = p.Value
	} else {
		attrs["defaultValue"] = p.DefaultValue
	}
	return attrs
}
