package symbols

// Default glyph pools for each mapping category. The number and operator
// pools intentionally share some glyphs; uniqueness across categories is
// enforced per mapper instance through the used-glyph set, not by the pools.

var defaultNumberPool = []string{
	"∰", "∴", "∵", "∃", "∀", "∈", "∉", "⊂", "⊃", "⊆",
	"⊇", "⊕", "⊗", "⊙", "⊚", "⊛", "⊝", "⊞", "⊟", "⊠",
}

var defaultOperatorPool = []string{
	"⊕", "⊖", "⊗", "⊘", "⊙", "⊚", "⊛", "⊜", "⊝", "⊞",
	"∗", "∘", "∙", "√", "∛", "∜", "⨁", "⨂", "⨀", "⊎",
}

var defaultRelationPool = []string{
	"≜", "≝", "≞", "≟", "≠", "≡", "≢", "≣", "≤", "≥",
	"≦", "≧", "≨", "≩", "⊏", "⊐", "⊑", "⊒", "⋖", "⋗",
}

var defaultVariablePool = []string{
	"α", "β", "γ", "δ", "ε", "ζ", "η", "θ", "ι", "κ",
	"λ", "μ", "ν", "ξ", "π", "ρ", "σ", "τ", "υ", "φ",
	"χ", "ψ", "ω", "Γ", "Δ", "Θ", "Λ", "Ξ", "Π", "Σ",
}

// NumberPool returns a copy of the default number glyph pool
func NumberPool() []string {
	return append([]string(nil), defaultNumberPool...)
}

// OperatorPool returns a copy of the default operator glyph pool
func OperatorPool() []string {
	return append([]string(nil), defaultOperatorPool...)
}

// RelationPool returns a copy of the default relation glyph pool
func RelationPool() []string {
	return append([]string(nil), defaultRelationPool...)
}

// VariablePool returns a copy of the default variable glyph pool
func VariablePool() []string {
	return append([]string(nil), defaultVariablePool...)
}
