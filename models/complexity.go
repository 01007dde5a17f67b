package models

// ComplexityLevel selects the verbosity and register of generated answers
type ComplexityLevel string

const (
	ComplexitySimple       ComplexityLevel = "simple"
	ComplexityIntermediate ComplexityLevel = "intermediate"
	ComplexityDetailed     ComplexityLevel = "detailed"
	ComplexityTechnical    ComplexityLevel = "technical"
)

// Valid reports whether the level is one of the four defined tiers
func (c ComplexityLevel) Valid() bool {
	switch c {
	case ComplexitySimple, ComplexityIntermediate, ComplexityDetailed, ComplexityTechnical:
		return true
	}
	return false
}
