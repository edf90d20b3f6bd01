package mdx

// DimensionProperty names a member property requested on an axis via
// DIMENSION PROPERTIES.
type DimensionProperty struct {
	dimension string
	hierarchy string
	property  string
}

// NewDimensionProperty references a property of a dimension's
// same-named hierarchy.
func NewDimensionProperty(dimension, property string) DimensionProperty {
	return NewDimensionPropertyWithHierarchy(dimension, dimension, property)
}

// NewDimensionPropertyWithHierarchy references a property of an
// alternate hierarchy.
func NewDimensionPropertyWithHierarchy(dimension, hierarchy, property string) DimensionProperty {
	return DimensionProperty{dimension: dimension, hierarchy: hierarchy, property: property}
}

// MemberNameProperty is the intrinsic MEMBER_NAME property, which
// renders bare without a hierarchy prefix.
func MemberNameProperty() DimensionProperty {
	return DimensionProperty{property: "MEMBER_NAME"}
}

// Dimension returns the dimension name, or "" for an intrinsic property.
func (p DimensionProperty) Dimension() string {
	return p.dimension
}

// Property returns the property name as given at construction.
func (p DimensionProperty) Property() string {
	return p.property
}

func (p DimensionProperty) render() string {
	if p.dimension == "" || normalizeName(p.property) == "MEMBER_NAME" {
		return normalizeName(p.property)
	}
	return hierarchyRef(p.dimension, p.hierarchy) + "." + bracket(p.property)
}
