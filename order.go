package mdx

import "strings"

// Order is a sort direction for ORDER and TM1SORT.
type Order string

const (
	OrderAsc   Order = "ASC"
	OrderDesc  Order = "DESC"
	OrderBasc  Order = "BASC"
	OrderBdesc Order = "BDESC"
)

// ParseOrder converts a textual sort direction to an Order. Matching is
// case-insensitive and ignores spaces.
func ParseOrder(s string) (Order, error) {
	normalized := strings.ToUpper(strings.ReplaceAll(s, " ", ""))
	switch o := Order(normalized); o {
	case OrderAsc, OrderDesc, OrderBasc, OrderBdesc:
		return o, nil
	}
	return "", newConstructionError("ParseOrder", ErrCodeInvalidOrder,
		"invalid sort direction %q, want one of ASC, DESC, BASC, BDESC", s)
}

// String returns the MDX spelling of the direction.
func (o Order) String() string {
	return string(o)
}

func (o Order) valid() bool {
	switch o {
	case OrderAsc, OrderDesc, OrderBasc, OrderBdesc:
		return true
	}
	return false
}

// ElementType is a TM1 element type as exposed by the ELEMENT_TYPE
// member property.
type ElementType int

const (
	ElementTypeNumeric      ElementType = 1
	ElementTypeString       ElementType = 2
	ElementTypeConsolidated ElementType = 3
)

// ParseElementType converts a textual element type to an ElementType.
// Matching is case-insensitive and ignores spaces.
func ParseElementType(s string) (ElementType, error) {
	switch strings.ToUpper(strings.ReplaceAll(s, " ", "")) {
	case "NUMERIC":
		return ElementTypeNumeric, nil
	case "STRING":
		return ElementTypeString, nil
	case "CONSOLIDATED":
		return ElementTypeConsolidated, nil
	}
	return 0, newConstructionError("ParseElementType", ErrCodeInvalidElementType,
		"invalid element type %q, want NUMERIC, STRING or CONSOLIDATED", s)
}

// String returns the element type name.
func (t ElementType) String() string {
	switch t {
	case ElementTypeNumeric:
		return "NUMERIC"
	case ElementTypeString:
		return "STRING"
	case ElementTypeConsolidated:
		return "CONSOLIDATED"
	}
	return "UNKNOWN"
}

// propertyValue returns the literal TM1 stores in ELEMENT_TYPE, which is
// the numeric code as a string.
func (t ElementType) propertyValue() string {
	switch t {
	case ElementTypeNumeric:
		return "1"
	case ElementTypeString:
		return "2"
	case ElementTypeConsolidated:
		return "3"
	}
	return "0"
}

func (t ElementType) valid() bool {
	switch t {
	case ElementTypeNumeric, ElementTypeString, ElementTypeConsolidated:
		return true
	}
	return false
}
