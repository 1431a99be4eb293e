package diettype

import "strings"

type DietType struct {
	Name string
}

func (d DietType) Code() string {
	return d.Name
}

func (d DietType) Label() string {
	parts := strings.Split(d.Name, "-")
	for i := range parts {
		if len(parts[i]) > 0 {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, " ")
}

type Enum struct {
	Veg    DietType
	NonVeg DietType
}

var Types = Enum{
	Veg:    DietType{Name: "veg"},
	NonVeg: DietType{Name: "non-veg"},
}

var All = []DietType{
	Types.Veg,
	Types.NonVeg,
}

// ByName returns the diet type for a given name, or nil if not found
func ByName(name string) *DietType {
	for _, d := range All {
		if d.Name == name {
			return &d
		}
	}
	return nil
}
