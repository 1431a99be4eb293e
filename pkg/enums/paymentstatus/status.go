package paymentstatus

import "strings"

type Status struct {
	Name string
}

func (s Status) Code() string {
	return s.Name
}

func (s Status) Label() string {
	if len(s.Name) == 0 {
		return ""
	}
	return strings.ToUpper(s.Name[:1]) + s.Name[1:]
}

type Enum struct {
	Pending Status
	Paid    Status
}

var Statuses = Enum{
	Pending: Status{Name: "pending"},
	Paid:    Status{Name: "paid"},
}

var All = []Status{
	Statuses.Pending,
	Statuses.Paid,
}

// ByName returns the status for a given name, or nil if not found
func ByName(name string) *Status {
	for _, s := range All {
		if s.Name == name {
			return &s
		}
	}
	return nil
}
