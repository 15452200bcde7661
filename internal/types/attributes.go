package types

// AttributeRecord holds the attributes extracted from a profile page description.
// A nil field means no pattern matched (or the page could not be scraped).
type AttributeRecord struct {
	Description   *string `json:"description,omitempty"`
	Founders      *string `json:"founders,omitempty"`
	FoundedYear   *string `json:"foundedYear,omitempty"`
	EmployeeCount *string `json:"employeeCount,omitempty"`
	Location      *string `json:"location,omitempty"`
	Hiring        *string `json:"hiring,omitempty"`
}

// IsEmpty reports whether every field is absent.
func (r AttributeRecord) IsEmpty() bool {
	return r.Description == nil &&
		r.Founders == nil &&
		r.FoundedYear == nil &&
		r.EmployeeCount == nil &&
		r.Location == nil &&
		r.Hiring == nil
}

// OutputRecord is one element of the output collection: the target name
// followed by the flattened attribute fields. Field order defines the JSON key order.
type OutputRecord struct {
	Name          string  `json:"name"`
	Founders      *string `json:"founders,omitempty"`
	FoundedYear   *string `json:"foundedYear,omitempty"`
	EmployeeCount *string `json:"employeeCount,omitempty"`
	Location      *string `json:"location,omitempty"`
	Hiring        *string `json:"hiring,omitempty"`
	Description   *string `json:"description,omitempty"`
}

// NewOutputRecord merges a target name with its scraped attributes.
func NewOutputRecord(name string, attrs AttributeRecord) OutputRecord {
	return OutputRecord{
		Name:          name,
		Founders:      attrs.Founders,
		FoundedYear:   attrs.FoundedYear,
		EmployeeCount: attrs.EmployeeCount,
		Location:      attrs.Location,
		Hiring:        attrs.Hiring,
		Description:   attrs.Description,
	}
}

// Attributes returns the attribute fields of the record.
func (r OutputRecord) Attributes() AttributeRecord {
	return AttributeRecord{
		Description:   r.Description,
		Founders:      r.Founders,
		FoundedYear:   r.FoundedYear,
		EmployeeCount: r.EmployeeCount,
		Location:      r.Location,
		Hiring:        r.Hiring,
	}
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// Deref returns the pointed-to string, or "" for nil.
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
