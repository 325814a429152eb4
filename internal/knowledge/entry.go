// Package knowledge holds the hand-authored knowledge base: entries
// grouped by category, loaded once at startup from a JSON document and
// hot-reloadable as a whole snapshot.
package knowledge

// Category tags the kind of knowledge an entry carries. It determines
// which optional fields are meaningful.
type Category string

// Known categories, in canonical iteration order. Retrieval walks
// categories in this order, which makes tie-breaking by store order
// deterministic across runs.
const (
	CategoryPolicy          Category = "policy"
	CategoryMaterials       Category = "materials_requirements"
	CategoryProcedure       Category = "procedure"
	CategoryContacts        Category = "contacts"
	CategoryCommonQuestions Category = "common_questions"
	CategorySpecialCases    Category = "special_cases"
	CategoryHospitals       Category = "hospitals"
	CategoryGreetings       Category = "greetings"
)

// CanonicalCategories lists the known categories in iteration order.
// Categories not listed here (hand-authored additions) are appended
// after these, sorted by name.
var CanonicalCategories = []Category{
	CategoryPolicy,
	CategoryMaterials,
	CategoryProcedure,
	CategoryContacts,
	CategoryCommonQuestions,
	CategorySpecialCases,
	CategoryHospitals,
	CategoryGreetings,
}

// ChineseName returns the display name of a category.
func (c Category) ChineseName() string {
	switch c {
	case CategoryPolicy:
		return "报销政策"
	case CategoryMaterials:
		return "材料要求"
	case CategoryProcedure:
		return "报销流程"
	case CategoryContacts:
		return "联系人信息"
	case CategoryCommonQuestions:
		return "常见问题"
	case CategorySpecialCases:
		return "特殊情况"
	case CategoryHospitals:
		return "医院信息"
	case CategoryGreetings:
		return "问候回复"
	default:
		return string(c)
	}
}

// Scenario is one scripted greeting exchange.
type Scenario struct {
	Input    string `json:"input"`
	Response string `json:"response"`
}

// Entry is one retrievable unit of knowledge. Title, Content and Tags
// are the primary match targets; the remaining fields are only
// meaningful for some categories and stay empty elsewhere.
type Entry struct {
	ID       string   `json:"id"`
	Category Category `json:"-"` // assigned from the enclosing group on load
	Title    string   `json:"title,omitempty"`
	Content  string   `json:"content,omitempty"`
	Tags     []string `json:"tags,omitempty"`

	// FAQ entries
	Question string `json:"question,omitempty"`
	Answer   string `json:"answer,omitempty"`

	// Contact entries
	Name           string `json:"name,omitempty"`
	Dept           string `json:"dept,omitempty"`
	Role           string `json:"role,omitempty"`
	OfficeLocation string `json:"office_location,omitempty"`
	Contact        string `json:"contact,omitempty"`

	// Hospital entries (Name is shared with contacts)
	Address             string `json:"address,omitempty"`
	Phone               string `json:"phone,omitempty"`
	ServiceHours        string `json:"service_hours,omitempty"`
	ComplaintPhone      string `json:"complaint_phone,omitempty"`
	AppointmentChannels string `json:"appointment_channels,omitempty"`
	ContractStatus      string `json:"contract_status,omitempty"`

	// Materials entries
	Checklist []string `json:"checklist,omitempty"`

	// Policy entries
	Ratio string `json:"ratio,omitempty"`
	Notes string `json:"notes,omitempty"`

	// Special-case entries carry a single scenario description;
	// greeting entries carry scripted exchanges.
	Scenario  string     `json:"scenario,omitempty"`
	Scenarios []Scenario `json:"scenarios,omitempty"`

	// Metadata is an open key-value bag (priority, effective date).
	// Not used in scoring.
	Metadata map[string]any `json:"metadata,omitempty"`
}

// PhoneNumber returns the best phone-like field for display:
// the explicit phone for hospitals, the contact field otherwise.
func (e *Entry) PhoneNumber() string {
	if e.Phone != "" {
		return e.Phone
	}
	return e.Contact
}

// Priority returns the metadata priority string, if any.
func (e *Entry) Priority() string {
	if e.Metadata == nil {
		return ""
	}
	if p, ok := e.Metadata["priority"].(string); ok {
		return p
	}
	return ""
}
