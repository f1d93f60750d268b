package models

// ActorRole is the respondent category: it selects both the question set and
// the email list that apply.
type ActorRole string

const (
	RoleStudent ActorRole = "student"
	RoleTutor   ActorRole = "tutor"
	RoleBoss    ActorRole = "boss"
	RoleMonitor ActorRole = "monitor"
)

// User is the authenticated administrator identity.
type User struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// ReferenceItem is a row from the academics reference endpoints. The backend
// is inconsistent about the display field, so the label is whichever of
// name/value/period/code is populated.
type ReferenceItem struct {
	ID     int64  `json:"id"`
	Name   string `json:"name,omitempty"`
	Value  string `json:"value,omitempty"`
	Period string `json:"period,omitempty"`
	Code   string `json:"code,omitempty"`
}

func (r ReferenceItem) Label() string {
	for _, s := range []string{r.Name, r.Value, r.Period, r.Code} {
		if s != "" {
			return s
		}
	}
	return ""
}
