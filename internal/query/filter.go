package query

import (
	"strings"

	"github.com/edvin/mabruk/internal/model"
)

// Filters are AND-ed. Blank strings and nil ids mean "no constraint".
// Substring matches ignore case; exact matches compare trimmed input.

type OrganizationFilter struct {
	Search string
}

func (f OrganizationFilter) Match(o *model.Organization) bool {
	return containsFold(o.Name, f.Search)
}

func (f OrganizationFilter) Apply(w *Where) {
	if s := strings.TrimSpace(f.Search); s != "" {
		w.And("name ILIKE " + w.Arg(ContainsPattern(s)))
	}
}

type GroupFilter struct {
	OrganizationID *int64
	Search         string
}

func (f GroupFilter) Match(g *model.Group) bool {
	if f.OrganizationID != nil && g.OrganizationID != *f.OrganizationID {
		return false
	}
	return containsFold(g.Name, f.Search)
}

func (f GroupFilter) Apply(w *Where) {
	if f.OrganizationID != nil {
		w.And("organization_id = " + w.Arg(*f.OrganizationID))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		w.And("name ILIKE " + w.Arg(ContainsPattern(s)))
	}
}

type CourseFilter struct {
	Search string
}

func (f CourseFilter) Match(c *model.Course) bool {
	return containsFold(c.Name, f.Search)
}

func (f CourseFilter) Apply(w *Where) {
	if s := strings.TrimSpace(f.Search); s != "" {
		w.And("name ILIKE " + w.Arg(ContainsPattern(s)))
	}
}

// SubscriberFilter matches Email after normalizing it the way it is stored.
// Search matches full, first or last name.
type SubscriberFilter struct {
	Email  string
	Plan   string
	Type   string
	Group  string
	Search string
}

// NormalizeEmail is the canonical stored form of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (f SubscriberFilter) Match(s *model.Subscriber) bool {
	if e := NormalizeEmail(f.Email); e != "" && s.Email != e {
		return false
	}
	if !equalOptional(s.Plan, f.Plan) || !equalOptional(s.Type, f.Type) || !equalOptional(s.Group, f.Group) {
		return false
	}
	if strings.TrimSpace(f.Search) == "" {
		return true
	}
	return containsFoldOptional(s.FullName, f.Search) ||
		containsFoldOptional(s.FirstName, f.Search) ||
		containsFoldOptional(s.LastName, f.Search)
}

func (f SubscriberFilter) Apply(w *Where) {
	if e := NormalizeEmail(f.Email); e != "" {
		w.And("email = " + w.Arg(e))
	}
	if v := strings.TrimSpace(f.Plan); v != "" {
		w.And("plan = " + w.Arg(v))
	}
	if v := strings.TrimSpace(f.Type); v != "" {
		w.And("type = " + w.Arg(v))
	}
	if v := strings.TrimSpace(f.Group); v != "" {
		w.And(`"group" = ` + w.Arg(v))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		p := w.Arg(ContainsPattern(s))
		w.And("(full_name ILIKE " + p + " OR first_name ILIKE " + p + " OR last_name ILIKE " + p + ")")
	}
}

type SubscriptionFilter struct {
	SubscriberID *int64
	GroupID      *int64
	Course       string
}

func (f SubscriptionFilter) Match(s *model.Subscription) bool {
	if f.SubscriberID != nil && s.SubscriberID != *f.SubscriberID {
		return false
	}
	if f.GroupID != nil && (s.GroupID == nil || *s.GroupID != *f.GroupID) {
		return false
	}
	return containsFold(s.Course, f.Course)
}

func (f SubscriptionFilter) Apply(w *Where) {
	if f.SubscriberID != nil {
		w.And("subscriber_id = " + w.Arg(*f.SubscriberID))
	}
	if f.GroupID != nil {
		w.And("group_id = " + w.Arg(*f.GroupID))
	}
	if s := strings.TrimSpace(f.Course); s != "" {
		w.And("course ILIKE " + w.Arg(ContainsPattern(s)))
	}
}

// containsFold reports whether needle (trimmed) occurs in haystack ignoring
// case. A blank needle always matches.
func containsFold(haystack, needle string) bool {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// containsFoldOptional is containsFold where a missing value never matches.
func containsFoldOptional(haystack *string, needle string) bool {
	if haystack == nil {
		return false
	}
	return containsFold(*haystack, needle)
}

func equalOptional(v *string, want string) bool {
	want = strings.TrimSpace(want)
	if want == "" {
		return true
	}
	return v != nil && *v == want
}
