package seed

// Fixture is the YAML seed document. Courses are created first, then
// organizations with their groups and course links, then subscribers with
// their subscriptions.
type Fixture struct {
	Courses       []CourseDef       `yaml:"courses"`
	Organizations []OrganizationDef `yaml:"organizations"`
	Subscribers   []SubscriberDef   `yaml:"subscribers"`
}

type CourseDef struct {
	Name         string `yaml:"name"`
	Price        *int64 `yaml:"price"`
	DurationDays *int64 `yaml:"duration_days"`
}

type OrganizationDef struct {
	Name   string   `yaml:"name"`
	Groups []string `yaml:"groups"`
	// Courses are course names, linked to the organization.
	Courses []string `yaml:"courses"`
}

type SubscriberDef struct {
	Email           string            `yaml:"email"`
	FullName        *string           `yaml:"full_name"`
	FirstName       *string           `yaml:"first_name"`
	LastName        *string           `yaml:"last_name"`
	Phone           *string           `yaml:"phone"`
	Plan            *string           `yaml:"plan"`
	Type            *string           `yaml:"type"`
	Group           *string           `yaml:"group"`
	GithubUser      *string           `yaml:"github_user"`
	CustomerIDSumit *int64            `yaml:"customer_id_sumit"`
	PaymentDetails  *string           `yaml:"payment_details"`
	StartDate       string            `yaml:"start_date"`
	EndDate         string            `yaml:"end_date"`
	Subscriptions   []SubscriptionDef `yaml:"subscriptions"`
}

// SubscriptionDef places the subscriber in Group of Organization when both
// are set.
type SubscriptionDef struct {
	Course       string `yaml:"course"`
	Organization string `yaml:"organization"`
	Group        string `yaml:"group"`
	StartDate    string `yaml:"start_date"`
	EndDate      string `yaml:"end_date"`
}

// Summary counts what a run created and what it found already present.
type Summary struct {
	Created  Counts
	Existing Counts
}

type Counts struct {
	Courses       int
	Organizations int
	Groups        int
	CourseLinks   int
	Subscribers   int
	Subscriptions int
}
