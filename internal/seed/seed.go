// Package seed loads YAML fixtures into the store through the core
// services, so every seeded row passes the same checks as an API write.
// Re-running a fixture reuses what already exists.
package seed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/edvin/mabruk/internal/core"
	"github.com/edvin/mabruk/internal/model"
	"github.com/edvin/mabruk/internal/query"
)

// subscriberWorkers bounds concurrent subscriber creation.
const subscriberWorkers = 4

// LoadFile reads and parses a fixture file.
func LoadFile(path string) (*Fixture, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read fixture: %w", err)
	}
	return Parse(bytes.NewReader(data))
}

// Parse decodes a fixture. Unknown keys are an error.
func Parse(r io.Reader) (*Fixture, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f Fixture
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse fixture: %w", err)
	}
	return &f, nil
}

type Seeder struct {
	svcs *core.Services

	courses map[string]int64
	orgs    map[string]int64
	// groups is keyed by groupKey(organization, group).
	groups map[string]int64

	mu      sync.Mutex
	summary Summary
}

func NewSeeder(svcs *core.Services) *Seeder {
	return &Seeder{
		svcs:    svcs,
		courses: map[string]int64{},
		orgs:    map[string]int64{},
		groups:  map[string]int64{},
	}
}

// Run applies f and returns what it created. It stops at the first error;
// rows created before it stay.
func (s *Seeder) Run(ctx context.Context, f *Fixture) (Summary, error) {
	for _, c := range f.Courses {
		if err := s.seedCourse(ctx, c); err != nil {
			return s.summary, err
		}
	}
	for _, o := range f.Organizations {
		if err := s.seedOrganization(ctx, o); err != nil {
			return s.summary, err
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(subscriberWorkers)
	for _, sub := range f.Subscribers {
		g.Go(func() error {
			return s.seedSubscriber(gctx, sub)
		})
	}
	if err := g.Wait(); err != nil {
		return s.summary, err
	}
	return s.summary, nil
}

func (s *Seeder) seedCourse(ctx context.Context, def CourseDef) error {
	log := zerolog.Ctx(ctx)

	existing, err := findByName(ctx, def.Name, func(ctx context.Context, p query.Params) (query.Result[model.Course], error) {
		return s.svcs.Course.List(ctx, query.CourseFilter{Search: def.Name}, p)
	}, func(c *model.Course) string { return c.Name })
	if err != nil {
		return fmt.Errorf("find course %q: %w", def.Name, err)
	}
	if existing != nil {
		log.Info().Str("course", def.Name).Int64("id", existing.ID).Msg("course exists, skipping")
		s.courses[def.Name] = existing.ID
		s.summary.Existing.Courses++
		return nil
	}

	c, err := s.svcs.Course.Create(ctx, &model.Course{Name: def.Name, Price: def.Price, DurationDays: def.DurationDays})
	if err != nil {
		return fmt.Errorf("create course %q: %w", def.Name, err)
	}
	log.Info().Str("course", def.Name).Int64("id", c.ID).Msg("course created")
	s.courses[def.Name] = c.ID
	s.summary.Created.Courses++
	return nil
}

func (s *Seeder) seedOrganization(ctx context.Context, def OrganizationDef) error {
	log := zerolog.Ctx(ctx)

	orgID, err := s.ensureOrganization(ctx, def.Name)
	if err != nil {
		return err
	}
	s.orgs[def.Name] = orgID

	for _, name := range def.Groups {
		id, err := s.ensureGroup(ctx, orgID, name)
		if err != nil {
			return fmt.Errorf("organization %q: %w", def.Name, err)
		}
		s.groups[groupKey(def.Name, name)] = id
	}

	for _, name := range def.Courses {
		courseID, ok := s.courses[name]
		if !ok {
			return fmt.Errorf("organization %q: unknown course %q", def.Name, name)
		}
		_, err := s.svcs.Organization.AssignCourse(ctx, orgID, courseID)
		switch {
		case errors.Is(err, core.ErrDuplicateLink):
			s.summary.Existing.CourseLinks++
		case err != nil:
			return fmt.Errorf("link course %q to organization %q: %w", name, def.Name, err)
		default:
			log.Info().Str("organization", def.Name).Str("course", name).Msg("course linked")
			s.summary.Created.CourseLinks++
		}
	}
	return nil
}

func (s *Seeder) ensureOrganization(ctx context.Context, name string) (int64, error) {
	log := zerolog.Ctx(ctx)

	existing, err := findByName(ctx, name, func(ctx context.Context, p query.Params) (query.Result[model.Organization], error) {
		return s.svcs.Organization.List(ctx, query.OrganizationFilter{Search: name}, p)
	}, func(o *model.Organization) string { return o.Name })
	if err != nil {
		return 0, fmt.Errorf("find organization %q: %w", name, err)
	}
	if existing != nil {
		log.Info().Str("organization", name).Int64("id", existing.ID).Msg("organization exists, skipping")
		s.summary.Existing.Organizations++
		return existing.ID, nil
	}

	o, err := s.svcs.Organization.Create(ctx, &model.Organization{Name: name})
	if err != nil {
		return 0, fmt.Errorf("create organization %q: %w", name, err)
	}
	log.Info().Str("organization", name).Int64("id", o.ID).Msg("organization created")
	s.summary.Created.Organizations++
	return o.ID, nil
}

func (s *Seeder) ensureGroup(ctx context.Context, orgID int64, name string) (int64, error) {
	existing, err := findByName(ctx, name, func(ctx context.Context, p query.Params) (query.Result[model.Group], error) {
		return s.svcs.Group.List(ctx, query.GroupFilter{OrganizationID: &orgID, Search: name}, p)
	}, func(g *model.Group) string { return g.Name })
	if err != nil {
		return 0, fmt.Errorf("find group %q: %w", name, err)
	}
	if existing != nil {
		s.summary.Existing.Groups++
		return existing.ID, nil
	}

	g, err := s.svcs.Group.Create(ctx, &model.Group{Name: name, OrganizationID: orgID})
	if err != nil {
		return 0, fmt.Errorf("create group %q: %w", name, err)
	}
	zerolog.Ctx(ctx).Info().Str("group", name).Int64("id", g.ID).Msg("group created")
	s.summary.Created.Groups++
	return g.ID, nil
}

// seedSubscriber runs concurrently; it only reads the name maps and takes
// mu for the summary. An existing subscriber keeps its subscriptions.
func (s *Seeder) seedSubscriber(ctx context.Context, def SubscriberDef) error {
	sub, err := def.model()
	if err != nil {
		return fmt.Errorf("subscriber %q: %w", def.Email, err)
	}
	subs := make([]*model.Subscription, 0, len(def.Subscriptions))
	for _, sd := range def.Subscriptions {
		m, err := s.subscription(sd)
		if err != nil {
			return fmt.Errorf("subscriber %q: %w", def.Email, err)
		}
		subs = append(subs, m)
	}

	created, err := s.svcs.Subscriber.Create(ctx, sub)
	if errors.Is(err, core.ErrDuplicateKey) {
		zerolog.Ctx(ctx).Info().Str("email", def.Email).Msg("subscriber exists, skipping")
		s.count(func(sm *Summary) { sm.Existing.Subscribers++ })
		return nil
	}
	if err != nil {
		return fmt.Errorf("create subscriber %q: %w", def.Email, err)
	}
	s.count(func(sm *Summary) { sm.Created.Subscribers++ })

	for _, m := range subs {
		m.SubscriberID = created.ID
		if _, err := s.svcs.Subscription.Create(ctx, m); err != nil {
			return fmt.Errorf("create subscription %q for %q: %w", m.Course, def.Email, err)
		}
		s.count(func(sm *Summary) { sm.Created.Subscriptions++ })
	}
	zerolog.Ctx(ctx).Info().
		Str("email", created.Email).
		Int64("id", created.ID).
		Int("subscriptions", len(subs)).
		Msg("subscriber created")
	return nil
}

func (s *Seeder) subscription(def SubscriptionDef) (*model.Subscription, error) {
	m := &model.Subscription{Course: def.Course}
	var err error
	if m.StartDate, err = parseDate(def.StartDate); err != nil {
		return nil, err
	}
	if m.EndDate, err = parseDate(def.EndDate); err != nil {
		return nil, err
	}

	if def.Group != "" {
		id, ok := s.groups[groupKey(def.Organization, def.Group)]
		if !ok {
			return nil, fmt.Errorf("unknown group %q in organization %q", def.Group, def.Organization)
		}
		m.GroupID = &id
	}
	return m, nil
}

func (s *Seeder) count(fn func(*Summary)) {
	s.mu.Lock()
	fn(&s.summary)
	s.mu.Unlock()
}

func (d SubscriberDef) model() (*model.Subscriber, error) {
	start, err := parseDate(d.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(d.EndDate)
	if err != nil {
		return nil, err
	}
	return &model.Subscriber{
		Email:           d.Email,
		FullName:        d.FullName,
		FirstName:       d.FirstName,
		LastName:        d.LastName,
		Phone:           d.Phone,
		Plan:            d.Plan,
		Type:            d.Type,
		Group:           d.Group,
		GithubUser:      d.GithubUser,
		CustomerIDSumit: d.CustomerIDSumit,
		PaymentDetails:  d.PaymentDetails,
		StartDate:       start,
		EndDate:         end,
	}, nil
}

// findByName pages through every search hit for name and returns the first
// whose name matches it case-insensitively, or nil. Search is a substring
// match, so the exact row can sit past the first page.
func findByName[T any](ctx context.Context, name string,
	list func(context.Context, query.Params) (query.Result[T], error),
	nameOf func(*T) string,
) (*T, error) {
	want := strings.TrimSpace(name)
	for page := 1; ; page++ {
		res, err := list(ctx, query.NewParams(page, query.MaxPageSize))
		if err != nil {
			return nil, err
		}
		for i := range res.Items {
			if strings.EqualFold(nameOf(&res.Items[i]), want) {
				return &res.Items[i], nil
			}
		}
		if len(res.Items) == 0 || page*query.MaxPageSize >= res.TotalCount {
			return nil, nil
		}
	}
}

func parseDate(s string) (*model.Date, error) {
	if s == "" {
		return nil, nil
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func groupKey(organization, group string) string {
	return organization + "/" + group
}
