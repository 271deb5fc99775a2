package core

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/mabruk/internal/model"
	"github.com/edvin/mabruk/internal/query"
	"github.com/edvin/mabruk/internal/store/memory"
)

func newTestServices(t *testing.T) *Services {
	t.Helper()
	return NewServices(memory.New())
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

func datePtr(s string) *model.Date {
	d, err := model.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestNewServices(t *testing.T) {
	svcs := newTestServices(t)

	require.NotNil(t, svcs)
	assert.NotNil(t, svcs.Enforcer)
	assert.NotNil(t, svcs.Organization)
	assert.NotNil(t, svcs.Group)
	assert.NotNil(t, svcs.Course)
	assert.NotNil(t, svcs.Subscriber)
	assert.NotNil(t, svcs.Subscription)
	assert.NoError(t, svcs.Ping(context.Background()))
}

// ---------- Scenario ----------

func TestScenario_IntegrityRules(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()

	org, err := svcs.Organization.Create(ctx, &model.Organization{Name: "Acme"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), org.ID)

	_, err = svcs.Group.Create(ctx, &model.Group{Name: "R&D", OrganizationID: 1})
	require.NoError(t, err)

	_, err = svcs.Group.Create(ctx, &model.Group{Name: "X", OrganizationID: 42})
	require.ErrorIs(t, err, ErrNotFoundReference)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svcs.Subscriber.Create(ctx, &model.Subscriber{Email: "A@x.com"})
	require.NoError(t, err)
	_, err = svcs.Subscriber.Create(ctx, &model.Subscriber{Email: "a@x.com"})
	require.ErrorIs(t, err, ErrDuplicateKey)

	_, err = svcs.Subscription.Create(ctx, &model.Subscription{
		SubscriberID: 1,
		Course:       "CS101",
		StartDate:    datePtr("2024-02-01"),
		EndDate:      datePtr("2024-01-01"),
	})
	require.ErrorIs(t, err, ErrInvalidRange)

	groups, err := svcs.Group.List(ctx, query.GroupFilter{}, query.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, 1, groups.TotalCount, "rejected group must not be stored")
}

// ---------- Organizations ----------

func TestOrganizationService_Create_TrimsAndRequiresName(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()

	o, err := svcs.Organization.Create(ctx, &model.Organization{Name: "  Acme  "})
	require.NoError(t, err)
	assert.Equal(t, "Acme", o.Name)

	_, err = svcs.Organization.Create(ctx, &model.Organization{Name: "   "})
	require.ErrorIs(t, err, ErrValidation)

	// Length is counted in characters, not bytes.
	hebrew, err := svcs.Organization.Create(ctx, &model.Organization{Name: strings.Repeat("ש", 200)})
	require.NoError(t, err)
	assert.Equal(t, 200, utf8.RuneCountInString(hebrew.Name))

	_, err = svcs.Organization.Create(ctx, &model.Organization{Name: strings.Repeat("ש", 256)})
	require.ErrorIs(t, err, ErrValidation)
}

func TestOrganizationService_Update_KeepsCreatedAt(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()

	o, err := svcs.Organization.Create(ctx, &model.Organization{Name: "Acme"})
	require.NoError(t, err)

	updated, err := svcs.Organization.Update(ctx, o.ID, &model.Organization{Name: "Acme Ltd"})
	require.NoError(t, err)
	assert.Equal(t, o.CreatedAt, updated.CreatedAt)
	assert.Equal(t, "Acme Ltd", updated.Name)

	_, err = svcs.Organization.Update(ctx, 99, &model.Organization{Name: "Ghost"})
	require.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrNotFoundReference)
}

func TestOrganizationService_Delete_LeavesOrphans(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()

	o, err := svcs.Organization.Create(ctx, &model.Organization{Name: "Acme"})
	require.NoError(t, err)
	g, err := svcs.Group.Create(ctx, &model.Group{Name: "Team", OrganizationID: o.ID})
	require.NoError(t, err)

	require.NoError(t, svcs.Organization.Delete(ctx, o.ID))
	require.ErrorIs(t, svcs.Organization.Delete(ctx, o.ID), ErrNotFound)

	got, err := svcs.Group.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, got.OrganizationID)
}

func TestOrganizationService_AssignCourse(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()

	o, err := svcs.Organization.Create(ctx, &model.Organization{Name: "Acme"})
	require.NoError(t, err)
	c, err := svcs.Course.Create(ctx, &model.Course{Name: "Go", Price: int64Ptr(100)})
	require.NoError(t, err)

	got, err := svcs.Organization.AssignCourse(ctx, o.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, c.ID, got.ID)
	assert.Equal(t, "Go", got.Name)

	_, err = svcs.Organization.AssignCourse(ctx, o.ID, c.ID)
	require.ErrorIs(t, err, ErrDuplicateLink)

	_, err = svcs.Organization.AssignCourse(ctx, o.ID, 404)
	require.ErrorIs(t, err, ErrNotFoundReference)

	_, err = svcs.Organization.AssignCourse(ctx, 404, c.ID)
	require.ErrorIs(t, err, ErrNotFoundReference)
}

func TestOrganizationService_AssignCourse_ConcurrentDuplicates(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()

	o, err := svcs.Organization.Create(ctx, &model.Organization{Name: "Acme"})
	require.NoError(t, err)
	c, err := svcs.Course.Create(ctx, &model.Course{Name: "Go"})
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 8)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svcs.Organization.AssignCourse(ctx, o.ID, c.ID)
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, errors.Is(err, ErrDuplicateLink), "unexpected error: %v", err)
	}
	assert.Equal(t, 1, ok)
}

func TestOrganizationService_RemoveCourseLink(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()

	acme, err := svcs.Organization.Create(ctx, &model.Organization{Name: "Acme"})
	require.NoError(t, err)
	globex, err := svcs.Organization.Create(ctx, &model.Organization{Name: "Globex"})
	require.NoError(t, err)
	c, err := svcs.Course.Create(ctx, &model.Course{Name: "Go"})
	require.NoError(t, err)
	_, err = svcs.Organization.AssignCourse(ctx, acme.ID, c.ID)
	require.NoError(t, err)

	// The first link of a fresh store has id 1.
	err = svcs.Organization.RemoveCourseLink(ctx, globex.ID, 1)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, svcs.Organization.RemoveCourseLink(ctx, acme.ID, 1))
	require.ErrorIs(t, svcs.Organization.RemoveCourseLink(ctx, acme.ID, 1), ErrNotFound)

	// The pair can be linked again once removed.
	_, err = svcs.Organization.AssignCourse(ctx, acme.ID, c.ID)
	require.NoError(t, err)
}

func TestOrganizationService_GetDetails(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()

	o, err := svcs.Organization.Create(ctx, &model.Organization{Name: "Acme"})
	require.NoError(t, err)
	other, err := svcs.Organization.Create(ctx, &model.Organization{Name: "Other"})
	require.NoError(t, err)

	_, err = svcs.Group.Create(ctx, &model.Group{Name: "first", OrganizationID: o.ID})
	require.NoError(t, err)
	_, err = svcs.Group.Create(ctx, &model.Group{Name: "second", OrganizationID: o.ID})
	require.NoError(t, err)
	_, err = svcs.Group.Create(ctx, &model.Group{Name: "foreign", OrganizationID: other.ID})
	require.NoError(t, err)

	zeta, err := svcs.Course.Create(ctx, &model.Course{Name: "zeta"})
	require.NoError(t, err)
	alpha, err := svcs.Course.Create(ctx, &model.Course{Name: "alpha"})
	require.NoError(t, err)
	gone, err := svcs.Course.Create(ctx, &model.Course{Name: "gone"})
	require.NoError(t, err)
	for _, c := range []*model.Course{zeta, alpha, gone} {
		_, err := svcs.Organization.AssignCourse(ctx, o.ID, c.ID)
		require.NoError(t, err)
	}
	require.NoError(t, svcs.Course.Delete(ctx, gone.ID))

	d, err := svcs.Organization.GetDetails(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "Acme", d.Organization.Name)

	require.Len(t, d.Groups, 2)
	assert.Equal(t, "second", d.Groups[0].Name)
	assert.Equal(t, "first", d.Groups[1].Name)

	require.Len(t, d.Courses, 2)
	assert.Equal(t, "alpha", d.Courses[0].Name)
	assert.Equal(t, "zeta", d.Courses[1].Name)

	require.Len(t, d.Links, 3, "stale link stays listed so it can be removed")
	assert.Equal(t, zeta.ID, d.Links[0].CourseID)
	assert.Equal(t, gone.ID, d.Links[2].CourseID)
	require.NoError(t, svcs.Organization.RemoveCourseLink(ctx, o.ID, d.Links[2].ID))

	d, err = svcs.Organization.GetDetails(ctx, o.ID)
	require.NoError(t, err)
	assert.Len(t, d.Links, 2)

	_, err = svcs.Organization.GetDetails(ctx, 999)
	require.ErrorIs(t, err, ErrNotFound)
}

// ---------- Groups ----------

func TestGroupService_Update_ChecksOrganization(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()

	o, err := svcs.Organization.Create(ctx, &model.Organization{Name: "Acme"})
	require.NoError(t, err)
	g, err := svcs.Group.Create(ctx, &model.Group{Name: "Team", OrganizationID: o.ID})
	require.NoError(t, err)

	_, err = svcs.Group.Update(ctx, g.ID, &model.Group{Name: "Team", OrganizationID: 77})
	require.ErrorIs(t, err, ErrNotFoundReference)

	stored, err := svcs.Group.Get(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, o.ID, stored.OrganizationID, "rejected update must not write")

	_, err = svcs.Group.Update(ctx, 500, &model.Group{Name: "Team", OrganizationID: o.ID})
	require.ErrorIs(t, err, ErrNotFound)
}

// ---------- Courses ----------

func TestCourseService_RejectsNegativePrice(t *testing.T) {
	svcs := newTestServices(t)

	_, err := svcs.Course.Create(context.Background(), &model.Course{Name: "Go", Price: int64Ptr(-1)})
	require.ErrorIs(t, err, ErrValidation)
}

// ---------- Subscribers ----------

func TestSubscriberService_Create_Normalizes(t *testing.T) {
	svcs := newTestServices(t)
	svcs.Subscriber.today = func() model.Date { return model.NewDate(2025, 5, 4) }
	ctx := context.Background()

	sub, err := svcs.Subscriber.Create(ctx, &model.Subscriber{
		Email:     "  Dana@Example.COM ",
		FirstName: strPtr("  Dana "),
		Phone:     strPtr("   "),
		Plan:      strPtr("Premium"),
	})
	require.NoError(t, err)
	assert.Equal(t, "dana@example.com", sub.Email)
	assert.Equal(t, "Dana", *sub.FirstName)
	assert.Nil(t, sub.Phone)
	assert.Equal(t, model.PlanPremium, *sub.Plan)
	require.NotNil(t, sub.StartDate)
	assert.Equal(t, "2025-05-04", sub.StartDate.String())
}

func TestSubscriberService_Create_Validation(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()

	tests := []struct {
		name string
		sub  model.Subscriber
		want error
	}{
		{"missing email", model.Subscriber{}, ErrValidation},
		{"malformed email", model.Subscriber{Email: "not-an-email"}, ErrValidation},
		{"unknown plan", model.Subscriber{Email: "a@x.io", Plan: strPtr("gold")}, ErrValidation},
		{"unknown type", model.Subscriber{Email: "a@x.io", Type: strPtr("robot")}, ErrValidation},
		{"end before start", model.Subscriber{
			Email:     "a@x.io",
			StartDate: datePtr("2024-03-01"),
			EndDate:   datePtr("2024-02-01"),
		}, ErrInvalidRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := tt.sub
			_, err := svcs.Subscriber.Create(ctx, &sub)
			require.ErrorIs(t, err, tt.want)
		})
	}
}

func TestSubscriberService_Update(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()

	a, err := svcs.Subscriber.Create(ctx, &model.Subscriber{Email: "a@x.io", StartDate: datePtr("2024-01-15")})
	require.NoError(t, err)
	_, err = svcs.Subscriber.Create(ctx, &model.Subscriber{Email: "b@x.io"})
	require.NoError(t, err)

	// Keeping its own email is fine and an omitted start date is preserved.
	updated, err := svcs.Subscriber.Update(ctx, a.ID, &model.Subscriber{Email: "A@X.IO", EndDate: datePtr("2024-12-31")})
	require.NoError(t, err)
	assert.Equal(t, "2024-01-15", updated.StartDate.String())
	assert.Equal(t, a.CreatedAt, updated.CreatedAt)

	_, err = svcs.Subscriber.Update(ctx, a.ID, &model.Subscriber{Email: "B@x.io"})
	require.ErrorIs(t, err, ErrDuplicateKey)

	// An omitted start date is resolved against the stored row before the
	// range check.
	_, err = svcs.Subscriber.Update(ctx, a.ID, &model.Subscriber{Email: "a@x.io", EndDate: datePtr("2023-01-01")})
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = svcs.Subscriber.Update(ctx, 999, &model.Subscriber{Email: "c@x.io"})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestSubscriberService_EmailUniqueUnderConcurrency(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 10)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svcs.Subscriber.Create(ctx, &model.Subscriber{Email: "Same@x.io"})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.ErrorIs(t, err, ErrDuplicateKey)
	}
	assert.Equal(t, 1, ok)
}

// ---------- Subscriptions ----------

func TestSubscriptionService_References(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()

	sub, err := svcs.Subscriber.Create(ctx, &model.Subscriber{Email: "a@x.io"})
	require.NoError(t, err)

	_, err = svcs.Subscription.Create(ctx, &model.Subscription{SubscriberID: 99, Course: "CS101"})
	require.ErrorIs(t, err, ErrNotFoundReference)
	assert.Contains(t, err.Error(), "subscriber 99")

	_, err = svcs.Subscription.Create(ctx, &model.Subscription{SubscriberID: sub.ID, Course: "CS101", GroupID: int64Ptr(5)})
	require.ErrorIs(t, err, ErrNotFoundReference)
	assert.Contains(t, err.Error(), "group 5")

	_, err = svcs.Subscription.Create(ctx, &model.Subscription{SubscriberID: sub.ID, Course: "  "})
	require.ErrorIs(t, err, ErrValidation)

	created, err := svcs.Subscription.Create(ctx, &model.Subscription{SubscriberID: sub.ID, Course: " CS101 "})
	require.NoError(t, err)
	assert.Equal(t, "CS101", created.Course)

	got, err := svcs.Subscription.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *got)
}

func TestSubscriptionService_RangeCheckedBeforeReferences(t *testing.T) {
	svcs := newTestServices(t)

	_, err := svcs.Subscription.Create(context.Background(), &model.Subscription{
		SubscriberID: 12345,
		Course:       "CS101",
		StartDate:    datePtr("2024-02-01"),
		EndDate:      datePtr("2024-01-01"),
	})
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestSubscriptionService_ListFilters(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()

	a, err := svcs.Subscriber.Create(ctx, &model.Subscriber{Email: "a@x.io"})
	require.NoError(t, err)
	b, err := svcs.Subscriber.Create(ctx, &model.Subscriber{Email: "b@x.io"})
	require.NoError(t, err)

	for _, s := range []model.Subscription{
		{SubscriberID: a.ID, Course: "Go Basics"},
		{SubscriberID: a.ID, Course: "Rust"},
		{SubscriberID: b.ID, Course: "Advanced Go"},
	} {
		_, err := svcs.Subscription.Create(ctx, &s)
		require.NoError(t, err)
	}

	res, err := svcs.Subscription.List(ctx, query.SubscriptionFilter{Course: "go"}, query.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, 2, res.TotalCount)
	assert.Equal(t, "Advanced Go", res.Items[0].Course, "newest first")

	res, err = svcs.Subscription.List(ctx, query.SubscriptionFilter{SubscriberID: &a.ID, Course: "go"}, query.DefaultParams())
	require.NoError(t, err)
	assert.Equal(t, 1, res.TotalCount)
}

func TestDelete_NotFound(t *testing.T) {
	svcs := newTestServices(t)
	ctx := context.Background()

	assert.ErrorIs(t, svcs.Group.Delete(ctx, 1), ErrNotFound)
	assert.ErrorIs(t, svcs.Course.Delete(ctx, 1), ErrNotFound)
	assert.ErrorIs(t, svcs.Subscriber.Delete(ctx, 1), ErrNotFound)
	assert.ErrorIs(t, svcs.Subscription.Delete(ctx, 1), ErrNotFound)
}
