package request

import (
	"net/http"

	"github.com/edvin/mabruk/internal/query"
)

func OrganizationFilter(r *http.Request) query.OrganizationFilter {
	return query.OrganizationFilter{Search: r.URL.Query().Get("search")}
}

func GroupFilter(r *http.Request) (query.GroupFilter, error) {
	orgID, err := optionalID(r, "organizationId")
	if err != nil {
		return query.GroupFilter{}, err
	}
	return query.GroupFilter{OrganizationID: orgID, Search: r.URL.Query().Get("search")}, nil
}

func CourseFilter(r *http.Request) query.CourseFilter {
	return query.CourseFilter{Search: r.URL.Query().Get("search")}
}

func SubscriberFilter(r *http.Request) query.SubscriberFilter {
	q := r.URL.Query()
	return query.SubscriberFilter{
		Email:  q.Get("email"),
		Plan:   q.Get("plan"),
		Type:   q.Get("type"),
		Group:  q.Get("group"),
		Search: q.Get("search"),
	}
}

func SubscriptionFilter(r *http.Request) (query.SubscriptionFilter, error) {
	subscriberID, err := optionalID(r, "subscriberId")
	if err != nil {
		return query.SubscriptionFilter{}, err
	}
	groupID, err := optionalID(r, "groupId")
	if err != nil {
		return query.SubscriptionFilter{}, err
	}
	return query.SubscriptionFilter{
		SubscriberID: subscriberID,
		GroupID:      groupID,
		Course:       r.URL.Query().Get("course"),
	}, nil
}
