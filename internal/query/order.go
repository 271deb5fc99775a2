package query

import (
	"strings"

	"github.com/edvin/mabruk/internal/model"
)

// Fixed list orderings. Every ordering ends with id ascending so equal keys
// paginate deterministically. Names sort ASCII case-insensitively, then by
// byte order, under the "C" collation so the database and byName agree
// whatever the server locale is.
const (
	OrganizationOrder = "created_at DESC, id ASC"
	nameOrder         = `lower(name COLLATE "C") ASC, name COLLATE "C" ASC, id ASC`
	GroupOrder        = nameOrder
	CourseOrder       = nameOrder
	SubscriberOrder   = "created_at DESC, id ASC"
	SubscriptionOrder = "created_at DESC, id ASC"
)

func OrganizationLess(a, b *model.Organization) bool {
	return newestFirst(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano(), a.ID, b.ID)
}

func GroupLess(a, b *model.Group) bool {
	return byName(a.Name, b.Name, a.ID, b.ID)
}

// GroupNewestFirst orders groups by creation time, newest first.
func GroupNewestFirst(a, b *model.Group) bool {
	return newestFirst(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano(), a.ID, b.ID)
}

func CourseLess(a, b *model.Course) bool {
	return byName(a.Name, b.Name, a.ID, b.ID)
}

func SubscriberLess(a, b *model.Subscriber) bool {
	return newestFirst(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano(), a.ID, b.ID)
}

func SubscriptionLess(a, b *model.Subscription) bool {
	return newestFirst(a.CreatedAt.UnixNano(), b.CreatedAt.UnixNano(), a.ID, b.ID)
}

func newestFirst(aAt, bAt, aID, bID int64) bool {
	if aAt != bAt {
		return aAt > bAt
	}
	return aID < bID
}

func byName(aName, bName string, aID, bID int64) bool {
	if af, bf := foldASCII(aName), foldASCII(bName); af != bf {
		return af < bf
	}
	if aName != bName {
		return aName < bName
	}
	return aID < bID
}

// foldASCII lowercases A-Z only, as lower() does under the "C" collation.
func foldASCII(s string) string {
	return strings.Map(func(r rune) rune {
		if 'A' <= r && r <= 'Z' {
			return r + ('a' - 'A')
		}
		return r
	}, s)
}
