package handler

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createOrganization(t *testing.T, h *Organization, name string) map[string]any {
	t.Helper()
	rec := httptest.NewRecorder()
	h.Create(rec, newRequest(http.MethodPost, "/organizations", map[string]any{"name": name}))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeBody(rec)
}

// --- Create ---

func TestOrganizationCreate_Success(t *testing.T) {
	h := NewOrganization(newTestServices().Organization)

	body := createOrganization(t, h, "Acme")
	assert.Equal(t, float64(1), body["id"])
	assert.Equal(t, "Acme", body["name"])
	assert.NotEmpty(t, body["createdAt"])
}

func TestOrganizationCreate_InvalidJSON(t *testing.T) {
	h := NewOrganization(nil)
	rec := httptest.NewRecorder()

	h.Create(rec, newRequestRaw(http.MethodPost, "/organizations", "{bad json"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, decodeErrorResponse(rec)["error"], "invalid JSON")
}

func TestOrganizationCreate_BlankName(t *testing.T) {
	h := NewOrganization(nil)
	rec := httptest.NewRecorder()

	h.Create(rec, newRequest(http.MethodPost, "/organizations", map[string]any{"name": "  "}))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decodeErrorResponse(rec)["error"], "validation error")
}

func TestOrganizationCreate_MultibyteName(t *testing.T) {
	h := NewOrganization(newTestServices().Organization)

	body := createOrganization(t, h, strings.Repeat("ש", 200))
	assert.Equal(t, strings.Repeat("ש", 200), body["name"])
}

// --- Get ---

func TestOrganizationGet_InvalidID(t *testing.T) {
	h := NewOrganization(nil)
	rec := httptest.NewRecorder()

	h.Get(rec, withChiURLParam(newRequest(http.MethodGet, "/organizations/abc", nil), "id", "abc"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrganizationGet_NotFound(t *testing.T) {
	h := NewOrganization(newTestServices().Organization)
	rec := httptest.NewRecorder()

	h.Get(rec, withChiURLParam(newRequest(http.MethodGet, "/organizations/9", nil), "id", "9"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "organization 9: not found", decodeErrorResponse(rec)["error"])
}

func TestOrganizationGet_Details(t *testing.T) {
	svcs := newTestServices()
	h := NewOrganization(svcs.Organization)
	createOrganization(t, h, "Acme")

	rec := httptest.NewRecorder()
	h.Get(rec, withChiURLParam(newRequest(http.MethodGet, "/organizations/1", nil), "id", "1"))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(rec)
	org := body["organization"].(map[string]any)
	assert.Equal(t, "Acme", org["name"])
	assert.Equal(t, []any{}, body["groups"])
	assert.Equal(t, []any{}, body["courses"])
	assert.Equal(t, []any{}, body["courseLinks"])
}

// --- List ---

func TestOrganizationList_Paged(t *testing.T) {
	h := NewOrganization(newTestServices().Organization)
	for _, n := range []string{"Acme", "Globex", "Initech"} {
		createOrganization(t, h, n)
	}

	rec := httptest.NewRecorder()
	h.List(rec, newRequest(http.MethodGet, "/organizations?page=2&pageSize=2", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(rec)
	assert.Equal(t, float64(3), body["totalCount"])
	assert.Equal(t, float64(2), body["page"])
	assert.Equal(t, float64(2), body["pageSize"])
	items := body["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, "Acme", items[0].(map[string]any)["name"], "newest first, so the oldest is on the last page")
}

func TestOrganizationList_HugePage(t *testing.T) {
	h := NewOrganization(newTestServices().Organization)
	for _, n := range []string{"Acme", "Globex", "Initech"} {
		createOrganization(t, h, n)
	}

	for _, page := range []string{"9223372036854775807", "1000000000000000000"} {
		rec := httptest.NewRecorder()
		h.List(rec, newRequest(http.MethodGet, "/organizations?pageSize=20&page="+page, nil))

		require.Equal(t, http.StatusOK, rec.Code, page)
		body := decodeBody(rec)
		assert.Equal(t, []any{}, body["items"])
		assert.Equal(t, float64(3), body["totalCount"])
	}
}

func TestOrganizationList_InvalidPage(t *testing.T) {
	h := NewOrganization(nil)
	rec := httptest.NewRecorder()

	h.List(rec, newRequest(http.MethodGet, "/organizations?pageSize=lots", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- Courses ---

func TestOrganizationAssignAndRemoveCourse(t *testing.T) {
	svcs := newTestServices()
	h := NewOrganization(svcs.Organization)
	courses := NewCourse(svcs.Course)

	createOrganization(t, h, "Acme")
	createOrganization(t, h, "Globex")
	rec := httptest.NewRecorder()
	courses.Create(rec, newRequest(http.MethodPost, "/courses", map[string]any{"name": "Go", "price": 100}))
	require.Equal(t, http.StatusCreated, rec.Code)

	assign := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r := withChiURLParam(newRequest(http.MethodPost, "/organizations/1/courses", map[string]any{"courseId": 1}), "id", "1")
		h.AssignCourse(rec, r)
		return rec
	}

	rec = assign()
	require.Equal(t, http.StatusCreated, rec.Code)
	course := decodeBody(rec)
	assert.Equal(t, "Go", course["name"])
	assert.Equal(t, float64(100), course["price"])

	rec = assign()
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Link 1 belongs to organization 1, not 2.
	rec = httptest.NewRecorder()
	h.RemoveCourseLink(rec, withChiURLParams(newRequest(http.MethodDelete, "/organizations/2/courses/1", nil),
		map[string]string{"id": "2", "linkID": "1"}))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	h.RemoveCourseLink(rec, withChiURLParams(newRequest(http.MethodDelete, "/organizations/1/courses/1", nil),
		map[string]string{"id": "1", "linkID": "1"}))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestOrganizationGet_CourseLinksDriveRemoval(t *testing.T) {
	svcs := newTestServices()
	h := NewOrganization(svcs.Organization)
	courses := NewCourse(svcs.Course)

	createOrganization(t, h, "Acme")
	for _, name := range []string{"Go", "Rust"} {
		rec := httptest.NewRecorder()
		courses.Create(rec, newRequest(http.MethodPost, "/courses", map[string]any{"name": name, "price": 10}))
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	for _, id := range []int{2, 1} {
		rec := httptest.NewRecorder()
		h.AssignCourse(rec, withChiURLParam(newRequest(http.MethodPost, "/organizations/1/courses", map[string]any{"courseId": id}), "id", "1"))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	details := func() []any {
		rec := httptest.NewRecorder()
		h.Get(rec, withChiURLParam(newRequest(http.MethodGet, "/organizations/1", nil), "id", "1"))
		require.Equal(t, http.StatusOK, rec.Code)
		return decodeBody(rec)["courseLinks"].([]any)
	}

	links := details()
	require.Len(t, links, 2)
	first := links[0].(map[string]any)
	assert.Equal(t, float64(1), first["organizationId"])
	assert.Equal(t, float64(2), first["courseId"], "links are in id order, not course name order")

	rec := httptest.NewRecorder()
	h.RemoveCourseLink(rec, withChiURLParams(newRequest(http.MethodDelete, "/organizations/1/courses/x", nil),
		map[string]string{"id": "1", "linkID": strconv.FormatInt(int64(first["id"].(float64)), 10)}))
	require.Equal(t, http.StatusNoContent, rec.Code)

	links = details()
	require.Len(t, links, 1)
	assert.Equal(t, float64(1), links[0].(map[string]any)["courseId"])
}

func TestOrganizationAssignCourse_UnknownCourse(t *testing.T) {
	svcs := newTestServices()
	h := NewOrganization(svcs.Organization)
	createOrganization(t, h, "Acme")

	rec := httptest.NewRecorder()
	h.AssignCourse(rec, withChiURLParam(newRequest(http.MethodPost, "/organizations/1/courses", map[string]any{"courseId": 8}), "id", "1"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, decodeErrorResponse(rec)["error"], "course 8 does not exist")
}

// --- Delete ---

func TestOrganizationDelete(t *testing.T) {
	h := NewOrganization(newTestServices().Organization)
	createOrganization(t, h, "Acme")

	rec := httptest.NewRecorder()
	h.Delete(rec, withChiURLParam(newRequest(http.MethodDelete, "/organizations/1", nil), "id", "1"))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = httptest.NewRecorder()
	h.Delete(rec, withChiURLParam(newRequest(http.MethodDelete, "/organizations/1", nil), "id", "1"))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
