package demoserver

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studydeck/internal/api"
)

func do(t *testing.T, s *Server, method, target string, body *bytes.Buffer, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	if body == nil {
		body = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, req)
	return rec
}

func TestSessionPageParsesBack(t *testing.T) {
	s := New(nil, SampleSession())

	rec := do(t, s, http.MethodGet, "/session/demo", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	doc, err := api.ParseDocument(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, "demo", doc.SessionID)
	assert.Equal(t, "Price elasticity", doc.Name)
	assert.Equal(t, 30, doc.DurationMinutes)
	require.Len(t, doc.Blocks, 4)
	assert.Equal(t, "b1", doc.Blocks[0].ID)
	assert.Equal(t, "Elasticity basics", doc.Blocks[0].Title)
	assert.Equal(t, 12, doc.Blocks[0].Minutes)
	assert.Len(t, doc.Blocks[0].Notes, 3)
	assert.Empty(t, doc.Blocks[3].Notes)
}

func TestUnknownSession(t *testing.T) {
	s := New(nil, SampleSession())
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/session/nope", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodPost, "/session/nope/mcq/b1", nil, "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodPost, "/session/demo/mcq/b9", nil, "").Code)
}

func TestToggleCoveredRedirectsAndFlips(t *testing.T) {
	s := New(nil, SampleSession())

	rec := do(t, s, http.MethodPost, "/session/demo/toggle-covered/b2", nil, "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/session/demo", rec.Header().Get("Location"))

	sess, ok := s.Session("demo")
	require.True(t, ok)
	assert.True(t, sess.Blocks[1].Covered)

	do(t, s, http.MethodPost, "/session/demo/toggle-covered/b2", nil, "")
	sess, _ = s.Session("demo")
	assert.False(t, sess.Blocks[1].Covered)
}

func TestMCQReturnsValidList(t *testing.T) {
	s := New(nil, SampleSession())

	rec := do(t, s, http.MethodPost, "/session/demo/mcq/b1", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	items, err := api.DecodeMCQs(rec.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, items, 3)
	for _, it := range items {
		assert.Contains(t, it.Options, it.Answer)
	}
}

func TestMCQWithoutNotesFallsBack(t *testing.T) {
	s := New(nil, SampleSession())

	rec := do(t, s, http.MethodPost, "/session/demo/mcq/b4", nil, "")
	items, err := api.DecodeMCQs(rec.Body.Bytes())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, []string{"True", "False"}, items[0].Options)
}

func TestMCQAskedDeduplicates(t *testing.T) {
	s := New(nil, SampleSession())
	item := api.MCQItem{Question: "Q1", Options: []string{"A", "B"}, Answer: "A"}
	body, err := json.Marshal(item)
	require.NoError(t, err)

	for range 2 {
		rec := do(t, s, http.MethodPost, "/session/demo/mcq_asked/b1", bytes.NewBuffer(body), "application/json")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "OK", rec.Body.String())
	}

	sess, _ := s.Session("demo")
	assert.Equal(t, []api.MCQItem{item}, sess.Blocks[0].Asked)
}

func TestMCQAskedRejectsBadBody(t *testing.T) {
	s := New(nil, SampleSession())
	rec := do(t, s, http.MethodPost, "/session/demo/mcq_asked/b1", bytes.NewBufferString("{"), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/session/demo/mcq_asked/b1", bytes.NewBufferString(`{"question":"  "}`), "application/json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDurationRescales(t *testing.T) {
	s := New(nil, SampleSession())

	form := url.Values{"minutes": {"60"}}
	rec := do(t, s, http.MethodPost, "/session/demo/duration", bytes.NewBufferString(form.Encode()), "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusSeeOther, rec.Code)

	sess, _ := s.Session("demo")
	assert.Equal(t, 24, sess.Blocks[0].Minutes)
	assert.Equal(t, 60, sess.TotalMinutes())
}

func TestDurationFloorsAtThreeMinutes(t *testing.T) {
	s := New(nil, SampleSession())

	form := url.Values{"minutes": {"1"}}
	do(t, s, http.MethodPost, "/session/demo/duration", bytes.NewBufferString(form.Encode()), "application/x-www-form-urlencoded")

	sess, _ := s.Session("demo")
	for _, b := range sess.Blocks {
		assert.GreaterOrEqual(t, b.Minutes, 3)
	}
}

func pinForm(t *testing.T, s *Server, text string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"text": {text}}
	return do(t, s, http.MethodPost, "/session/demo/pin", bytes.NewBufferString(form.Encode()), "application/x-www-form-urlencoded")
}

func TestPinTogglesAndCaps(t *testing.T) {
	s := New(nil, SampleSession())

	rec := pinForm(t, s, "one")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/session/demo", rec.Header().Get("Location"))

	pinForm(t, s, "two")
	pinForm(t, s, "three")
	sess, _ := s.Session("demo")
	assert.Equal(t, []string{"three", "two", "one"}, sess.Pins)

	pinForm(t, s, "four")
	sess, _ = s.Session("demo")
	assert.Equal(t, []string{"four", "three", "two"}, sess.Pins, "oldest pin drops past three")

	pinForm(t, s, "three")
	sess, _ = s.Session("demo")
	assert.Equal(t, []string{"four", "two"}, sess.Pins, "pinning again unpins")

	assert.Equal(t, http.StatusBadRequest, pinForm(t, s, "  ").Code)
	form := url.Values{"text": {"x"}}
	rec = do(t, s, http.MethodPost, "/session/nope/pin", bytes.NewBufferString(form.Encode()), "application/x-www-form-urlencoded")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPinsParseBack(t *testing.T) {
	s := New(nil, SampleSession())
	pinForm(t, s, "Elastic demand has an absolute elasticity above one.")
	pinForm(t, s, "Necessities tend to have inelastic demand.")

	rec := do(t, s, http.MethodGet, "/session/demo", nil, "")
	doc, err := api.ParseDocument(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Necessities tend to have inelastic demand.",
		"Elastic demand has an absolute elasticity above one.",
	}, doc.Pins)
	assert.Len(t, doc.Blocks[0].Notes, 3, "pins are not block notes")
}

func TestExport(t *testing.T) {
	s := New(nil, SampleSession())
	item, _ := json.Marshal(api.MCQItem{Question: "Q1", Options: []string{"A", "B"}, Answer: "A"})
	do(t, s, http.MethodPost, "/session/demo/mcq_asked/b1", bytes.NewBuffer(item), "application/json")
	do(t, s, http.MethodPost, "/session/demo/toggle-covered/b1", nil, "")
	pinForm(t, s, "Necessities tend to have inelastic demand.")

	rec := do(t, s, http.MethodGet, "/session/demo/export", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	want := `# Session: Price elasticity (demo)

## Covered

- Elasticity basics (12m)

## Missed / Next Up

- Determinants (6m)
- Total revenue test (6m)
- Cross elasticity (6m)

## Pinned

> Necessities tend to have inelastic demand.

## MCQs Asked (by topic)

### Elasticity basics
1. Q1
   A. A
   B. B
   **Answer:** A

`
	assert.Equal(t, want, rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "session-demo.md")
}

func TestExportWithoutQuestions(t *testing.T) {
	s := New(nil, SampleSession())

	rec := do(t, s, http.MethodGet, "/session/demo/export", nil, "")
	out := rec.Body.String()
	assert.Contains(t, out, "## Pinned\n\n")
	assert.NotContains(t, out, "## MCQs Asked")
	assert.NotContains(t, out, "## Covered\n\n-")
}

func TestExportLettersPastZ(t *testing.T) {
	opts := make([]string, 28)
	for i := range opts {
		opts[i] = "o"
	}
	sess := SampleSession()
	sess.Blocks[0].Asked = []api.MCQItem{{Question: "Many", Options: opts, Answer: "o"}}

	out := renderExport(sess)
	assert.Contains(t, out, "   Z. o\n   AA. o\n   AB. o\n")
}

func TestDelete(t *testing.T) {
	s := New(nil, SampleSession())

	rec := do(t, s, http.MethodPost, "/session/demo/delete", nil, "")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	_, ok := s.Session("demo")
	assert.False(t, ok)

	rec = do(t, s, http.MethodPost, "/session/demo/delete", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func multipartStart(t *testing.T, name string, notes ...string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("session_name", name))
	require.NoError(t, mw.WriteField("minutes", "40"))
	for _, n := range notes {
		fw, err := mw.CreateFormFile("notes", "notes.md")
		require.NoError(t, err)
		_, err = fw.Write([]byte(n))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestStartCreatesSession(t *testing.T) {
	s := New(nil)

	body, ct := multipartStart(t, "Cells", "# Membranes\n- Lipid bilayer\n\n# Organelles\n- Mitochondria\n- Ribosomes\n")
	rec := do(t, s, http.MethodPost, "/start", body, ct)
	require.Equal(t, http.StatusSeeOther, rec.Code)

	loc := rec.Header().Get("Location")
	require.True(t, strings.HasPrefix(loc, "/session/"))
	sid := strings.TrimPrefix(loc, "/session/")

	sess, ok := s.Session(sid)
	require.True(t, ok)
	assert.Equal(t, "Cells", sess.Name)
	require.Len(t, sess.Blocks, 2)
	assert.Equal(t, "Membranes", sess.Blocks[0].Title)
	assert.Equal(t, []string{"Mitochondria", "Ribosomes"}, sess.Blocks[1].Notes)
	assert.Greater(t, sess.Blocks[0].Minutes, sess.Blocks[1].Minutes)
}

func TestStartValidation(t *testing.T) {
	s := New(nil, SampleSession())

	body, ct := multipartStart(t, "")
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/start", body, ct).Code)

	body, ct = multipartStart(t, "Empty")
	assert.Equal(t, http.StatusBadRequest, do(t, s, http.MethodPost, "/start", body, ct).Code)

	body, ct = multipartStart(t, "price elasticity", "# A\n- b\n")
	assert.Equal(t, http.StatusConflict, do(t, s, http.MethodPost, "/start", body, ct).Code)
}

func TestPlanFromMarkdownWithoutHeadings(t *testing.T) {
	blocks := planFromMarkdown([]string{"just a line\n* another\n"}, 30)
	require.Len(t, blocks, 1)
	assert.Equal(t, "Session Overview", blocks[0].Title)
	assert.Equal(t, []string{"just a line", "another"}, blocks[0].Notes)
	assert.Equal(t, 30, blocks[0].Minutes)
}

func TestSeedIsCopied(t *testing.T) {
	seed := SampleSession()
	s := New(nil, seed)
	do(t, s, http.MethodPost, "/session/demo/toggle-covered/b1", nil, "")
	assert.False(t, seed.Blocks[0].Covered)
}
