package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"io.winapps.traveljournal/internal/entries/entriestest"
	journal "io.winapps.traveljournal/internal/models/journal"
	"io.winapps.traveljournal/internal/storage/storagetest"
	"io.winapps.traveljournal/internal/upload"
)

const testUIDHeader = "X-Test-UID"

type stubSuggester struct {
	queries []string
}

func (s *stubSuggester) Suggest(_ context.Context, text string) []journal.Location {
	s.queries = append(s.queries, text)
	if len([]rune(text)) <= 2 {
		return []journal.Location{}
	}
	return []journal.Location{{ID: "1", Name: "Paris", DisplayName: "Paris, France"}}
}

type testServer struct {
	store     *entriestest.Store
	objects   *storagetest.Memory
	suggester *stubSuggester
	router    *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop().Sugar()
	store := entriestest.NewStore()
	objects := storagetest.NewMemory()
	orchestrator := upload.NewOrchestrator(objects, nil, upload.Options{}, logger, nil)
	entryHandler := NewEntryHandler(store, orchestrator, time.Second, logger)
	suggester := &stubSuggester{}
	locationHandler := NewLocationHandler(suggester, logger)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		if uid := c.GetHeader(testUIDHeader); uid != "" {
			c.Set("uid", uid)
		}
		c.Next()
	})

	v1 := router.Group("/api/v1")
	v1.POST("/entries/list-entries", entryHandler.ListEntries)
	v1.POST("/entries/get-entry", entryHandler.GetEntry)
	v1.POST("/entries/create-entry", entryHandler.CreateEntry)
	v1.POST("/entries/update-entry", entryHandler.UpdateEntry)
	v1.POST("/entries/delete-entry", entryHandler.DeleteEntry)
	v1.POST("/entries/add-photos", entryHandler.AddPhotos)
	v1.POST("/entries/remove-photo", entryHandler.RemovePhoto)
	v1.POST("/explore/list-entries", entryHandler.ExploreEntries)
	v1.GET("/locations/suggest", locationHandler.SuggestLocations)

	return &testServer{store: store, objects: objects, suggester: suggester, router: router}
}

func (s *testServer) do(t *testing.T, req *http.Request, uid string) *httptest.ResponseRecorder {
	t.Helper()
	if uid != "" {
		req.Header.Set(testUIDHeader, uid)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) postJSON(t *testing.T, path, uid string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	return s.do(t, req, uid)
}

func (s *testServer) postMultipart(t *testing.T, path, uid string, fields map[string]string, photos ...string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	for _, name := range photos {
		fw, err := mw.CreateFormFile(photosField, name)
		require.NoError(t, err)
		_, err = fw.Write([]byte("image:" + name))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return s.do(t, req, uid)
}

func (s *testServer) seed(e journal.Entry) journal.Entry {
	if e.Gallery == nil {
		e.Gallery = []string{}
	}
	s.store.Put(e)
	return e
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

type entryJSON struct {
	ID             string   `json:"id"`
	OwnerID        string   `json:"ownerId"`
	Title          string   `json:"title"`
	Location       string   `json:"location"`
	CoverImage     *string  `json:"coverImage"`
	Gallery        []string `json:"gallery"`
	EffectiveCover *string  `json:"effectiveCover"`
}

type errorJSON struct {
	Error string `json:"error"`
}

func TestCreateEntryWithPhotos(t *testing.T) {
	s := newTestServer(t)

	w := s.postMultipart(t, "/api/v1/entries/create-entry", "user-1",
		map[string]string{"title": "Paris Trip", "location": "Paris", "description": "Nice"},
		"a.jpg", "b.jpg")

	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	resp := decode[struct {
		Entry         entryJSON   `json:"entry"`
		FailedUploads []any       `json:"failedUploads"`
		Entries       []entryJSON `json:"entries"`
	}](t, w)

	assert.Equal(t, "Paris Trip", resp.Entry.Title)
	assert.Equal(t, "user-1", resp.Entry.OwnerID)
	require.Len(t, resp.Entry.Gallery, 2)
	require.NotNil(t, resp.Entry.CoverImage)
	assert.Equal(t, resp.Entry.Gallery[0], *resp.Entry.CoverImage)
	assert.Empty(t, resp.FailedUploads)
	require.Len(t, resp.Entries, 1)
	assert.Equal(t, resp.Entry.ID, resp.Entries[0].ID)

	data, _, ok := s.objects.Object(storagetest.KeyOf(resp.Entry.Gallery[0]))
	require.True(t, ok)
	assert.Equal(t, "image:a.jpg", string(data))
}

func TestCreateEntryWithoutTitleMakesNoCalls(t *testing.T) {
	s := newTestServer(t)

	w := s.postMultipart(t, "/api/v1/entries/create-entry", "user-1",
		map[string]string{"location": "Paris"}, "a.jpg")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Title is required", decode[errorJSON](t, w).Error)
	assert.Zero(t, s.store.Calls())
	assert.Empty(t, s.objects.Keys())
}

func TestCreateEntryReportsFailedUploads(t *testing.T) {
	s := newTestServer(t)
	s.objects.FailOn = func(key string) bool { return strings.HasSuffix(key, ".png") }

	w := s.postMultipart(t, "/api/v1/entries/create-entry", "user-1",
		map[string]string{"title": "Rome"}, "bad.png", "good.jpg")

	require.Equal(t, http.StatusCreated, w.Code)
	resp := decode[struct {
		Entry         entryJSON `json:"entry"`
		FailedUploads []struct {
			Name string `json:"name"`
		} `json:"failedUploads"`
	}](t, w)
	require.Len(t, resp.FailedUploads, 1)
	assert.Equal(t, "bad.png", resp.FailedUploads[0].Name)
	require.Len(t, resp.Entry.Gallery, 1)
	assert.Equal(t, resp.Entry.Gallery[0], *resp.Entry.CoverImage)
}

func TestListEntriesFiltersAndScopes(t *testing.T) {
	s := newTestServer(t)
	base := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	s.seed(journal.Entry{ID: "e1", OwnerID: "user-1", Title: "Paris Trip", Location: "France", CreatedAt: base})
	s.seed(journal.Entry{ID: "e2", OwnerID: "user-1", Title: "Berlin", Location: "Germany", CreatedAt: base.Add(time.Hour)})
	s.seed(journal.Entry{ID: "e3", OwnerID: "user-2", Title: "Lyon", Location: "France", CreatedAt: base.Add(2 * time.Hour)})

	w := s.postJSON(t, "/api/v1/entries/list-entries", "user-1", map[string]string{"searchQuery": "FRANCE"})
	require.Equal(t, http.StatusOK, w.Code)
	mine := decode[struct {
		Entries []entryJSON `json:"entries"`
		Total   int         `json:"total"`
	}](t, w)
	assert.Equal(t, []string{"e1"}, lo.Map(mine.Entries, func(e entryJSON, _ int) string { return e.ID }))
	assert.Equal(t, 2, mine.Total)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/explore/list-entries", nil)
	w = s.do(t, req, "")
	require.Equal(t, http.StatusOK, w.Code)
	all := decode[struct {
		Entries []entryJSON `json:"entries"`
	}](t, w)
	assert.Equal(t, []string{"e3", "e2", "e1"}, lo.Map(all.Entries, func(e entryJSON, _ int) string { return e.ID }))
}

func TestListEntriesStoreDownIsUnavailable(t *testing.T) {
	s := newTestServer(t)
	s.store.FailWith(assert.AnError)

	w := s.postJSON(t, "/api/v1/entries/list-entries", "user-1", map[string]string{})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestGetEntry(t *testing.T) {
	s := newTestServer(t)
	s.seed(journal.Entry{ID: "e1", OwnerID: "user-1", Title: "Paris", CoverImage: lo.ToPtr("x"), Gallery: []string{"x", "y"}})

	w := s.postJSON(t, "/api/v1/entries/get-entry", "user-1", map[string]string{"entryId": "e1"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[struct {
		Images  []string `json:"images"`
		CanEdit bool     `json:"canEdit"`
	}](t, w)
	assert.Equal(t, []string{"x", "y"}, resp.Images)
	assert.True(t, resp.CanEdit)

	w = s.postJSON(t, "/api/v1/entries/get-entry", "user-2", map[string]string{"entryId": "e1"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.False(t, decode[struct {
		CanEdit bool `json:"canEdit"`
	}](t, w).CanEdit)

	w = s.postJSON(t, "/api/v1/entries/get-entry", "user-1", map[string]string{"entryId": "missing"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.postJSON(t, "/api/v1/entries/get-entry", "user-1", map[string]string{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateEntry(t *testing.T) {
	s := newTestServer(t)
	s.seed(journal.Entry{ID: "e1", OwnerID: "user-1", Title: "Paris", Location: "France"})

	w := s.postJSON(t, "/api/v1/entries/update-entry", "user-1", map[string]any{"entryId": "e1", "title": "Paris again"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[struct {
		Entry entryJSON `json:"entry"`
	}](t, w)
	assert.Equal(t, "Paris again", resp.Entry.Title)
	assert.Equal(t, "France", resp.Entry.Location)

	w = s.postJSON(t, "/api/v1/entries/update-entry", "user-2", map[string]any{"entryId": "e1", "title": "mine now"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.postJSON(t, "/api/v1/entries/update-entry", "user-1", map[string]any{"entryId": "e1", "title": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestDeleteEntry(t *testing.T) {
	s := newTestServer(t)
	s.seed(journal.Entry{ID: "e1", OwnerID: "user-1", Title: "Paris"})

	w := s.postJSON(t, "/api/v1/entries/delete-entry", "user-2", map[string]string{"entryId": "e1"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.postJSON(t, "/api/v1/entries/delete-entry", "user-1", map[string]string{"entryId": "e1"})
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[struct {
		Success bool        `json:"success"`
		Entries []entryJSON `json:"entries"`
	}](t, w)
	assert.True(t, resp.Success)
	assert.Empty(t, resp.Entries)
}

func TestAddThenRemovePhoto(t *testing.T) {
	s := newTestServer(t)
	s.seed(journal.Entry{ID: "e1", OwnerID: "user-1", Title: "Paris"})

	w := s.postMultipart(t, "/api/v1/entries/add-photos", "user-1", map[string]string{"entryId": "e1"}, "x.jpg", "y.jpg")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	added := decode[struct {
		Entry  entryJSON `json:"entry"`
		Added  []string  `json:"added"`
		Images []string  `json:"images"`
	}](t, w)
	require.Len(t, added.Added, 2)
	x, y := added.Added[0], added.Added[1]
	assert.Equal(t, x, *added.Entry.CoverImage)
	assert.Equal(t, []string{x, y}, added.Images)

	w = s.postJSON(t, "/api/v1/entries/remove-photo", "user-1", map[string]string{"entryId": "e1", "imageUrl": x})
	require.Equal(t, http.StatusOK, w.Code)
	removed := decode[struct {
		Entry  entryJSON `json:"entry"`
		Images []string  `json:"images"`
	}](t, w)
	assert.Nil(t, removed.Entry.CoverImage)
	assert.Equal(t, []string{y}, removed.Entry.Gallery)
	require.NotNil(t, removed.Entry.EffectiveCover)
	assert.Equal(t, y, *removed.Entry.EffectiveCover)
	assert.Equal(t, []string{y}, removed.Images)
}

func TestAddPhotosRequiresFiles(t *testing.T) {
	s := newTestServer(t)
	s.seed(journal.Entry{ID: "e1", OwnerID: "user-1", Title: "Paris"})

	w := s.postMultipart(t, "/api/v1/entries/add-photos", "user-1", map[string]string{"entryId": "e1"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAddPhotosToForeignEntryUploadsNothing(t *testing.T) {
	s := newTestServer(t)
	s.seed(journal.Entry{ID: "e1", OwnerID: "user-1", Title: "Paris"})

	w := s.postMultipart(t, "/api/v1/entries/add-photos", "user-2", map[string]string{"entryId": "e1"}, "x.jpg")

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, s.objects.Keys())
}

func TestSuggestLocationsEchoesSeq(t *testing.T) {
	s := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/locations/suggest?"+url.Values{"q": {"Par"}, "seq": {"7"}}.Encode(), nil)
	w := s.do(t, req, "")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[struct {
		Seq         uint64             `json:"seq"`
		Suggestions []journal.Location `json:"suggestions"`
	}](t, w)
	assert.Equal(t, uint64(7), resp.Seq)
	require.Len(t, resp.Suggestions, 1)
	assert.Equal(t, "Paris, France", resp.Suggestions[0].DisplayName)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/locations/suggest?q=P&seq=8", nil)
	w = s.do(t, req, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"seq":8,"suggestions":[]}`, w.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/api/v1/locations/suggest?seq=abc", nil)
	w = s.do(t, req, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSuggestLocationsDropsOlderRequests(t *testing.T) {
	s := newTestServer(t)
	suggest := func(seq, uid string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/locations/suggest?"+url.Values{"q": {"Paris"}, "seq": {seq}}.Encode(), nil)
		return s.do(t, req, uid)
	}

	w := suggest("9", "user-1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Paris, France")

	w = suggest("8", "user-1")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"seq":8,"suggestions":[],"stale":true}`, w.Body.String())

	w = suggest("8", "user-2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Paris, France", "numbering is per client")

	w = suggest("0", "user-1")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode[struct {
		Seq uint64 `json:"seq"`
	}](t, w)
	assert.Equal(t, uint64(10), resp.Seq, "server numbers requests that carry none")
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"validation", journal.ErrValidation, http.StatusBadRequest},
		{"not found", journal.ErrNotFound, http.StatusNotFound},
		{"remote", journal.ErrRemoteUnavailable, http.StatusServiceUnavailable},
		{"other", assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, msg := statusFor(tt.err)
			assert.Equal(t, tt.code, code)
			assert.NotEmpty(t, msg)
		})
	}
}
