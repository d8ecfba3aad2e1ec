package handlers

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"

	"io.winapps.traveljournal/internal/config"
	firebaseutil "io.winapps.traveljournal/internal/firebase"
	"io.winapps.traveljournal/internal/middleware"
	journal "io.winapps.traveljournal/internal/models/journal"
	"io.winapps.traveljournal/internal/pages"
	"io.winapps.traveljournal/internal/upload"
	"io.winapps.traveljournal/internal/viewmodel"
)

//go:embed templates/*.html
var templateFS embed.FS

// Templates parses the embedded page templates.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(template.FuncMap{
		"cover": func(e journal.Entry) string {
			cover, _ := journal.EffectiveCover(e)
			return cover
		},
		"date": func(t time.Time) string {
			return t.Format("Jan 2, 2006")
		},
	}).ParseFS(templateFS, "templates/*.html"))
}

// PageHandler renders the server side pages.
type PageHandler struct {
	entries   *EntryHandler
	firebase  config.FirebaseConfig
	sessions  firebaseutil.SessionMinter
	secure    bool
	cookieTTL time.Duration
}

func NewPageHandler(entries *EntryHandler, firebaseCfg config.FirebaseConfig, sessions firebaseutil.SessionMinter, secureCookies bool) *PageHandler {
	return &PageHandler{
		entries:   entries,
		firebase:  firebaseCfg,
		sessions:  sessions,
		secure:    secureCookies,
		cookieTTL: firebaseCfg.SessionTTL,
	}
}

type pageData struct {
	Page     pages.Page
	SignedIn bool
	Firebase config.FirebaseConfig
	Error    string
	Notice   string
	Cover    string

	Term    string
	Entries []journal.Entry
	Total   int

	Entry   journal.Entry
	Images  []string
	CanEdit bool
	Back    string
}

// resolve redirects to the canonical path of the page the request maps to.
func (h *PageHandler) resolve(c *gin.Context) (pages.Page, bool) {
	page := pages.NewNavigator(currentUID(c) != "").Follow(c.Request.URL.Path)
	if page.Path() != c.Request.URL.Path {
		c.Redirect(http.StatusSeeOther, page.Path())
		return page, false
	}
	return page, true
}

func (h *PageHandler) base(c *gin.Context, page pages.Page) pageData {
	return pageData{Page: page, SignedIn: currentUID(c) != "", Firebase: h.firebase}
}

// RequireSession sends visitors without a session back to the landing page.
func (h *PageHandler) RequireSession(c *gin.Context) {
	if currentUID(c) == "" {
		c.Redirect(http.StatusSeeOther, "/")
		c.Abort()
		return
	}
	c.Next()
}

// Home shows the landing page to visitors and the dashboard to signed-in users
func (h *PageHandler) Home(c *gin.Context) {
	page, ok := h.resolve(c)
	if !ok {
		return
	}
	if page.Kind == pages.Landing {
		c.HTML(http.StatusOK, "landing.html", h.base(c, page))
		return
	}
	h.renderList(c, page, http.StatusOK, "")
}

// Explore lists every user's entries
func (h *PageHandler) Explore(c *gin.Context) {
	page, ok := h.resolve(c)
	if !ok {
		return
	}
	h.renderList(c, page, http.StatusOK, "")
}

func (h *PageHandler) renderList(c *gin.Context, page pages.Page, status int, formErr string) {
	scope, _ := page.Scope()
	view := h.entries.journalView(c, scope)
	if err := view.Refresh(c.Request.Context()); err != nil {
		logWithContext(h.entries.logger, c, "warn", "Failed to load entries", "scope", scope, "error", err)
	}
	view.SetSearchTerm(c.Query("q"))
	h.writeList(c, page, status, formErr, view)
}

func (h *PageHandler) writeList(c *gin.Context, page pages.Page, status int, formErr string, view *viewmodel.JournalView) {
	data := h.base(c, page)
	data.Error = formErr
	data.Notice = view.Notice()
	data.Term = view.Term()
	data.Entries = view.Visible()
	data.Total = len(view.Entries())

	tmpl := "dashboard.html"
	if page.Kind == pages.Explore {
		tmpl = "explore.html"
	}
	c.HTML(status, tmpl, data)
}

// Detail shows one entry; the owner also gets the gallery controls
func (h *PageHandler) Detail(c *gin.Context) {
	page, ok := h.resolve(c)
	if !ok {
		return
	}
	h.renderDetail(c, page, http.StatusOK, "")
}

func (h *PageHandler) renderDetail(c *gin.Context, page pages.Page, status int, formErr string) {
	view := h.entries.entryView(c)
	if err := view.Load(c.Request.Context(), page.EntryID); err != nil {
		h.detailError(c, page, "Failed to load entry", err)
		return
	}
	h.writeDetail(c, page, status, formErr, view)
}

func (h *PageHandler) writeDetail(c *gin.Context, page pages.Page, status int, formErr string, view *viewmodel.EntryView) {
	data := h.base(c, page)
	data.Error = formErr
	data.Entry = view.Entry()
	data.Images = view.Images()
	data.CanEdit = view.CanEdit()
	data.Cover, _ = view.Cover()
	data.Back = backPath(c, page)
	c.HTML(status, "detail.html", data)
}

func (h *PageHandler) detailError(c *gin.Context, page pages.Page, msg string, err error) {
	code, clientMsg := statusFor(err)
	logWithContext(h.entries.logger, c, "warn", msg, "entry_id", page.EntryID, "error", err)
	data := h.base(c, page)
	data.Error = clientMsg
	data.Back = backPath(c, page)
	c.HTML(code, "detail.html", data)
}

// backPath is where the Back link of a detail page leads: the list the
// visitor came from, or the dashboard.
func backPath(c *gin.Context, page pages.Page) string {
	nav := pages.NewNavigator(currentUID(c) != "")
	if ref, err := url.Parse(c.Request.Referer()); err == nil && ref.Path != "" {
		nav.Follow(ref.Path)
	}
	nav.Follow(page.Path())
	return nav.Back().Path()
}

// CreateEntry handles the dashboard form
func (h *PageHandler) CreateEntry(c *gin.Context) {
	page := pages.Page{Kind: pages.Dashboard}

	files, err := formFiles(c)
	if err != nil {
		h.renderList(c, page, http.StatusBadRequest, "Invalid photo upload")
		return
	}

	view := h.entries.journalView(c, journal.ScopeMine)
	_, res, err := view.Create(c.Request.Context(), journal.Draft{
		Title:       c.PostForm("title"),
		Location:    c.PostForm("location"),
		Description: c.PostForm("description"),
	}, files)
	if err != nil {
		code, msg := statusFor(err)
		logWithContext(h.entries.logger, c, "warn", "Failed to create entry", "error", err)
		h.renderList(c, page, code, msg)
		return
	}
	if len(res.Failed) > 0 {
		h.writeList(c, page, http.StatusOK, failedMessage(res.Failed), view)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// loadOwned loads the entry behind a detail form. It renders the error page
// and returns false when the entry is missing or the form cannot apply.
func (h *PageHandler) loadOwned(c *gin.Context, page pages.Page) (*viewmodel.EntryView, bool) {
	view := h.entries.entryView(c)
	if err := view.Load(c.Request.Context(), page.EntryID); err != nil {
		h.detailError(c, page, "Failed to load entry", err)
		return nil, false
	}
	if !view.CanEdit() {
		h.detailError(c, page, "Entry is not owned by the session user", journal.ErrNotFound)
		return nil, false
	}
	return view, true
}

// UpdateEntry handles the edit form on the detail page. Only the fields the
// form submitted are changed.
func (h *PageHandler) UpdateEntry(c *gin.Context) {
	page := pages.Page{Kind: pages.Detail, EntryID: c.Param("id")}
	view, ok := h.loadOwned(c, page)
	if !ok {
		return
	}

	var patch journal.Patch
	if v, ok := c.GetPostForm("title"); ok {
		patch.Title = &v
	}
	if v, ok := c.GetPostForm("location"); ok {
		patch.Location = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		patch.Description = &v
	}
	if v, ok := c.GetPostForm("coverImage"); ok && v != "" {
		patch.CoverImage = &v
	}

	if err := view.Update(c.Request.Context(), patch); err != nil {
		code, msg := statusFor(err)
		logWithContext(h.entries.logger, c, "warn", "Failed to update entry", "entry_id", page.EntryID, "error", err)
		h.writeDetail(c, page, code, msg, view)
		return
	}
	c.Redirect(http.StatusSeeOther, page.Path())
}

// DeleteEntry handles the confirmed delete form on the detail page
func (h *PageHandler) DeleteEntry(c *gin.Context) {
	page := pages.Page{Kind: pages.Detail, EntryID: c.Param("id")}
	view, ok := h.loadOwned(c, page)
	if !ok {
		return
	}
	if err := view.Delete(c.Request.Context()); err != nil {
		code, msg := statusFor(err)
		logWithContext(h.entries.logger, c, "warn", "Failed to delete entry", "entry_id", page.EntryID, "error", err)
		h.renderDetail(c, page, code, msg)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

// AddPhotos handles the detail page upload form
func (h *PageHandler) AddPhotos(c *gin.Context) {
	page := pages.Page{Kind: pages.Detail, EntryID: c.Param("id")}

	files, err := formFiles(c)
	if err != nil || len(files) == 0 {
		h.renderDetail(c, page, http.StatusBadRequest, "Choose at least one photo")
		return
	}

	view := h.entries.journalView(c, journal.ScopeMine)
	_, res, err := view.AddPhotos(c.Request.Context(), page.EntryID, files)
	if err != nil {
		code, msg := statusFor(err)
		logWithContext(h.entries.logger, c, "warn", "Failed to add photos", "entry_id", page.EntryID, "error", err)
		h.renderDetail(c, page, code, msg)
		return
	}
	if len(res.Failed) > 0 {
		h.renderDetail(c, page, http.StatusOK, failedMessage(res.Failed))
		return
	}
	c.Redirect(http.StatusSeeOther, page.Path())
}

// RemovePhoto handles the confirmed remove form on a gallery image
func (h *PageHandler) RemovePhoto(c *gin.Context) {
	page := pages.Page{Kind: pages.Detail, EntryID: c.Param("id")}

	view := h.entries.journalView(c, journal.ScopeMine)
	if _, err := view.RemovePhoto(c.Request.Context(), page.EntryID, c.PostForm("imageUrl")); err != nil {
		code, msg := statusFor(err)
		logWithContext(h.entries.logger, c, "warn", "Failed to remove photo", "entry_id", page.EntryID, "error", err)
		h.renderDetail(c, page, code, msg)
		return
	}
	c.Redirect(http.StatusSeeOther, page.Path())
}

// SignIn exchanges the Firebase ID token posted by the sign-in widget for a
// session cookie and sends the user to the page they signed in from.
func (h *PageHandler) SignIn(c *gin.Context) {
	nav := pages.NewNavigator(false)
	nav.Follow(c.PostForm("next"))

	token := c.PostForm("idToken")
	if token == "" {
		c.Redirect(http.StatusSeeOther, nav.Current().Path())
		return
	}
	cookie, err := h.sessions.SessionCookie(c.Request.Context(), token, h.cookieTTL)
	if err != nil {
		logWithContext(h.entries.logger, c, "warn", "Failed to create session cookie", "error", err)
		data := h.base(c, pages.Page{Kind: pages.Landing})
		data.Error = "Sign-in failed, please try again"
		c.HTML(http.StatusUnauthorized, "landing.html", data)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, cookie, int(h.cookieTTL.Seconds()), "/", "", h.secure, true)
	c.Redirect(http.StatusSeeOther, nav.SignIn().Path())
}

// SignOut clears the session cookie
func (h *PageHandler) SignOut(c *gin.Context) {
	nav := pages.NewNavigator(true)
	nav.Follow(c.PostForm("next"))

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secure, true)
	c.Redirect(http.StatusSeeOther, nav.SignOut().Path())
}

func failedMessage(failed []upload.Failure) string {
	names := lo.Map(failed, func(f upload.Failure, _ int) string { return f.Name })
	return "Some photos could not be uploaded: " + strings.Join(names, ", ")
}
