package admin

import (
	"errors"
	"net/http"

	"github.com/a-h/templ"
	"github.com/rust-in/site/internal/platform/requestctx"
	"github.com/rust-in/site/internal/services/site/auth"
	"github.com/rust-in/site/internal/services/site/collections"
	"github.com/rust-in/site/internal/services/site/web/platform/httpx"
	"github.com/rust-in/site/internal/services/site/web/platform/pagerender"
	"github.com/rust-in/site/internal/services/site/web/platform/sessioncookie"
	"github.com/rust-in/site/internal/services/site/web/platform/weberror"
	"github.com/rust-in/site/internal/services/site/web/routepath"
	"github.com/rust-in/site/internal/services/site/web/templates"
	"go.uber.org/zap"
)

// maxFormBytes bounds urlencoded admin forms.
const maxFormBytes = 1 << 20

// messagesLimit caps the inbox listing.
const messagesLimit = 200

type handlers struct {
	cfg      Config
	renderer *pagerender.Renderer
	logger   *zap.Logger
}

func newHandlers(cfg Config) handlers {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	renderer := cfg.Renderer
	if renderer == nil {
		renderer = &pagerender.Renderer{Policy: cfg.Policy, Logger: logger}
	}
	return handlers{cfg: cfg, renderer: renderer, logger: logger}
}

func (h handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	if _, ok := requestctx.PrincipalFromContext(r.Context()); ok {
		httpx.SeeOther(w, r, routepath.AdminPrefix)
		return
	}
	h.renderLogin(w, r, "", http.StatusOK)
}

func (h handlers) handleLoginSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}
	email := r.PostForm.Get("email")
	user, err := h.cfg.Auth.Authenticate(r.Context(), email, r.PostForm.Get("password"))
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			h.renderLogin(w, r, email, http.StatusUnauthorized)
			return
		}
		h.writeError(w, r, err)
		return
	}
	token, expires, err := h.cfg.Auth.IssueToken(user)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	sessioncookie.Write(w, r, token, expires, h.cfg.Policy)
	h.logger.Info("admin signed in", zap.String("user_id", user.ID))
	httpx.SeeOther(w, r, routepath.AdminPrefix)
}

func (h handlers) renderLogin(w http.ResponseWriter, r *http.Request, email string, status int) {
	admin := h.renderer.AdminContext(w, r, pagerender.Localizer(r).Sprintf("admin.login.title"))
	admin.UserName = ""
	h.write(w, r, admin, status, templates.AdminLogin(admin, email, status == http.StatusUnauthorized))
}

func (h handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	sessioncookie.Clear(w, r, h.cfg.Policy)
	httpx.SeeOther(w, r, routepath.AdminLogin)
}

func (h handlers) handleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	schemas := collections.All()
	counts := make([]templates.CollectionCount, 0, len(schemas))
	for _, schema := range schemas {
		count, err := h.cfg.Docs.CountDocuments(ctx, schema.Slug)
		if err != nil {
			h.writeError(w, r, err)
			return
		}
		counts = append(counts, templates.CollectionCount{Schema: schema, Count: count})
	}
	unread, err := h.cfg.Messages.CountUnreadContactMessages(ctx)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	admin := h.adminContext(w, r, "admin.dashboard.title")
	h.write(w, r, admin, http.StatusOK, templates.AdminDashboard(admin, counts, unread))
}

func (h handlers) handleMessages(w http.ResponseWriter, r *http.Request) {
	messages, err := h.cfg.Messages.ListContactMessages(r.Context(), messagesLimit)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	admin := h.adminContext(w, r, "admin.messages.title")
	h.write(w, r, admin, http.StatusOK, templates.AdminMessages(admin, messages))
}

func (h handlers) handleMessageRead(w http.ResponseWriter, r *http.Request) {
	if err := h.cfg.Messages.MarkContactMessageRead(r.Context(), r.PathValue("id")); err != nil {
		h.writeError(w, r, err)
		return
	}
	httpx.SeeOther(w, r, routepath.AdminMessages)
}

func (h handlers) handleNotFound(w http.ResponseWriter, r *http.Request) {
	weberror.WriteAppError(w, r, h.renderer, http.StatusNotFound)
}

func (h handlers) adminContext(w http.ResponseWriter, r *http.Request, titleKey string, args ...any) templates.AdminContext {
	return h.renderer.AdminContext(w, r, pagerender.Localizer(r).Sprintf(titleKey, args...))
}

func (h handlers) write(w http.ResponseWriter, r *http.Request, admin templates.AdminContext, status int, body templ.Component) {
	if err := h.renderer.WriteAdmin(w, r, admin, status, body); err != nil {
		h.writeError(w, r, err)
	}
}

func (h handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	weberror.WriteError(w, r, h.renderer, h.logger, err)
}
