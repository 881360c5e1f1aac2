package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/ignite/newsletter/internal/domain"
	"github.com/ignite/newsletter/internal/pkg/httputil"
	"github.com/ignite/newsletter/internal/pkg/logger"
	"github.com/ignite/newsletter/internal/pkg/metrics"
	"github.com/ignite/newsletter/internal/service/newsletter"
)

// Handlers contains the newsletter HTTP handlers
type Handlers struct {
	svc     *newsletter.Service
	store   newsletter.Acquirer
	archive newsletter.Archiver
	events  *metrics.Subscribers
}

// NewHandlers creates a new Handlers instance. events may be nil.
func NewHandlers(svc *newsletter.Service, store newsletter.Acquirer, archive newsletter.Archiver, events *metrics.Subscribers) *Handlers {
	return &Handlers{svc: svc, store: store, archive: archive, events: events}
}

// observe counts a finished service operation by its error code.
func (h *Handlers) observe(operation string, err error) {
	outcome := "success"
	if err != nil {
		outcome = newsletter.AsError(err).Code
	}
	h.events.Observe(operation, outcome)
}

type subscribeRequest struct {
	Email string `json:"email"`
}

type unsubscribeRequest struct {
	Email string `json:"email"`
	Token string `json:"token"`
}

// acquire checks out a store handle for the request. On failure the 503
// response has already been written.
func (h *Handlers) acquire(w http.ResponseWriter, r *http.Request) (newsletter.Repository, func(), bool) {
	repo, release, err := h.store.Acquire(r.Context())
	if err != nil {
		respondError(w, r, err)
		return nil, nil, false
	}
	return repo, release, true
}

// pathParam returns the decoded value of a route parameter. chi routes on
// RawPath when it is set, so only then is the value still escaped.
func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if r.URL.RawPath == "" {
		return v
	}
	if decoded, err := url.PathUnescape(v); err == nil {
		return decoded
	}
	return v
}

// AddSubscriber registers an email.
//
//	POST /newsletter {"email": "..."}
func (h *Handlers) AddSubscriber(w http.ResponseWriter, r *http.Request) {
	var req subscribeRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	repo, release, ok := h.acquire(w, r)
	if !ok {
		return
	}
	defer release()

	sub, err := h.svc.AddSubscriber(r.Context(), repo, req.Email)
	h.observe("add", err)
	if err != nil {
		respondError(w, r, err)
		return
	}
	logger.Info("subscriber added", "email", sub.Email, "id", sub.ID)
	httputil.Created(w, sub)
}

// RemoveSubscriber deletes an email when the caller presents its token.
//
//	DELETE /newsletter {"email": "...", "token": "..."}
func (h *Handlers) RemoveSubscriber(w http.ResponseWriter, r *http.Request) {
	var req unsubscribeRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	repo, release, ok := h.acquire(w, r)
	if !ok {
		return
	}
	defer release()

	err := h.svc.RemoveSubscriber(r.Context(), repo, req.Email, req.Token)
	h.observe("remove", err)
	if err != nil {
		respondError(w, r, err)
		return
	}
	logger.Info("subscriber removed", "email", req.Email)
	httputil.OK(w, struct{}{})
}

// ListSubscribers returns every subscriber.
//
//	GET /newsletter/{admin_token}
func (h *Handlers) ListSubscribers(w http.ResponseWriter, r *http.Request) {
	repo, release, ok := h.acquire(w, r)
	if !ok {
		return
	}
	defer release()

	subs, err := h.svc.ListSubscribers(r.Context(), repo, pathParam(r, "admin_token"))
	h.observe("list", err)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httputil.Success[[]domain.Subscriber](http.StatusOK, subs).Render(w)
}

// GetSubscriber returns one subscriber.
//
//	GET /newsletter/{admin_token}/{email}
func (h *Handlers) GetSubscriber(w http.ResponseWriter, r *http.Request) {
	repo, release, ok := h.acquire(w, r)
	if !ok {
		return
	}
	defer release()

	sub, err := h.svc.GetSubscriber(r.Context(), repo, pathParam(r, "admin_token"), pathParam(r, "email"))
	h.observe("get", err)
	if err != nil {
		respondError(w, r, err)
		return
	}
	httputil.OK(w, sub)
}

// ExportSubscribers writes a snapshot of the list to the archive.
//
//	POST /newsletter/{admin_token}/export
func (h *Handlers) ExportSubscribers(w http.ResponseWriter, r *http.Request) {
	if h.archive == nil {
		respondError(w, r, newsletter.ErrUnavailable)
		return
	}
	repo, release, ok := h.acquire(w, r)
	if !ok {
		return
	}
	defer release()

	export, err := h.svc.ExportSubscribers(r.Context(), repo, h.archive, pathParam(r, "admin_token"))
	h.observe("export", err)
	if err != nil {
		respondError(w, r, err)
		return
	}
	logger.Info("subscribers exported", "key", export.Key, "count", export.Count)
	httputil.Created(w, export)
}
