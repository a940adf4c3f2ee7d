package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"shotchart/internal/domain"
	"shotchart/internal/session"
	"shotchart/internal/state"
	"shotchart/internal/view"
)

// Index renders the page for the caller's session. HTMX requests get only
// the main region.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	root := h.root(r)
	deps := h.deps(r.Context())

	if isHTMX(r) {
		render(w, r, http.StatusOK, view.Main(root.View(), deps))
		return
	}
	render(w, r, http.StatusOK, view.Page(root.Snapshot(), deps))
}

// Search renders the result list for the search pane. An empty query clears
// the list.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		render(w, r, http.StatusOK, view.SearchResults("", nil, nil))
		return
	}

	players, err := h.players.SearchPlayers(r.Context(), query, 0)
	if err != nil {
		if _, ok := domain.AsValidation(err); !ok {
			slog.WarnContext(r.Context(), "player search failed", "query", query, "error", err)
		}
	}
	render(w, r, http.StatusOK, view.SearchResults(query, players, err))
}

// Select resolves the submitted player and makes it the selection
func (h *Handler) Select(w http.ResponseWriter, r *http.Request) {
	root := h.root(r)
	if err := r.ParseForm(); err != nil {
		h.renderSelectError(w, r, http.StatusBadRequest, &domain.ValidationError{Code: "INVALID_REQUEST", Message: "Invalid request"})
		return
	}

	id, err := strconv.Atoi(r.PostForm.Get("player_id"))
	if err == nil {
		err = domain.ValidatePlayerID(id)
	} else {
		err = &domain.ValidationError{Code: domain.CodeInvalidPlayerID, Message: "Player ID must be a positive integer"}
	}
	if err != nil {
		h.renderSelectError(w, r, http.StatusBadRequest, err)
		return
	}

	// Stats are resolved for the season the filters currently show.
	season := root.Snapshot().Filter.Season
	player, err := h.players.ResolvePlayer(r.Context(), id, season)
	switch {
	case errors.Is(err, domain.ErrPlayerNotFound):
		h.renderSelectError(w, r, http.StatusNotFound, err)
		return
	case err != nil:
		if _, ok := domain.AsValidation(err); ok {
			h.renderSelectError(w, r, http.StatusBadRequest, err)
			return
		}
		slog.ErrorContext(r.Context(), "failed to resolve player", "player_id", id, "error", err)
		h.renderSelectError(w, r, http.StatusBadGateway, err)
		return
	}

	root.Callbacks().OnPlayerSelect(player)
	slog.InfoContext(r.Context(), "player selected", "player_id", player.ID, "name", player.FullName)

	h.afterTransition(w, r, root)
}

// renderSelectError reports a failed selection. htmx requests get the
// message in the search pane with a 200, so the main region is left alone.
func (h *Handler) renderSelectError(w http.ResponseWriter, r *http.Request, status int, err error) {
	title := "Unable to load player"
	if status == http.StatusNotFound {
		title = "Player not found"
	}
	detail := ""
	if ve, ok := domain.AsValidation(err); ok {
		detail = ve.Message
	} else if h.cfg.Debug {
		detail = err.Error()
	}

	if isHTMX(r) {
		w.Header().Set("HX-Retarget", "#"+view.SearchResultsID)
		w.Header().Set("HX-Reswap", "innerHTML")
		render(w, r, http.StatusOK, view.SelectError(title, detail))
		return
	}
	render(w, r, status, view.ErrorPanel(title, detail))
}

// Filters builds the next filter record from the submitted form and
// replaces the current one. Rejected submissions leave the filter unchanged.
func (h *Handler) Filters(w http.ResponseWriter, r *http.Request) {
	root := h.root(r)
	if err := r.ParseForm(); err != nil {
		render(w, r, http.StatusBadRequest, view.ErrorPanel("Invalid request", ""))
		return
	}

	// The next record is built from the current one under the root's lock.
	err := root.Callbacks().OnFilterEdit(func(prev domain.Filter) (domain.Filter, error) {
		return view.NextFilter(prev, r.PostForm)
	})
	if err != nil {
		msg := err.Error()
		if ve, ok := domain.AsValidation(err); ok {
			msg = ve.Message
		}
		if isHTMX(r) {
			// htmx does not swap 4xx bodies, so the message goes to the
			// form's error slot with a 200.
			w.Header().Set("HX-Retarget", "#"+view.FilterErrorID)
			w.Header().Set("HX-Reswap", "innerHTML")
			render(w, r, http.StatusOK, view.FilterError(msg))
			return
		}
		render(w, r, http.StatusBadRequest, view.ErrorPanel("Invalid filter", msg))
		return
	}

	h.afterTransition(w, r, root)
}

// afterTransition answers a state change: the new main region for htmx,
// a redirect back to the page otherwise.
func (h *Handler) afterTransition(w http.ResponseWriter, r *http.Request, root *state.Root) {
	if isHTMX(r) {
		render(w, r, http.StatusOK, view.Main(root.View(), h.deps(r.Context())))
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// root returns the session root stored by the session middleware
func (h *Handler) root(r *http.Request) *state.Root {
	root, ok := session.FromContext(r.Context())
	if !ok {
		// Routes are always wrapped by the session middleware.
		panic("handler: no session in request context")
	}
	return root
}
