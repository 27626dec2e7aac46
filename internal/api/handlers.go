package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/mathnotes-io/mathnotes/internal/access"
	"github.com/mathnotes-io/mathnotes/internal/auth"
	"github.com/mathnotes-io/mathnotes/internal/tier"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]interface{}{"error": msg})
}

func (api *Api) ListCategories(w http.ResponseWriter, r *http.Request) {
	cats := api.store.Categories()
	out := make([]categoryView, 0, len(cats))
	for _, c := range cats {
		out = append(out, categoryView{Category: c, NoteCount: api.store.NoteCount(c.ID)})
	}
	respondJSON(w, http.StatusOK, out)
}

func (api *Api) ListTiers(w http.ResponseWriter, r *http.Request) {
	out := make([]tier.Info, 0, 3)
	for _, t := range tier.All() {
		out = append(out, tier.InfoFor(t))
	}
	respondJSON(w, http.StatusOK, out)
}

// ListNotes serves note summaries, optionally narrowed by ?category= and ?q=.
func (api *Api) ListNotes(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	notes := api.store.FilterNotes(q.Get("category"), q.Get("q"))
	respondJSON(w, http.StatusOK, summaries(notes))
}

func (api *Api) RecentNotes(w http.ResponseWriter, r *http.Request) {
	limit := defaultRecentNotes
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	respondJSON(w, http.StatusOK, summaries(api.store.Recent(limit)))
}

// GetNote renders as much of the note as the caller's session allows.
func (api *Api) GetNote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	note, ok := api.store.GetByID(id)
	if !ok {
		respondError(w, http.StatusNotFound, "note not found")
		return
	}

	viewer := auth.ViewerFromContext(r.Context())
	decision := access.RenderNote(viewer, note)

	blocks := api.renders.Get(note.ID, decision.Outcome, func() []blockView {
		return renderBlocks(api.typesetter, decision.Blocks, api.log)
	})

	view := noteDetailView{
		Note:         note.Summary(),
		CategoryName: api.store.CategoryName(note.Category),
		TierInfo:     tier.InfoFor(note.Tier),
		Access:       decision.Outcome,
		Blocks:       blocks,
	}
	if decision.Outcome != access.FullAccess {
		prompt := access.PromptFor(viewer, note.Tier)
		view.Paywall = &prompt
	}

	api.log.Debug().
		Str("note", note.ID).
		Str("access", string(decision.Outcome)).
		Int("blocks", len(decision.Blocks)).
		Msg("note rendered")
	respondJSON(w, http.StatusOK, view)
}

func (api *Api) ListVideos(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	respondJSON(w, http.StatusOK, api.store.FilterVideos(q.Get("category"), q.Get("q")))
}

func (api *Api) GetVideo(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	v, ok := api.store.VideoByID(id)
	if !ok {
		respondError(w, http.StatusNotFound, "video not found")
		return
	}
	respondJSON(w, http.StatusOK, videoDetailView{
		Video:        v,
		CategoryName: api.store.CategoryName(v.Category),
		Related:      api.store.RelatedVideos(v.ID, relatedVideoLimit),
	})
}
