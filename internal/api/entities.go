package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"

	"github.com/hyperengineering/composer/internal/dependency"
	"github.com/hyperengineering/composer/internal/types"
)

// DeleteResponse is returned by entity DELETE endpoints. Deletion always
// proceeds; the impact report tells the author what the deletion touched.
type DeleteResponse struct {
	Deleted bool              `json:"deleted"`
	Impact  dependency.Impact `json:"impact"`
	Message string            `json:"message"`
}

// decodeBody decodes a JSON request body, writing a 400 problem on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		WriteProblem(w, r, http.StatusBadRequest, "Invalid JSON: "+err.Error())
		return false
	}
	return true
}

// ListPrograms handles GET /api/v1/programs
func (h *Handler) ListPrograms(w http.ResponseWriter, r *http.Request) {
	cfg := h.loadConfig(w, r)
	if cfg == nil {
		return
	}
	writeJSON(w, http.StatusOK, cfg.Programs)
}

// CreateProgram handles POST /api/v1/programs
func (h *Handler) CreateProgram(w http.ResponseWriter, r *http.Request) {
	var p types.Program
	if !decodeBody(w, r, &p) {
		return
	}
	if p.ID == "" {
		p.ID = ulid.Make().String()
	}
	if err := h.store.PutProgram(r.Context(), p.ID, p); err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// GetProgram handles GET /api/v1/programs/{id}
func (h *Handler) GetProgram(w http.ResponseWriter, r *http.Request) {
	p, err := h.store.GetProgram(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PutProgram handles PUT /api/v1/programs/{id}
func (h *Handler) PutProgram(w http.ResponseWriter, r *http.Request) {
	var p types.Program
	if !decodeBody(w, r, &p) {
		return
	}
	id := chi.URLParam(r, "id")
	p.ID = id
	if err := h.store.PutProgram(r.Context(), id, p); err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeleteProgram handles DELETE /api/v1/programs/{id}
func (h *Handler) DeleteProgram(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cfg := h.loadConfig(w, r)
	if cfg == nil {
		return
	}
	program, ok := cfg.Programs[id]
	if !ok {
		WriteProblem(w, r, http.StatusNotFound, "Resource not found")
		return
	}

	graph := dependency.Build(cfg)
	impact := dependency.ProgramDeletionImpact(id, graph)

	if err := h.store.DeleteProgram(r.Context(), id); err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteResponse{
		Deleted: true,
		Impact:  impact,
		Message: dependency.FormatImpact(entityLabel(program.Name, id), impact),
	})
}

// ListForms handles GET /api/v1/forms
func (h *Handler) ListForms(w http.ResponseWriter, r *http.Request) {
	cfg := h.loadConfig(w, r)
	if cfg == nil {
		return
	}
	writeJSON(w, http.StatusOK, cfg.Forms)
}

// CreateForm handles POST /api/v1/forms
func (h *Handler) CreateForm(w http.ResponseWriter, r *http.Request) {
	var f types.Form
	if !decodeBody(w, r, &f) {
		return
	}
	if f.ID == "" {
		f.ID = ulid.Make().String()
	}
	if err := h.store.PutForm(r.Context(), f.ID, f); err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

// GetForm handles GET /api/v1/forms/{id}
func (h *Handler) GetForm(w http.ResponseWriter, r *http.Request) {
	f, err := h.store.GetForm(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// PutForm handles PUT /api/v1/forms/{id}
func (h *Handler) PutForm(w http.ResponseWriter, r *http.Request) {
	var f types.Form
	if !decodeBody(w, r, &f) {
		return
	}
	id := chi.URLParam(r, "id")
	f.ID = id
	if err := h.store.PutForm(r.Context(), id, f); err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// DeleteForm handles DELETE /api/v1/forms/{id}
func (h *Handler) DeleteForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cfg := h.loadConfig(w, r)
	if cfg == nil {
		return
	}
	form, ok := cfg.Forms[id]
	if !ok {
		WriteProblem(w, r, http.StatusNotFound, "Resource not found")
		return
	}

	graph := dependency.Build(cfg)
	impact := dependency.FormDeletionImpact(id, graph)

	if err := h.store.DeleteForm(r.Context(), id); err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteResponse{
		Deleted: true,
		Impact:  impact,
		Message: dependency.FormatImpact(entityLabel(form.Title, id), impact),
	})
}

// ListCTAs handles GET /api/v1/ctas
func (h *Handler) ListCTAs(w http.ResponseWriter, r *http.Request) {
	cfg := h.loadConfig(w, r)
	if cfg == nil {
		return
	}
	writeJSON(w, http.StatusOK, cfg.CTAs)
}

// CreateCTA handles POST /api/v1/ctas
func (h *Handler) CreateCTA(w http.ResponseWriter, r *http.Request) {
	var c types.CTA
	if !decodeBody(w, r, &c) {
		return
	}
	if c.ID == "" {
		c.ID = ulid.Make().String()
	}
	if err := h.store.PutCTA(r.Context(), c.ID, c); err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// GetCTA handles GET /api/v1/ctas/{id}
func (h *Handler) GetCTA(w http.ResponseWriter, r *http.Request) {
	c, err := h.store.GetCTA(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// PutCTA handles PUT /api/v1/ctas/{id}
func (h *Handler) PutCTA(w http.ResponseWriter, r *http.Request) {
	var c types.CTA
	if !decodeBody(w, r, &c) {
		return
	}
	id := chi.URLParam(r, "id")
	c.ID = id
	if err := h.store.PutCTA(r.Context(), id, c); err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteCTA handles DELETE /api/v1/ctas/{id}
func (h *Handler) DeleteCTA(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cfg := h.loadConfig(w, r)
	if cfg == nil {
		return
	}
	cta, ok := cfg.CTAs[id]
	if !ok {
		WriteProblem(w, r, http.StatusNotFound, "Resource not found")
		return
	}

	graph := dependency.Build(cfg)
	impact := dependency.CTADeletionImpact(id, graph)

	if err := h.store.DeleteCTA(r.Context(), id); err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteResponse{
		Deleted: true,
		Impact:  impact,
		Message: dependency.FormatImpact(entityLabel(cta.Label, id), impact),
	})
}

// ListBranches handles GET /api/v1/branches
func (h *Handler) ListBranches(w http.ResponseWriter, r *http.Request) {
	cfg := h.loadConfig(w, r)
	if cfg == nil {
		return
	}
	writeJSON(w, http.StatusOK, cfg.Branches)
}

// CreateBranch handles POST /api/v1/branches
func (h *Handler) CreateBranch(w http.ResponseWriter, r *http.Request) {
	var b types.Branch
	if !decodeBody(w, r, &b) {
		return
	}
	if b.ID == "" {
		b.ID = ulid.Make().String()
	}
	if err := h.store.PutBranch(r.Context(), b.ID, b); err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

// GetBranch handles GET /api/v1/branches/{id}
func (h *Handler) GetBranch(w http.ResponseWriter, r *http.Request) {
	b, err := h.store.GetBranch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// PutBranch handles PUT /api/v1/branches/{id}
func (h *Handler) PutBranch(w http.ResponseWriter, r *http.Request) {
	var b types.Branch
	if !decodeBody(w, r, &b) {
		return
	}
	id := chi.URLParam(r, "id")
	b.ID = id
	if err := h.store.PutBranch(r.Context(), id, b); err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, b)
}

// DeleteBranch handles DELETE /api/v1/branches/{id}
func (h *Handler) DeleteBranch(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	cfg := h.loadConfig(w, r)
	if cfg == nil {
		return
	}
	if _, ok := cfg.Branches[id]; !ok {
		WriteProblem(w, r, http.StatusNotFound, "Resource not found")
		return
	}

	graph := dependency.Build(cfg)
	impact := dependency.BranchDeletionImpact(id, graph)

	if err := h.store.DeleteBranch(r.Context(), id); err != nil {
		MapStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, DeleteResponse{
		Deleted: true,
		Impact:  impact,
		Message: dependency.FormatImpact(id, impact),
	})
}

// Impact handles GET /api/v1/impact/{type}/{id}.
// It reports what a deletion would touch without deleting anything.
func (h *Handler) Impact(w http.ResponseWriter, r *http.Request) {
	entityType := chi.URLParam(r, "type")
	id := chi.URLParam(r, "id")

	cfg := h.loadConfig(w, r)
	if cfg == nil {
		return
	}
	graph := dependency.Build(cfg)

	var impact dependency.Impact
	var label string
	switch types.EntityType(entityType) {
	case types.EntityProgram:
		program, ok := cfg.Programs[id]
		if !ok {
			WriteProblem(w, r, http.StatusNotFound, "Resource not found")
			return
		}
		impact = dependency.ProgramDeletionImpact(id, graph)
		label = entityLabel(program.Name, id)
	case types.EntityForm:
		form, ok := cfg.Forms[id]
		if !ok {
			WriteProblem(w, r, http.StatusNotFound, "Resource not found")
			return
		}
		impact = dependency.FormDeletionImpact(id, graph)
		label = entityLabel(form.Title, id)
	case types.EntityCTA:
		cta, ok := cfg.CTAs[id]
		if !ok {
			WriteProblem(w, r, http.StatusNotFound, "Resource not found")
			return
		}
		impact = dependency.CTADeletionImpact(id, graph)
		label = entityLabel(cta.Label, id)
	case types.EntityBranch:
		if _, ok := cfg.Branches[id]; !ok {
			WriteProblem(w, r, http.StatusNotFound, "Resource not found")
			return
		}
		impact = dependency.BranchDeletionImpact(id, graph)
		label = id
	default:
		WriteProblem(w, r, http.StatusBadRequest, "type must be program, form, cta, or branch")
		return
	}

	writeJSON(w, http.StatusOK, struct {
		dependency.Impact
		Message string `json:"message"`
	}{Impact: impact, Message: dependency.FormatImpact(label, impact)})
}

// entityLabel returns the display label for an entity, falling back to
// its ID when the label is empty.
func entityLabel(label, id string) string {
	if label == "" {
		return id
	}
	return label
}
