package admin

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"ayurveda-repository/internal/domain/plants"
	"ayurveda-repository/internal/middleware"

	"github.com/go-chi/chi/v5"
)

const (
	// Límites orientativos para archivos de imagen (la rutina de upload no valida).
	MaxImageBytes   = 10 << 20
	maxRequestBytes = 64 << 20
	multipartMemory = 32 << 20
	imagesField     = "images"
)

// RegisterRoutes monta /admin. Todas las rutas requieren sesión.
func RegisterRoutes(r chi.Router, reg *Registry, loginPath string) {
	r.Route("/admin", func(ar chi.Router) {
		ar.Use(middleware.RequireSession(loginPath))

		ar.Get("/", stateHandler(reg))
		ar.Post("/refresh", refreshHandler(reg))
		ar.Delete("/error", dismissErrorHandler(reg))

		ar.Get("/plants", searchHandler(reg))
		ar.Post("/plants", submitHandler(reg))
		ar.Post("/plants/retry-images", retryHandler(reg))

		ar.Post("/share/{plantID}", openShareHandler(reg))
		ar.Delete("/share", closeShareHandler(reg))
	})
}

type shareResponse struct {
	PlantID  string `json:"plant_id"`
	Name     string `json:"name"`
	URL      string `json:"url"`
	Filename string `json:"filename"`
	PNG      string `json:"png"`
	SVG      string `json:"svg"`
}

type stateResponse struct {
	Form          plants.Form       `json:"form"`
	PendingFiles  []string          `json:"pending_files"`
	Busy          bool              `json:"busy"`
	Error         string            `json:"error,omitempty"`
	Success       string            `json:"success,omitempty"`
	LastCreated   *plants.Response  `json:"last_created,omitempty"`
	ShareOpen     bool              `json:"share_open"`
	Share         *shareResponse    `json:"share,omitempty"`
	PendingAttach string            `json:"pending_attach,omitempty"`
	Plants        []plants.Response `json:"plants"`
}

type errorResponse struct {
	Error   plants.Kind `json:"error"`
	Message string      `json:"message"`
}

func controllerFor(r *http.Request, reg *Registry) *Controller {
	claims, _ := middleware.GetClaims(r.Context())
	return reg.For(claims.UserID)
}

// stateHandler godoc
// @Summary  Admin view state (form, banners, share modal, plant list)
// @Tags     admin
// @Produce  json
// @Success  200 {object} stateResponse
// @Success  303 "redirect to /login without session"
// @Router   /admin [get]
func stateHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := controllerFor(r, reg)
		// el error de carga queda en el banner del estado
		_ = c.EnsureLoaded(r.Context())
		writeJSON(w, http.StatusOK, toStateResponse(c.State(), c.baseURL))
	}
}

// refreshHandler godoc
// @Summary  Reload the plant list from the backend
// @Tags     admin
// @Produce  json
// @Router   /admin/refresh [post]
func refreshHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := controllerFor(r, reg)
		if err := c.Refresh(r.Context()); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toStateResponse(c.State(), c.baseURL))
	}
}

func dismissErrorHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		controllerFor(r, reg).DismissError()
		w.WriteHeader(http.StatusNoContent)
	}
}

// searchHandler godoc
// @Summary  Filter the loaded plant list by name, botanical name or family
// @Tags     admin
// @Produce  json
// @Param    q query string false "Case-insensitive substring"
// @Success  200 {array} plants.Response
// @Router   /admin/plants [get]
func searchHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := controllerFor(r, reg)
		_ = c.EnsureLoaded(r.Context())

		items := c.Search(r.URL.Query().Get("q"))
		writeJSON(w, http.StatusOK, toResponses(items, c.baseURL))
	}
}

// submitHandler godoc
// @Summary  Add a plant (multipart form with optional "images" files, or JSON)
// @Tags     admin
// @Accept   multipart/form-data
// @Produce  json
// @Success  201 {object} plants.Response
// @Failure  400 {object} errorResponse
// @Failure  409 {object} errorResponse "submission already in progress"
// @Failure  502 {object} errorResponse
// @Router   /admin/plants [post]
func submitHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := controllerFor(r, reg)

		form, files, err := decodeSubmission(w, r)
		if err != nil {
			writeError(w, err)
			return
		}

		p, err := c.SubmitForm(r.Context(), form, files)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusCreated, plants.ToResponse(p, c.baseURL))
	}
}

// retryHandler godoc
// @Summary  Retry uploading and attaching images for the record left without them
// @Tags     admin
// @Produce  json
// @Success  200 {object} plants.Response
// @Router   /admin/plants/retry-images [post]
func retryHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := controllerFor(r, reg)
		p, err := c.RetryAttach(r.Context())
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, plants.ToResponse(p, c.baseURL))
	}
}

func openShareHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := controllerFor(r, reg)
		_ = c.EnsureLoaded(r.Context())

		if err := c.OpenShare(chi.URLParam(r, "plantID")); err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, toStateResponse(c.State(), c.baseURL))
	}
}

func closeShareHandler(reg *Registry) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		controllerFor(r, reg).CloseShare()
		w.WriteHeader(http.StatusNoContent)
	}
}

// decodeSubmission acepta multipart (con archivos) o JSON (sin archivos).
func decodeSubmission(w http.ResponseWriter, r *http.Request) (plants.Form, []plants.ImageFile, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBytes)

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var f plants.Form
		if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
			return plants.Form{}, nil, invalid("invalid json")
		}
		return f, nil, nil
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return plants.Form{}, nil, invalid("invalid multipart form")
	}
	if r.MultipartForm == nil {
		if err := r.ParseForm(); err != nil {
			return plants.Form{}, nil, invalid("invalid form")
		}
	}

	f := plants.Form{
		Name:           r.FormValue("name"),
		BotanicalName:  r.FormValue("botanical_name"),
		Family:         r.FormValue("family"),
		Synonyms:       r.FormValue("synonyms"),
		EnglishName:    r.FormValue("english_name"),
		UsefulParts:    r.FormValue("useful_parts"),
		Indications:    r.FormValue("indications"),
		Shloka:         r.FormValue("shloka"),
		SourceDocument: r.FormValue("source_document"),
	}

	var files []plants.ImageFile
	if r.MultipartForm != nil {
		for _, fh := range r.MultipartForm.File[imagesField] {
			img, err := readImage(fh)
			if err != nil {
				return plants.Form{}, nil, err
			}
			files = append(files, img)
		}
	}
	return f, files, nil
}

func readImage(fh *multipart.FileHeader) (plants.ImageFile, error) {
	contentType := fh.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, "image/") {
		return plants.ImageFile{}, invalid(fmt.Sprintf("%s: only image files are accepted", fh.Filename))
	}
	// SVG puede traer scripts y se serviría desde nuestro origen en /media
	if isSVG(contentType, fh.Filename) {
		return plants.ImageFile{}, invalid(fmt.Sprintf("%s: svg images are not accepted", fh.Filename))
	}
	if fh.Size > MaxImageBytes {
		return plants.ImageFile{}, invalid(fmt.Sprintf("%s: image exceeds %d MB", fh.Filename, MaxImageBytes>>20))
	}

	f, err := fh.Open()
	if err != nil {
		return plants.ImageFile{}, invalid("cannot read " + fh.Filename)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return plants.ImageFile{}, invalid("cannot read " + fh.Filename)
	}
	return plants.ImageFile{Name: fh.Filename, ContentType: contentType, Data: data}, nil
}

func isSVG(contentType, filename string) bool {
	mt, _, _ := mime.ParseMediaType(contentType)
	return strings.EqualFold(mt, "image/svg+xml") || strings.EqualFold(filepath.Ext(filename), ".svg")
}

func invalid(msg string) error {
	return &plants.Error{Kind: plants.KindValidation, Op: "decode", Message: msg}
}

func toStateResponse(st State, baseURL string) stateResponse {
	out := stateResponse{
		Form:          st.Form,
		PendingFiles:  st.PendingFiles,
		Busy:          st.Busy,
		Error:         st.Error,
		Success:       st.Success,
		ShareOpen:     st.ShareOpen,
		PendingAttach: st.PendingAttach,
		Plants:        toResponses(st.Plants, baseURL),
	}
	if st.LastCreated != nil {
		resp := plants.ToResponse(*st.LastCreated, baseURL)
		out.LastCreated = &resp
	}
	if st.Share != nil {
		out.Share = &shareResponse{
			PlantID:  st.Share.PlantID,
			Name:     st.Share.Name,
			URL:      st.Share.URL,
			Filename: st.Share.Filename,
			PNG:      "/plants/" + st.Share.PlantID + "/qr.png",
			SVG:      "/plants/" + st.Share.PlantID + "/qr.svg",
		}
	}
	return out
}

func toResponses(items []plants.Plant, baseURL string) []plants.Response {
	out := make([]plants.Response, 0, len(items))
	for _, p := range items {
		out = append(out, plants.ToResponse(p, baseURL))
	}
	return out
}

func statusFor(k plants.Kind) int {
	switch k {
	case plants.KindValidation:
		return http.StatusBadRequest
	case plants.KindAuth:
		return http.StatusUnauthorized
	case plants.KindNotFound:
		return http.StatusNotFound
	case plants.KindBusy:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}

func writeError(w http.ResponseWriter, err error) {
	k := plants.KindOf(err)
	writeJSON(w, statusFor(k), errorResponse{Error: k, Message: plants.MessageOf(err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
