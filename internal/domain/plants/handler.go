package plants

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"
	"time"

	"ayurveda-repository/internal/domain/share"

	"github.com/go-chi/chi/v5"
)

const NotFoundPath = "/not-found"

// RegisterRoutes monta las rutas públicas (sin sesión).
func RegisterRoutes(r chi.Router, svc *Service, baseURL string) {
	baseURL = share.BaseURLOr(baseURL)

	r.Route("/plants", func(pr chi.Router) {
		pr.Get("/{plantID}", getPlantHandler(svc, baseURL))
		pr.Get("/{plantID}/qr.png", qrPNGHandler(svc, baseURL))
		pr.Get("/{plantID}/qr.svg", qrSVGHandler(svc, baseURL))
	})

	r.Get(NotFoundPath, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
}

// Response es la forma JSON de una planta (snake_case, opcionales en null).
type Response struct {
	ID             string     `json:"id"`
	Name           string     `json:"name"`
	BotanicalName  *string    `json:"botanical_name"`
	Family         *string    `json:"family"`
	Synonyms       []string   `json:"synonyms"`
	EnglishName    *string    `json:"english_name"`
	UsefulParts    []string   `json:"useful_parts"`
	Indications    []string   `json:"indications"`
	Shloka         *string    `json:"shloka"`
	SourceDocument *string    `json:"source_document"`
	Images         []string   `json:"images"`
	ShareURL       string     `json:"share_url,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      *time.Time `json:"updated_at,omitempty"`
}

// ToResponse arma la respuesta; con baseURL != "" incluye el link para compartir.
func ToResponse(p Plant, baseURL string) Response {
	p = withDefaults(p)
	out := Response{
		ID:             p.ID,
		Name:           p.Name,
		BotanicalName:  p.BotanicalName,
		Family:         p.Family,
		Synonyms:       p.Synonyms,
		EnglishName:    p.EnglishName,
		UsefulParts:    p.UsefulParts,
		Indications:    p.Indications,
		Shloka:         p.Shloka,
		SourceDocument: p.SourceDocument,
		Images:         p.Images,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
	if baseURL != "" {
		out.ShareURL = share.CanonicalURL(baseURL, p.ID)
	}
	return out
}

// getPlantHandler godoc
// @Summary  Public plant detail
// @Tags     plants
// @Produce  json
// @Param    plantID path string true "Plant ID"
// @Success  200 {object} Response
// @Success  303 "redirect to /not-found"
// @Router   /plants/{plantID} [get]
func getPlantHandler(svc *Service, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, err := svc.Resolve(r.Context(), chi.URLParam(r, "plantID"))
		if err != nil {
			http.Redirect(w, r, NotFoundPath, http.StatusSeeOther)
			return
		}
		writeJSON(w, http.StatusOK, ToResponse(p, baseURL))
	}
}

// qrPNGHandler godoc
// @Summary  Download the plant share code as PNG
// @Tags     plants
// @Produce  png
// @Param    plantID path string true "Plant ID"
// @Param    size query int false "Side in pixels (64-2048)"
// @Success  200 {file} binary
// @Router   /plants/{plantID}/qr.png [get]
func qrPNGHandler(svc *Service, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, code, ok := resolveCode(w, r, svc, baseURL)
		if !ok {
			return
		}

		size, _ := strconv.Atoi(r.URL.Query().Get("size"))
		png, err := code.PNG(size)
		if err != nil {
			http.Error(w, "failed to render qr", http.StatusInternalServerError)
			return
		}

		setAttachment(w, share.Filename(p.Name, "png"))
		w.Header().Set("Content-Type", "image/png")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(png)
	}
}

// qrSVGHandler godoc
// @Summary  Download the plant share code as SVG
// @Tags     plants
// @Produce  image/svg+xml
// @Param    plantID path string true "Plant ID"
// @Success  200 {file} binary
// @Router   /plants/{plantID}/qr.svg [get]
func qrSVGHandler(svc *Service, baseURL string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, code, ok := resolveCode(w, r, svc, baseURL)
		if !ok {
			return
		}

		setAttachment(w, share.Filename(p.Name, "svg"))
		w.Header().Set("Content-Type", "image/svg+xml")
		w.WriteHeader(http.StatusOK)
		_ = code.WriteSVG(w, 8)
	}
}

func resolveCode(w http.ResponseWriter, r *http.Request, svc *Service, baseURL string) (Plant, *share.Code, bool) {
	p, err := svc.Resolve(r.Context(), chi.URLParam(r, "plantID"))
	if err != nil {
		http.Redirect(w, r, NotFoundPath, http.StatusSeeOther)
		return Plant{}, nil, false
	}

	code, err := share.Render(share.CanonicalURL(baseURL, p.ID))
	if err != nil {
		http.Error(w, "failed to render qr", http.StatusInternalServerError)
		return Plant{}, nil, false
	}
	return p, code, true
}

func setAttachment(w http.ResponseWriter, filename string) {
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
}

// writeJSON está duplicado en los handlers de cada módulo (plants/admin/session)
// para no crear un paquete compartido solo por esto.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
