package plants

import "time"

// Plant representa una planta medicinal catalogada.
type Plant struct {
	ID   string // asignado por el backend, inmutable
	Name string

	// Opcionales: nil = ausente
	BotanicalName  *string
	Family         *string
	EnglishName    *string
	Shloka         *string // verso devocional / mnemotécnico
	SourceDocument *string

	// Listas: nunca nil, nunca con tokens vacíos
	Synonyms    []string
	UsefulParts []string
	Indications []string

	// URLs públicas, en orden de subida
	Images []string

	CreatedAt time.Time
	UpdatedAt *time.Time
}

// CreateInput son los campos ya normalizados para insertar.
type CreateInput struct {
	Name           string
	BotanicalName  *string
	Family         *string
	EnglishName    *string
	Shloka         *string
	SourceDocument *string
	Synonyms       []string
	UsefulParts    []string
	Indications    []string
	Images         []string
}

// ImageFile es un archivo local pendiente de subir.
type ImageFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// withDefaults garantiza listas no-nil antes de entregar a la capa de render.
func withDefaults(p Plant) Plant {
	if p.Synonyms == nil {
		p.Synonyms = []string{}
	}
	if p.UsefulParts == nil {
		p.UsefulParts = []string{}
	}
	if p.Indications == nil {
		p.Indications = []string{}
	}
	if p.Images == nil {
		p.Images = []string{}
	}
	return p
}
