package plants

import "strings"

const listSeparator = ","

// Form son los valores de texto tal como llegan del formulario de alta.
// Las listas viajan como texto separado por comas; internamente siempre son []string.
type Form struct {
	Name           string `json:"name"`
	BotanicalName  string `json:"botanical_name"`
	Family         string `json:"family"`
	Synonyms       string `json:"synonyms"`
	EnglishName    string `json:"english_name"`
	UsefulParts    string `json:"useful_parts"`
	Indications    string `json:"indications"`
	Shloka         string `json:"shloka"`
	SourceDocument string `json:"source_document"`
}

// Input normaliza el formulario: escalares trim -> nil si vacío, listas split/trim/filter.
// No valida el nombre (eso lo hace InsertRecord).
func (f Form) Input() CreateInput {
	return CreateInput{
		Name:           strings.TrimSpace(f.Name),
		BotanicalName:  OptionalText(f.BotanicalName),
		Family:         OptionalText(f.Family),
		EnglishName:    OptionalText(f.EnglishName),
		Shloka:         OptionalText(f.Shloka),
		SourceDocument: OptionalText(f.SourceDocument),
		Synonyms:       SplitList(f.Synonyms),
		UsefulParts:    SplitList(f.UsefulParts),
		Indications:    SplitList(f.Indications),
		Images:         []string{},
	}
}

// FormFromPlant arma el formulario de edición a partir de un registro (join-on-edit).
func FormFromPlant(p Plant) Form {
	return Form{
		Name:           p.Name,
		BotanicalName:  deref(p.BotanicalName),
		Family:         deref(p.Family),
		Synonyms:       JoinList(p.Synonyms),
		EnglishName:    deref(p.EnglishName),
		UsefulParts:    JoinList(p.UsefulParts),
		Indications:    JoinList(p.Indications),
		Shloka:         deref(p.Shloka),
		SourceDocument: deref(p.SourceDocument),
	}
}

// SplitList parte por comas, recorta espacios y descarta tokens vacíos.
// Entrada vacía => slice vacío (nunca nil).
func SplitList(s string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(s, listSeparator) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, part)
	}
	return out
}

// JoinList es la inversa de SplitList para mostrar en un input de texto.
func JoinList(items []string) string {
	return strings.Join(items, listSeparator+" ")
}

// OptionalText recorta y devuelve nil si queda vacío.
func OptionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
