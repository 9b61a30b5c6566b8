// Package share arma el link público de una planta y su código QR.
// No depende del backend: todo es función de (baseURL, id).
package share

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"unicode"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	// DefaultBaseURL se usa cuando no hay BASE_URL configurada.
	DefaultBaseURL = "http://localhost:3000"

	DefaultPNGSize = 256
	MinPNGSize     = 64
	MaxPNGSize     = 2048

	fileSuffix = "-qr"
)

// CanonicalURL = baseURL + "/plants/" + id. Concatenación pura.
func CanonicalURL(baseURL, recordID string) string {
	return baseURL + "/plants/" + recordID
}

// BaseURLOr devuelve v sin "/" final, o DefaultBaseURL si está vacío.
func BaseURLOr(v string) string {
	v = strings.TrimRight(strings.TrimSpace(v), "/")
	if v == "" {
		return DefaultBaseURL
	}
	return v
}

// Code es un QR ya codificado.
type Code struct {
	qr *qrcode.QRCode
}

// Render codifica url con corrección de errores máxima (H, ~30%),
// para que se pueda escanear aunque esté parcialmente tapado.
func Render(url string) (*Code, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("share: empty url")
	}
	qr, err := qrcode.New(url, qrcode.Highest)
	if err != nil {
		return nil, fmt.Errorf("share: encode qr: %w", err)
	}
	return &Code{qr: qr}, nil
}

// PNG exporta el raster (size x size px, con margen).
func (c *Code) PNG(size int) ([]byte, error) {
	return c.qr.PNG(ClampSize(size))
}

// WriteSVG exporta el mismo bitmap como vector; moduleSize es el lado de cada módulo.
func (c *Code) WriteSVG(w io.Writer, moduleSize int) error {
	if moduleSize <= 0 {
		moduleSize = 4
	}
	bitmap := c.qr.Bitmap()
	side := len(bitmap) * moduleSize

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">`, side, side, side, side)
	fmt.Fprintf(bw, `<rect width="%d" height="%d" fill="#ffffff"/>`, side, side)
	bw.WriteString(`<path fill="#000000" d="`)
	for y, row := range bitmap {
		for x, dark := range row {
			if !dark {
				continue
			}
			fmt.Fprintf(bw, "M%d %dh%dv%dh-%dz", x*moduleSize, y*moduleSize, moduleSize, moduleSize, moduleSize)
		}
	}
	bw.WriteString(`"/></svg>`)
	return bw.Flush()
}

// ClampSize acota el tamaño del PNG a [MinPNGSize, MaxPNGSize]; 0 => DefaultPNGSize.
func ClampSize(size int) int {
	switch {
	case size <= 0:
		return DefaultPNGSize
	case size < MinPNGSize:
		return MinPNGSize
	case size > MaxPNGSize:
		return MaxPNGSize
	default:
		return size
	}
}

// Filename => <slug>-qr.<ext>
func Filename(name, ext string) string {
	return Slug(name) + fileSuffix + "." + strings.TrimPrefix(ext, ".")
}

// Slug pasa a minúsculas, colapsa espacios en "-" y descarta lo que no sea letra, marca, dígito, "-" o "_".
// Las marcas combinantes (matras, virama) se conservan para no romper nombres en devanagari.
func Slug(name string) string {
	var b strings.Builder
	for i, word := range strings.Fields(strings.ToLower(name)) {
		if i > 0 {
			b.WriteByte('-')
		}
		for _, r := range word {
			if unicode.IsLetter(r) || unicode.IsMark(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
				b.WriteRune(r)
			}
		}
	}

	s := strings.Trim(b.String(), "-")
	if s == "" {
		return "plant"
	}
	return s
}
