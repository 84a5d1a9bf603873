// seed_parts genera un script SQL para poblar el catálogo de repuestos a partir de una
// exportación CSV de la hoja de cálculo de almacén.
//
// Uso: go run ./cmd/seed_parts [ruta/repuestos.csv] [salida.sql]
// Columnas: codigo;nombre;unidad;precio_unitario;stock_minimo (separador ';' o ',').
// Acepta UTF-8 o ISO-8859-1 (exportación típica de Excel en español).
// Por defecto escribe: internal/infrastructure/postgres/migrations/seed_parts.sql
package main

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// partNamespace espacio UUID v5: el mismo código genera siempre el mismo ID entre ejecuciones.
var partNamespace = uuid.MustParse("6f1c2a8e-3b7d-4c59-9e41-0d2f8a6b5c13")

type seedPart struct {
	id        string
	code      string
	name      string
	unit      string
	unitPrice decimal.Decimal
	minStock  decimal.Decimal
}

func main() {
	csvPath := "repuestos.csv"
	if len(os.Args) > 1 {
		csvPath = os.Args[1]
	}
	raw, err := os.ReadFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Abrir CSV: %v\n", err)
		os.Exit(1)
	}

	parts, skipped, err := parseCatalog(raw)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Leer CSV: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(findModuleRoot(), "internal", "infrastructure", "postgres", "migrations", "seed_parts.sql")
	if len(os.Args) > 2 {
		outPath = os.Args[2]
	}
	out, err := os.Create(outPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Crear archivo: %v\n", err)
		os.Exit(1)
	}
	defer out.Close()

	w := bufio.NewWriter(out)
	writeSQL(w, parts)
	if err := w.Flush(); err != nil {
		fmt.Fprintf(os.Stderr, "Escribir SQL: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Generado %s: %d repuestos, %d filas descartadas\n", outPath, len(parts), skipped)
}

// parseCatalog decodifica el CSV (UTF-8 o Latin-1) y devuelve los repuestos válidos ordenados por código.
// Filas sin código o nombre, o con números inválidos, se descartan. Un código repetido conserva la última fila.
func parseCatalog(raw []byte) ([]seedPart, int, error) {
	var src io.Reader = bytes.NewReader(raw)
	if !utf8.Valid(raw) {
		src = transform.NewReader(src, charmap.ISO8859_1.NewDecoder())
	}
	r := csv.NewReader(src)
	r.Comma = detectDelimiter(raw)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true

	records, err := r.ReadAll()
	if err != nil {
		return nil, 0, err
	}
	byCode := make(map[string]seedPart)
	skipped := 0
	for i, rec := range records {
		if i == 0 && isHeader(rec) {
			continue
		}
		p, ok := parseRecord(rec)
		if !ok {
			skipped++
			continue
		}
		byCode[p.code] = p
	}
	parts := make([]seedPart, 0, len(byCode))
	for _, p := range byCode {
		parts = append(parts, p)
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].code < parts[j].code })
	return parts, skipped, nil
}

func parseRecord(rec []string) (seedPart, bool) {
	field := func(i int) string {
		if i < len(rec) {
			return strings.TrimSpace(strings.TrimPrefix(rec[i], "\ufeff"))
		}
		return ""
	}
	p := seedPart{
		code: strings.ToUpper(field(0)),
		name: field(1),
		unit: strings.ToUpper(field(2)),
	}
	if p.code == "" || p.name == "" {
		return p, false
	}
	if p.unit == "" {
		p.unit = "UND"
	}
	var ok bool
	if p.unitPrice, ok = parseNumber(field(3)); !ok {
		return p, false
	}
	if p.minStock, ok = parseNumber(field(4)); !ok {
		return p, false
	}
	p.id = uuid.NewSHA1(partNamespace, []byte(p.code)).String()
	return p, true
}

// parseNumber acepta "1234.5", "1234,5" y "1.234,5"; vacío es cero. Negativos no.
func parseNumber(s string) (decimal.Decimal, bool) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "$", "")
	if s == "" {
		return decimal.Zero, true
	}
	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}
	v, err := decimal.NewFromString(s)
	if err != nil || v.IsNegative() {
		return decimal.Zero, false
	}
	return v, true
}

func detectDelimiter(raw []byte) rune {
	line := raw
	if i := bytes.IndexByte(raw, '\n'); i >= 0 {
		line = raw[:i]
	}
	if bytes.Count(line, []byte{';'}) >= bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}

func isHeader(rec []string) bool {
	if len(rec) == 0 {
		return false
	}
	h := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(rec[0], "\ufeff")))
	return h == "codigo" || h == "código" || h == "code"
}

func writeSQL(w io.Writer, parts []seedPart) {
	fmt.Fprintln(w, "-- Catálogo de repuestos")
	fmt.Fprintln(w, "-- Generado por cmd/seed_parts")
	fmt.Fprintln(w)
	for _, p := range parts {
		fmt.Fprintln(w, "INSERT INTO parts (id, code, name, unit, unit_price, min_stock)")
		fmt.Fprintf(w, "VALUES ('%s', '%s', '%s', '%s', %s, %s)\n",
			p.id, escapeSQL(p.code), escapeSQL(p.name), escapeSQL(p.unit), p.unitPrice.String(), p.minStock.String())
		fmt.Fprintln(w, "ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name, unit = EXCLUDED.unit,")
		fmt.Fprintln(w, "    unit_price = EXCLUDED.unit_price, min_stock = EXCLUDED.min_stock, updated_at = now();")
	}
}

func escapeSQL(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}

func findModuleRoot() string {
	dir, _ := os.Getwd()
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return dir
		}
		dir = parent
	}
}
