package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
)

func TestParseCatalog_Latin1ConEncabezado(t *testing.T) {
	utf := "codigo;nombre;unidad;precio;minimo\nROD-6204;Rodamiento rígido de bolas;und;18.500,50;4\nVAL-01;Válvula de alivio;;32000;\n"
	latin1, err := charmap.ISO8859_1.NewEncoder().String(utf)
	require.NoError(t, err)

	parts, skipped, err := parseCatalog([]byte(latin1))
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, parts, 2)

	assert.Equal(t, "ROD-6204", parts[0].code)
	assert.Equal(t, "Rodamiento rígido de bolas", parts[0].name)
	assert.Equal(t, "UND", parts[0].unit)
	assert.Equal(t, "18500.5", parts[0].unitPrice.String())
	assert.Equal(t, "4", parts[0].minStock.String())

	assert.Equal(t, "Válvula de alivio", parts[1].name)
	assert.Equal(t, "UND", parts[1].unit)
	assert.True(t, parts[1].minStock.IsZero())
}

func TestParseCatalog_DescartaFilasInvalidasYDeduplica(t *testing.T) {
	raw := "A-1,Filtro,UND,100,2\n,Sin código,UND,1,1\nB-2,Precio malo,UND,abc,1\nA-1,Filtro nuevo,UND,120,3\nC-3,Mínimo negativo,UND,1,-1\n"
	parts, skipped, err := parseCatalog([]byte(raw))
	require.NoError(t, err)
	assert.Equal(t, 3, skipped)
	require.Len(t, parts, 1)
	assert.Equal(t, "Filtro nuevo", parts[0].name)
}

func TestParseRecord_IDDeterministico(t *testing.T) {
	a, ok := parseRecord([]string{"x-9", "Junta", "", "", ""})
	require.True(t, ok)
	b, ok := parseRecord([]string{"X-9", "Junta tórica", "", "", ""})
	require.True(t, ok)
	assert.Equal(t, a.id, b.id)
}

func TestWriteSQL_EscapaComillas(t *testing.T) {
	var buf bytes.Buffer
	parts, _, err := parseCatalog([]byte("K-1;Llave 1/2'' inglesa;UND;10;1\n"))
	require.NoError(t, err)
	writeSQL(&buf, parts)
	assert.Contains(t, buf.String(), "'Llave 1/2'''' inglesa'")
	assert.Contains(t, buf.String(), "ON CONFLICT (code)")
}
