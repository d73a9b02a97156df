// Package lineitems decodifica y re-serializa las partidas embebidas en una proyección.
//
// Las partidas se guardan como un arreglo JSON en una columna de texto. Cada partida
// lleva su propia copia de "categoria" y "subcategoria"; el resto de campos (id, monto,
// esReembolso, notas o cualquier otro) se conserva byte a byte y en su orden original.
package lineitems

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/sgpme-api/internal/domain/entity"
)

const (
	keyCategory    = "categoria"
	keySubcategory = "subcategoria"
)

// ErrMalformed indica que el blob no es un arreglo JSON de objetos.
var ErrMalformed = errors.New("partidas: contenido mal formado")

// LineItem partida de una proyección.
type LineItem struct {
	Category    string  // vacío si falta o no es string
	Subcategory *string // nil si falta, es null o no es string

	keys   []string
	fields map[string]json.RawMessage

	catOpaque, subOpaque bool // valor presente pero no string: nunca se reescribe
	catDirty, subDirty   bool
}

// NewLineItem crea una partida sólo con categoría/subcategoría (tests y altas).
func NewLineItem(category string, sub *string) LineItem {
	it := LineItem{fields: map[string]json.RawMessage{}}
	it.SetCategory(category)
	it.SetSubcategory(sub)
	return it
}

// SetCategory cambia la categoría de la partida.
func (it *LineItem) SetCategory(category string) {
	if _, ok := it.fields[keyCategory]; !ok {
		it.keys = append(it.keys, keyCategory)
	}
	if it.fields == nil {
		it.fields = map[string]json.RawMessage{}
	}
	it.fields[keyCategory] = nil
	it.Category = category
	it.catOpaque = false
	it.catDirty = true
}

// SetSubcategory cambia la subcategoría; nil se serializa como null.
func (it *LineItem) SetSubcategory(sub *string) {
	if it.fields == nil {
		it.fields = map[string]json.RawMessage{}
	}
	if _, ok := it.fields[keySubcategory]; !ok {
		it.keys = append(it.keys, keySubcategory)
	}
	it.fields[keySubcategory] = nil
	it.Subcategory = sub
	it.subOpaque = false
	it.subDirty = true
}

// Field devuelve el valor crudo de un campo no gestionado por la partida.
func (it *LineItem) Field(key string) (json.RawMessage, bool) {
	raw, ok := it.fields[key]
	return raw, ok
}

// UnmarshalJSON lee un objeto conservando el orden de las claves.
func (it *LineItem) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("%w: se esperaba un objeto", ErrMalformed)
	}
	*it = LineItem{fields: map[string]json.RawMessage{}}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: clave inválida", ErrMalformed)
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return err
		}
		if _, seen := it.fields[key]; !seen {
			it.keys = append(it.keys, key)
		}
		it.fields[key] = raw
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	if raw, ok := it.fields[keyCategory]; ok {
		s, isString, err := stringValue(raw)
		if err != nil {
			return err
		}
		if isString {
			it.Category = *s
		} else if !isNull(raw) {
			it.catOpaque = true
		}
	}
	if raw, ok := it.fields[keySubcategory]; ok {
		s, isString, err := stringValue(raw)
		if err != nil {
			return err
		}
		if isString {
			it.Subcategory = s
		} else if !isNull(raw) {
			it.subOpaque = true
		}
	}
	return nil
}

// MarshalJSON escribe las claves en su orden original; sólo categoría y subcategoría
// modificadas se re-codifican.
func (it LineItem) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range it.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := marshalString(key)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')

		var value []byte
		switch {
		case key == keyCategory && it.catDirty:
			value, err = marshalString(it.Category)
		case key == keySubcategory && it.subDirty:
			if it.Subcategory == nil {
				value = []byte("null")
			} else {
				value, err = marshalString(*it.Subcategory)
			}
		default:
			value = it.fields[key]
		}
		if err != nil {
			return nil, err
		}
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Decode interpreta el blob de partidas. Vacío o "null" equivale a ninguna partida.
func Decode(blob string) ([]LineItem, error) {
	trimmed := strings.TrimSpace(blob)
	if trimmed == "" || trimmed == "null" {
		return nil, nil
	}
	if !strings.HasPrefix(trimmed, "[") {
		return nil, fmt.Errorf("%w: se esperaba un arreglo", ErrMalformed)
	}
	var items []LineItem
	if err := json.Unmarshal([]byte(trimmed), &items); err != nil {
		if errors.Is(err, ErrMalformed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return items, nil
}

// Encode serializa las partidas. Se arma a mano porque encoding/json compacta la salida
// de MarshalJSON y alteraría los valores conservados.
func Encode(items []LineItem) (string, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i := range items {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := items[i].MarshalJSON()
		if err != nil {
			return "", err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.String(), nil
}

// Apply aplica el cambio de categoría a cada partida y devuelve cuántas cambiaron.
// Las partidas con categoría o subcategoría no string quedan intactas en ese campo.
func Apply(items []LineItem, r entity.CategoryRename) int {
	changed := 0
	for i := range items {
		it := &items[i]
		if it.catOpaque {
			continue
		}
		sub := it.Subcategory
		if it.subOpaque {
			sub = nil
		}
		cat, newSub, ok := r.Apply(it.Category, sub)
		if !ok {
			continue
		}
		if cat != it.Category {
			it.SetCategory(cat)
		}
		if newSub == nil && sub != nil {
			it.SetSubcategory(nil)
		}
		changed++
	}
	return changed
}

// CountByCategory cuenta partidas por nombre de categoría (partidas sin categoría se omiten).
func CountByCategory(items []LineItem, into map[string]int) {
	for _, it := range items {
		if it.Category == "" {
			continue
		}
		into[it.Category]++
	}
}

func stringValue(raw json.RawMessage) (*string, bool, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return nil, false, nil
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return nil, false, err
	}
	return &s, true, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func marshalString(s string) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
