// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package fmterr

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/eppabasic/ebc/base/tmpl"
	"github.com/pkg/errors"
)

// Catalog renders diagnostics for a locale.
type Catalog struct {
	locale    string
	templates map[Key]*template.Template
}

// NewCatalog parses the message templates of a locale.
// Templates are executed with the diagnostic data as their dot.
func NewCatalog(locale string, messages map[Key]string) (*Catalog, error) {
	cat := &Catalog{
		locale:    locale,
		templates: make(map[Key]*template.Template, len(messages)),
	}
	for key, msg := range messages {
		t, err := template.New(string(key)).Option("missingkey=zero").Funcs(template.FuncMap{
			"join": strings.Join,
		}).Parse(msg)
		if err != nil {
			return nil, errors.Errorf("cannot parse %s message for %s: %v", locale, key, err)
		}
		cat.templates[key] = t
	}
	return cat, nil
}

func mustCatalog(locale string, messages map[Key]string) *Catalog {
	cat, err := NewCatalog(locale, messages)
	if err != nil {
		panic(err)
	}
	return cat
}

// Locale returns the locale of the catalog.
func (cat *Catalog) Locale() string {
	return cat.locale
}

// Message renders the message of a diagnostic without its position.
func (cat *Catalog) Message(err *Error) string {
	t := cat.templates[err.Key]
	if t == nil {
		return err.String()
	}
	msg, execErr := tmpl.Execute(t, map[string]any(err.Data))
	if execErr != nil {
		return err.String()
	}
	return msg
}

// Render renders a diagnostic with its position and severity.
func (cat *Catalog) Render(err *Error) string {
	msg := cat.Message(err)
	if err.IsWarning() {
		msg = cat.Message(&Error{Key: keyWarningPrefix}) + msg
	}
	if err.Line <= 0 {
		return msg
	}
	return fmt.Sprintf("%s %d: %s", cat.Message(&Error{Key: keyLinePrefix}), err.Line, msg)
}

const (
	keyLinePrefix    Key = "prefix.line"
	keyWarningPrefix Key = "prefix.warning"
)

// Catalogs maps a locale to its catalog.
var Catalogs = map[string]*Catalog{}

// English renders diagnostics in English.
var English = mustCatalog("en", map[Key]string{
	keyLinePrefix:     "line",
	keyWarningPrefix:  "warning: ",
	KeySyntax:         `expected "{{.Expected}}" but got "{{.Found}}"`,
	KeyLoopStructure:  `next statement must name the loop variable "{{.Header}}" instead of "{{.Next}}"`,
	KeyUnknownType:    `unknown type "{{.Name}}"`,
	KeyMismatchCast:   `can not cast type "{{.From}}" to "{{.To}}"`,
	KeyMismatchAssign: `can not assign value of type "{{.From}}" to a variable of type "{{.To}}"`,
	KeyMismatchDim:    `array dimensions must be of type "{{.To}}" instead of "{{.From}}"`,
	KeyMismatchIndex:  `array indices must be of type "{{.To}}" instead of "{{.From}}"`,
	KeyMismatchRange:  `loop end of type "{{.From}}" does not match loop start of type "{{.To}}"`,
	KeyMismatchStep:   `loop step of type "{{.From}}" does not match the iterator type "{{.To}}"`,
	KeyMismatchCond:   `condition of type "{{.From}}" must be of type "{{.To}}"`,
	KeyUndefinedVar:   `no variable called "{{.Name}}" exists in scope`,
	KeyRedefinedVar:   `variable "{{.Name}}" is already defined in this scope`,
	KeyUntypedVar:     `variable "{{.Name}}" definition must have either type or initializer`,
	KeyNotArray:       `value of type "{{.Type}}" can not be indexed`,
	KeyIndexCount:     `array expects {{.Want}} indices but got {{.Got}}`,
	KeyArrayInit:      `array "{{.Name}}" can not have an initial value`,
	KeyUndefinedFunc:  `no function matches a call "{{.Name}}({{.Args}})"`,
	KeyAmbiguousCall:  `ambiguous function call "{{.Name}}({{.Args}})", candidates are: {{join .Candidates "; "}}`,
	KeyRedefinedFunc:  `function "{{.Name}}({{.Params}})" is already defined`,
	KeyNoValue:        `subprogram "{{.Name}}" does not return a value`,
	KeyUndefinedOp:    `failed to find operator "{{.Op}}" for "{{.Left}}"{{if .Right}} and "{{.Right}}"{{end}}`,
	KeyReturnOutside:  `return statement with a value outside of a function`,
	KeyReturnMismatch: `function "{{.Function}}" returns "{{.To}}" but the return value is of type "{{.From}}"`,
	KeyStringDecode:   `malformed UTF-8 byte 0x{{printf "%02x" .Byte}} at offset {{.Offset}}`,
})

// Finnish renders diagnostics in Finnish.
var Finnish = mustCatalog("fi", map[Key]string{
	keyLinePrefix:     "rivi",
	keyWarningPrefix:  "varoitus: ",
	KeySyntax:         `odotettiin "{{.Expected}}" mutta saatiin "{{.Found}}"`,
	KeyLoopStructure:  `next-lauseen täytyy nimetä silmukkamuuttuja "{{.Header}}" eikä "{{.Next}}"`,
	KeyUnknownType:    `tuntematon tyyppi "{{.Name}}"`,
	KeyMismatchCast:   `tyyppiä "{{.From}}" ei voi muuntaa tyypiksi "{{.To}}"`,
	KeyMismatchAssign: `tyypin "{{.From}}" arvoa ei voi sijoittaa tyypin "{{.To}}" muuttujaan`,
	KeyMismatchDim:    `taulukon ulottuvuuksien täytyy olla tyyppiä "{{.To}}" eikä "{{.From}}"`,
	KeyMismatchIndex:  `taulukon indeksien täytyy olla tyyppiä "{{.To}}" eikä "{{.From}}"`,
	KeyMismatchRange:  `silmukan loppuarvon tyyppi "{{.From}}" ei vastaa alkuarvon tyyppiä "{{.To}}"`,
	KeyMismatchStep:   `silmukan askeleen tyyppi "{{.From}}" ei vastaa laskurin tyyppiä "{{.To}}"`,
	KeyMismatchCond:   `ehdon tyyppi "{{.From}}" ei ole "{{.To}}"`,
	KeyUndefinedVar:   `muuttujaa "{{.Name}}" ei ole määritelty`,
	KeyRedefinedVar:   `muuttuja "{{.Name}}" on jo määritelty`,
	KeyUntypedVar:     `muuttujalla "{{.Name}}" täytyy olla tyyppi tai alkuarvo`,
	KeyNotArray:       `tyypin "{{.Type}}" arvoa ei voi indeksoida`,
	KeyIndexCount:     `taulukko odottaa {{.Want}} indeksiä mutta sai {{.Got}}`,
	KeyArrayInit:      `taulukolla "{{.Name}}" ei voi olla alkuarvoa`,
	KeyUndefinedFunc:  `mikään funktio ei vastaa kutsua "{{.Name}}({{.Args}})"`,
	KeyAmbiguousCall:  `moniselitteinen funktiokutsu "{{.Name}}({{.Args}})", vaihtoehdot: {{join .Candidates "; "}}`,
	KeyRedefinedFunc:  `funktio "{{.Name}}({{.Params}})" on jo määritelty`,
	KeyNoValue:        `aliohjelma "{{.Name}}" ei palauta arvoa`,
	KeyUndefinedOp:    `operaattoria "{{.Op}}" ei löydy tyypeille "{{.Left}}"{{if .Right}} ja "{{.Right}}"{{end}}`,
	KeyReturnOutside:  `return-lause arvolla funktion ulkopuolella`,
	KeyReturnMismatch: `funktio "{{.Function}}" palauttaa tyypin "{{.To}}" mutta paluuarvo on tyyppiä "{{.From}}"`,
	KeyStringDecode:   `virheellinen UTF-8-tavu 0x{{printf "%02x" .Byte}} kohdassa {{.Offset}}`,
})

func init() {
	Catalogs[English.Locale()] = English
	Catalogs[Finnish.Locale()] = Finnish
}
