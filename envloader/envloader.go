// Copyright 2025 Raywall Malheiros de Souza
// Licensed under the Mozilla Public License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	https://www.mozilla.org/en-US/MPL/2.0/
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
package envloader

import (
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// LookupFunc resolve o valor de uma variável; ok=false quando ela não existe
type LookupFunc func(key string) (value string, ok bool)

// Option ajusta o comportamento de Load
type Option func(*loader)

// WithLookup troca os.LookupEnv por outra fonte (útil em testes)
func WithLookup(fn LookupFunc) Option {
	return func(l *loader) { l.lookup = fn }
}

// WithoutDefaults ignora envDefault. Usado quando os defaults já foram
// aplicados antes de outra fonte (ex.: arquivo YAML).
func WithoutDefaults() Option {
	return func(l *loader) { l.defaults = false }
}

type loader struct {
	lookup   LookupFunc
	defaults bool
	required bool
}

var durationType = reflect.TypeOf(time.Duration(0))

func noLookup(string) (string, bool) { return "", false }

// Load preenche uma struct com valores de variáveis de ambiente
// baseado nas tags "env" e "envDefault".
//
// Precedência por campo: variável definida > valor já presente na struct >
// envDefault. Campos `env:"NOME,required"` sem valor retornam FieldError com ErrRequired.
func Load(config interface{}, opts ...Option) error {
	l := &loader{lookup: os.LookupEnv, defaults: true, required: true}
	for _, opt := range opts {
		opt(l)
	}
	return l.load(config)
}

// ApplyDefaults aplica apenas os envDefault nos campos vazios, sem ler o
// ambiente e sem checar campos obrigatórios.
func ApplyDefaults(config interface{}) error {
	l := &loader{lookup: noLookup, defaults: true}
	return l.load(config)
}

func (l *loader) load(config interface{}) error {
	val := reflect.ValueOf(config)
	if val.Kind() != reflect.Ptr || val.Elem().Kind() != reflect.Struct {
		return &InvalidConfigError{Value: val.Type()}
	}

	return l.loadStruct(val.Elem())
}

// loadStruct processa recursivamente uma struct
func (l *loader) loadStruct(val reflect.Value) error {
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field := val.Field(i)
		fieldType := typ.Field(i)

		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct && field.Type() != durationType {
			if err := l.loadStruct(field); err != nil {
				return err
			}
			continue
		}

		if field.Kind() == reflect.Ptr && field.Type().Elem().Kind() == reflect.Struct {
			if field.IsNil() {
				field.Set(reflect.New(field.Type().Elem()))
			}
			if err := l.loadStruct(field.Elem()); err != nil {
				return err
			}
			continue
		}

		name, required := parseTag(fieldType.Tag.Get("env"))
		if name == "" {
			continue
		}

		value, ok := l.lookup(name)
		if !ok || value == "" {
			if !field.IsZero() {
				continue
			}
			if l.defaults {
				value = fieldType.Tag.Get("envDefault")
			}
		}

		if value == "" {
			if required && l.required {
				return &FieldError{FieldName: fieldType.Name, EnvVar: name, Err: ErrRequired}
			}
			continue
		}

		if err := setFieldValue(field, value); err != nil {
			return &FieldError{
				FieldName: fieldType.Name,
				EnvVar:    name,
				Value:     value,
				Err:       err,
			}
		}
	}

	return nil
}

// parseTag separa `env:"NAME,required"` em nome e flag
func parseTag(tag string) (string, bool) {
	parts := strings.Split(tag, ",")
	required := false
	for _, opt := range parts[1:] {
		if strings.TrimSpace(opt) == "required" {
			required = true
		}
	}
	return strings.TrimSpace(parts[0]), required
}

// setFieldValue define o valor de um campo baseado no seu tipo
func setFieldValue(field reflect.Value, value string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		intValue, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(intValue)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		uintValue, err := strconv.ParseUint(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetUint(uintValue)

	case reflect.Bool:
		boolValue, err := strconv.ParseBool(strings.ToLower(value))
		if err != nil {
			return err
		}
		field.SetBool(boolValue)

	case reflect.Float32, reflect.Float64:
		floatValue, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(floatValue)

	default:
		return &UnsupportedTypeError{Type: field.Type()}
	}

	return nil
}

// MustLoad é similar ao Load, mas panic em caso de erro
func MustLoad(config interface{}) {
	if err := Load(config); err != nil {
		panic(err)
	}
}
