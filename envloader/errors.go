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
	"errors"
	"fmt"
	"reflect"
)

// ErrRequired marca um campo `,required` que terminou sem valor: nenhuma
// variável, nenhum valor prévio e nenhum envDefault.
var ErrRequired = errors.New("required value missing")

// InvalidConfigError indica que Load não recebeu um ponteiro para struct.
type InvalidConfigError struct {
	Value reflect.Type
}

func (e *InvalidConfigError) Error() string {
	if e.Value.Kind() != reflect.Ptr {
		return fmt.Sprintf("envloader: config must be a pointer to struct, got %s", e.Value.Kind())
	}
	return fmt.Sprintf("envloader: config must be a pointer to struct, got pointer to %s", e.Value.Elem().Kind())
}

// FieldError descreve a falha ao preencher um campo: conversão inválida
// (Err é o erro do strconv ou um UnsupportedTypeError) ou valor obrigatório
// ausente (errors.Is(err, ErrRequired)).
type FieldError struct {
	FieldName string
	EnvVar    string
	// Value é o texto bruto; vazio quando o valor não existe
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if errors.Is(e.Err, ErrRequired) {
		return fmt.Sprintf("envloader: field %s: env %s: %v", e.FieldName, e.EnvVar, e.Err)
	}
	return fmt.Sprintf("envloader: field %s: env %s=%q: %v", e.FieldName, e.EnvVar, e.Value, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// UnsupportedTypeError indica um tipo de campo sem conversão (map, interface...).
type UnsupportedTypeError struct {
	Type reflect.Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("envloader: unsupported type %s", e.Type)
}
