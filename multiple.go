/*
 * SPDX-FileCopyrightText: Copyright (c) 2003 NVIDIA CORPORATION & AFFILIATES. All rights reserved.
 * SPDX-License-Identifier: Apache-2.0
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package injection

import (
	"fmt"
	"reflect"
)

// GetDependencies returns the dependency found by every injector of the
// current scope, in lookup order. Injectors without the dependency are skipped.
func (m *Manager) GetDependencies(typ, name string) ([]any, error) {
	var values []any
	for _, injector := range m.Injectors() {
		value, found, err := injector.GetDependency(typ, name)
		if err != nil {
			return nil, fmt.Errorf("failed to get dependency from %T: %w", injector, err)
		}
		if found {
			values = append(values, value)
		}
	}
	return values, nil
}

// ResolveAll returns the dependencies of type T and the optional name
// found by every injector of the current scope.
//
// Example:
//
//	func main() {
//	    providers, err := injection.ResolveAll[AuthProvider](manager, "")
//	    for _, p := range providers {
//	        ...
//	    }
//	}
func ResolveAll[T any](m *Manager, name string) ([]T, error) {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	values, err := m.GetDependencies(declaredTypeOf(typ), name)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", typ, err)
	}

	result := make([]T, 0, len(values))
	for _, value := range values {
		converted, err := convertArgument(value, typ)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", typ, err)
		}
		var item T
		reflect.ValueOf(&item).Elem().Set(converted)
		result = append(result, item)
	}
	return result, nil
}
