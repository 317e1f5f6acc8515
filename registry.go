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
	"sort"
)

// DefaultPriority is the priority of injectors added without one.
const DefaultPriority = 100

// entry is a prioritized registry record.
type entry struct {
	priority int
	injector Injector
	sequence int
}

// registry contains prioritized injectors of a scope.
type registry struct {
	entries  []entry
	sequence int

	// Registry of the enclosing inherited scope.
	parent *registry
}

// add registers the injector with the priority.
// Lower priorities are consulted first.
func (r *registry) add(injector Injector, priority int) {
	r.entries = append(r.entries, entry{
		priority: priority,
		injector: injector,
		sequence: r.sequence,
	})
	r.sequence++
}

// remove unregisters every record of the injector.
func (r *registry) remove(injector Injector) {
	entries := r.entries[:0]
	for _, e := range r.entries {
		if !sameInjector(e.injector, injector) {
			entries = append(entries, e)
		}
	}

	// Release references to the removed injectors.
	for index := len(entries); index < len(r.entries); index++ {
		r.entries[index] = entry{}
	}
	r.entries = entries
}

// clear unregisters all local injectors.
// Injectors of the parent registry are kept.
func (r *registry) clear() {
	r.entries = nil
}

// ordered returns local injectors by priority and registration order,
// followed by the ordered injectors of the parent registries.
func (r *registry) ordered() []Injector {
	result := []Injector{}
	for current := r; current != nil; current = current.parent {
		entries := append([]entry(nil), current.entries...)
		sort.SliceStable(entries, func(i, j int) bool {
			if entries[i].priority != entries[j].priority {
				return entries[i].priority < entries[j].priority
			}
			return entries[i].sequence < entries[j].sequence
		})
		for _, e := range entries {
			result = append(result, e.injector)
		}
	}
	return result
}
