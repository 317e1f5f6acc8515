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

// Package injection resolves the arguments of callables from a prioritized
// chain of injectors and invokes them.
//
// Every argument is resolved by asking the injectors in priority order for
// its declared type and name. Unresolved arguments fall back to their default
// value when optional, to nil when nullable, or fail the call.
//
//	manager := injection.New(injection.WithInjectors(
//	    injection.Values(injection.Named("argument", 99), "Here I am"),
//	))
//	result, err := manager.Call(injection.Func(myFunc,
//	    injection.Param("argument"),
//	    injection.Param("test"),
//	    injection.Param("flag", injection.WithDefault(false)),
//	))
//
// A manager is not safe for concurrent use.
package injection

import (
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// instrumentationName names the tracer of the package.
const instrumentationName = "github.com/NVIDIA/injection"

// Manager resolves dependencies from prioritized injectors and calls symbols.
//
// Injectors are registered in the current scope: the root registry or the
// innermost scope entered with WithInheritedScope or WithIsolatedScope.
type Manager struct {
	// Root registry.
	root *registry

	// Entered scopes, the last one is current.
	frames []*registry

	// Collaborators.
	signatures SignatureService
	events     Events
	logger     zerolog.Logger
	tracer     trace.Tracer

	// Priority of injectors added without one.
	priority int

	// Injectors added on creation.
	injectors []Injector
}

var _ Injector = (*Manager)(nil)

// Option configures a manager.
type Option func(*Manager)

// New returns a manager configured by the options.
func New(opts ...Option) *Manager {
	manager := &Manager{
		root:       &registry{},
		signatures: NewSignatureRegistry(),
		events:     NewEvents(),
		logger:     zerolog.Nop(),
		tracer:     noop.NewTracerProvider().Tracer(instrumentationName),
		priority:   DefaultPriority,
	}
	for _, opt := range opts {
		opt(manager)
	}

	// Register initial injectors with the configured priority.
	for _, injector := range manager.injectors {
		manager.root.add(injector, manager.priority)
	}
	manager.injectors = nil

	return manager
}

// WithInjectors registers the injectors with the default priority.
func WithInjectors(injectors ...Injector) Option {
	return func(m *Manager) {
		m.injectors = append(m.injectors, injectors...)
	}
}

// WithSignatureService sets the service providing signatures of called symbols.
func WithSignatureService(signatures SignatureService) Option {
	return func(m *Manager) {
		m.signatures = signatures
	}
}

// WithEvents sets the events broker.
func WithEvents(events Events) Option {
	return func(m *Manager) {
		m.events = events
	}
}

// WithLogger sets the logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// WithTracerProvider sets the provider of the tracer spanning calls.
func WithTracerProvider(provider trace.TracerProvider) Option {
	return func(m *Manager) {
		m.tracer = provider.Tracer(instrumentationName)
	}
}

// WithConfig applies the configuration.
func WithConfig(cfg Config) Option {
	return func(m *Manager) {
		m.priority = cfg.DefaultPriority
	}
}

// AddInjector registers the injector in the current scope.
// Without priority the default priority is used. Lower priorities
// are consulted first, equal priorities in registration order.
func (m *Manager) AddInjector(injector Injector, priority ...int) {
	p := m.priority
	if len(priority) > 0 {
		p = priority[0]
	}
	m.current().add(injector, p)
}

// RemoveInjector unregisters the injector from the current scope.
func (m *Manager) RemoveInjector(injector Injector) {
	m.current().remove(injector)
}

// ClearInjectors unregisters all injectors of the current scope.
// Injectors of enclosing scopes are kept.
func (m *Manager) ClearInjectors() {
	m.current().clear()
}

// Injectors returns the injectors visible in the current scope in lookup order.
func (m *Manager) Injectors() []Injector {
	return m.current().ordered()
}

// Signatures returns the signature service.
func (m *Manager) Signatures() SignatureService {
	return m.signatures
}

// SetSignatureService replaces the signature service used by later calls.
func (m *Manager) SetSignatureService(signatures SignatureService) {
	m.signatures = signatures
}

// Events returns the events broker.
func (m *Manager) Events() Events {
	return m.events
}

// current returns the registry of the innermost scope.
func (m *Manager) current() *registry {
	if len(m.frames) > 0 {
		return m.frames[len(m.frames)-1]
	}
	return m.root
}
