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
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// Events triggered by the manager and by injectors.
const (
	// DuplicateArgument is triggered with a *DuplicateArgumentWarning.
	DuplicateArgument = "DuplicateArgument"

	// ScopeEntered is triggered with the new scope depth and isolation flag.
	ScopeEntered = "ScopeEntered"

	// ScopeExited is triggered with the restored scope depth.
	ScopeExited = "ScopeExited"

	// ArgumentUnresolved is triggered with an *UnresolvedArgumentError.
	ArgumentUnresolved = "ArgumentUnresolved"

	// UnhandledPanic is triggered with the recovered value and a stack trace.
	UnhandledPanic = "UnhandledPanic"
)

// Events declares event broker type.
type Events interface {
	// Subscribe registers event handler.
	Subscribe(name string, handlerFn any)

	// Trigger triggers specified event handlers.
	Trigger(event Event) error
}

// NewEvents returns new events broker.
//
// Handlers are functions returning nothing or an error. A handler accepting
// `...any` receives raw event arguments, other handlers receive arguments
// converted to their parameter types:
//
//	events.Subscribe(injection.DuplicateArgument, func(w *injection.DuplicateArgumentWarning) {
//	    ...
//	})
func NewEvents() Events {
	return &events{handlers: map[string][]handler{}}
}

// events implements Events interface.
type events struct {
	mutex    sync.RWMutex
	handlers map[string][]handler
}

// Subscribe subscribes event handler to the event.
func (em *events) Subscribe(name string, handlerFn any) {
	em.mutex.Lock()
	defer em.mutex.Unlock()

	// Validate event handler type.
	handlerValue := reflect.ValueOf(handlerFn)
	if handlerValue.Kind() != reflect.Func {
		panic(fmt.Sprintf("unexpected event handler type: %T", handlerFn))
	}

	// Validate event handler output signature.
	handlerType := handlerValue.Type()
	switch {
	case handlerType.NumOut() == 0:
	case handlerType.NumOut() == 1 && handlerType.Out(0).Implements(errorType):
	default:
		panic(fmt.Sprintf("unexpected event handler signature: %T", handlerFn))
	}

	// Variadic `...any` handlers receive event arguments as is.
	if handlerType.IsVariadic() && handlerType.NumIn() == 1 && handlerType.In(0) == anySliceType {
		em.handlers[name] = append(em.handlers[name], func(event Event) error {
			eventArgs := event.Args()
			args := make([]reflect.Value, 0, len(eventArgs))
			for index := range eventArgs {
				args = append(args, reflect.ValueOf(&eventArgs[index]).Elem())
			}
			return outError(handlerValue.Call(args))
		})
		return
	}

	em.handlers[name] = append(em.handlers[name], func(event Event) error {
		args, err := handlerArgs(handlerType, event.Args())
		if err != nil {
			return fmt.Errorf("failed to call '%s' handler: %w", event.Name(), err)
		}
		return outError(handlerValue.Call(args))
	})
}

// Trigger triggers specified event handlers.
func (em *events) Trigger(event Event) error {
	em.mutex.RLock()
	handlers := em.handlers[event.Name()]
	em.mutex.RUnlock()

	errs := make([]error, 0, len(handlers))
	for _, handler := range handlers {
		if err := handler(event); err != nil {
			errs = append(errs, err)
		}
	}

	return errors.Join(errs...)
}

// handlerArgs converts event arguments to the handler parameter types.
// Missing arguments are passed as zero values, extra arguments are dropped.
func handlerArgs(handlerType reflect.Type, args []any) ([]reflect.Value, error) {
	values := make([]reflect.Value, 0, handlerType.NumIn())
	for index := 0; index < handlerType.NumIn(); index++ {
		if index >= len(args) {
			values = append(values, reflect.Zero(handlerType.In(index)))
			continue
		}

		value, err := convertArgument(args[index], handlerType.In(index))
		if err != nil {
			return nil, fmt.Errorf("argument %d: %w", index, err)
		}
		values = append(values, value)
	}
	return values, nil
}

// outError returns the handler error result, if any.
func outError(out []reflect.Value) error {
	if len(out) == 1 {
		// Ignore failed cast of nil error.
		err, _ := out[0].Interface().(error)
		return err
	}
	return nil
}

// Event declares injection events.
type Event interface {
	// Name returns event name.
	Name() string

	// Args returns event arguments.
	Args() []any
}

// NewEvent returns new event instance.
func NewEvent(name string, args ...any) Event {
	return &event{name: name, args: args}
}

// handler declares event handler function.
type handler func(event Event) error

// event wraps string event.
type event struct {
	name string
	args []any
}

// Name implements Event interface.
func (e *event) Name() string { return e.name }

// Args implements Event interface.
func (e *event) Args() []any { return e.args }

// triggerEvent triggers an event on optional broker.
func triggerEvent(events Events, name string, args ...any) error {
	if events == nil {
		return nil
	}
	return events.Trigger(NewEvent(name, args...))
}

// anySliceType contains reflection type for any slice variable.
var anySliceType = reflect.TypeOf((*[]any)(nil)).Elem()

// errorType contains reflection type for error variable.
var errorType = reflect.TypeOf((*error)(nil)).Elem()
