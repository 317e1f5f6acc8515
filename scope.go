package injection

// WithInheritedScope runs work in a new scope. Injectors added in the scope
// are consulted before the injectors of the enclosing scope and are dropped
// when work returns. The scope is left even if work fails or panics.
func (m *Manager) WithInheritedScope(work func() error) error {
	return m.withScope(&registry{parent: m.current()}, work)
}

// WithIsolatedScope runs work in a new scope which does not see the
// injectors of enclosing scopes. Injectors added in the scope are dropped
// when work returns. The scope is left even if work fails or panics.
func (m *Manager) WithIsolatedScope(work func() error) error {
	return m.withScope(&registry{}, work)
}

// ScopeDepth returns the number of entered scopes.
func (m *Manager) ScopeDepth() int {
	return len(m.frames)
}

// InheritedScope runs work in an inherited scope and returns its result.
func InheritedScope[T any](m *Manager, work func() (T, error)) (result T, err error) {
	err = m.WithInheritedScope(func() error {
		result, err = work()
		return err
	})
	return result, err
}

// IsolatedScope runs work in an isolated scope and returns its result.
func IsolatedScope[T any](m *Manager, work func() (T, error)) (result T, err error) {
	err = m.WithIsolatedScope(func() error {
		result, err = work()
		return err
	})
	return result, err
}

// withScope pushes the frame, runs work and pops the frame.
func (m *Manager) withScope(frame *registry, work func() error) error {
	isolated := frame.parent == nil
	m.frames = append(m.frames, frame)
	depth := len(m.frames)

	m.logger.Debug().Int("depth", depth).Bool("isolated", isolated).Msg("scope entered")
	if err := triggerEvent(m.events, ScopeEntered, depth, isolated); err != nil {
		m.logger.Error().Err(err).Msg("failed to trigger scope entered event")
	}

	defer func() {
		// Only the innermost scope is ever left.
		m.frames[len(m.frames)-1] = nil
		m.frames = m.frames[:len(m.frames)-1]

		m.logger.Debug().Int("depth", len(m.frames)).Msg("scope exited")
		if err := triggerEvent(m.events, ScopeExited, len(m.frames)); err != nil {
			m.logger.Error().Err(err).Msg("failed to trigger scope exited event")
		}
	}()

	return work()
}
