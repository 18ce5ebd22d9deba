package auth

// MockStore is an in-memory auth store for testing.
type MockStore struct {
	operator string
}

func NewMockStore() *MockStore {
	return &MockStore{}
}

func (m *MockStore) SetOperator(username string) error {
	m.operator = username
	return nil
}

func (m *MockStore) Operator() (string, error) {
	if m.operator == "" {
		return "", ErrNotLoggedIn
	}
	return m.operator, nil
}

func (m *MockStore) Clear() error {
	if m.operator == "" {
		return ErrNotLoggedIn
	}
	m.operator = ""
	return nil
}
