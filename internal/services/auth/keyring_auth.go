package auth

import (
	"errors"

	"github.com/zalando/go-keyring"
)

type KeyringStore struct {
	serviceName string
}

func NewKeyringStore(serviceName string) *KeyringStore {
	if serviceName == "" {
		serviceName = ServiceName
	}
	return &KeyringStore{serviceName: serviceName}
}

func (k *KeyringStore) SetOperator(username string) error {
	return keyring.Set(k.serviceName, operatorAccount, username)
}

func (k *KeyringStore) Operator() (string, error) {
	name, err := keyring.Get(k.serviceName, operatorAccount)
	if err == nil {
		return name, nil
	}
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrNotLoggedIn
	}
	return "", err
}

func (k *KeyringStore) Clear() error {
	err := keyring.Delete(k.serviceName, operatorAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotLoggedIn
	}
	return err
}
