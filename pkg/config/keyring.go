package config

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/zalando/go-keyring"
)

// keyringPassword reads a password from the OS keyring. ref is "service/user" or
// just "service", in which case defaultUser is the keyring user.
func keyringPassword(ref, defaultUser string) (string, error) {
	service, user, ok := strings.Cut(ref, "/")
	if !ok || user == "" {
		user = defaultUser
	}

	if service == "" || user == "" {
		return "", errors.Errorf("passwordKeyring %q needs a service and a user", ref)
	}

	password, err := keyring.Get(service, user)
	if err != nil {
		return "", errors.Wrapf(err, "failed to retrieve password for %s from keyring", ref)
	}
	return password, nil
}
