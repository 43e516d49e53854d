//go:build darwin

package config

import "os/exec"

// keychainExec reads a secret from the login Keychain. Used as the
// fallback source for the OpenRouter API key when neither the backend
// nor the environment carries one.
func keychainExec(service, account string) ([]byte, error) {
	return exec.Command(
		"security", "find-generic-password",
		"-s", service,
		"-a", account,
		"-w",
	).Output()
}
