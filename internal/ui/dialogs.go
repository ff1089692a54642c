package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ncruces/zenity"
)

// ErrCanceled reports that the user dismissed a dialog.
var ErrCanceled = zenity.ErrCanceled

// AskNewSecret runs the two-step add-secret flow: logical name, then value.
// The name must be usable as a bare YAML key and keyring entry.
func AskNewSecret(appName string) (name, value string, err error) {
	name, err = zenity.Entry("Step 1: Enter a logical name for the secret\n(e.g. my_api_key; letters, digits, _ and - only)",
		zenity.Title(appName+" - Add/Update Secret"),
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", "", ErrCanceled
		}
		return "", "", fmt.Errorf("secret name dialog: %w", err)
	}
	name = strings.TrimSpace(name)
	if !validSecretName(name) {
		return "", "", fmt.Errorf("invalid secret name %q: use letters, digits, _ and -", name)
	}

	_, value, err = zenity.Password(
		zenity.Title(appName + " - Step 2: Enter value for '" + name + "'"),
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", "", ErrCanceled
		}
		return "", "", fmt.Errorf("secret value dialog: %w", err)
	}
	if value == "" {
		return "", "", errors.New("secret value must not be empty")
	}
	return name, value, nil
}

func validSecretName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_', r == '-':
		default:
			return false
		}
	}
	return true
}

// PickSecret shows a selection list of secret names.
func PickSecret(appName, prompt string, names []string) (string, error) {
	selected, err := zenity.List(prompt, names,
		zenity.Title(appName+" - Select Secret"),
	)
	if err != nil {
		if errors.Is(err, zenity.ErrCanceled) {
			return "", ErrCanceled
		}
		return "", fmt.Errorf("secret selection dialog: %w", err)
	}
	if selected == "" {
		return "", ErrCanceled
	}
	return selected, nil
}

// ConfirmRemoveSecret asks whether a secret should really be deleted from
// the keyring and the config.
func ConfirmRemoveSecret(appName, name string) (bool, error) {
	err := zenity.Question(
		fmt.Sprintf("Remove the secret '%s'?\n\nIt is deleted from the OS keyring and the config. This cannot be undone.", name),
		zenity.Title(appName+" - Confirm Removal"),
		zenity.WarningIcon,
		zenity.OKLabel("Remove"),
		zenity.CancelLabel("Cancel"),
	)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, zenity.ErrCanceled) {
		return false, nil
	}
	return false, fmt.Errorf("confirmation dialog: %w", err)
}

// ShowSecretNames lists the managed secret names in an info dialog.
func ShowSecretNames(appName string, names []string) {
	message := "No secrets are currently managed."
	if len(names) > 0 {
		message = fmt.Sprintf("Managed secrets (%d):\n- %s", len(names), strings.Join(names, "\n- "))
	}
	_ = zenity.Info(message, zenity.Title(appName+" - Managed Secrets"), zenity.InfoIcon)
}
