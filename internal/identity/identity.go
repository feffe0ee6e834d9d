// Package identity manages the opaque per-install identity used to
// scope flagging calls and the ledger subscription.
package identity

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNotReady is returned when an operation requires the install
// identity before it has been resolved. It is a precondition failure,
// not a terminal one: callers retry after Load succeeds.
var ErrNotReady = errors.New("identity not ready")

const fileName = "identity"

// Load returns the persisted install identity, generating and
// persisting a new one on first run.
func Load(dataDir string) (string, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	path := filepath.Join(dataDir, fileName)

	raw, err := os.ReadFile(path)
	if err == nil {
		id := strings.TrimSpace(string(raw))
		if id != "" {
			return id, nil
		}
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("read identity: %w", err)
	}

	id := uuid.NewString()
	if err := os.WriteFile(path, []byte(id+"\n"), 0o600); err != nil {
		return "", fmt.Errorf("persist identity: %w", err)
	}
	return id, nil
}

// Require returns ErrNotReady when id is empty, so call sites gate in
// one line.
func Require(id string) error {
	if strings.TrimSpace(id) == "" {
		return ErrNotReady
	}
	return nil
}
