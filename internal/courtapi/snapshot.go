package courtapi

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/openveritas/cybercourt/internal/model"
)

//go:embed snapshot_schema.json
var snapshotSchemaJSON string

// DecodeSnapshot turns a raw updates body into a session snapshot.
// The body is validated against the wire schema first, then against
// the session invariants, so the state machine only ever sees
// well-formed terminal/non-terminal combinations.
func DecodeSnapshot(raw []byte) (model.SessionState, error) {
	schemaLoader := gojsonschema.NewStringLoader(snapshotSchemaJSON)
	documentLoader := gojsonschema.NewBytesLoader(raw)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return model.SessionState{}, fmt.Errorf("validate session snapshot: %w", err)
	}
	if !result.Valid() {
		errs := make([]string, 0, len(result.Errors()))
		for _, schemaErr := range result.Errors() {
			errs = append(errs, schemaErr.String())
		}
		sort.Strings(errs)
		return model.SessionState{}, fmt.Errorf("session snapshot schema validation failed: %s", strings.Join(errs, "; "))
	}

	var snapshot model.SessionState
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return model.SessionState{}, fmt.Errorf("decode session snapshot: %w", err)
	}
	if snapshot.AgentsStatus == nil {
		snapshot.AgentsStatus = map[string]string{}
	}
	if snapshot.Transcript == nil {
		snapshot.Transcript = []model.TranscriptEntry{}
	}
	if err := snapshot.Validate(); err != nil {
		return model.SessionState{}, err
	}
	return snapshot, nil
}
