package index

import (
	"encoding/json"
	"io"

	"github.com/sentineltrust/screening-engine/internal/entity"
	"github.com/sentineltrust/screening-engine/internal/objectstore"
)

// LoadNDJSON decodes one entity.Entity per non-blank line of r, using
// the same line scanner (objectstore.ScanNDJSON) as the bulk job
// manager's NDJSON input: malformed lines are skipped and counted
// rather than aborting the load.
func LoadNDJSON(r io.Reader) (entities []*entity.Entity, skipped int, err error) {
	scanErr := objectstore.ScanNDJSON(r, func(_ int, raw []byte) error {
		var e entity.Entity
		if derr := json.Unmarshal(raw, &e); derr != nil {
			skipped++
			return nil
		}
		entities = append(entities, &e)
		return nil
	})
	if scanErr != nil {
		return nil, skipped, scanErr
	}
	return entities, skipped, nil
}
