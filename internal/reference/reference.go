// Package reference encodes and decodes cross-entity record references.
//
// A reference is the URL of the target record in the hosted records API,
// e.g. https://my.living-apps.de/rest/apps/<appID>/records/<recordID>.
// The record identifier is always the trailing path segment.
package reference

import (
	"strings"

	"github.com/Shivanand-hulikatti/kursverwaltung/internal/model"
)

// ExtractRecordID returns the record identifier a reference points at.
// It reports false for an empty reference or one without a trailing segment.
func ExtractRecordID(ref string) (string, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", false
	}
	id := ref[strings.LastIndex(ref, "/")+1:]
	if id == "" {
		return "", false
	}
	return id, true
}

// RecordURL builds the reference value for recordID inside the app appID.
func RecordURL(baseURL, appID, recordID string) string {
	return strings.TrimRight(baseURL, "/") + "/apps/" + appID + "/records/" + recordID
}

// AppIDs maps each entity type to the identifier of its app in the hosted
// records service.
type AppIDs map[model.EntityType]string

// Codec binds a records API base URL and the per-entity app identifiers.
type Codec struct {
	BaseURL string
	Apps    AppIDs
}

// NewCodec constructs a Codec.
func NewCodec(baseURL string, apps AppIDs) Codec {
	return Codec{BaseURL: baseURL, Apps: apps}
}

// URL returns the reference to recordID of the given entity type.
func (c Codec) URL(entity model.EntityType, recordID string) string {
	return RecordURL(c.BaseURL, c.Apps[entity], recordID)
}

// OptionalURL is URL for a possibly unselected record: it returns "" when
// recordID is empty so that the field is omitted from the payload.
func (c Codec) OptionalURL(entity model.EntityType, recordID string) string {
	if strings.TrimSpace(recordID) == "" {
		return ""
	}
	return c.URL(entity, recordID)
}
